// Package session holds the process-wide state the teacher keeps as
// package-level globals: the shared clipboard, the editor slots, which
// slot is active, and the Live Share role and peer bookkeeping. It is
// the object the dispatcher and liveshare appliers are threaded
// through, per-editor mutex included, so a blocking network send never
// happens while an editor's own mutex is held.
package session

import (
	"sync"

	"github.com/lineshare/lineshare/internal/editor"
)

// Mode is the Live Share role this process is playing.
type Mode int

const (
	ModeNone Mode = iota
	ModeHost
	ModeJoin
)

// EditorSlot pairs one editor's state with the mutex that serializes
// access to it from the dispatcher, the remote-op applier, and the
// autosave path. Only slot 0 is ever replicated over Live Share.
type EditorSlot struct {
	Mutex sync.Mutex
	State *editor.State
}

// Session is the global state shared by every goroutine in the process.
type Session struct {
	clipboardMu     sync.Mutex
	clipboard       []byte
	clipboardHasVal bool

	Slots        [2]*EditorSlot
	ActiveEditor int

	Mode   Mode
	SelfID int

	ClientsMu sync.Mutex
	// Clients maps peer id to its connection handle; populated by
	// package liveshare on the host side only. Never locked together
	// with an EditorSlot.Mutex across a blocking send.
	Clients map[int]PeerConn
}

// PeerConn is the minimal surface the host's client table needs from a
// joiner's connection: a way to relay a frame to it and drop it.
type PeerConn interface {
	Send(frame []byte) error
	Close() error
}

// New creates a Session with n editor slots (1 or 2).
func New(n int) *Session {
	s := &Session{Clients: make(map[int]PeerConn)}
	for i := 0; i < n && i < len(s.Slots); i++ {
		s.Slots[i] = &EditorSlot{}
	}
	return s
}

// SetClipboard stores content as the shared clipboard.
func (s *Session) SetClipboard(content []byte) {
	s.clipboardMu.Lock()
	defer s.clipboardMu.Unlock()
	s.clipboard = append([]byte(nil), content...)
	s.clipboardHasVal = true
}

// Clipboard returns the clipboard contents and whether it has ever been
// set.
func (s *Session) Clipboard() ([]byte, bool) {
	s.clipboardMu.Lock()
	defer s.clipboardMu.Unlock()
	return s.clipboard, s.clipboardHasVal
}

// NumSlots reports how many editor slots are in use (1 or 2).
func (s *Session) NumSlots() int {
	n := 0
	for _, slot := range s.Slots {
		if slot != nil {
			n++
		}
	}
	return n
}

// SwitchEditor cycles ActiveEditor to the other populated slot. A
// no-op when only one slot is in use.
func (s *Session) SwitchEditor() {
	if s.NumSlots() < 2 {
		return
	}
	s.ActiveEditor = 1 - s.ActiveEditor
}

// Active returns the currently active slot.
func (s *Session) Active() *EditorSlot {
	return s.Slots[s.ActiveEditor]
}
