// Package dispatch wires keystrokes to editor mutations: the top-level
// command set, the modal line-edit state machine it drops into on
// Enter, and the post-mutation autosave/broadcast every structural
// change triggers. It is the Originator side of §4.5: every local
// mutation is applied under the editor mutex, then broadcast outside
// of it.
package dispatch

import (
	"github.com/lineshare/lineshare/internal/dlog"
	"github.com/lineshare/lineshare/internal/editor"
	"github.com/lineshare/lineshare/internal/liveshare"
	"github.com/lineshare/lineshare/internal/session"
	"github.com/lineshare/lineshare/internal/termio"
	"github.com/lineshare/lineshare/internal/undo"
)

// Transport is the broadcast surface a Live Share host or joiner
// offers the dispatcher. Nil when not in a Live Share session.
type Transport interface {
	Broadcast(liveshare.Frame)
}

// Dispatcher holds the mutable state that spans keystrokes: which
// editor slot is replicated, the live transport (if any), the in-flight
// line edit (if any), and the last inline error awaiting a
// press-any-key acknowledgement.
type Dispatcher struct {
	Sess      *session.Session
	Transport Transport

	// SearchTermReader supplies the line-buffered search term after the
	// `f` key returns the terminal to cooked mode. Wired to a real
	// stdin reader in cmd/lineedit; tests may override it.
	SearchTermReader func() string

	edit     *editor.LineEdit
	lastErr  error
	quitting bool
}

// New creates a Dispatcher over sess. transport is nil for a
// non-replicated session.
func New(sess *session.Session, transport Transport) *Dispatcher {
	return &Dispatcher{Sess: sess, Transport: transport}
}

// PendingError returns the inline error awaiting acknowledgement, or
// nil. The renderer shows it in the viewport area until the next
// keystroke.
func (d *Dispatcher) PendingError() error {
	return d.lastErr
}

// Editing reports whether the line-edit state machine is active.
func (d *Dispatcher) Editing() bool {
	return d.edit != nil
}

// EditLine returns the in-progress line edit, or nil outside of edit
// mode. Used by the renderer to draw the transient text and byte
// cursor instead of the committed buffer line.
func (d *Dispatcher) EditLine() *editor.LineEdit {
	return d.edit
}

// Quitting reports whether a quit keystroke has been processed.
func (d *Dispatcher) Quitting() bool {
	return d.quitting
}

// broadcast sends f if this process is replicating, a no-op otherwise.
// Only editor slot 0 is ever replicated, per §6.
func (d *Dispatcher) broadcast(f liveshare.Frame) {
	if d.Transport == nil || d.Sess.ActiveEditor != 0 {
		return
	}
	d.Transport.Broadcast(f)
}

func (d *Dispatcher) autosave(st *editor.State) {
	if err := st.Save(); err != nil {
		dlog.Editor.Error("autosave failed", err)
	}
}

// HandleKey applies one decoded keystroke to the active editor slot.
// If an inline error is pending, any keystroke clears it and is
// otherwise discarded, matching the "press any key" gate in §7.
func (d *Dispatcher) HandleKey(ev termio.Event) {
	if d.lastErr != nil {
		d.lastErr = nil
		return
	}

	if d.edit != nil {
		d.handleEditingKey(ev)
		return
	}

	slot := d.Sess.Active()
	slot.Mutex.Lock()
	st := slot.State
	searchActive := st.Search.Active
	slot.Mutex.Unlock()

	if searchActive {
		d.handleSearchKey(ev, slot)
		return
	}

	d.handleCommandKey(ev, slot)
}

func (d *Dispatcher) handleCommandKey(ev termio.Event, slot *session.EditorSlot) {
	switch ev.Key {
	case termio.KeyUp:
		slot.Mutex.Lock()
		slot.State.CurrentLine--
		slot.State.Refresh()
		slot.Mutex.Unlock()

	case termio.KeyDown:
		slot.Mutex.Lock()
		slot.State.CurrentLine++
		slot.State.Refresh()
		slot.Mutex.Unlock()

	case termio.KeyEnter:
		slot.Mutex.Lock()
		st := slot.State
		text, _ := st.Buf.Line(st.CurrentLine)
		d.edit = editor.BeginLineEdit(st.CurrentLine, text)
		line := st.CurrentLine
		cursor := d.edit.Cursor
		slot.Mutex.Unlock()
		d.broadcast(liveshare.Frame{Op: liveshare.Cursor, Payload: liveshare.EncodeCursor(d.Sess.SelfID, line, cursor)})

	case termio.KeyPrintable:
		if ev.Rune == 'f' {
			d.startSearchPrompt(slot)
		} else if ev.Rune == 'n' {
			d.insertAfterCurrent(slot)
		} else if ev.Rune == 'd' {
			d.deleteCurrent(slot)
		} else if ev.Rune == 'c' {
			d.copyCurrent(slot)
		} else if ev.Rune == 'p' {
			d.pasteAfterCurrent(slot)
		} else if ev.Rune == 'u' {
			d.undo(slot)
		} else if ev.Rune == 'q' {
			d.quitting = true
		}

	case termio.KeyCtrlLeft, termio.KeyCtrlRight:
		d.Sess.SwitchEditor()
	}
}

func (d *Dispatcher) insertAfterCurrent(slot *session.EditorSlot) {
	slot.Mutex.Lock()
	st := slot.State
	after := st.CurrentLine
	st.InsertAfter(after, nil)
	st.CurrentLine = after + 1
	st.Refresh()
	slot.Mutex.Unlock()

	d.autosave(st)
	d.broadcast(liveshare.Frame{Op: liveshare.InsertAfter, Line: after, Payload: nil})
	d.broadcastCursor(st.CurrentLine, 0)
}

func (d *Dispatcher) deleteCurrent(slot *session.EditorSlot) {
	slot.Mutex.Lock()
	st := slot.State
	line := st.CurrentLine
	err := st.DeleteLine(line)
	slot.Mutex.Unlock()

	if err != nil {
		d.lastErr = err
		return
	}
	d.autosave(st)
	d.broadcast(liveshare.Frame{Op: liveshare.DeleteLine, Line: line})
	d.broadcastCursor(st.CurrentLine, 0)
}

func (d *Dispatcher) copyCurrent(slot *session.EditorSlot) {
	slot.Mutex.Lock()
	st := slot.State
	text, _ := st.Buf.Line(st.CurrentLine)
	slot.Mutex.Unlock()
	d.Sess.SetClipboard(text)
}

func (d *Dispatcher) pasteAfterCurrent(slot *session.EditorSlot) {
	content, ok := d.Sess.Clipboard()
	if !ok {
		return
	}
	slot.Mutex.Lock()
	st := slot.State
	after := st.CurrentLine
	st.PasteAfter(after, content)
	st.CurrentLine = after + 1
	st.Refresh()
	slot.Mutex.Unlock()

	d.autosave(st)
	d.broadcast(liveshare.Frame{Op: liveshare.PasteAfter, Line: after, Payload: content})
	d.broadcastCursor(st.CurrentLine, 0)
}

func (d *Dispatcher) undo(slot *session.EditorSlot) {
	slot.Mutex.Lock()
	st := slot.State
	entry, err := st.Undo1()
	slot.Mutex.Unlock()

	if err != nil {
		d.lastErr = err
		return
	}
	d.autosave(st)
	d.broadcast(undoFrame(entry))
	d.broadcastCursor(st.CurrentLine, 0)
}

// undoFrame builds the remote op that reproduces the local effect of
// replaying entry, so peers converge the same way a fresh local
// mutation would have broadcast (§4.2).
func undoFrame(e undo.Entry) liveshare.Frame {
	switch e.Kind {
	case undo.SetLine:
		return liveshare.Frame{Op: liveshare.EditLine, Line: e.Line, Payload: e.Content}
	case undo.DeleteLine:
		return liveshare.Frame{Op: liveshare.DeleteLine, Line: e.Line}
	case undo.InsertAfterWithContent:
		return liveshare.Frame{Op: liveshare.InsertAfter, Line: e.Line, Payload: e.Content}
	default:
		return liveshare.Frame{}
	}
}

func (d *Dispatcher) startSearchPrompt(slot *session.EditorSlot) {
	var term string
	if d.SearchTermReader != nil {
		term = d.SearchTermReader()
	}
	slot.Mutex.Lock()
	slot.State.StartSearch(term)
	slot.Mutex.Unlock()
}
