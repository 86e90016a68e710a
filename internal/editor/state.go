// Package editor owns the per-file aggregate the rest of the system
// mutates: the line buffer, viewport/cursor, search state, undo stack
// and peer cursor table. It is the single place that keeps those
// pieces consistent with each other; the silent mutators in
// internal/buffer never see this state. The liveshare applier calls
// those buffer mutators directly, so remote ops never reach the undo
// stack, and then calls Refresh.
package editor

import (
	"os"

	"github.com/lineshare/lineshare/internal/buffer"
	"github.com/lineshare/lineshare/internal/constants"
	"github.com/lineshare/lineshare/internal/errs"
	"github.com/lineshare/lineshare/internal/search"
	"github.com/lineshare/lineshare/internal/undo"
)

// PeerCursor is one remote peer's last-known cursor position. Line == 0
// means unknown.
type PeerCursor struct {
	Line int
	Col  int
}

// SearchState holds the transient substring-search session, empty
// outside of search mode.
type SearchState struct {
	Active        bool
	Term          string
	ResultLine    int
	ResultOffset  int
	TotalMatches  int
	CurrentMatch  int
}

// State is one open file: its buffer, cursor/viewport, search session,
// undo stack and remote peer cursor table.
type State struct {
	Filename string
	Buf      *buffer.Buffer

	CurrentLine int
	RowOffset   int
	TotalLines  int

	Search SearchState

	Undo         *undo.Stack
	SuppressUndo bool

	Peers map[int]PeerCursor
}

// Load reads filename into a fresh State. An empty file is rejected, as
// is one that cannot be read at all.
func Load(filename string) (*State, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errs.Wrapf(errs.ErrFileNotFound, "reading %s: %v", filename, err)
	}
	if len(data) == 0 {
		return nil, errs.Wrapf(errs.ErrEmptyFile, "%s is empty", filename)
	}

	buf := buffer.New(constants.BufferCapacity)
	buf.Load(data)

	st := &State{
		Filename:    filename,
		Buf:         buf,
		CurrentLine: 1,
		RowOffset:   1,
		TotalLines:  buf.TotalLines(),
		Undo:        undo.New(constants.UndoCapacity),
		Peers:       make(map[int]PeerCursor),
	}
	return st, nil
}

// Save overwrites the backing file with the current buffer contents.
func (s *State) Save() error {
	if err := os.WriteFile(s.Filename, s.Buf.Bytes(), 0o644); err != nil {
		return errs.Wrapf(err, "writing %s", s.Filename)
	}
	return nil
}

// Refresh recomputes TotalLines from the buffer and re-establishes the
// viewport and current-line invariants. Call after every mutation.
func (s *State) Refresh() {
	s.TotalLines = s.Buf.TotalLines()

	if s.TotalLines < 1 {
		s.TotalLines = 1
	}
	if s.CurrentLine < 1 {
		s.CurrentLine = 1
	}
	if s.CurrentLine > s.TotalLines {
		s.CurrentLine = s.TotalLines
	}

	if s.CurrentLine < s.RowOffset {
		s.RowOffset = s.CurrentLine
	}
	if s.CurrentLine >= s.RowOffset+constants.VisibleLines {
		s.RowOffset = s.CurrentLine - constants.VisibleLines + 1
	}
	if s.RowOffset < 1 {
		s.RowOffset = 1
	}
}

// ReplaceLine performs replace_line(line, newContent), pushing the
// matching undo entry unless SuppressUndo is set.
func (s *State) ReplaceLine(line int, newContent []byte) {
	old := s.Buf.ReplaceLine(line, newContent)
	if !s.SuppressUndo {
		s.Undo.Push(undo.ForReplaceLine(line, old))
	}
	s.Refresh()
}

// InsertAfter performs insert_after(afterLine, payload), pushing the
// matching undo entry unless SuppressUndo is set.
func (s *State) InsertAfter(afterLine int, payload []byte) {
	s.Buf.InsertAfter(afterLine, payload)
	if !s.SuppressUndo {
		s.Undo.Push(undo.ForInsertAfter(afterLine))
	}
	s.Refresh()
}

// PasteAfter performs paste_line(afterLine, clipboard); identical
// mechanics to InsertAfter, kept distinct so callers read clearly and
// so the undo entry builder matches the op name in §4.2.
func (s *State) PasteAfter(afterLine int, clipboard []byte) {
	s.Buf.InsertAfter(afterLine, clipboard)
	if !s.SuppressUndo {
		s.Undo.Push(undo.ForPasteLine(afterLine))
	}
	s.Refresh()
}

// DeleteLine performs delete_line(line). It refuses to delete the only
// remaining line, per the invariant in §3.
func (s *State) DeleteLine(line int) error {
	if s.TotalLines <= 1 {
		return errs.ErrOnlyLine
	}
	deleted := s.Buf.DeleteLine(line)
	if !s.SuppressUndo {
		s.Undo.Push(undo.ForDeleteLine(line, deleted))
	}
	s.Refresh()
	return nil
}

// Undo1 pops the top undo entry and replays it with SuppressUndo held,
// so the replay itself is not logged. It returns the replayed entry so
// the caller can broadcast the matching remote op (see §4.2/§4.5).
func (s *State) Undo1() (undo.Entry, error) {
	entry, ok := s.Undo.Pop()
	if !ok {
		return undo.Entry{}, errs.ErrEmptyUndo
	}
	s.SuppressUndo = true
	undo.Apply(s.Buf, entry)
	s.SuppressUndo = false
	s.Refresh()
	return entry, nil
}

// StartSearch enters search mode for term, counting matches and placing
// the cursor on the first hit at or after the current line, wrapping to
// the top of the buffer when there is none below.
func (s *State) StartSearch(term string) {
	s.Search = SearchState{Active: true, Term: term}
	s.Search.TotalMatches = search.CountMatches(s.Buf, term)
	if s.Search.TotalMatches == 0 {
		return
	}
	line, offset, found := search.Forward(s.Buf, term, s.CurrentLine, 0)
	if !found {
		return
	}
	s.Search.ResultLine = line
	s.Search.ResultOffset = offset
	s.Search.CurrentMatch = 1
	s.CurrentLine = line
	s.Refresh()
}

// NextMatch advances to the next cyclic search hit.
func (s *State) NextMatch() {
	if !s.Search.Active || s.Search.TotalMatches == 0 {
		return
	}
	from := s.Search.ResultOffset + len(s.Search.Term)
	line, offset, found := search.Forward(s.Buf, s.Search.Term, s.Search.ResultLine, from)
	if !found {
		return
	}
	s.Search.ResultLine = line
	s.Search.ResultOffset = offset
	s.Search.CurrentMatch++
	if s.Search.CurrentMatch > s.Search.TotalMatches {
		s.Search.CurrentMatch = 1
	}
	s.CurrentLine = line
	s.Refresh()
}

// ExitSearch clears all search state.
func (s *State) ExitSearch() {
	s.Search = SearchState{}
}
