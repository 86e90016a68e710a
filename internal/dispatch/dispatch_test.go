package dispatch

import (
	"testing"

	"github.com/lineshare/lineshare/internal/buffer"
	"github.com/lineshare/lineshare/internal/constants"
	"github.com/lineshare/lineshare/internal/editor"
	"github.com/lineshare/lineshare/internal/liveshare"
	"github.com/lineshare/lineshare/internal/session"
	"github.com/lineshare/lineshare/internal/termio"
	"github.com/lineshare/lineshare/internal/undo"
)

type fakeTransport struct {
	frames []liveshare.Frame
}

func (f *fakeTransport) Broadcast(fr liveshare.Frame) {
	f.frames = append(f.frames, fr)
}

func newDispatcher(t *testing.T, content string) (*Dispatcher, *fakeTransport) {
	t.Helper()
	buf := buffer.New(constants.BufferCapacity)
	buf.Load([]byte(content))
	st := &editor.State{
		Buf:         buf,
		CurrentLine: 1,
		RowOffset:   1,
		TotalLines:  buf.TotalLines(),
		Undo:        undo.New(constants.UndoCapacity),
		Peers:       make(map[int]editor.PeerCursor),
	}
	sess := session.New(1)
	sess.Slots[0] = &session.EditorSlot{State: st}
	transport := &fakeTransport{}
	d := New(sess, transport)
	return d, transport
}

func key(k termio.Key) termio.Event { return termio.Event{Key: k} }

func rn(r byte) termio.Event { return termio.Event{Key: termio.KeyPrintable, Rune: r} }

func activeBuf(d *Dispatcher) string {
	return string(d.Sess.Active().State.Buf.Bytes())
}

// TestScenarioInsertAfterCurrent reproduces spec scenario 1: `n` on
// "alpha\nbeta\ngamma\n" at line 1.
func TestScenarioInsertAfterCurrent(t *testing.T) {
	d, transport := newDispatcher(t, "alpha\nbeta\ngamma\n")
	d.HandleKey(rn('n'))

	if got, want := activeBuf(d), "alpha\n\nbeta\ngamma\n"; got != want {
		t.Errorf("buffer = %q, want %q", got, want)
	}
	st := d.Sess.Active().State
	if st.TotalLines != 4 {
		t.Errorf("TotalLines = %d, want 4", st.TotalLines)
	}
	if st.CurrentLine != 2 {
		t.Errorf("CurrentLine = %d, want 2", st.CurrentLine)
	}
	if len(transport.frames) != 2 || transport.frames[0].Op != liveshare.InsertAfter || transport.frames[1].Op != liveshare.Cursor {
		t.Errorf("broadcast = %+v, want InsertAfter then Cursor", transport.frames)
	}
}

// TestScenarioDeleteCurrent reproduces spec scenario 2: `d` on
// "alpha\nbeta\ngamma\n" at line 1.
func TestScenarioDeleteCurrent(t *testing.T) {
	d, transport := newDispatcher(t, "alpha\nbeta\ngamma\n")
	d.HandleKey(rn('d'))

	if got, want := activeBuf(d), "beta\ngamma\n"; got != want {
		t.Errorf("buffer = %q, want %q", got, want)
	}
	st := d.Sess.Active().State
	if st.TotalLines != 2 || st.CurrentLine != 1 {
		t.Errorf("TotalLines=%d CurrentLine=%d, want 2 1", st.TotalLines, st.CurrentLine)
	}
	if len(transport.frames) != 2 || transport.frames[0].Op != liveshare.DeleteLine || transport.frames[1].Op != liveshare.Cursor {
		t.Errorf("broadcast = %+v, want DeleteLine then Cursor", transport.frames)
	}
}

// TestScenarioCopyDownDownPaste reproduces spec scenario 3: `c`, down,
// down, `p` from the original buffer.
func TestScenarioCopyDownDownPaste(t *testing.T) {
	d, _ := newDispatcher(t, "alpha\nbeta\ngamma\n")
	d.HandleKey(rn('c'))
	d.HandleKey(key(termio.KeyDown))
	d.HandleKey(key(termio.KeyDown))
	d.HandleKey(rn('p'))

	if got, want := activeBuf(d), "alpha\nbeta\ngamma\nalpha\n"; got != want {
		t.Errorf("buffer = %q, want %q", got, want)
	}
	st := d.Sess.Active().State
	if st.TotalLines != 4 || st.CurrentLine != 4 {
		t.Errorf("TotalLines=%d CurrentLine=%d, want 4 4", st.TotalLines, st.CurrentLine)
	}
}

// TestScenarioDeleteThenUndo reproduces spec scenario 5: `d` then `u`
// restores the original buffer and converges peers via a matching
// INSERT_AFTER broadcast.
func TestScenarioDeleteThenUndo(t *testing.T) {
	d, transport := newDispatcher(t, "alpha\nbeta\ngamma\n")
	d.HandleKey(rn('d'))
	d.HandleKey(rn('u'))

	if got, want := activeBuf(d), "alpha\nbeta\ngamma\n"; got != want {
		t.Errorf("buffer = %q, want %q", got, want)
	}
	st := d.Sess.Active().State
	if st.CurrentLine != 1 {
		t.Errorf("CurrentLine = %d, want 1", st.CurrentLine)
	}
	if len(transport.frames) != 4 {
		t.Fatalf("broadcast count = %d, want 4 (delete+cursor, then undo's insert+cursor)", len(transport.frames))
	}
	if transport.frames[0].Op != liveshare.DeleteLine || transport.frames[1].Op != liveshare.Cursor {
		t.Errorf("delete broadcast = %+v, want DeleteLine then Cursor", transport.frames[:2])
	}
	if transport.frames[2].Op != liveshare.InsertAfter || transport.frames[3].Op != liveshare.Cursor {
		t.Errorf("undo broadcast = %+v, want InsertAfter then Cursor", transport.frames[2:])
	}
}

// TestDeleteOnlyLineReportsInlineError covers the "forbidden edit"
// error path (§7): deleting the only remaining line is refused, leaves
// the buffer untouched, and gates the next keystroke.
func TestDeleteOnlyLineReportsInlineError(t *testing.T) {
	d, transport := newDispatcher(t, "alpha\n")
	d.HandleKey(rn('d'))

	if d.PendingError() == nil {
		t.Fatal("PendingError() = nil, want an error after deleting the only line")
	}
	if got, want := activeBuf(d), "alpha\n"; got != want {
		t.Errorf("buffer = %q, want unchanged %q", got, want)
	}
	if len(transport.frames) != 0 {
		t.Errorf("broadcast count = %d, want 0 (rejected edit never broadcasts)", len(transport.frames))
	}

	// Any keystroke clears the pending error without being otherwise
	// processed.
	d.HandleKey(rn('d'))
	if d.PendingError() != nil {
		t.Error("PendingError() still set after acknowledgement keystroke")
	}
	if d.Editing() {
		t.Error("acknowledgement keystroke should not have been dispatched as a command")
	}
}

// TestUndoOnEmptyStackReportsInlineError covers the empty-undo error
// path (§7).
func TestUndoOnEmptyStackReportsInlineError(t *testing.T) {
	d, transport := newDispatcher(t, "alpha\nbeta\n")
	d.HandleKey(rn('u'))

	if d.PendingError() == nil {
		t.Fatal("PendingError() = nil, want ErrEmptyUndo")
	}
	if len(transport.frames) != 0 {
		t.Errorf("broadcast count = %d, want 0", len(transport.frames))
	}
}

// TestSearchEntersAndAdvances drives the `f`/`n`/Escape search keymap
// end to end, including the cyclic wrap back to the first hit (§4.3).
func TestSearchEntersAndAdvances(t *testing.T) {
	d, _ := newDispatcher(t, "the fox\nand a fox\nhere\n")
	d.SearchTermReader = func() string { return "fox" }
	d.HandleKey(rn('f'))

	st := d.Sess.Active().State
	if st.Search.TotalMatches != 2 {
		t.Fatalf("TotalMatches = %d, want 2", st.Search.TotalMatches)
	}
	if st.Search.ResultLine != 1 || st.Search.ResultOffset != 4 {
		t.Errorf("first hit = (%d,%d), want (1,4)", st.Search.ResultLine, st.Search.ResultOffset)
	}

	d.HandleKey(rn('n'))
	if st.Search.ResultLine != 2 || st.Search.ResultOffset != 6 {
		t.Errorf("second hit = (%d,%d), want (2,6)", st.Search.ResultLine, st.Search.ResultOffset)
	}

	d.HandleKey(rn('n'))
	if st.Search.ResultLine != 1 || st.Search.ResultOffset != 4 || st.Search.CurrentMatch != 1 {
		t.Errorf("wrapped hit = (%d,%d) match %d, want (1,4) match 1", st.Search.ResultLine, st.Search.ResultOffset, st.Search.CurrentMatch)
	}

	d.HandleKey(key(termio.KeyEscape))
	if st.Search.Active {
		t.Error("Search.Active still true after Escape")
	}
}

// TestLineEditCommitBroadcastsEditLine exercises the modal line-edit
// state machine end to end: Enter opens it, typed keys update the
// transient buffer, Enter commits and broadcasts EDIT_LINE.
func TestLineEditCommitBroadcastsEditLine(t *testing.T) {
	d, transport := newDispatcher(t, "alpha\nbeta\n")
	d.HandleKey(key(termio.KeyEnter))
	if !d.Editing() {
		t.Fatal("Editing() = false after Enter")
	}

	d.HandleKey(key(termio.KeyBackspace))
	d.HandleKey(rn('X'))
	d.HandleKey(key(termio.KeyEnter))

	if d.Editing() {
		t.Error("Editing() = true after committing Enter")
	}
	if got, want := activeBuf(d), "alphX\nbeta\n"; got != want {
		t.Errorf("buffer = %q, want %q", got, want)
	}

	var editFrames, cursorFrames int
	for _, f := range transport.frames {
		switch f.Op {
		case liveshare.EditLine:
			editFrames++
		case liveshare.Cursor:
			cursorFrames++
		}
	}
	if editFrames != 1 {
		t.Errorf("EDIT_LINE broadcasts = %d, want 1", editFrames)
	}
	if cursorFrames == 0 {
		t.Error("expected at least one CURSOR broadcast during editing")
	}
}

// TestLineEditEscapeDiscardsChanges confirms Escape exits edit mode
// without committing.
func TestLineEditEscapeDiscardsChanges(t *testing.T) {
	d, _ := newDispatcher(t, "alpha\n")
	d.HandleKey(key(termio.KeyEnter))
	d.HandleKey(rn('X'))
	d.HandleKey(key(termio.KeyEscape))

	if d.Editing() {
		t.Error("Editing() = true after Escape")
	}
	if got, want := activeBuf(d), "alpha\n"; got != want {
		t.Errorf("buffer = %q, want unchanged %q", got, want)
	}
}

// TestReplicationOnlySlotZero confirms only editor slot 0 is ever
// broadcast, per §6.
func TestReplicationOnlySlotZero(t *testing.T) {
	buf0 := buffer.New(constants.BufferCapacity)
	buf0.Load([]byte("one\n"))
	buf1 := buffer.New(constants.BufferCapacity)
	buf1.Load([]byte("two\n"))

	sess := session.New(2)
	sess.Slots[0] = &session.EditorSlot{State: &editor.State{
		Buf: buf0, CurrentLine: 1, RowOffset: 1, TotalLines: 1,
		Undo: undo.New(constants.UndoCapacity), Peers: make(map[int]editor.PeerCursor),
	}}
	sess.Slots[1] = &session.EditorSlot{State: &editor.State{
		Buf: buf1, CurrentLine: 1, RowOffset: 1, TotalLines: 1,
		Undo: undo.New(constants.UndoCapacity), Peers: make(map[int]editor.PeerCursor),
	}}
	transport := &fakeTransport{}
	d := New(sess, transport)

	d.Sess.SwitchEditor()
	d.HandleKey(rn('n'))

	if len(transport.frames) != 0 {
		t.Errorf("broadcast count = %d, want 0 (slot 1 is never replicated)", len(transport.frames))
	}
}
