package editor

import (
	"testing"

	"github.com/lineshare/lineshare/internal/constants"
)

func TestBeginLineEditCursorAtEnd(t *testing.T) {
	e := BeginLineEdit(1, []byte("alpha"))
	if e.Cursor != 5 {
		t.Errorf("Cursor = %d, want 5", e.Cursor)
	}
}

func TestLineEditLeftRightFloorAndCap(t *testing.T) {
	e := BeginLineEdit(1, []byte("ab"))
	e.Right()
	if e.Cursor != 2 {
		t.Errorf("Right() past end: Cursor = %d, want 2", e.Cursor)
	}
	e.Left()
	e.Left()
	e.Left()
	if e.Cursor != 0 {
		t.Errorf("Left() past start: Cursor = %d, want 0", e.Cursor)
	}
}

func TestLineEditBackspace(t *testing.T) {
	e := BeginLineEdit(1, []byte("abc"))
	e.Backspace()
	if string(e.Text) != "ab" || e.Cursor != 2 {
		t.Errorf("Text = %q Cursor = %d, want \"ab\" 2", e.Text, e.Cursor)
	}
	e.Cursor = 0
	e.Backspace()
	if string(e.Text) != "ab" {
		t.Errorf("Backspace at cursor 0 should be a no-op, got %q", e.Text)
	}
}

func TestLineEditInsertAtCursor(t *testing.T) {
	e := BeginLineEdit(1, []byte("ac"))
	e.Cursor = 1
	e.Insert('b')
	if string(e.Text) != "abc" || e.Cursor != 2 {
		t.Errorf("Text = %q Cursor = %d, want \"abc\" 2", e.Text, e.Cursor)
	}
}

func TestLineEditInsertRejectsOverMaxLength(t *testing.T) {
	e := BeginLineEdit(1, make([]byte, constants.MaxLineLength))
	if e.Insert('x') {
		t.Error("Insert() at max length = true, want false")
	}
	if len(e.Text) != constants.MaxLineLength {
		t.Errorf("Text length = %d, want %d", len(e.Text), constants.MaxLineLength)
	}
}

func TestLineEditCommitPushesUndoAndReplacesLine(t *testing.T) {
	s := newState(t, "alpha\nbeta\n")
	e := BeginLineEdit(1, []byte("alpha"))
	e.Backspace()
	e.Insert('X')

	got := e.Commit(s)
	if string(got) != "alphX" {
		t.Errorf("Commit() = %q, want %q", got, "alphX")
	}
	line, _ := s.Buf.Line(1)
	if string(line) != "alphX" {
		t.Errorf("Line(1) = %q, want %q", line, "alphX")
	}
	if s.Undo.Len() != 1 {
		t.Fatalf("Undo.Len() = %d, want 1", s.Undo.Len())
	}
}
