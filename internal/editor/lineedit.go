package editor

import "github.com/lineshare/lineshare/internal/constants"

// LineEdit is the transient modal state entered on Enter from the
// command layer: a bounded character buffer for one line plus a
// byte-offset cursor into it. It owns no buffer/undo/broadcast logic
// itself; callers call Commit or drop the LineEdit to cancel, and send
// the CURSOR broadcasts after each cursor-moving call.
type LineEdit struct {
	Line   int
	Text   []byte
	Cursor int
}

// BeginLineEdit starts editing line of buf's current contents, cursor
// initialized to the end of the line.
func BeginLineEdit(line int, text []byte) *LineEdit {
	buf := append([]byte(nil), text...)
	return &LineEdit{Line: line, Text: buf, Cursor: len(buf)}
}

// Left moves the cursor one byte left, floored at 0.
func (e *LineEdit) Left() {
	if e.Cursor > 0 {
		e.Cursor--
	}
}

// Right moves the cursor one byte right, capped at the text length.
func (e *LineEdit) Right() {
	if e.Cursor < len(e.Text) {
		e.Cursor++
	}
}

// Backspace deletes the byte before the cursor, if any.
func (e *LineEdit) Backspace() {
	if e.Cursor == 0 {
		return
	}
	e.Text = append(e.Text[:e.Cursor-1], e.Text[e.Cursor:]...)
	e.Cursor--
}

// Insert inserts b at the cursor if the line has not reached the
// maximum line length; returns false (and does nothing) otherwise.
func (e *LineEdit) Insert(b byte) bool {
	if len(e.Text) >= constants.MaxLineLength {
		return false
	}
	e.Text = append(e.Text, 0)
	copy(e.Text[e.Cursor+1:], e.Text[e.Cursor:])
	e.Text[e.Cursor] = b
	e.Cursor++
	return true
}

// Commit applies the edited text to s.Line via replace_line, pushing
// the SET_LINE undo entry with the line's prior content, and returns
// the new content so the caller can broadcast an EDIT_LINE op.
func (e *LineEdit) Commit(s *State) []byte {
	s.ReplaceLine(e.Line, e.Text)
	return e.Text
}
