package dispatch

import (
	"github.com/lineshare/lineshare/internal/editor"
	"github.com/lineshare/lineshare/internal/liveshare"
	"github.com/lineshare/lineshare/internal/session"
	"github.com/lineshare/lineshare/internal/termio"
)

// handleEditingKey drives the line-edit state machine from §4.4. Every
// transition except Enter/Escape broadcasts the updated cursor
// position; Enter commits and broadcasts the new line content; Escape
// discards.
func (d *Dispatcher) handleEditingKey(ev termio.Event) {
	e := d.edit
	slot := d.Sess.Active()

	switch ev.Key {
	case termio.KeyLeft:
		e.Left()
		d.broadcastCursor(e.Line, e.Cursor)
	case termio.KeyRight:
		e.Right()
		d.broadcastCursor(e.Line, e.Cursor)
	case termio.KeyBackspace:
		e.Backspace()
		d.broadcastCursor(e.Line, e.Cursor)
	case termio.KeyPrintable:
		if e.Insert(ev.Rune) {
			d.broadcastCursor(e.Line, e.Cursor)
		}
	case termio.KeyEnter:
		d.commitLineEdit(slot, e)
	case termio.KeyEscape:
		d.edit = nil
	}
}

func (d *Dispatcher) commitLineEdit(slot *session.EditorSlot, e *editor.LineEdit) {
	slot.Mutex.Lock()
	st := slot.State
	newContent := e.Commit(st)
	slot.Mutex.Unlock()

	d.edit = nil
	d.autosave(st)
	d.broadcast(liveshare.Frame{Op: liveshare.EditLine, Line: e.Line, Payload: newContent})
	d.broadcastCursor(st.CurrentLine, 0)
}

func (d *Dispatcher) broadcastCursor(line, col int) {
	d.broadcast(liveshare.Frame{Op: liveshare.Cursor, Payload: liveshare.EncodeCursor(d.Sess.SelfID, line, col)})
}
