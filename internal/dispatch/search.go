package dispatch

import (
	"github.com/lineshare/lineshare/internal/session"
	"github.com/lineshare/lineshare/internal/termio"
)

// handleSearchKey drives the editor while search mode is active (§4.3).
// Search navigation is a pure read-only scan over the buffer: it never
// mutates the buffer, so it never pushes an undo entry or broadcasts a
// structural op. Every other key is ignored until Escape or 'n'.
func (d *Dispatcher) handleSearchKey(ev termio.Event, slot *session.EditorSlot) {
	switch {
	case ev.Key == termio.KeyEscape:
		slot.Mutex.Lock()
		slot.State.ExitSearch()
		slot.Mutex.Unlock()

	case ev.Key == termio.KeyPrintable && ev.Rune == 'n':
		slot.Mutex.Lock()
		slot.State.NextMatch()
		slot.Mutex.Unlock()
	}
}
