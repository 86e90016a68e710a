package undo

import "github.com/lineshare/lineshare/internal/buffer"

// Apply replays entry against buf via the matching silent mutator. The
// caller is responsible for holding the editor mutex and for setting
// whatever suppress flag keeps this replay from being logged again.
func Apply(buf *buffer.Buffer, e Entry) {
	switch e.Kind {
	case SetLine:
		buf.ReplaceLine(e.Line, e.Content)
	case DeleteLine:
		buf.DeleteLine(e.Line)
	case InsertAfterWithContent:
		buf.InsertAfter(e.Line, e.Content)
	}
}
