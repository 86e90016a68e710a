package buffer

// Silent mutators: UI-free primitives that implement the four ways the
// buffer may change. They never touch viewport, undo, or transport state
// — they are the single ground truth for what an edit means, reused by
// both the local command layer and the remote-op applier.

// InsertAfter inserts a new line containing payload immediately after the
// 1-indexed line afterLine. afterLine == 0 prepends at the start; an
// afterLine at or past the current line count appends, adding a missing
// trailing newline to the previous last line first. The new line always
// ends in '\n', growing the logical line count by exactly one.
func (b *Buffer) InsertAfter(afterLine int, payload []byte) {
	total := b.TotalLines()

	var insertPos int
	switch {
	case afterLine <= 0:
		insertPos = 0
	case afterLine >= total:
		insertPos = len(b.data)
		if len(b.data) > 0 && !b.HasTrailingNewline() {
			b.data = append(b.data, '\n')
			insertPos = len(b.data)
		}
	default:
		_, _, newlineEnd, ok := b.lineBounds(afterLine)
		if !ok {
			insertPos = len(b.data)
		} else {
			insertPos = newlineEnd
		}
	}

	newLine := make([]byte, 0, len(payload)+1)
	newLine = append(newLine, payload...)
	newLine = append(newLine, '\n')
	b.insertAt(insertPos, newLine)
}

func (b *Buffer) insertAt(pos int, ins []byte) {
	combined := make([]byte, 0, len(b.data)+len(ins))
	combined = append(combined, b.data[:pos]...)
	combined = append(combined, ins...)
	combined = append(combined, b.data[pos:]...)
	if len(combined) > b.capacity {
		combined = combined[:b.capacity]
	}
	b.data = combined
}

// DeleteLine removes line, including its trailing newline. If line is
// the last line and has no trailing newline, its leading newline is
// removed instead so the previous line becomes the new unterminated
// last line. Returns the removed line's content (without any newline),
// or nil if line is out of range. Callers must never invoke this when
// TotalLines() == 1.
func (b *Buffer) DeleteLine(line int) []byte {
	start, end, newlineEnd, ok := b.lineBounds(line)
	if !ok {
		return nil
	}
	content := append([]byte(nil), b.data[start:end]...)

	if newlineEnd == end {
		// Last line, unterminated: drop the newline before it instead.
		delStart := start
		if start > 0 {
			delStart = start - 1
		}
		b.data = append(b.data[:delStart], b.data[end:]...)
		return content
	}

	b.data = append(b.data[:start], b.data[newlineEnd:]...)
	return content
}

// ReplaceLine replaces the bytes of line (excluding its trailing
// newline) with newContent; a trailing newline, if present, is
// preserved. Returns the line's previous content, or nil if line is out
// of range.
func (b *Buffer) ReplaceLine(line int, newContent []byte) []byte {
	start, end, newlineEnd, ok := b.lineBounds(line)
	if !ok {
		return nil
	}
	old := append([]byte(nil), b.data[start:end]...)

	hasNL := newlineEnd > end
	combined := make([]byte, 0, start+len(newContent)+1+(len(b.data)-newlineEnd))
	combined = append(combined, b.data[:start]...)
	combined = append(combined, newContent...)
	if hasNL {
		combined = append(combined, '\n')
	}
	combined = append(combined, b.data[newlineEnd:]...)
	if len(combined) > b.capacity {
		combined = combined[:b.capacity]
	}
	b.data = combined
	return old
}

// ApplySnapshot overwrites the whole buffer with data, truncating to
// capacity.
func (b *Buffer) ApplySnapshot(data []byte) {
	b.Load(data)
}
