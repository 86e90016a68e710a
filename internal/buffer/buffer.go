// Package buffer holds the flat, mutable byte sequence that backs one
// open file, plus the line-count arithmetic every other package derives
// its indices from. Lines are separated by 0x0A; the final line need not
// be terminated.
package buffer

import "bytes"

// Buffer is a bounded, mutable byte sequence representing the current
// contents of one open file.
type Buffer struct {
	data     []byte
	capacity int
}

// New creates an empty buffer with the given payload capacity.
func New(capacity int) *Buffer {
	return &Buffer{data: make([]byte, 0, capacity), capacity: capacity}
}

// Load replaces the buffer's contents with data, truncated to capacity.
func (b *Buffer) Load(data []byte) {
	if len(data) > b.capacity {
		data = data[:b.capacity]
	}
	b.data = append(b.data[:0], data...)
}

// Bytes returns the buffer's current contents. Callers must not mutate
// the returned slice.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the number of bytes currently stored.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Capacity returns the maximum number of payload bytes the buffer holds.
func (b *Buffer) Capacity() int {
	return b.capacity
}

// TotalLines returns the logical line count: 0 for an empty buffer,
// otherwise the number of 0x0A bytes plus 1 if the buffer does not end
// in a newline.
func (b *Buffer) TotalLines() int {
	if len(b.data) == 0 {
		return 0
	}
	n := bytes.Count(b.data, []byte{'\n'})
	if b.data[len(b.data)-1] != '\n' {
		n++
	}
	return n
}

// lineBounds returns the [start,end) byte range of 1-indexed line; ok is
// false when line is out of range.
// end is exclusive and excludes a trailing newline; newlineEnd is end+1
// when a trailing newline exists, else equal to end.
func (b *Buffer) lineBounds(line int) (start, end, newlineEnd int, ok bool) {
	total := b.TotalLines()
	if line < 1 || line > total {
		return 0, 0, 0, false
	}

	pos := 0
	current := 1
	for {
		nl := bytes.IndexByte(b.data[pos:], '\n')
		if nl < 0 {
			// Last, unterminated line.
			return pos, len(b.data), len(b.data), current == line
		}
		absNL := pos + nl
		if current == line {
			return pos, absNL, absNL + 1, true
		}
		pos = absNL + 1
		current++
		if pos > len(b.data) {
			return 0, 0, 0, false
		}
	}
}

// Line returns the bytes of 1-indexed line, excluding any trailing
// newline.
func (b *Buffer) Line(line int) ([]byte, bool) {
	start, end, _, ok := b.lineBounds(line)
	if !ok {
		return nil, false
	}
	return b.data[start:end], true
}

// HasTrailingNewline reports whether the buffer's final byte is 0x0A.
func (b *Buffer) HasTrailingNewline() bool {
	return len(b.data) > 0 && b.data[len(b.data)-1] == '\n'
}
