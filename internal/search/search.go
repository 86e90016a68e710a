// Package search implements the editor's read-only substring scan over
// a line buffer: counting occurrences and finding the next cyclic match.
// Matches never straddle a newline; each line is searched independently
// against its own bytes.
package search

import (
	"bytes"

	"github.com/lineshare/lineshare/internal/buffer"
)

// CountMatches returns the total number of non-overlapping occurrences
// of term across every line of buf.
func CountMatches(buf *buffer.Buffer, term string) int {
	if term == "" {
		return 0
	}
	needle := []byte(term)
	total := buf.TotalLines()
	count := 0
	for l := 1; l <= total; l++ {
		text, ok := buf.Line(l)
		if !ok {
			continue
		}
		count += bytes.Count(text, needle)
	}
	return count
}

// Forward finds the first occurrence of term at or after
// (startLine, startOffset), scanning forward line by line. If no match
// is found before the end of the buffer, the search wraps to (1, 0) and
// continues up to but not including the starting position. found is
// false when term is empty or does not occur anywhere in the buffer.
func Forward(buf *buffer.Buffer, term string, startLine, startOffset int) (line, offset int, found bool) {
	if term == "" {
		return 0, 0, false
	}
	needle := []byte(term)
	total := buf.TotalLines()
	if total == 0 {
		return 0, 0, false
	}
	if startLine < 1 {
		startLine = 1
	}
	if startLine > total {
		startLine = total
	}

	for l := startLine; l <= total; l++ {
		text, ok := buf.Line(l)
		if !ok {
			continue
		}
		from := 0
		if l == startLine {
			from = startOffset
		}
		if from > len(text) {
			continue
		}
		if idx := bytes.Index(text[from:], needle); idx >= 0 {
			return l, from + idx, true
		}
	}

	for l := 1; l <= startLine; l++ {
		text, ok := buf.Line(l)
		if !ok {
			continue
		}
		limit := len(text)
		if l == startLine {
			// Keep matches that start before startOffset, even if they
			// run past it.
			limit = startOffset + len(needle) - 1
			if limit > len(text) {
				limit = len(text)
			}
		}
		if limit <= 0 {
			continue
		}
		if idx := bytes.Index(text[:limit], needle); idx >= 0 {
			return l, idx, true
		}
	}

	return 0, 0, false
}
