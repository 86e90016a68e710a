package editor

import "github.com/lineshare/lineshare/internal/constants"

// VisibleRange returns the inclusive 1-indexed [first, last] line range
// currently shown in the viewport.
func (s *State) VisibleRange() (first, last int) {
	first = s.RowOffset
	last = first + constants.VisibleLines - 1
	if last > s.TotalLines {
		last = s.TotalLines
	}
	return first, last
}

// Cell is one rendered byte position within a visible line, carrying
// every overlay that applies to it.
type Cell struct {
	B            byte
	Cursor       bool
	Match        bool
	CurrentMatch bool
	PeerIDs      []int
}

// RenderLine composes the overlays for one visible line in the fixed
// order the spec requires: local cursor marker, search-match
// highlighting, then peer markers. cursorCol is the byte-offset cursor
// from the line-edit state machine when line is being edited, or nil
// when the line is merely the selected (but not yet entered) line.
// matchRanges is the set of [start,end) byte ranges on this line that
// are search hits; currentMatchRange marks which one (if any) is the
// "current" hit.
func (s *State) RenderLine(line int, text []byte, cursorCol *int, matchRanges [][2]int, currentMatchRange [2]int) []Cell {
	cells := make([]Cell, len(text))
	for i, b := range text {
		cells[i] = Cell{B: b}
	}

	if cursorCol != nil {
		col := *cursorCol
		for len(cells) <= col {
			cells = append(cells, Cell{})
		}
		cells[col].Cursor = true
	}

	for _, r := range matchRanges {
		start, end := r[0], r[1]
		if start < 0 {
			start = 0
		}
		if end > len(cells) {
			end = len(cells)
		}
		for i := start; i < end; i++ {
			cells[i].Match = true
			if r == currentMatchRange {
				cells[i].CurrentMatch = true
			}
		}
	}

	for peerID, cur := range s.Peers {
		if cur.Line != line || cur.Line == 0 {
			continue
		}
		col := cur.Col
		if col < 0 {
			col = 0
		}
		if col >= len(text) {
			// Peer sits at or past end-of-line: record against a
			// synthetic trailing cell so callers can still place the
			// marker.
			col = len(text)
			for len(cells) <= col {
				cells = append(cells, Cell{})
			}
		}
		cells[col].PeerIDs = append(cells[col].PeerIDs, peerID)
	}

	return cells
}
