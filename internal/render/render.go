// Package render draws the fixed-height viewport to the terminal: the
// visible line range, the local cursor marker, search-match
// highlighting and remote peer markers, composed in the order §4.4
// requires. It is deliberately thin — full ANSI rendering is out of
// scope for this editor; this package emits just enough escape
// sequences to make the cursor, match and peer overlays visible.
package render

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/lineshare/lineshare/internal/dispatch"
	"github.com/lineshare/lineshare/internal/editor"
)

const (
	clearScreen = "\x1b[2J\x1b[H"
	reverse     = "\x1b[7m"
	underline   = "\x1b[4m"
	bold        = "\x1b[1m"
	reset       = "\x1b[0m"
	dim         = "\x1b[2m"
)

// Draw renders st's current viewport (plus d's in-progress line edit
// and any pending inline error) to w.
func Draw(w io.Writer, st *editor.State, d *dispatch.Dispatcher) {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	fmt.Fprint(bw, clearScreen)
	fmt.Fprintf(bw, "%s -- line %d/%d%s\r\n", st.Filename, st.CurrentLine, st.TotalLines, reset)

	first, last := st.VisibleRange()
	for line := first; line <= last; line++ {
		text, ok := st.Buf.Line(line)
		if !ok {
			continue
		}
		drawLine(bw, st, d, line, text)
	}

	fmt.Fprint(bw, "\r\n")
	if err := d.PendingError(); err != nil {
		fmt.Fprintf(bw, "%s%s -- press any key%s\r\n", bold, err.Error(), reset)
	} else if st.Search.Active {
		fmt.Fprintf(bw, "search %q: match %d/%d\r\n", st.Search.Term, st.Search.CurrentMatch, st.Search.TotalMatches)
	} else {
		fmt.Fprint(bw, "up/down move  enter edit  f search  n insert  d delete  c copy  p paste  u undo  q quit\r\n")
	}
}

func drawLine(bw *bufio.Writer, st *editor.State, d *dispatch.Dispatcher, line int, text []byte) {
	var cursorCol *int
	if d.Editing() && d.EditLine() != nil && d.EditLine().Line == line {
		col := d.EditLine().Cursor
		cursorCol = &col
		text = d.EditLine().Text
	}

	matchRanges, currentRange := matchesOnLine(st, line)

	cells := st.RenderLine(line, text, cursorCol, matchRanges, currentRange)

	if line == st.CurrentLine && cursorCol == nil {
		fmt.Fprint(bw, "> ")
	} else {
		fmt.Fprint(bw, "  ")
	}

	writeCells(bw, cells)
	fmt.Fprint(bw, "\r\n")
}

func writeCells(bw *bufio.Writer, cells []editor.Cell) {
	for _, c := range cells {
		if len(c.PeerIDs) > 0 {
			fmt.Fprint(bw, dim, peerMarker(c.PeerIDs), reset)
		}
		switch {
		case c.Cursor:
			fmt.Fprint(bw, reverse)
		case c.CurrentMatch:
			fmt.Fprint(bw, bold, underline)
		case c.Match:
			fmt.Fprint(bw, underline)
		}
		bw.WriteByte(orSpace(c.B))
		if c.Cursor || c.Match || c.CurrentMatch {
			fmt.Fprint(bw, reset)
		}
	}
}

func orSpace(b byte) byte {
	if b == 0 {
		return ' '
	}
	return b
}

func peerMarker(ids []int) string {
	if len(ids) > 1 {
		return "[+]"
	}
	return fmt.Sprintf("[%d]", ids[0])
}

// matchesOnLine returns every [start,end) search-hit range on line plus
// the range that is the "current" hit, matching §4.4's overlay order.
func matchesOnLine(st *editor.State, line int) ([][2]int, [2]int) {
	if !st.Search.Active || st.Search.Term == "" {
		return nil, [2]int{}
	}
	text, ok := st.Buf.Line(line)
	if !ok {
		return nil, [2]int{}
	}
	needle := []byte(st.Search.Term)
	var ranges [][2]int
	for from := 0; ; {
		idx := bytes.Index(text[from:], needle)
		if idx < 0 {
			break
		}
		start := from + idx
		ranges = append(ranges, [2]int{start, start + len(needle)})
		from = start + len(needle)
	}
	var current [2]int
	if line == st.Search.ResultLine {
		current = [2]int{st.Search.ResultOffset, st.Search.ResultOffset + len(needle)}
	}
	return ranges, current
}
