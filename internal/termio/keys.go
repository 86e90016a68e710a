package termio

import (
	"bufio"
	"time"

	"github.com/lineshare/lineshare/internal/constants"
)

// Key is one decoded keystroke, already collapsed from whatever raw
// byte sequence produced it.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlLeft
	KeyCtrlRight
	KeyEscape
	KeyBackspace
	KeyEnter
	KeyPrintable
)

// Event is one decoded keystroke; Rune is populated only for
// KeyPrintable.
type Event struct {
	Key  Key
	Rune byte
}

// Reader decodes raw stdin bytes into Events, resolving the ambiguity
// between a bare Escape and the start of a CSI sequence via a short
// read timeout.
type Reader struct {
	br *bufio.Reader
}

// NewReader wraps r for key decoding.
func NewReader(br *bufio.Reader) *Reader {
	return &Reader{br: br}
}

// Next blocks for and decodes the next keystroke.
func (kr *Reader) Next() (Event, error) {
	b, err := kr.br.ReadByte()
	if err != nil {
		return Event{}, err
	}

	switch {
	case b == 0x1B:
		return kr.decodeEscape()
	case b == 0x08 || b == 0x7F:
		return Event{Key: KeyBackspace}, nil
	case b == 0x0A || b == 0x0D:
		return Event{Key: KeyEnter}, nil
	case b >= 0x20 && b <= 0x7E:
		return Event{Key: KeyPrintable, Rune: b}, nil
	default:
		return Event{Key: KeyNone}, nil
	}
}

// decodeEscape resolves a leading 0x1B into either a bare Escape or one
// of the CSI arrow/ctrl-arrow sequences, per §6: `ESC [ A|B|C|D` for
// arrows, `ESC [ 1 ; 5 C|D` for Ctrl-Left/Right.
func (kr *Reader) decodeEscape() (Event, error) {
	if !kr.waitByte(constants.EscapeSequenceTimeout) {
		return Event{Key: KeyEscape}, nil
	}
	b1, err := kr.br.ReadByte()
	if err != nil {
		return Event{}, err
	}
	if b1 != '[' {
		return Event{Key: KeyEscape}, nil
	}

	if !kr.waitByte(constants.EscapeSequenceTimeout) {
		return Event{Key: KeyEscape}, nil
	}
	b2, err := kr.br.ReadByte()
	if err != nil {
		return Event{}, err
	}

	switch b2 {
	case 'A':
		return Event{Key: KeyUp}, nil
	case 'B':
		return Event{Key: KeyDown}, nil
	case 'C':
		return Event{Key: KeyRight}, nil
	case 'D':
		return Event{Key: KeyLeft}, nil
	case '1':
		return kr.decodeCtrlArrow()
	default:
		return Event{Key: KeyEscape}, nil
	}
}

// decodeCtrlArrow consumes the remainder of `1 ; 5 C|D` after the
// leading '1' byte has already been read.
func (kr *Reader) decodeCtrlArrow() (Event, error) {
	rest := make([]byte, 0, 4)
	for i := 0; i < 4; i++ {
		if !kr.waitByte(constants.EscapeSequenceTimeout) {
			return Event{Key: KeyEscape}, nil
		}
		b, err := kr.br.ReadByte()
		if err != nil {
			return Event{}, err
		}
		rest = append(rest, b)
		if b == 'C' || b == 'D' {
			break
		}
	}
	if len(rest) == 0 {
		return Event{Key: KeyEscape}, nil
	}
	switch rest[len(rest)-1] {
	case 'C':
		return Event{Key: KeyCtrlRight}, nil
	case 'D':
		return Event{Key: KeyCtrlLeft}, nil
	default:
		return Event{Key: KeyEscape}, nil
	}
}

// waitByte reports whether a byte becomes available within timeout,
// without consuming it.
func (kr *Reader) waitByte(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if kr.br.Buffered() > 0 {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return kr.br.Buffered() > 0
}
