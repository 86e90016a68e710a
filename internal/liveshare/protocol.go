// Package liveshare implements the Live Share transport: a framed
// protocol over plain TCP, a star topology with the host relaying
// between joiners, and the shared applier both sides use to turn a
// decoded frame back into a buffer mutation.
package liveshare

import (
	"bufio"
	"fmt"
	"io"

	"github.com/lineshare/lineshare/internal/constants"
	"github.com/lineshare/lineshare/internal/errs"
	"github.com/lineshare/lineshare/internal/io/pool"
)

// Op identifies a Live Share frame's operation.
type Op int

const (
	SyncFull    Op = 1
	EditLine    Op = 2
	InsertAfter Op = 3
	DeleteLine  Op = 4
	PasteAfter  Op = 5
	Cursor      Op = 6
	Hello       Op = 7
)

func (o Op) String() string {
	switch o {
	case SyncFull:
		return "SYNC_FULL"
	case EditLine:
		return "EDIT_LINE"
	case InsertAfter:
		return "INSERT_AFTER"
	case DeleteLine:
		return "DELETE_LINE"
	case PasteAfter:
		return "PASTE_AFTER"
	case Cursor:
		return "CURSOR"
	case Hello:
		return "HELLO"
	default:
		return "UNKNOWN"
	}
}

// maxPayloadLen bounds a single frame's payload so a malformed or
// hostile header can never make the reader allocate without limit.
const maxPayloadLen = 8 * 1024 * 1024

// Frame is one decoded protocol message: an operation, the line it
// applies to (0 when not applicable), and its opaque payload.
type Frame struct {
	Op      Op
	Line    int
	Payload []byte

	// pooled is set when Payload was read into a pool.GetPayloadBuffer
	// scratch buffer by Decode. Frames built locally for Encode/Broadcast
	// never set it, so Release on them is a no-op.
	pooled *[]byte
}

// Release returns f's payload buffer to the pool, if Decode pooled one
// for it. Callers that are done with a decoded frame after applying and
// relaying it (the read loops in Host and Joiner) should call this once
// per frame; it must not be called if Payload may still be read
// afterwards, since the backing array can be reused by the next Decode.
func (f Frame) Release() {
	if f.pooled != nil {
		pool.PutPayloadBuffer(f.pooled)
	}
}

// Encode renders f as `OP <type> <line> <payload_len>\n` followed by
// exactly len(Payload) payload bytes.
func Encode(f Frame) []byte {
	header := fmt.Sprintf("OP %d %d %d\n", int(f.Op), f.Line, len(f.Payload))
	out := make([]byte, 0, len(header)+len(f.Payload))
	out = append(out, header...)
	out = append(out, f.Payload...)
	return out
}

// Decode reads one frame from r. A malformed header or an oversize
// payload_len returns a wrapped errs.ErrBadFrameHeader or
// errs.ErrPayloadTooLarge without consuming more than the header line.
// A short read of the header or payload returns the wrapped read error.
func Decode(r *bufio.Reader) (Frame, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return Frame{}, errs.Wrap(err, "reading frame header")
	}

	var tag string
	var opType, lineNo, payloadLen int
	n, err := fmt.Sscanf(line, "%s %d %d %d\n", &tag, &opType, &lineNo, &payloadLen)
	if err != nil || n != 4 || tag != "OP" {
		return Frame{}, errs.Wrapf(errs.ErrBadFrameHeader, "header %q", line)
	}
	if payloadLen < 0 || payloadLen > maxPayloadLen {
		return Frame{}, errs.Wrapf(errs.ErrPayloadTooLarge, "payload_len=%d", payloadLen)
	}

	var payload []byte
	var pooled *[]byte
	if payloadLen > 0 {
		if payloadLen <= constants.NetworkReadBufferSize {
			pooled = pool.GetPayloadBuffer()
			payload = (*pooled)[:payloadLen]
		} else {
			payload = make([]byte, payloadLen)
		}
		if _, err := io.ReadFull(r, payload); err != nil {
			if pooled != nil {
				pool.PutPayloadBuffer(pooled)
			}
			return Frame{}, errs.Wrap(err, "reading frame payload")
		}
	}

	return Frame{Op: Op(opType), Line: lineNo, Payload: payload, pooled: pooled}, nil
}
