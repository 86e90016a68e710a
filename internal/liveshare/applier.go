package liveshare

import (
	"strconv"
	"strings"

	"github.com/lineshare/lineshare/internal/dlog"
	"github.com/lineshare/lineshare/internal/editor"
	"github.com/lineshare/lineshare/internal/errs"
)

// Apply replays one decoded remote frame against st, identical on host
// and joiner. The caller must hold st's editor mutex for the duration
// of this call and must never push to the undo stack for a
// remote-applied op. selfID is a pointer so a HELLO frame (joiner-only)
// can assign it; it is ignored on the host, where self id is always 1.
func Apply(st *editor.State, f Frame, selfID *int) error {
	var applyErr error

	switch f.Op {
	case SyncFull:
		raw, err := DecodeSnapshot(f.Payload)
		if err != nil {
			applyErr = errs.Wrap(err, "decoding SYNC_FULL payload")
		} else {
			st.Buf.ApplySnapshot(raw)
		}
	case EditLine:
		st.Buf.ReplaceLine(f.Line, f.Payload)
	case InsertAfter:
		st.Buf.InsertAfter(f.Line, f.Payload)
	case DeleteLine:
		st.Buf.DeleteLine(f.Line)
	case PasteAfter:
		st.Buf.InsertAfter(f.Line, f.Payload)
	case Cursor:
		applyErr = applyCursor(st, f.Payload)
	case Hello:
		id, err := strconv.Atoi(strings.TrimSpace(string(f.Payload)))
		if err != nil {
			applyErr = errs.Wrapf(errs.ErrBadFrameHeader, "HELLO payload %q", f.Payload)
		} else if selfID != nil {
			*selfID = id
		}
	default:
		dlog.Live.Warn("ignoring unknown op", int(f.Op))
	}

	st.Refresh()
	return applyErr
}

func applyCursor(st *editor.State, payload []byte) error {
	fields := strings.Fields(string(payload))
	if len(fields) != 3 {
		return errs.Wrapf(errs.ErrBadFrameHeader, "CURSOR payload %q", payload)
	}
	id, err1 := strconv.Atoi(fields[0])
	line, err2 := strconv.Atoi(fields[1])
	col, err3 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return errs.Wrapf(errs.ErrBadFrameHeader, "CURSOR payload %q", payload)
	}
	st.Peers[id] = editor.PeerCursor{Line: line, Col: col}
	return nil
}

// EncodeCursor builds a CURSOR frame payload for peer id at (line, col).
func EncodeCursor(id, line, col int) []byte {
	return []byte(strconv.Itoa(id) + " " + strconv.Itoa(line) + " " + strconv.Itoa(col))
}

// EncodeHello builds a HELLO frame payload assigning id.
func EncodeHello(id int) []byte {
	return []byte(strconv.Itoa(id))
}
