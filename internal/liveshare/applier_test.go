package liveshare

import (
	"testing"

	"github.com/lineshare/lineshare/internal/buffer"
	"github.com/lineshare/lineshare/internal/constants"
	"github.com/lineshare/lineshare/internal/editor"
	"github.com/lineshare/lineshare/internal/undo"
)

func newPeerState(t *testing.T, content string) *editor.State {
	t.Helper()
	buf := buffer.New(constants.BufferCapacity)
	buf.Load([]byte(content))
	return &editor.State{
		Buf:         buf,
		CurrentLine: 1,
		RowOffset:   1,
		TotalLines:  buf.TotalLines(),
		Undo:        undo.New(constants.UndoCapacity),
		Peers:       make(map[int]editor.PeerCursor),
	}
}

// TestTwoPeerConvergence reproduces scenario 6: two peers apply the
// same sequence of remote ops and end up byte-equal, with neither
// pushing to its own undo stack.
func TestTwoPeerConvergence(t *testing.T) {
	peerA := newPeerState(t, "alpha\nbeta\ngamma\n")
	peerB := newPeerState(t, "alpha\nbeta\ngamma\n")

	editFrame := Frame{Op: EditLine, Line: 2, Payload: []byte("BETA")}
	if err := Apply(peerA, editFrame, nil); err != nil {
		t.Fatalf("Apply(peerA, edit): %v", err)
	}
	if err := Apply(peerB, editFrame, nil); err != nil {
		t.Fatalf("Apply(peerB, edit): %v", err)
	}

	if got := string(peerA.Buf.Bytes()); got != "alpha\nBETA\ngamma\n" {
		t.Fatalf("peerA after edit = %q", got)
	}
	if string(peerA.Buf.Bytes()) != string(peerB.Buf.Bytes()) {
		t.Fatalf("peers diverged after edit: %q vs %q", peerA.Buf.Bytes(), peerB.Buf.Bytes())
	}

	deleteFrame := Frame{Op: DeleteLine, Line: 1}
	if err := Apply(peerA, deleteFrame, nil); err != nil {
		t.Fatalf("Apply(peerA, delete): %v", err)
	}
	if err := Apply(peerB, deleteFrame, nil); err != nil {
		t.Fatalf("Apply(peerB, delete): %v", err)
	}

	if got := string(peerA.Buf.Bytes()); got != "BETA\ngamma\n" {
		t.Fatalf("peerA after delete = %q", got)
	}
	if string(peerA.Buf.Bytes()) != string(peerB.Buf.Bytes()) {
		t.Fatalf("peers diverged after delete: %q vs %q", peerA.Buf.Bytes(), peerB.Buf.Bytes())
	}
	if peerA.TotalLines != 2 || peerB.TotalLines != 2 {
		t.Errorf("TotalLines = %d/%d, want 2/2", peerA.TotalLines, peerB.TotalLines)
	}

	if peerA.Undo.Len() != 0 || peerB.Undo.Len() != 0 {
		t.Error("remote-applied ops must never push to the undo stack")
	}
}

func TestApplySyncFullRoundTrip(t *testing.T) {
	st := newPeerState(t, "old content\n")
	compressed, err := EncodeSnapshot([]byte("alpha\nbeta\n"))
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	if err := Apply(st, Frame{Op: SyncFull, Payload: compressed}, nil); err != nil {
		t.Fatalf("Apply(SYNC_FULL): %v", err)
	}
	if got := string(st.Buf.Bytes()); got != "alpha\nbeta\n" {
		t.Errorf("buffer after SYNC_FULL = %q", got)
	}
}

func TestApplyHelloAssignsSelfID(t *testing.T) {
	st := newPeerState(t, "a\n")
	selfID := 0
	if err := Apply(st, Frame{Op: Hello, Payload: EncodeHello(4)}, &selfID); err != nil {
		t.Fatalf("Apply(HELLO): %v", err)
	}
	if selfID != 4 {
		t.Errorf("selfID = %d, want 4", selfID)
	}
}

func TestApplyCursorUpdatesPeerTable(t *testing.T) {
	st := newPeerState(t, "a\nb\n")
	if err := Apply(st, Frame{Op: Cursor, Payload: EncodeCursor(2, 1, 3)}, nil); err != nil {
		t.Fatalf("Apply(CURSOR): %v", err)
	}
	cur, ok := st.Peers[2]
	if !ok || cur.Line != 1 || cur.Col != 3 {
		t.Errorf("Peers[2] = %+v, ok=%v, want {1 3} true", cur, ok)
	}
}
