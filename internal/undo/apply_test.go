package undo

import (
	"testing"

	"github.com/lineshare/lineshare/internal/buffer"
)

func TestApplyReplaceLineRoundTrip(t *testing.T) {
	buf := buffer.New(1 << 10)
	buf.Load([]byte("alpha\nbeta\ngamma\n"))

	before := append([]byte(nil), buf.Bytes()...)

	old := buf.ReplaceLine(2, []byte("replaced"))
	entry := ForReplaceLine(2, old)
	Apply(buf, entry)

	if string(buf.Bytes()) != string(before) {
		t.Errorf("after replay = %q, want %q", buf.Bytes(), before)
	}
}

func TestApplyInsertAfterRoundTrip(t *testing.T) {
	buf := buffer.New(1 << 10)
	buf.Load([]byte("alpha\nbeta\n"))

	before := append([]byte(nil), buf.Bytes()...)

	buf.InsertAfter(1, []byte("new"))
	entry := ForInsertAfter(1)
	Apply(buf, entry)

	if string(buf.Bytes()) != string(before) {
		t.Errorf("after replay = %q, want %q", buf.Bytes(), before)
	}
}

func TestApplyDeleteLineRoundTrip(t *testing.T) {
	buf := buffer.New(1 << 10)
	buf.Load([]byte("alpha\nbeta\ngamma\n"))

	before := append([]byte(nil), buf.Bytes()...)

	deleted := buf.DeleteLine(2)
	entry := ForDeleteLine(2, deleted)
	Apply(buf, entry)

	if string(buf.Bytes()) != string(before) {
		t.Errorf("after replay = %q, want %q", buf.Bytes(), before)
	}
}
