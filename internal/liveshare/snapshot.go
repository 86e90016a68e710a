package liveshare

import "github.com/DataDog/zstd"

// EncodeSnapshot compresses a full-buffer snapshot for a SYNC_FULL
// frame's payload. The generic frame codec in protocol.go stays
// compression-agnostic; only this op's payload is ever compressed,
// since it is the one payload large enough (up to the whole buffer
// capacity) to benefit.
func EncodeSnapshot(buf []byte) ([]byte, error) {
	return zstd.Compress(nil, buf)
}

// DecodeSnapshot reverses EncodeSnapshot.
func DecodeSnapshot(compressed []byte) ([]byte, error) {
	return zstd.Decompress(nil, compressed)
}
