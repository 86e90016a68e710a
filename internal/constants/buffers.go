package constants

// Buffer capacity constants in bytes.
const (
	// BufferCapacity is the maximum number of payload bytes a line buffer
	// may hold, not counting the implicit terminator slot.
	BufferCapacity = 1 << 20

	// MaxLineLength is the maximum number of bytes accepted into the
	// line-edit state machine's transient character buffer.
	MaxLineLength = 510

	// NetworkReadBufferSize is the size of the scratch buffer used while
	// reading frame payloads off the wire.
	NetworkReadBufferSize = 64 * 1024
)
