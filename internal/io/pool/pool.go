// Package pool recycles the byte buffers the Live Share transport reads
// frame payloads into, avoiding an allocation on every frame.
package pool

import (
	"sync"

	"github.com/lineshare/lineshare/internal/constants"
)

// PayloadBufferPool hands out scratch buffers sized for a single frame
// payload read.
var PayloadBufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, constants.NetworkReadBufferSize)
		return &buf
	},
}

// GetPayloadBuffer gets a buffer from the pool.
func GetPayloadBuffer() *[]byte {
	return PayloadBufferPool.Get().(*[]byte)
}

// PutPayloadBuffer returns a buffer to the pool.
func PutPayloadBuffer(buf *[]byte) {
	if buf == nil {
		return
	}
	*buf = (*buf)[:cap(*buf)]
	PayloadBufferPool.Put(buf)
}
