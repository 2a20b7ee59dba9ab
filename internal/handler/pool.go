package handler

import (
	"bytes"
	"sync"
)

// Game payloads carry the full prediction map, so responses are routinely a
// few KB. Pre-sizing the encode buffers accordingly keeps steady-state
// encoding allocation-free.
const encodeBufferSize = 4096

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, encodeBufferSize))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	buf.Reset()
	bufferPool.Put(buf)
}
