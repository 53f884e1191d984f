// Package pool provides pooled byte buffers for encoders and stream readers.
package pool

import (
	"io"
	"sync"
)

const (
	EncodeBufferDefaultSize  = 1024 * 4   // 4KiB
	EncodeBufferMaxThreshold = 1024 * 256 // 256KiB
	ScratchDefaultSize       = 1024       // 1KiB
	ScratchMaxThreshold      = 1024 * 64  // 64KiB
)

// ByteBuffer is an append-only byte slice wrapper that can be recycled
// through a ByteBufferPool.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, capacity),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer but keeps its capacity.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the number of bytes written.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the underlying slice.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// MustWrite appends data to the buffer.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// WriteByte appends a single byte. It never fails.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)
	return nil
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteString appends s to the buffer.
func (bb *ByteBuffer) WriteString(s string) (int, error) {
	bb.B = append(bb.B, s...)
	return len(s), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// Resize sets the length of the buffer to n, reallocating when the capacity
// is too small. Existing content up to min(n, Len()) is preserved; the rest
// is unspecified.
func (bb *ByteBuffer) Resize(n int) []byte {
	if n <= cap(bb.B) {
		bb.B = bb.B[:n]
		return bb.B
	}

	bb.Grow(n - len(bb.B))
	bb.B = bb.B[:n]

	return bb.B
}

// Grow ensures the buffer can hold requiredBytes more bytes without reallocating.
//
// The growth strategy is as follows:
//   - Small buffers grow by EncodeBufferDefaultSize to minimize reallocations.
//   - Larger buffers grow by 25% of current capacity to balance memory usage and reallocation cost.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := EncodeBufferDefaultSize
	if cap(bb.B) > 4*EncodeBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}

	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ByteBufferPool is a sync.Pool of ByteBuffers that refuses to retain
// buffers grown beyond maxThreshold.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	encodePool  = NewByteBufferPool(EncodeBufferDefaultSize, EncodeBufferMaxThreshold)
	scratchPool = NewByteBufferPool(ScratchDefaultSize, ScratchMaxThreshold)
)

// GetEncodeBuffer retrieves a buffer sized for encoder output.
func GetEncodeBuffer() *ByteBuffer {
	return encodePool.Get()
}

// PutEncodeBuffer returns an encoder buffer to its pool.
func PutEncodeBuffer(bb *ByteBuffer) {
	encodePool.Put(bb)
}

// GetScratch retrieves a small buffer used for transient reads.
func GetScratch() *ByteBuffer {
	return scratchPool.Get()
}

// PutScratch returns a scratch buffer to its pool.
func PutScratch(bb *ByteBuffer) {
	scratchPool.Put(bb)
}
