package plain

import (
	"math"

	"github.com/arloliu/tagwire/encoding"
	"github.com/arloliu/tagwire/endian"
	"github.com/arloliu/tagwire/internal/pool"
)

// Encoder appends positional fields to a pooled buffer.
//
// Call Release when done to return the buffer to the pool; the slice returned
// by Bytes is invalid afterwards.
type Encoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
}

// NewEncoder creates an Encoder writing fixed-width fields with engine.
func NewEncoder(engine endian.EndianEngine) *Encoder {
	return &Encoder{
		buf:    pool.GetEncodeBuffer(),
		engine: engine,
	}
}

// Bytes returns the encoded payload.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the encoded size in bytes.
func (e *Encoder) Len() int {
	return e.buf.Len()
}

// Reset discards the encoded payload but keeps the buffer.
func (e *Encoder) Reset() {
	e.buf.Reset()
}

// Release returns the buffer to the pool.
func (e *Encoder) Release() {
	if e.buf != nil {
		pool.PutEncodeBuffer(e.buf)
		e.buf = nil
	}
}

// EncodeU8 writes one byte.
func (e *Encoder) EncodeU8(v uint8) {
	e.buf.B = append(e.buf.B, v)
}

// EncodeU16 writes two bytes in the engine order.
func (e *Encoder) EncodeU16(v uint16) {
	e.buf.B = e.engine.AppendUint16(e.buf.B, v)
}

// EncodeU32 writes four bytes in the engine order.
func (e *Encoder) EncodeU32(v uint32) {
	e.buf.B = e.engine.AppendUint32(e.buf.B, v)
}

// EncodeU64 writes eight bytes in the engine order.
func (e *Encoder) EncodeU64(v uint64) {
	e.buf.B = e.engine.AppendUint64(e.buf.B, v)
}

// EncodeU128 writes two 64-bit words, low word first on little-endian
// engines.
func (e *Encoder) EncodeU128(v encoding.Uint128) {
	if endian.IsLittleEndian(e.engine) {
		e.EncodeU64(v.Lo)
		e.EncodeU64(v.Hi)

		return
	}
	e.EncodeU64(v.Hi)
	e.EncodeU64(v.Lo)
}

// EncodeI8 writes the two's complement of v. The other signed widths follow
// the same rule.
func (e *Encoder) EncodeI8(v int8)   { e.EncodeU8(uint8(v)) }   //nolint:gosec
func (e *Encoder) EncodeI16(v int16) { e.EncodeU16(uint16(v)) } //nolint:gosec
func (e *Encoder) EncodeI32(v int32) { e.EncodeU32(uint32(v)) } //nolint:gosec
func (e *Encoder) EncodeI64(v int64) { e.EncodeU64(uint64(v)) } //nolint:gosec

// EncodeI128 writes v as its two's complement Uint128.
func (e *Encoder) EncodeI128(v encoding.Int128) {
	e.EncodeU128(encoding.Uint128{Hi: uint64(v.Hi), Lo: v.Lo}) //nolint:gosec
}

// EncodeF32 writes the IEEE 754 bit pattern of v.
func (e *Encoder) EncodeF32(v float32) {
	e.EncodeU32(math.Float32bits(v))
}

// EncodeF64 writes the IEEE 754 bit pattern of v.
func (e *Encoder) EncodeF64(v float64) {
	e.EncodeU64(math.Float64bits(v))
}

// EncodeBool writes 1 for true and 0 for false.
func (e *Encoder) EncodeBool(v bool) {
	if v {
		e.EncodeU8(1)
		return
	}
	e.EncodeU8(0)
}

// EncodeBytes writes a VarInt length prefix followed by b.
func (e *Encoder) EncodeBytes(b []byte) {
	e.buf.B = encoding.AppendUvarint(e.buf.B, uint64(len(b)))
	e.buf.B = append(e.buf.B, b...)
}

// EncodeString writes a VarInt length prefix followed by s.
func (e *Encoder) EncodeString(s string) {
	e.buf.B = encoding.AppendUvarint(e.buf.B, uint64(len(s)))
	e.buf.B = append(e.buf.B, s...)
}

// EncodeArray writes b verbatim, without a length prefix.
func (e *Encoder) EncodeArray(b []byte) {
	e.buf.B = append(e.buf.B, b...)
}
