package descriptive

import (
	"math"

	"github.com/arloliu/tagwire/encoding"
	"github.com/arloliu/tagwire/endian"
	"github.com/arloliu/tagwire/format"
	"github.com/arloliu/tagwire/internal/pool"
	"github.com/arloliu/tagwire/plain"
)

// Encoder writes values in the self-describing format.
//
// Containers are written header first: EncodeSequenceHeader(n) must be
// followed by n values, EncodeMapHeader(n) by n key/value pairs, EncodeSome
// by one value and EncodeVariant by a discriminant and a payload.
//
// Call Release when done to return the buffer to the pool; the slice returned
// by Bytes is invalid afterwards.
//
// Note: The Encoder is NOT thread-safe.
type Encoder struct {
	buf *pool.ByteBuffer
}

// NewEncoder creates an Encoder backed by a pooled buffer.
func NewEncoder() *Encoder {
	return &Encoder{buf: pool.GetEncodeBuffer()}
}

// NewEncoderSize creates an Encoder with its own buffer of the given capacity.
func NewEncoderSize(size int) *Encoder {
	return &Encoder{buf: pool.NewByteBuffer(size)}
}

// Bytes returns the encoded data.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the encoded size in bytes.
func (e *Encoder) Len() int {
	return e.buf.Len()
}

// Reset discards the encoded data but keeps the buffer.
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

// EncodeTag appends a raw tag byte.
func (e *Encoder) EncodeTag(t format.Tag) {
	e.buf.B = append(e.buf.B, byte(t))
}

func (e *Encoder) header(kind format.Kind, n int) {
	tag, varint := format.LenTag(kind, n)
	e.EncodeTag(tag)
	if varint {
		e.buf.B = encoding.AppendUvarint(e.buf.B, uint64(n)) //nolint:gosec
	}
}

func (e *Encoder) number(kind format.NumberKind, v uint64) {
	e.EncodeTag(format.NumberTag(kind))
	e.buf.B = encoding.AppendUvarint(e.buf.B, v)
}

// EncodeUnit writes a unit mark. The option and variant marks must be
// followed by their payload values.
func (e *Encoder) EncodeUnit()    { e.EncodeTag(format.MarkTag(format.MarkUnit)) }
func (e *Encoder) EncodeNone()    { e.EncodeTag(format.MarkTag(format.MarkNone)) }
func (e *Encoder) EncodeSome()    { e.EncodeTag(format.MarkTag(format.MarkSome)) }
func (e *Encoder) EncodeVariant() { e.EncodeTag(format.MarkTag(format.MarkVariant)) }

// EncodeBool writes a true or false mark.
func (e *Encoder) EncodeBool(v bool) {
	if v {
		e.EncodeTag(format.MarkTag(format.MarkTrue))
		return
	}
	e.EncodeTag(format.MarkTag(format.MarkFalse))
}

// EncodeChar writes a char mark followed by the scalar value.
func (e *Encoder) EncodeChar(c rune) {
	e.EncodeTag(format.MarkTag(format.MarkChar))
	e.buf.B = encoding.AppendUvarint(e.buf.B, uint64(uint32(c))) //nolint:gosec
}

// EncodeU8 writes a number tagged u8. Each unsigned width has its own tag,
// and EncodeUint writes a u64.
func (e *Encoder) EncodeU8(v uint8)   { e.number(format.NumberU8, uint64(v)) }
func (e *Encoder) EncodeU16(v uint16) { e.number(format.NumberU16, uint64(v)) }
func (e *Encoder) EncodeU32(v uint32) { e.number(format.NumberU32, uint64(v)) }
func (e *Encoder) EncodeU64(v uint64) { e.number(format.NumberU64, v) }
func (e *Encoder) EncodeUint(v uint)  { e.number(format.NumberU64, uint64(v)) }

// EncodeI8 writes a zigzag number tagged i8. EncodeInt writes an i64.
func (e *Encoder) EncodeI8(v int8)   { e.number(format.NumberI8, encoding.ZigZag64(int64(v))) }
func (e *Encoder) EncodeI16(v int16) { e.number(format.NumberI16, encoding.ZigZag64(int64(v))) }
func (e *Encoder) EncodeI32(v int32) { e.number(format.NumberI32, encoding.ZigZag64(int64(v))) }
func (e *Encoder) EncodeI64(v int64) { e.number(format.NumberI64, encoding.ZigZag64(v)) }
func (e *Encoder) EncodeInt(v int)   { e.number(format.NumberI64, encoding.ZigZag64(int64(v))) }

// EncodeF32 writes the IEEE 754 bit pattern of v.
func (e *Encoder) EncodeF32(v float32) { e.number(format.NumberF32, uint64(math.Float32bits(v))) }
func (e *Encoder) EncodeF64(v float64) { e.number(format.NumberF64, math.Float64bits(v)) }

// EncodeU128 writes a number tagged u128.
func (e *Encoder) EncodeU128(v encoding.Uint128) {
	e.EncodeNumber(format.NumberU128, v)
}

// EncodeI128 writes a zigzag number tagged i128.
func (e *Encoder) EncodeI128(v encoding.Int128) {
	e.EncodeNumber(format.NumberI128, encoding.ZigZag128(v))
}

// EncodeNumber writes a number of any sub-kind with a raw VarInt payload.
// Signed and float payloads must already be zigzag or bit-pattern encoded.
func (e *Encoder) EncodeNumber(kind format.NumberKind, payload encoding.Uint128) {
	e.EncodeTag(format.NumberTag(kind))
	e.buf.B = encoding.AppendUvarint128(e.buf.B, payload)
}

// EncodeBytes writes a byte string.
func (e *Encoder) EncodeBytes(b []byte) {
	e.header(format.KindBytes, len(b))
	e.buf.B = append(e.buf.B, b...)
}

// EncodeString writes a string. s is expected to be valid UTF-8.
func (e *Encoder) EncodeString(s string) {
	e.header(format.KindString, len(s))
	e.buf.B = append(e.buf.B, s...)
}

// EncodeSequenceHeader starts a sequence of n values.
func (e *Encoder) EncodeSequenceHeader(n int) {
	e.header(format.KindSequence, n)
}

// EncodeMapHeader starts a map of n key/value pairs.
func (e *Encoder) EncodeMapHeader(n int) {
	e.header(format.KindMap, n)
}

// EncodePack writes the positional fields produced by fn as one Bytes value.
func (e *Encoder) EncodePack(engine endian.EndianEngine, fn func(p *plain.Encoder)) {
	p := plain.NewEncoder(engine)
	defer p.Release()

	fn(p)
	e.EncodeBytes(p.Bytes())
}
