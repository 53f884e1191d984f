// Package plain implements the positional storage codec used inside packs.
//
// A plain payload carries no tags: fields are written back to back in the
// order both sides agree on. Fixed-width numbers use the configured
// endian.EndianEngine, booleans are a single 0/1 byte, and byte strings and
// strings are prefixed with an unsigned VarInt length.
//
// Plain payloads are embedded in the descriptive format as Bytes values whose
// length is the total payload size, so older readers can skip fields appended
// by newer writers.
package plain

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/arloliu/tagwire/encoding"
	"github.com/arloliu/tagwire/endian"
	"github.com/arloliu/tagwire/errs"
	"github.com/arloliu/tagwire/internal/options"
	"github.com/arloliu/tagwire/wire"
)

// Decoder reads positional fields from a wire.Reader.
//
// Note: The Decoder is NOT thread-safe.
type Decoder struct {
	r      wire.Reader
	cx     *wire.Context
	engine endian.EndianEngine
	word   [16]byte
}

// DecoderOption configures a Decoder.
type DecoderOption = options.Option[*Decoder]

// WithDecoderEngine selects the byte order of fixed-width fields.
func WithDecoderEngine(engine endian.EndianEngine) DecoderOption {
	return options.NoError(func(d *Decoder) {
		d.engine = engine
	})
}

// WithDecoderContext supplies the context used for length limits and errors.
func WithDecoderContext(cx *wire.Context) DecoderOption {
	return options.NoError(func(d *Decoder) {
		d.cx = cx
	})
}

// NewDecoder creates a little-endian Decoder over r.
func NewDecoder(r wire.Reader, opts ...DecoderOption) (*Decoder, error) {
	d := &Decoder{
		r:      r,
		cx:     wire.DefaultContext(),
		engine: endian.GetLittleEndianEngine(),
	}
	if err := options.Apply(d, opts...); err != nil {
		return nil, err
	}

	return d, nil
}

// Reader returns the underlying reader.
func (d *Decoder) Reader() wire.Reader {
	return d.r
}

func (d *Decoder) fixed(n int) ([]byte, error) {
	buf := d.word[:n]
	mark := d.r.Offset()
	if err := d.r.ReadFull(buf); err != nil {
		return nil, d.cx.Marked(mark, err)
	}

	return buf, nil
}

// DecodeU8 reads one byte.
func (d *Decoder) DecodeU8() (uint8, error) {
	b, err := d.fixed(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// DecodeU16 reads a two-byte field.
func (d *Decoder) DecodeU16() (uint16, error) {
	b, err := d.fixed(2)
	if err != nil {
		return 0, err
	}

	return d.engine.Uint16(b), nil
}

// DecodeU32 reads a four-byte field.
func (d *Decoder) DecodeU32() (uint32, error) {
	b, err := d.fixed(4)
	if err != nil {
		return 0, err
	}

	return d.engine.Uint32(b), nil
}

// DecodeU64 reads an eight-byte field.
func (d *Decoder) DecodeU64() (uint64, error) {
	b, err := d.fixed(8)
	if err != nil {
		return 0, err
	}

	return d.engine.Uint64(b), nil
}

// DecodeU128 reads two 64-bit words, most significant word first in the
// engine's order.
func (d *Decoder) DecodeU128() (encoding.Uint128, error) {
	b, err := d.fixed(16)
	if err != nil {
		return encoding.Uint128{}, err
	}

	if endian.IsLittleEndian(d.engine) {
		return encoding.Uint128{Lo: d.engine.Uint64(b[:8]), Hi: d.engine.Uint64(b[8:])}, nil
	}

	return encoding.Uint128{Hi: d.engine.Uint64(b[:8]), Lo: d.engine.Uint64(b[8:])}, nil
}

// DecodeI8 reads a one-byte two's complement field.
func (d *Decoder) DecodeI8() (int8, error) {
	v, err := d.DecodeU8()
	return int8(v), err //nolint:gosec
}

// DecodeI16 reads a two-byte two's complement field.
func (d *Decoder) DecodeI16() (int16, error) {
	v, err := d.DecodeU16()
	return int16(v), err //nolint:gosec
}

// DecodeI32 reads a four-byte two's complement field.
func (d *Decoder) DecodeI32() (int32, error) {
	v, err := d.DecodeU32()
	return int32(v), err //nolint:gosec
}

// DecodeI64 reads an eight-byte two's complement field.
func (d *Decoder) DecodeI64() (int64, error) {
	v, err := d.DecodeU64()
	return int64(v), err //nolint:gosec
}

// DecodeI128 reads a 128-bit two's complement field.
func (d *Decoder) DecodeI128() (encoding.Int128, error) {
	v, err := d.DecodeU128()
	return encoding.Int128{Hi: int64(v.Hi), Lo: v.Lo}, err //nolint:gosec
}

// DecodeF32 reads an IEEE 754 single precision bit pattern.
func (d *Decoder) DecodeF32() (float32, error) {
	v, err := d.DecodeU32()
	return math.Float32frombits(v), err
}

// DecodeF64 reads an IEEE 754 double precision bit pattern.
func (d *Decoder) DecodeF64() (float64, error) {
	v, err := d.DecodeU64()
	return math.Float64frombits(v), err
}

// DecodeBool reads a single byte that must be 0 or 1.
func (d *Decoder) DecodeBool() (bool, error) {
	mark := d.r.Offset()
	v, err := d.DecodeU8()
	if err != nil {
		return false, err
	}

	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, d.cx.MarkedMessage(mark, "%w: bool byte 0x%02x", errs.ErrMalformedScalar, v)
	}
}

// DecodeLen reads a VarInt length prefix.
func (d *Decoder) DecodeLen() (int, error) {
	mark := d.r.Offset()
	n, err := encoding.ReadUvarint(d.r, 64)
	if err != nil {
		return 0, d.cx.Marked(mark, err)
	}

	return d.cx.CheckLength(mark, n)
}

// DecodeBytes reads a length-prefixed byte string and hands it to v.
func (d *Decoder) DecodeBytes(v wire.BytesVisitor) error {
	n, err := d.DecodeLen()
	if err != nil {
		return err
	}

	mark := d.r.Offset()
	if err := d.r.ReadBytes(n, v); err != nil {
		return d.cx.Marked(mark, err)
	}

	return nil
}

// DecodeBytesOwned reads a length-prefixed byte string into a new slice.
func (d *Decoder) DecodeBytesOwned() ([]byte, error) {
	var out []byte
	err := d.DecodeBytes(wire.BytesFunc(func(b []byte, own wire.Ownership) error {
		out = wire.Retain(b, own)
		return nil
	}))

	return out, err
}

// DecodeString reads a length-prefixed UTF-8 string.
func (d *Decoder) DecodeString() (string, error) {
	mark := d.r.Offset()
	var out string
	err := d.DecodeBytes(wire.BytesFunc(func(b []byte, _ wire.Ownership) error {
		if !utf8.Valid(b) {
			return fmt.Errorf("%w: plain string", errs.ErrInvalidUTF8)
		}
		out = string(b)

		return nil
	}))
	if err != nil {
		return "", d.cx.Marked(mark, err)
	}

	return out, nil
}

// DecodeArray fills dst with exactly len(dst) raw bytes; no length prefix.
func (d *Decoder) DecodeArray(dst []byte) error {
	mark := d.r.Offset()
	if err := d.r.ReadFull(dst); err != nil {
		return d.cx.Marked(mark, err)
	}

	return nil
}

// Skip discards n raw bytes.
func (d *Decoder) Skip(n int) error {
	mark := d.r.Offset()
	if err := d.r.Skip(n); err != nil {
		return d.cx.Marked(mark, err)
	}

	return nil
}
