package descriptive

import (
	"bytes"
	"math"
	"testing"

	"github.com/arloliu/tagwire/encoding"
	"github.com/arloliu/tagwire/endian"
	"github.com/arloliu/tagwire/errs"
	"github.com/arloliu/tagwire/format"
	"github.com/arloliu/tagwire/plain"
	"github.com/arloliu/tagwire/wire"
	"github.com/stretchr/testify/require"
)

func TestDecoder_Scalars(t *testing.T) {
	data := encode(func(e *Encoder) {
		e.EncodeU8(math.MaxUint8)
		e.EncodeU16(math.MaxUint16)
		e.EncodeU32(math.MaxUint32)
		e.EncodeU64(math.MaxUint64)
		e.EncodeU128(encoding.Uint128{Hi: math.MaxUint64, Lo: math.MaxUint64})
		e.EncodeI8(math.MinInt8)
		e.EncodeI16(math.MinInt16)
		e.EncodeI32(math.MaxInt32)
		e.EncodeI64(math.MinInt64)
		e.EncodeI128(encoding.Int128{Hi: math.MinInt64})
		e.EncodeF32(-0.5)
		e.EncodeF64(math.Inf(1))
		e.EncodeUint(42)
		e.EncodeInt(-42)
		e.EncodeBool(true)
		e.EncodeUnit()
		e.EncodeChar('é')
		e.EncodeString("héllo")
		e.EncodeBytes([]byte{0xCA, 0xFE})
	})

	eachReader(t, data, func(t *testing.T, r wire.Reader) {
		next := func() *Decoder { return mustDecoder(t, r) }

		u8, err := next().DecodeU8()
		require.NoError(t, err)
		require.Equal(t, uint8(math.MaxUint8), u8)

		u16, err := next().DecodeU16()
		require.NoError(t, err)
		require.Equal(t, uint16(math.MaxUint16), u16)

		u32, err := next().DecodeU32()
		require.NoError(t, err)
		require.Equal(t, uint32(math.MaxUint32), u32)

		u64, err := next().DecodeU64()
		require.NoError(t, err)
		require.Equal(t, uint64(math.MaxUint64), u64)

		u128, err := next().DecodeU128()
		require.NoError(t, err)
		require.Equal(t, encoding.Uint128{Hi: math.MaxUint64, Lo: math.MaxUint64}, u128)

		i8, err := next().DecodeI8()
		require.NoError(t, err)
		require.Equal(t, int8(math.MinInt8), i8)

		i16, err := next().DecodeI16()
		require.NoError(t, err)
		require.Equal(t, int16(math.MinInt16), i16)

		i32, err := next().DecodeI32()
		require.NoError(t, err)
		require.Equal(t, int32(math.MaxInt32), i32)

		i64, err := next().DecodeI64()
		require.NoError(t, err)
		require.Equal(t, int64(math.MinInt64), i64)

		i128, err := next().DecodeI128()
		require.NoError(t, err)
		require.Equal(t, encoding.Int128{Hi: math.MinInt64}, i128)

		f32, err := next().DecodeF32()
		require.NoError(t, err)
		require.Equal(t, float32(-0.5), f32)

		f64, err := next().DecodeF64()
		require.NoError(t, err)
		require.True(t, math.IsInf(f64, 1))

		u, err := next().DecodeUint()
		require.NoError(t, err)
		require.Equal(t, uint(42), u)

		i, err := next().DecodeInt()
		require.NoError(t, err)
		require.Equal(t, -42, i)

		b, err := next().DecodeBool()
		require.NoError(t, err)
		require.True(t, b)

		require.NoError(t, next().DecodeUnit())

		c, err := next().DecodeChar()
		require.NoError(t, err)
		require.Equal(t, 'é', c)

		s, err := next().DecodeString()
		require.NoError(t, err)
		require.Equal(t, "héllo", s)

		raw, err := next().DecodeBytesOwned()
		require.NoError(t, err)
		require.Equal(t, []byte{0xCA, 0xFE}, raw)

		_, ok, err := r.PeekByte()
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestDecoder_TagMismatch(t *testing.T) {
	data := encode(func(e *Encoder) {
		e.EncodeSequenceHeader(2)
		e.EncodeU8(1)
		e.EncodeU16(2)
	})

	d := mustDecoderBytes(t, data)
	err := d.DecodeSequence(func(seq *RemainingDecoder) error {
		first, _, err := seq.Next()
		require.NoError(t, err)
		_, err = first.DecodeU8()
		require.NoError(t, err)

		second, _, err := seq.Next()
		require.NoError(t, err)
		_, err = second.DecodeU32()

		return err
	})

	require.ErrorIs(t, err, errs.ErrTagMismatch)
	off, ok := errs.Offset(err)
	require.True(t, ok)
	require.Equal(t, 3, off)
	require.Contains(t, err.Error(), "expected u32")
}

func TestDecoder_TypedNumbersAreStrict(t *testing.T) {
	data := encode(func(e *Encoder) { e.EncodeU8(1) })

	_, err := mustDecoderBytes(t, data).DecodeU16()
	require.ErrorIs(t, err, errs.ErrTagMismatch)

	_, err = mustDecoderBytes(t, data).DecodeI8()
	require.ErrorIs(t, err, errs.ErrTagMismatch)

	_, err = mustDecoderBytes(t, data).DecodeBool()
	require.ErrorIs(t, err, errs.ErrTagMismatch)

	_, err = mustDecoderBytes(t, data).DecodeString()
	require.ErrorIs(t, err, errs.ErrTagMismatch)
}

func TestDecoder_MalformedScalars(t *testing.T) {
	t.Run("VarIntOverflow", func(t *testing.T) {
		// u8 tag with payload 256
		_, err := mustDecoderBytes(t, []byte{0x00, 0x80, 0x02}).DecodeU8()
		require.ErrorIs(t, err, errs.ErrVarIntOverflow)
	})

	t.Run("Surrogate", func(t *testing.T) {
		_, err := mustDecoderBytes(t, []byte{0x25, 0x80, 0xB0, 0x03}).DecodeChar()
		require.ErrorIs(t, err, errs.ErrMalformedScalar)
	})

	t.Run("BeyondUnicode", func(t *testing.T) {
		data := encoding.AppendUvarint([]byte{0x25}, 0x110000)
		_, err := mustDecoderBytes(t, data).DecodeChar()
		require.ErrorIs(t, err, errs.ErrMalformedScalar)
	})

	t.Run("InvalidUTF8", func(t *testing.T) {
		_, err := mustDecoderBytes(t, []byte{0xA2, 0xFF, 0xFE}).DecodeString()
		require.ErrorIs(t, err, errs.ErrInvalidUTF8)
	})

	t.Run("Truncated", func(t *testing.T) {
		_, err := mustDecoderBytes(t, []byte{0xA5, 'a'}).DecodeString()
		require.ErrorIs(t, err, errs.ErrUnexpectedEOF)

		_, err = mustDecoderBytes(t, nil).DecodeU8()
		require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
	})

	t.Run("UnsupportedKind", func(t *testing.T) {
		_, err := mustDecoderBytes(t, []byte{0xE0}).DecodeU8()
		require.ErrorIs(t, err, errs.ErrUnsupportedKind)

		err = mustDecoderBytes(t, []byte{0xC3}).DecodeAny(&recorder{})
		require.ErrorIs(t, err, errs.ErrUnsupportedKind)
	})

	t.Run("UnknownMark", func(t *testing.T) {
		err := mustDecoderBytes(t, []byte{0x27}).DecodeAny(&recorder{})
		require.ErrorIs(t, err, errs.ErrUnknownMark)
	})
}

func TestDecoder_ValueConsumed(t *testing.T) {
	d := mustDecoderBytes(t, []byte{0x00, 0x01, 0x00, 0x02})

	v, err := d.DecodeU8()
	require.NoError(t, err)
	require.Equal(t, uint8(1), v)
	require.True(t, d.Consumed())

	_, err = d.DecodeU8()
	require.ErrorIs(t, err, errs.ErrValueConsumed)
	require.ErrorIs(t, d.Skip(), errs.ErrValueConsumed)
}

func TestDecoder_Option(t *testing.T) {
	data := encode(func(e *Encoder) {
		e.EncodeSome()
		e.EncodeU16(9)
		e.EncodeNone()
		e.EncodeSome()
		e.EncodeSome()
		e.EncodeString("deep")
	})

	eachReader(t, data, func(t *testing.T, r wire.Reader) {
		some, err := mustDecoder(t, r).DecodeOption()
		require.NoError(t, err)
		require.NotNil(t, some)
		v, err := some.DecodeU16()
		require.NoError(t, err)
		require.Equal(t, uint16(9), v)

		none, err := mustDecoder(t, r).DecodeOption()
		require.NoError(t, err)
		require.Nil(t, none)

		outer, err := mustDecoder(t, r).DecodeOption()
		require.NoError(t, err)
		inner, err := outer.DecodeOption()
		require.NoError(t, err)
		s, err := inner.DecodeString()
		require.NoError(t, err)
		require.Equal(t, "deep", s)
	})
}

func TestDecoder_OptionLeftUndecodedInSequence(t *testing.T) {
	data := encode(func(e *Encoder) {
		e.EncodeSequenceHeader(2)
		e.EncodeSome()
		e.EncodeString("skipped")
		e.EncodeU8(3)
		e.EncodeU8(0xEE)
	})

	eachReader(t, data, func(t *testing.T, r wire.Reader) {
		var got uint8
		err := mustDecoder(t, r).DecodeSequence(func(seq *RemainingDecoder) error {
			d, _, err := seq.Next()
			require.NoError(t, err)
			some, err := d.DecodeOption()
			require.NoError(t, err)
			require.NotNil(t, some)

			d, _, err = seq.Next()
			require.NoError(t, err)
			got, err = d.DecodeU8()

			return err
		})
		require.NoError(t, err)
		require.Equal(t, uint8(3), got)
		requireSentinel(t, r)
	})
}

func TestDecoder_Array(t *testing.T) {
	data := encode(func(e *Encoder) { e.EncodeBytes([]byte{1, 2, 3, 4}) })

	var dst [4]byte
	require.NoError(t, mustDecoderBytes(t, data).DecodeArray(dst[:]))
	require.Equal(t, [4]byte{1, 2, 3, 4}, dst)

	var short [3]byte
	err := mustDecoderBytes(t, data).DecodeArray(short[:])
	require.ErrorIs(t, err, errs.ErrLengthMismatch)
	require.ErrorContains(t, err, "expected 3 bytes, found 4")

	t.Run("fewer bytes than the array", func(t *testing.T) {
		data := encode(func(e *Encoder) {
			e.EncodeBytes([]byte{1, 2, 3})
			e.EncodeU8(0xEE)
		})

		var dst [4]byte
		err := mustDecoderBytes(t, data).DecodeArray(dst[:])
		require.ErrorIs(t, err, errs.ErrLengthMismatch)
		require.ErrorContains(t, err, "expected 4 bytes, found 3")
		require.Equal(t, [4]byte{}, dst)
	})
}

func TestDecoder_BytesOwnership(t *testing.T) {
	data := encode(func(e *Encoder) { e.EncodeBytes([]byte("abc")) })

	var own wire.Ownership
	visit := wire.BytesFunc(func(b []byte, o wire.Ownership) error {
		own = o
		require.Equal(t, []byte("abc"), b)

		return nil
	})

	require.NoError(t, mustDecoderBytes(t, data).DecodeBytes(visit))
	require.Equal(t, wire.Borrowed, own)

	require.NoError(t, mustDecoder(t, wire.NewStreamReader(bytes.NewReader(data))).DecodeBytes(visit))
	require.Equal(t, wire.Ref, own)
}

func TestDecoder_Pack(t *testing.T) {
	le := endian.GetLittleEndianEngine()
	data := encode(func(e *Encoder) {
		e.EncodePack(le, func(p *plain.Encoder) {
			p.EncodeU32(7)
			p.EncodeU16(8)
			p.EncodeString("added later")
		})
		e.EncodeU8(0xEE)
	})

	eachReader(t, data, func(t *testing.T, r wire.Reader) {
		var got uint32
		err := mustDecoder(t, r).DecodePack(func(p *plain.Decoder) error {
			var err error
			got, err = p.DecodeU32()

			return err
		})
		require.NoError(t, err)
		require.Equal(t, uint32(7), got)
		requireSentinel(t, r)
	})

	t.Run("ReadPastPack", func(t *testing.T) {
		err := mustDecoderBytes(t, data).DecodePack(func(p *plain.Decoder) error {
			_, err := p.DecodeU32()
			require.NoError(t, err)
			_, err = p.DecodeU16()
			require.NoError(t, err)
			_, err = p.DecodeString()
			require.NoError(t, err)
			_, err = p.DecodeU8()

			return err
		})
		require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
	})

	t.Run("BigEndian", func(t *testing.T) {
		be := endian.GetBigEndianEngine()
		data := encode(func(e *Encoder) {
			e.EncodePack(be, func(p *plain.Encoder) { p.EncodeU16(0x0102) })
		})
		require.Equal(t, []byte{0x42, 0x01, 0x02}, data)

		var got uint16
		err := mustDecoderBytes(t, data).DecodePack(func(p *plain.Decoder) error {
			var err error
			got, err = p.DecodeU16()

			return err
		}, plain.WithDecoderEngine(be))
		require.NoError(t, err)
		require.Equal(t, uint16(0x0102), got)
	})
}

func TestDecoder_TypeHint(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want TypeHint
	}{
		{"Number", []byte{0x02, 0x01}, TypeHint{Kind: HintNumber, Number: 2, Size: -1}},
		{"Bool", []byte{0x21}, TypeHint{Kind: HintBool, Size: -1}},
		{"Unit", []byte{0x22}, TypeHint{Kind: HintUnit, Size: -1}},
		{"Option", []byte{0x24}, TypeHint{Kind: HintOption, Size: -1}},
		{"Char", []byte{0x25, 0x41}, TypeHint{Kind: HintChar, Size: -1}},
		{"Variant", []byte{0x26, 0x22, 0x22}, TypeHint{Kind: HintVariant, Size: -1}},
		{"InlineString", []byte{0xA1, 'a'}, TypeHint{Kind: HintString, Size: 1}},
		{"InlineSequence", []byte{0x60}, TypeHint{Kind: HintSequence, Size: 0}},
		{"VarIntMap", []byte{0x9F, 0x00}, TypeHint{Kind: HintMap, Size: -1}},
		{"Bytes", []byte{0x41, 0x00}, TypeHint{Kind: HintBytes, Size: 1}},
		{"UnknownMark", []byte{0x3F}, TypeHint{Kind: HintAny, Size: -1}},
		{"InvalidKind", []byte{0xE0}, TypeHint{Kind: HintAny, Size: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := mustDecoderBytes(t, tt.data)
			hint, err := d.TypeHint()
			require.NoError(t, err)
			require.Equal(t, tt.want, hint)
			require.Equal(t, 0, d.Offset(), "hint must not consume")
			require.False(t, d.Consumed())
		})
	}

	t.Run("empty input", func(t *testing.T) {
		d := mustDecoderBytes(t, nil)
		hint, err := d.TypeHint()
		require.NoError(t, err)
		require.Equal(t, TypeHint{Kind: HintAny, Size: -1}, hint)
		require.False(t, d.Consumed())

		require.ErrorIs(t, d.DecodeUnit(), errs.ErrUnexpectedEOF)
	})
}

func TestDecoder_DecodeAny(t *testing.T) {
	data := encode(func(e *Encoder) {
		e.EncodeMapHeader(2)
		e.EncodeString("list")
		e.EncodeSequenceHeader(3)
		e.EncodeI32(-5)
		e.EncodeBool(false)
		e.EncodeNone()
		e.EncodeString("shape")
		e.EncodeVariant()
		e.EncodeString("circle")
		e.EncodeSome()
		e.EncodeF64(1.5)
	})

	eachReader(t, data, func(t *testing.T, r wire.Reader) {
		rec := &recorder{}
		require.NoError(t, mustDecoder(t, r).DecodeAny(rec))
		require.Equal(t,
			"map(2) str:list seq(3) i32:-5 bool:false none str:shape variant str:circle some f64:1.5",
			rec.String())
	})
}

func TestDecoder_DecodeAnyUntypedNumber(t *testing.T) {
	rec := &recorder{}
	require.NoError(t, mustDecoderBytes(t, []byte{0x0C, 0x2A}).DecodeAny(rec))
	require.Equal(t, "num(12):42", rec.String())

	var n numberSink
	require.NoError(t, mustDecoderBytes(t, []byte{0x1F, 0x01}).DecodeNumber(&n))
	require.Equal(t, uint64(1), n.wide)
}

type numberSink struct {
	recorder
	wide uint64
}

func (n *numberSink) VisitAnyNumber(_ format.NumberKind, v encoding.Uint128) error {
	n.wide = v.Lo
	return nil
}

func TestDecoder_DecodeAnyLeavesNothingBehind(t *testing.T) {
	data := encode(func(e *Encoder) {
		e.EncodeSequenceHeader(2)
		e.EncodeMapHeader(1)
		e.EncodeString("k")
		e.EncodeSequenceHeader(1)
		e.EncodeChar('z')
		e.EncodeVariant()
		e.EncodeU8(1)
		e.EncodeSome()
		e.EncodeUnit()
		e.EncodeU8(0xEE)
	})

	eachReader(t, data, func(t *testing.T, r wire.Reader) {
		s := &shallow{}
		require.NoError(t, mustDecoder(t, r).DecodeAny(s))
		require.Equal(t, "seq(2)", s.String())
		requireSentinel(t, r)
	})
}

func TestDecoder_UnimplementedVisitor(t *testing.T) {
	err := mustDecoderBytes(t, []byte{0x22}).DecodeAny(UnimplementedVisitor{})
	require.ErrorIs(t, err, errs.ErrUnexpectedValue)
}

func TestDecoder_DepthLimit(t *testing.T) {
	nested := func(levels int) []byte {
		return encode(func(e *Encoder) {
			for range levels {
				e.EncodeSequenceHeader(1)
			}
			e.EncodeUnit()
		})
	}

	err := mustDecoderBytes(t, nested(3), wire.WithMaxDepth(3)).DecodeAny(&recorder{})
	require.NoError(t, err)

	err = mustDecoderBytes(t, nested(4), wire.WithMaxDepth(3)).DecodeAny(&recorder{})
	require.ErrorIs(t, err, errs.ErrDepthLimit)

	require.NoError(t, mustDecoderBytes(t, nested(4), wire.WithMaxDepth(3)).Skip())

	options := encode(func(e *Encoder) {
		for range 5 {
			e.EncodeSome()
		}
		e.EncodeUnit()
	})
	err = mustDecoderBytes(t, options, wire.WithMaxDepth(3)).DecodeAny(&recorder{})
	require.ErrorIs(t, err, errs.ErrDepthLimit)
}

func TestDecoder_LengthLimit(t *testing.T) {
	data := encode(func(e *Encoder) { e.EncodeBytes(make([]byte, 100)) })

	_, err := mustDecoderBytes(t, data, wire.WithMaxLength(99)).DecodeBytesOwned()
	require.ErrorIs(t, err, errs.ErrLengthLimit)
	require.ErrorIs(t, mustDecoderBytes(t, data, wire.WithMaxLength(99)).Skip(), errs.ErrLengthLimit)

	raw, err := mustDecoderBytes(t, data, wire.WithMaxLength(100)).DecodeBytesOwned()
	require.NoError(t, err)
	require.Len(t, raw, 100)

	// a huge declared length must fail fast instead of allocating
	huge := encoding.AppendUvarint([]byte{0x5F}, 1<<40)
	_, err = mustDecoderBytes(t, huge).DecodeBytesOwned()
	require.ErrorIs(t, err, errs.ErrLengthLimit)
}

func TestDecoder_End(t *testing.T) {
	d := mustDecoderBytes(t, []byte{0x22})
	require.NoError(t, d.DecodeUnit())
	require.NoError(t, d.End())

	d = mustDecoderBytes(t, []byte{0x22, 0x22})
	require.NoError(t, d.DecodeUnit())
	require.ErrorIs(t, d.End(), errs.ErrTrailingData)

	d = mustDecoderBytes(t, []byte{0x61, 0x22})
	require.NoError(t, d.End())
}

func TestDecoder_InvalidOptions(t *testing.T) {
	_, err := NewDecoder(wire.NewSliceReader(nil), wire.WithMaxDepth(0))
	require.Error(t, err)

	d := NewDecoderWithContext(wire.NewSliceReader([]byte{0x22}), nil)
	require.Same(t, wire.DefaultContext(), d.Context())
}
