package descriptive

import (
	"bytes"
	"math"
	"testing"

	"github.com/arloliu/tagwire/encoding"
	"github.com/arloliu/tagwire/errs"
	"github.com/arloliu/tagwire/wire"
	"github.com/stretchr/testify/require"
)

func TestSkip_EveryShape(t *testing.T) {
	values := map[string]func(e *Encoder){
		"U8":       func(e *Encoder) { e.EncodeU8(200) },
		"U128":     func(e *Encoder) { e.EncodeU128(encoding.Uint128{Hi: 3, Lo: 4}) },
		"I64":      func(e *Encoder) { e.EncodeI64(-1 << 40) },
		"F64":      func(e *Encoder) { e.EncodeF64(3.25) },
		"Untyped":  func(e *Encoder) { e.EncodeNumber(20, encoding.Uint128From64(1<<60)) },
		"Bool":     func(e *Encoder) { e.EncodeBool(false) },
		"Unit":     func(e *Encoder) { e.EncodeUnit() },
		"Char":     func(e *Encoder) { e.EncodeChar('\U0001F600') },
		"None":     func(e *Encoder) { e.EncodeNone() },
		"Some":     func(e *Encoder) { e.EncodeSome(); e.EncodeString("x") },
		"Bytes":    func(e *Encoder) { e.EncodeBytes(make([]byte, 300)) },
		"String":   func(e *Encoder) { e.EncodeString("hello") },
		"Empty":    func(e *Encoder) { e.EncodeSequenceHeader(0) },
		"Sequence": func(e *Encoder) { e.EncodeSequenceHeader(2); e.EncodeU8(1); e.EncodeUnit() },
		"Map":      encodePersonV2,
		"Variant":  encodeShape,
		"LongSequence": func(e *Encoder) {
			e.EncodeSequenceHeader(1000)
			for i := range 1000 {
				e.EncodeU32(uint32(i))
			}
		},
	}

	for name, fn := range values {
		t.Run(name, func(t *testing.T) {
			data := encode(func(e *Encoder) {
				fn(e)
				e.EncodeU8(0xEE)
			})

			eachReader(t, data, func(t *testing.T, r wire.Reader) {
				require.NoError(t, mustDecoder(t, r).Skip())
				requireSentinel(t, r)
			})
		})
	}
}

func TestSkip_DeepNestingUsesNoRecursion(t *testing.T) {
	const depth = 200_000

	var buf bytes.Buffer
	for range depth {
		buf.WriteByte(0x61) // sequence of one
	}
	buf.WriteByte(0x22) // unit
	buf.WriteByte(0x00) // u8 sentinel
	buf.WriteByte(0xEE)

	eachReader(t, buf.Bytes(), func(t *testing.T, r wire.Reader) {
		require.NoError(t, mustDecoder(t, r).Skip())
		requireSentinel(t, r)
	})

	err := mustDecoderBytes(t, buf.Bytes()).DecodeAny(&recorder{})
	require.ErrorIs(t, err, errs.ErrDepthLimit)
}

func TestSkip_DeepMapsAndVariants(t *testing.T) {
	data := encode(func(e *Encoder) {
		for range 10_000 {
			e.EncodeMapHeader(1)
			e.EncodeVariant()
			e.EncodeUnit()
		}
		// payload of the innermost variant
		for range 10_000 {
			e.EncodeSome()
		}
		e.EncodeNone()
		// one value per map
		for range 10_000 {
			e.EncodeUnit()
		}
		e.EncodeU8(0xEE)
	})

	r := wire.NewSliceReader(data)
	require.NoError(t, mustDecoder(t, r).Skip())
	requireSentinel(t, r)
}

func TestSkip_UnknownMarkHasNoPayload(t *testing.T) {
	r := wire.NewSliceReader([]byte{0x61, 0x3E, 0x00, 0xEE})
	require.NoError(t, mustDecoder(t, r).Skip())
	requireSentinel(t, r)
}

func TestSkip_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"Empty", nil, errs.ErrUnexpectedEOF},
		{"TruncatedSequence", []byte{0x62, 0x22}, errs.ErrUnexpectedEOF},
		{"TruncatedVarInt", []byte{0x03, 0x80}, errs.ErrUnexpectedEOF},
		{"TruncatedBytes", []byte{0x45, 1, 2}, errs.ErrUnexpectedEOF},
		{"TruncatedVariant", []byte{0x26, 0x22}, errs.ErrUnexpectedEOF},
		{"InvalidKind", []byte{0x61, 0xC0}, errs.ErrUnsupportedKind},
		{"OverlongVarInt", bytes.Repeat([]byte{0x80}, 25), errs.ErrVarIntOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mustDecoderBytes(t, tt.data).Skip()
			require.ErrorIs(t, err, tt.want)
		})
	}

	// the error names the offset of the offending tag
	err := mustDecoderBytes(t, []byte{0x62, 0x22, 0xE1}).Skip()
	require.ErrorIs(t, err, errs.ErrUnsupportedKind)
	off, ok := errs.Offset(err)
	require.True(t, ok)
	require.Equal(t, 2, off)
}

func TestSkip_HugeCountsFail(t *testing.T) {
	limit := wire.WithMaxLength(wire.MaxLengthLimit)

	_, err := wire.NewContext(wire.WithMaxLength(math.MaxInt))
	require.Error(t, err)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{
			name: "MapCountOverLimit",
			data: encode(func(e *Encoder) {
				e.EncodeMapHeader(wire.MaxLengthLimit + 1)
				e.EncodeUnit()
			}),
			want: errs.ErrLengthLimit,
		},
		{
			name: "NestedMaximalMaps",
			data: encode(func(e *Encoder) {
				e.EncodeMapHeader(wire.MaxLengthLimit)
				e.EncodeMapHeader(wire.MaxLengthLimit)
				e.EncodeUnit()
			}),
			want: errs.ErrLengthLimit,
		},
		{
			name: "MaximalSequenceTruncated",
			data: encode(func(e *Encoder) {
				e.EncodeSequenceHeader(wire.MaxLengthLimit)
				e.EncodeUnit()
			}),
			want: errs.ErrUnexpectedEOF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mustDecoderBytes(t, tt.data, limit).Skip()
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStream_Next(t *testing.T) {
	data := encode(func(e *Encoder) {
		encodePersonV2(e)
		e.EncodeString("second")
		e.EncodeU8(3)
	})

	eachReader(t, data, func(t *testing.T, r wire.Reader) {
		s, err := NewStream(r)
		require.NoError(t, err)

		_, ok, err := s.Next()
		require.NoError(t, err)
		require.True(t, ok)

		d, ok, err := s.Next()
		require.NoError(t, err)
		require.True(t, ok)
		v, err := d.DecodeString()
		require.NoError(t, err)
		require.Equal(t, "second", v)

		d, ok, err = s.Next()
		require.NoError(t, err)
		require.True(t, ok)
		n, err := d.DecodeU8()
		require.NoError(t, err)
		require.Equal(t, uint8(3), n)

		_, ok, err = s.Next()
		require.NoError(t, err)
		require.False(t, ok)
		require.Equal(t, 3, s.Count())
	})

	t.Run("TruncatedValue", func(t *testing.T) {
		s, err := NewStream(wire.NewSliceReader([]byte{0x62, 0x22}))
		require.NoError(t, err)
		_, ok, err := s.Next()
		require.NoError(t, err)
		require.True(t, ok)

		_, _, err = s.Next()
		require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
	})

	t.Run("InvalidOption", func(t *testing.T) {
		_, err := NewStream(wire.NewSliceReader(nil), wire.WithMaxLength(-1))
		require.Error(t, err)
	})
}
