package frame

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arloliu/tagwire/errs"
	"github.com/arloliu/tagwire/format"
	"github.com/arloliu/tagwire/internal/hash"
	"github.com/arloliu/tagwire/value"
	"github.com/arloliu/tagwire/wire"
	"github.com/stretchr/testify/require"
)

func samplePayload(t *testing.T) (value.Value, []byte) {
	t.Helper()

	v := value.Map(
		value.Entry{Key: value.String("name"), Value: value.String(strings.Repeat("sensor-", 40))},
		value.Entry{Key: value.String("readings"), Value: value.Seq(
			value.F64(1.5), value.F64(2.5), value.F64(1.5), value.F64(2.5),
		)},
		value.Entry{Key: value.String("owner"), Value: value.Some(value.U32(7))},
	)

	data, err := value.EncodeBytes(v)
	require.NoError(t, err)

	return v, data
}

func TestFrame_RoundTrip(t *testing.T) {
	want, payload := samplePayload(t)

	types := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}

	for _, ct := range types {
		for _, checksum := range []bool{true, false} {
			name := ct.String()
			if checksum {
				name += "/checksum"
			}

			t.Run(name, func(t *testing.T) {
				framed, err := Encode(payload, WithCompression(ct), WithChecksum(checksum))
				require.NoError(t, err)

				h, raw, err := Decode(framed)
				require.NoError(t, err)
				require.Equal(t, ct, h.Compression)
				require.Equal(t, checksum, h.HasChecksum())
				require.Equal(t, len(payload), h.RawLen)
				require.Equal(t, len(framed)-h.Size, h.BodyLen)
				require.Equal(t, payload, raw)

				d, _, err := NewDecoder(framed)
				require.NoError(t, err)
				got, err := value.Decode(d)
				require.NoError(t, err)
				require.True(t, value.Equal(want, got))
				require.NoError(t, d.End())
			})
		}
	}
}

func TestFrame_HeaderLayout(t *testing.T) {
	framed, err := Encode([]byte{0x22}, WithChecksum(false))
	require.NoError(t, err)
	require.Equal(t, []byte{0x54, 0x57, 0x01, 0x01, 0x00, 0x01, 0x22}, framed)

	framed, err = Encode([]byte{0x22})
	require.NoError(t, err)
	require.Len(t, framed, 6+8+1)
	require.Equal(t, uint8(FlagChecksum), framed[4])

	h, err := ParseHeader(framed, DefaultMaxRawLen)
	require.NoError(t, err)
	require.Equal(t, 14, h.Size)
	require.Equal(t, hash.ChecksumParts(framed[:6], []byte{0x22}), h.Checksum)
}

func TestFrame_Stats(t *testing.T) {
	payload := bytes.Repeat([]byte{0xa3, 'a', 'b', 'c'}, 1024)

	framed, err := Encode(payload, WithCompression(format.CompressionZstd))
	require.NoError(t, err)

	h, err := ParseHeader(framed, DefaultMaxRawLen)
	require.NoError(t, err)

	stats := h.Stats()
	require.Equal(t, format.CompressionZstd, stats.Algorithm)
	require.Equal(t, len(payload), stats.OriginalSize)
	require.Less(t, stats.Ratio(), 0.1)
	require.Greater(t, stats.SpaceSavings(), 90.0)
}

func TestFrame_ChecksumMismatch(t *testing.T) {
	_, payload := samplePayload(t)

	framed, err := Encode(payload)
	require.NoError(t, err)

	framed[len(framed)-1] ^= 0xFF
	_, _, err = Decode(framed)
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)
}

func TestFrame_CorruptBody(t *testing.T) {
	_, payload := samplePayload(t)

	framed, err := Encode(payload, WithCompression(format.CompressionS2), WithChecksum(false))
	require.NoError(t, err)

	_, _, err = Decode(framed[:len(framed)-4])
	require.ErrorIs(t, err, errs.ErrCorruptPayload)
}

func TestFrame_InvalidHeaders(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, errs.ErrInvalidFrameHeader},
		{"truncated", []byte{0x54, 0x57, 0x01}, errs.ErrInvalidFrameHeader},
		{"bad magic", []byte{0x54, 0x58, 0x01, 0x01, 0x00, 0x00}, errs.ErrInvalidFrameHeader},
		{"bad version", []byte{0x54, 0x57, 0x02, 0x01, 0x00, 0x00}, errs.ErrInvalidFrameHeader},
		{"reserved flag", []byte{0x54, 0x57, 0x01, 0x01, 0x02, 0x00}, errs.ErrInvalidFrameHeader},
		{"bad compression", []byte{0x54, 0x57, 0x01, 0x09, 0x00, 0x00}, errs.ErrInvalidCompression},
		{"missing raw length", []byte{0x54, 0x57, 0x01, 0x01, 0x00}, errs.ErrInvalidFrameHeader},
		{"truncated checksum", []byte{0x54, 0x57, 0x01, 0x01, 0x01, 0x00, 0x01, 0x02}, errs.ErrInvalidFrameHeader},
		{"body shorter than raw length", []byte{0x54, 0x57, 0x01, 0x01, 0x00, 0x02, 0x22}, errs.ErrCorruptPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.data)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFrame_MaxRawLen(t *testing.T) {
	framed, err := Encode(make([]byte, 100), WithCompression(format.CompressionLZ4))
	require.NoError(t, err)

	_, _, err = Decode(framed, WithMaxRawLen(99))
	require.ErrorIs(t, err, errs.ErrInvalidFrameHeader)

	_, _, err = Decode(framed, WithMaxRawLen(100))
	require.NoError(t, err)

	_, _, err = Decode(framed, WithMaxRawLen(0))
	require.Error(t, err)
}

func TestFrame_InvalidCompressionOption(t *testing.T) {
	_, err := Encode([]byte{0x22}, WithCompression(format.CompressionType(0)))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
}

func TestFrame_StreamAndContextOptions(t *testing.T) {
	var payload []byte
	for _, v := range []value.Value{value.U8(1), value.Seq(value.Seq(value.Unit())), value.String("x")} {
		data, err := value.EncodeBytes(v)
		require.NoError(t, err)
		payload = append(payload, data...)
	}

	framed, err := Encode(payload, WithCompression(format.CompressionLZ4))
	require.NoError(t, err)

	s, _, err := NewStream(framed)
	require.NoError(t, err)
	values, err := value.DecodeAll(s)
	require.NoError(t, err)
	require.Len(t, values, 3)

	s, _, err = NewStream(framed, WithContextOptions(wire.WithMaxDepth(1)))
	require.NoError(t, err)
	_, err = value.DecodeAll(s)
	require.ErrorIs(t, err, errs.ErrDepthLimit)
}
