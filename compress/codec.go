// Package compress provides the block codecs used by frame envelopes.
//
// Every codec compresses a complete payload in one call. Decompression takes
// the expected raw size recorded in the frame header, so output buffers are
// allocated once at the right size and a payload that inflates to anything
// else is rejected as corrupt.
//
// Available codecs:
//   - None: payload stored as-is
//   - Zstd: best ratio, for archived or network-bound payloads
//   - S2: fast, moderate ratio
//   - LZ4: fastest decompression
//
// Zstd uses the pure Go klauspost/compress implementation. Building with the
// gozstd tag and cgo enabled switches it to the libzstd binding instead.
//
// All codecs are safe for concurrent use.
package compress

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/tagwire/errs"
	"github.com/arloliu/tagwire/format"
)

// Compressor compresses a complete payload.
type Compressor interface {
	// Compress returns the compressed form of data. The input is not modified;
	// the result may alias it for codecs that do not transform the data.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload of a known size.
type Decompressor interface {
	// Decompress inflates data, which must expand to exactly rawLen bytes.
	Decompress(data []byte, rawLen int) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// Stats describes the effect of compressing one payload.
type Stats struct {
	Algorithm      format.CompressionType
	OriginalSize   int
	CompressedSize int
}

// Ratio returns compressed size / original size, or 0 for an empty payload.
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the saved space as a percentage.
func (s Stats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0
	}

	return (1 - s.Ratio()) * 100
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the shared codec for a compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %d", errs.ErrInvalidCompression, uint8(compressionType))
}

func checkSize(codec format.CompressionType, got, want int) error {
	if got != want {
		return fmt.Errorf("%w: %s payload inflated to %d bytes, expected %d", errs.ErrCorruptPayload, codec, got, want)
	}

	return nil
}

func corrupt(codec format.CompressionType, err error) error {
	return fmt.Errorf("%w: %s: %w", errs.ErrCorruptPayload, codec, err)
}

// readExact reads exactly rawLen bytes from a streaming decoder and then
// requires the stream to end. At most rawLen bytes are ever buffered, however
// far the input would inflate.
func readExact(codec format.CompressionType, r io.Reader, rawLen int) ([]byte, error) {
	out := make([]byte, rawLen)
	n, err := io.ReadFull(r, out)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, checkSize(codec, n, rawLen)
	}
	if err != nil {
		return nil, corrupt(codec, err)
	}

	var extra [1]byte
	_, err = io.ReadFull(r, extra[:])
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s payload inflates past %d bytes", errs.ErrCorruptPayload, codec, rawLen)
	case errors.Is(err, io.EOF):
		return out, nil
	default:
		return nil, corrupt(codec, err)
	}
}
