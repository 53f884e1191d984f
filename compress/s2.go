package compress

import (
	"github.com/arloliu/tagwire/format"
	"github.com/klauspost/compress/s2"
)

// S2Compressor provides S2 block compression, a faster Snappy-compatible
// variant with a moderate ratio. Blocks record their decoded length.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates an S2 codec.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress encodes data as a single S2 block. Empty input stays empty.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress checks the length stored in the S2 block before allocating.
func (c S2Compressor) Decompress(data []byte, rawLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, checkSize(format.CompressionS2, 0, rawLen)
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, corrupt(format.CompressionS2, err)
	}
	if err := checkSize(format.CompressionS2, n, rawLen); err != nil {
		return nil, err
	}

	out, err := s2.Decode(make([]byte, rawLen), data)
	if err != nil {
		return nil, corrupt(format.CompressionS2, err)
	}

	return out, nil
}
