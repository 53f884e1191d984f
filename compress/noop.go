package compress

import "github.com/arloliu/tagwire/format"

// NoOpCompressor stores payloads uncompressed.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates the pass-through codec.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data itself, without copying.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data itself after checking its size.
func (c NoOpCompressor) Decompress(data []byte, rawLen int) ([]byte, error) {
	if err := checkSize(format.CompressionNone, len(data), rawLen); err != nil {
		return nil, err
	}

	return data, nil
}
