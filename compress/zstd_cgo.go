//go:build gozstd && cgo

package compress

import (
	"bytes"

	"github.com/arloliu/tagwire/format"
	"github.com/valyala/gozstd"
)

// Compress encodes data as a single Zstandard frame.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress streams the frame into a buffer of rawLen bytes and fails if
// it inflates to any other size.
func (c ZstdCompressor) Decompress(data []byte, rawLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, checkSize(format.CompressionZstd, 0, rawLen)
	}

	zr := gozstd.NewReader(bytes.NewReader(data))
	defer zr.Release()

	return readExact(format.CompressionZstd, zr, rawLen)
}
