//go:build !(gozstd && cgo)

package compress

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/arloliu/tagwire/format"
	"github.com/klauspost/compress/zstd"
)

// The klauspost decoder is designed to run allocation free after warmup, so
// encoders and decoders are pooled rather than created per call. Decoding
// streams through the decoder so a frame cannot inflate past its raw length.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}

		return decoder
	},
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}

		return encoder
	},
}

// Compress encodes data as a single Zstandard frame.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	encoder, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	return encoder.EncodeAll(data, nil), nil
}

// Decompress streams the frame into a buffer of rawLen bytes and fails if
// it inflates to any other size.
func (c ZstdCompressor) Decompress(data []byte, rawLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, checkSize(format.CompressionZstd, 0, rawLen)
	}

	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer func() {
		_ = decoder.Reset(nil)
		zstdDecoderPool.Put(decoder)
	}()

	if err := decoder.Reset(bytes.NewReader(data)); err != nil {
		return nil, corrupt(format.CompressionZstd, err)
	}

	return readExact(format.CompressionZstd, decoder, rawLen)
}
