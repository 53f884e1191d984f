// Package frame wraps descriptive payloads in a small envelope that records
// the payload size, an optional xxHash64 checksum and the compression codec
// applied to the body.
//
// Layout:
//
//	magic(2) | version(1) | compression(1) | flags(1) | rawLen uvarint | [xxhash64 LE] | body
//
// The checksum covers the header fields before it and the raw (uncompressed)
// payload, so it detects transport corruption and codec failures alike.
package frame

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/tagwire/compress"
	"github.com/arloliu/tagwire/descriptive"
	"github.com/arloliu/tagwire/errs"
	"github.com/arloliu/tagwire/format"
	"github.com/arloliu/tagwire/internal/hash"
	"github.com/arloliu/tagwire/internal/options"
	"github.com/arloliu/tagwire/wire"
)

// DefaultMaxRawLen bounds the payload size a frame may declare.
const DefaultMaxRawLen = 256 << 20

type config struct {
	compression format.CompressionType
	checksum    bool
	maxRawLen   int
	contextOpts []wire.ContextOption
}

// Option configures Encode, Decode and NewDecoder.
type Option = options.Option[*config]

// WithCompression selects the body codec. The default is no compression.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *config) error {
		if _, err := compress.GetCodec(ct); err != nil {
			return err
		}
		c.compression = ct

		return nil
	})
}

// WithChecksum enables or disables the payload checksum. Enabled by default.
func WithChecksum(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.checksum = enabled
	})
}

// WithMaxRawLen bounds the raw payload size accepted by Decode.
func WithMaxRawLen(n int) Option {
	return options.New(func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("max raw length must be positive, got %d", n)
		}
		c.maxRawLen = n

		return nil
	})
}

// WithContextOptions passes decoder options to NewDecoder.
func WithContextOptions(opts ...wire.ContextOption) Option {
	return options.NoError(func(c *config) {
		c.contextOpts = append(c.contextOpts, opts...)
	})
}

func newConfig(opts []Option) (*config, error) {
	c := &config{
		compression: format.CompressionNone,
		checksum:    true,
		maxRawLen:   DefaultMaxRawLen,
	}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// Encode wraps payload in a frame.
//
// Parameters:
//   - payload: encoded descriptive value(s)
//   - opts: WithCompression, WithChecksum
//
// Returns:
//   - []byte: the frame, independent of payload
//   - error: invalid option or codec failure
func Encode(payload []byte, opts ...Option) ([]byte, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(c.compression)
	if err != nil {
		return nil, err
	}

	body, err := codec.Compress(payload)
	if err != nil {
		return nil, fmt.Errorf("compress %s: %w", c.compression, err)
	}

	h := Header{
		Version:     Version,
		Compression: c.compression,
		RawLen:      len(payload),
	}
	out := make([]byte, 0, fixedHeaderSize+binary.MaxVarintLen64+checksumSize+len(body))
	if c.checksum {
		h.Flags |= FlagChecksum
		h.Checksum = hash.ChecksumParts(h.appendPrefix(out), payload)
	}
	out = h.AppendTo(out)
	out = append(out, body...)

	return out, nil
}

// Decode unwraps a frame and returns its header and raw payload. For
// uncompressed frames the payload aliases data.
func Decode(data []byte, opts ...Option) (Header, []byte, error) {
	c, err := newConfig(opts)
	if err != nil {
		return Header{}, nil, err
	}

	return decode(data, c)
}

func decode(data []byte, c *config) (Header, []byte, error) {
	h, err := ParseHeader(data, c.maxRawLen)
	if err != nil {
		return Header{}, nil, err
	}

	codec, err := compress.GetCodec(h.Compression)
	if err != nil {
		return Header{}, nil, err
	}

	payload, err := codec.Decompress(data[h.Size:], h.RawLen)
	if err != nil {
		return Header{}, nil, err
	}

	if h.HasChecksum() {
		if sum := hash.ChecksumParts(data[:h.prefixLen], payload); sum != h.Checksum {
			return Header{}, nil, fmt.Errorf("%w: stored %016x, computed %016x", errs.ErrChecksumMismatch, h.Checksum, sum)
		}
	}

	return h, payload, nil
}

// NewDecoder unwraps a frame and returns a decoder positioned at the first
// value of its payload.
func NewDecoder(data []byte, opts ...Option) (*descriptive.Decoder, Header, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, Header{}, err
	}

	h, payload, err := decode(data, c)
	if err != nil {
		return nil, Header{}, err
	}

	d, err := descriptive.NewDecoder(wire.NewSliceReader(payload), c.contextOpts...)
	if err != nil {
		return nil, Header{}, err
	}

	return d, h, nil
}

// NewStream unwraps a frame and iterates over the concatenated values of its
// payload.
func NewStream(data []byte, opts ...Option) (*descriptive.Stream, Header, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, Header{}, err
	}

	h, payload, err := decode(data, c)
	if err != nil {
		return nil, Header{}, err
	}

	s, err := descriptive.NewStream(wire.NewSliceReader(payload), c.contextOpts...)
	if err != nil {
		return nil, Header{}, err
	}

	return s, h, nil
}
