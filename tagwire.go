// Package tagwire provides a compact self-describing binary format and the
// engine that decodes it.
//
// Every encoded value starts with a one-byte tag that names its kind
// (number, mark, bytes, sequence, map or string) and carries either a small
// length inline or the marker for a VarInt length that follows. Because the
// wire is self-describing, a decoder can skip any value it does not know
// without a schema, which is what lets producers and consumers evolve their
// field sets independently.
//
// # Core Features
//
//   - Typed decoding through callback-scoped cursors that drain what the
//     caller leaves behind
//   - Tolerant struct decoding: unknown trailing fields are skipped
//   - Strict tuples: arity mismatches always fail
//   - Iterative schema-less skipping, safe against arbitrarily deep input
//   - Untyped decoding into value.Value trees
//   - Optional frame envelope with xxHash64 checksum and Zstd, S2 or LZ4
//     compression
//
// # Basic Usage
//
// Encoding and decoding a struct:
//
//	e := tagwire.NewEncoder()
//	defer e.Release()
//	e.EncodeMapHeader(2)
//	e.EncodeString("name")
//	e.EncodeString("probe")
//	e.EncodeString("count")
//	e.EncodeU32(3)
//
//	d, _ := tagwire.NewDecoder(e.Bytes())
//	err := d.DecodeStruct(func(fields *descriptive.RemainingDecoder) error {
//	    for {
//	        key, ok, err := fields.EntryKey()
//	        if err != nil || !ok {
//	            return err
//	        }
//	        ...
//	    }
//	})
//
// Decoding anything:
//
//	v, _ := tagwire.DecodeValue(data)
//	fmt.Print(transcode.Diagnose(v))
//
// # Package Structure
//
// This package provides thin wrappers around the descriptive, value and frame
// packages for the most common use cases. Use those packages directly for
// fine-grained control.
package tagwire

import (
	"io"

	"github.com/arloliu/tagwire/descriptive"
	"github.com/arloliu/tagwire/frame"
	"github.com/arloliu/tagwire/value"
	"github.com/arloliu/tagwire/wire"
)

// NewDecoder creates a decoder for one value at the start of data.
//
// Bytes and strings decoded from the returned decoder alias data where the
// visitor API reports wire.Borrowed delivery.
//
// Parameters:
//   - data: encoded bytes
//   - opts: wire.WithLogger, wire.WithMaxDepth, wire.WithMaxLength
//
// Returns:
//   - *descriptive.Decoder: decoder positioned at the first tag
//   - error: invalid option
func NewDecoder(data []byte, opts ...wire.ContextOption) (*descriptive.Decoder, error) {
	return descriptive.NewDecoder(wire.NewSliceReader(data), opts...)
}

// NewStreamDecoder iterates over concatenated values read from r.
//
// Example:
//
//	s, _ := tagwire.NewStreamDecoder(conn)
//	for {
//	    d, ok, err := s.Next()
//	    if err != nil || !ok {
//	        break
//	    }
//	    v, err := value.Decode(d)
//	    ...
//	}
func NewStreamDecoder(r io.Reader, opts ...wire.ContextOption) (*descriptive.Stream, error) {
	return descriptive.NewStream(wire.NewStreamReader(r), opts...)
}

// NewEncoder returns an encoder backed by a pooled buffer. Call Release when
// the bytes are no longer needed.
func NewEncoder() *descriptive.Encoder {
	return descriptive.NewEncoder()
}

// DecodeValue decodes data, which must hold exactly one value, into an
// untyped tree.
func DecodeValue(data []byte, opts ...wire.ContextOption) (value.Value, error) {
	return value.DecodeBytes(data, opts...)
}

// EncodeValue encodes an untyped tree.
func EncodeValue(v value.Value) ([]byte, error) {
	return value.EncodeBytes(v)
}

// EncodeFramed encodes v and wraps it in a frame envelope.
//
// Example:
//
//	data, err := tagwire.EncodeFramed(v, frame.WithCompression(format.CompressionZstd))
func EncodeFramed(v value.Value, opts ...frame.Option) ([]byte, error) {
	payload, err := value.EncodeBytes(v)
	if err != nil {
		return nil, err
	}

	return frame.Encode(payload, opts...)
}

// DecodeFramed unwraps a frame holding exactly one value and decodes it.
func DecodeFramed(data []byte, opts ...frame.Option) (value.Value, error) {
	d, _, err := frame.NewDecoder(data, opts...)
	if err != nil {
		return value.Value{}, err
	}

	v, err := value.Decode(d)
	if err != nil {
		return value.Value{}, err
	}

	return v, d.End()
}
