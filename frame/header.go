package frame

import (
	"fmt"

	"github.com/arloliu/tagwire/compress"
	"github.com/arloliu/tagwire/encoding"
	"github.com/arloliu/tagwire/endian"
	"github.com/arloliu/tagwire/errs"
	"github.com/arloliu/tagwire/format"
	"github.com/arloliu/tagwire/wire"
)

const (
	Magic0  = 0x54 // 'T'
	Magic1  = 0x57 // 'W'
	Version = 1

	// FlagChecksum marks a frame carrying an xxHash64 of the raw payload.
	FlagChecksum = 0x01
	// FlagReservedMask covers the flag bits this version does not define.
	FlagReservedMask = 0xFE

	fixedHeaderSize = 5
	checksumSize    = 8
)

// Header describes a frame envelope.
type Header struct {
	Version     uint8
	Compression format.CompressionType
	Flags       uint8
	// RawLen is the payload size before compression.
	RawLen int
	// Checksum is the xxHash64 of the raw payload. Only meaningful when
	// HasChecksum reports true.
	Checksum uint64
	// Size is the encoded header length; the body starts at this offset.
	Size int
	// BodyLen is the stored (possibly compressed) body length.
	BodyLen int

	prefixLen int
}

// HasChecksum reports whether the frame carries a payload checksum.
func (h Header) HasChecksum() bool {
	return h.Flags&FlagChecksum != 0
}

// Stats returns the compression statistics of the frame body.
func (h Header) Stats() compress.Stats {
	return compress.Stats{
		Algorithm:      h.Compression,
		OriginalSize:   h.RawLen,
		CompressedSize: h.BodyLen,
	}
}

// AppendTo appends the encoded header to dst.
func (h Header) AppendTo(dst []byte) []byte {
	dst = h.appendPrefix(dst)
	if h.HasChecksum() {
		dst = endian.GetLittleEndianEngine().AppendUint64(dst, h.Checksum)
	}

	return dst
}

// appendPrefix appends the checksummed part of the header, everything before
// the checksum itself.
func (h Header) appendPrefix(dst []byte) []byte {
	dst = append(dst, Magic0, Magic1, h.Version, uint8(h.Compression), h.Flags)

	return encoding.AppendUvarint(dst, uint64(h.RawLen)) //nolint:gosec
}

// ParseHeader parses the header at the start of data. The returned header's
// Size is the offset of the body and BodyLen covers the rest of data.
//
// Parameters:
//   - data: complete frame bytes
//   - maxRawLen: upper bound accepted for RawLen
//
// Returns:
//   - Header: parsed header
//   - error: ErrInvalidFrameHeader or ErrInvalidCompression
func ParseHeader(data []byte, maxRawLen int) (Header, error) {
	r := wire.NewSliceReader(data)

	var fixed [fixedHeaderSize]byte
	if err := r.ReadFull(fixed[:]); err != nil {
		return Header{}, fmt.Errorf("%w: truncated header", errs.ErrInvalidFrameHeader)
	}
	if fixed[0] != Magic0 || fixed[1] != Magic1 {
		return Header{}, fmt.Errorf("%w: bad magic %#02x%02x", errs.ErrInvalidFrameHeader, fixed[0], fixed[1])
	}

	h := Header{
		Version:     fixed[2],
		Compression: format.CompressionType(fixed[3]),
		Flags:       fixed[4],
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: unsupported version %d", errs.ErrInvalidFrameHeader, h.Version)
	}
	if h.Flags&FlagReservedMask != 0 {
		return Header{}, fmt.Errorf("%w: reserved flags %#02x", errs.ErrInvalidFrameHeader, h.Flags)
	}
	if _, err := compress.GetCodec(h.Compression); err != nil {
		return Header{}, err
	}

	rawLen, err := encoding.ReadUvarint(r, 64)
	if err != nil {
		return Header{}, fmt.Errorf("%w: raw length: %w", errs.ErrInvalidFrameHeader, err)
	}
	if rawLen > uint64(maxRawLen) { //nolint:gosec
		return Header{}, fmt.Errorf("%w: raw length %d exceeds limit %d", errs.ErrInvalidFrameHeader, rawLen, maxRawLen)
	}
	h.RawLen = int(rawLen) //nolint:gosec
	h.prefixLen = r.Offset()

	if h.HasChecksum() {
		var sum [checksumSize]byte
		if err := r.ReadFull(sum[:]); err != nil {
			return Header{}, fmt.Errorf("%w: truncated checksum", errs.ErrInvalidFrameHeader)
		}
		h.Checksum = endian.GetLittleEndianEngine().Uint64(sum[:])
	}

	h.Size = r.Offset()
	h.BodyLen = len(data) - h.Size

	return h, nil
}
