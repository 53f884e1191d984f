package encoding

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/tagwire/errs"
)

// MaxVarintLen128 is the maximum encoded length of a 128-bit VarInt.
const MaxVarintLen128 = 19

// AppendUvarint appends v as a VarInt: 7-bit groups, least significant group
// first, with the high bit of every byte but the last set.
func AppendUvarint(dst []byte, v uint64) []byte {
	return binary.AppendUvarint(dst, v)
}

// AppendUvarint128 appends a 128-bit VarInt.
func AppendUvarint128(dst []byte, v Uint128) []byte {
	if v.Hi == 0 {
		return binary.AppendUvarint(dst, v.Lo)
	}

	for v.Hi != 0 || v.Lo >= 0x80 {
		dst = append(dst, byte(v.Lo)|0x80)
		v.Lo = v.Lo>>7 | v.Hi<<57
		v.Hi >>= 7
	}

	return append(dst, byte(v.Lo))
}

// UvarintLen returns the number of bytes required to encode v.
func UvarintLen(n uint64) int {
	if n < 1<<7 {
		return 1
	}
	if n < 1<<14 {
		return 2
	}
	if n < 1<<21 {
		return 3
	}
	if n < 1<<28 {
		return 4
	}
	if n < 1<<35 {
		return 5
	}
	if n < 1<<42 {
		return 6
	}
	if n < 1<<49 {
		return 7
	}
	if n < 1<<56 {
		return 8
	}
	if n < 1<<63 {
		return 9
	}

	return 10
}

// ReadUvarint reads a VarInt that must fit into width bits (1-64).
//
// The read fails with ErrVarIntOverflow when the encoded value needs more than
// width bits, and with ErrUnexpectedEOF when the input ends mid-value.
//
// Parameters:
//   - r: Source of bytes
//   - width: Target width in bits, e.g. 8, 16, 32 or 64
//
// Returns:
//   - uint64: Decoded value
//   - error: ErrVarIntOverflow, ErrUnexpectedEOF or an underlying reader error
func ReadUvarint(r io.ByteReader, width int) (uint64, error) {
	var value uint64
	for shift := 0; ; shift += 7 {
		b, err := r.ReadByte()
		if err != nil {
			return 0, eofIsUnexpected(err)
		}

		chunk := uint64(b & 0x7f)
		if shift >= width || (width-shift < 7 && chunk>>(width-shift) != 0) {
			return 0, fmt.Errorf("%w: more than %d bits", errs.ErrVarIntOverflow, width)
		}
		value |= chunk << shift

		if b < 0x80 {
			return value, nil
		}
	}
}

// ReadUvarint128 reads a VarInt of up to 128 bits.
func ReadUvarint128(r io.ByteReader) (Uint128, error) {
	var v Uint128
	for shift := 0; ; shift += 7 {
		b, err := r.ReadByte()
		if err != nil {
			return Uint128{}, eofIsUnexpected(err)
		}

		chunk := uint64(b & 0x7f)
		if shift >= 128 || (128-shift < 7 && chunk>>(128-shift) != 0) {
			return Uint128{}, fmt.Errorf("%w: more than 128 bits", errs.ErrVarIntOverflow)
		}

		switch {
		case shift+7 <= 64:
			v.Lo |= chunk << shift
		case shift >= 64:
			v.Hi |= chunk << (shift - 64)
		default:
			// group straddles the word boundary
			v.Lo |= chunk << shift
			v.Hi |= chunk >> (64 - shift)
		}

		if b < 0x80 {
			return v, nil
		}
	}
}

// SkipUvarint discards one VarInt of any length without interpreting it.
func SkipUvarint(r io.ByteReader) error {
	for range MaxVarintLen128 {
		b, err := r.ReadByte()
		if err != nil {
			return eofIsUnexpected(err)
		}
		if b < 0x80 {
			return nil
		}
	}

	return fmt.Errorf("%w: more than %d bytes", errs.ErrVarIntOverflow, MaxVarintLen128)
}

func eofIsUnexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return errs.ErrUnexpectedEOF
	}

	return err
}
