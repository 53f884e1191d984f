package encoding

import (
	"math/big"
	"math/bits"
)

// Uint128 is an unsigned 128-bit integer split into two 64-bit words.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

// Int128 is a signed 128-bit integer in two's complement, split into two words.
type Int128 struct {
	Hi int64
	Lo uint64
}

// Uint128From64 widens v to 128 bits.
func Uint128From64(v uint64) Uint128 {
	return Uint128{Lo: v}
}

// Int128From64 sign-extends v to 128 bits.
func Int128From64(v int64) Int128 {
	return Int128{Hi: v >> 63, Lo: uint64(v)} //nolint:gosec
}

// IsUint64 reports whether u fits into 64 bits.
func (u Uint128) IsUint64() bool {
	return u.Hi == 0
}

// BitLen returns the number of bits required to represent u.
func (u Uint128) BitLen() int {
	if u.Hi != 0 {
		return 64 + bits.Len64(u.Hi)
	}

	return bits.Len64(u.Lo)
}

// Big returns u as a big.Int.
func (u Uint128) Big() *big.Int {
	b := new(big.Int).SetUint64(u.Hi)
	b.Lsh(b, 64)

	return b.Or(b, new(big.Int).SetUint64(u.Lo))
}

func (u Uint128) String() string {
	if u.Hi == 0 {
		return new(big.Int).SetUint64(u.Lo).String()
	}

	return u.Big().String()
}

// IsInt64 reports whether i fits into 64 bits.
func (i Int128) IsInt64() bool {
	return i.Hi == int64(i.Lo)>>63 //nolint:gosec
}

// Big returns i as a big.Int.
func (i Int128) Big() *big.Int {
	u := Uint128{Hi: uint64(i.Hi), Lo: i.Lo} //nolint:gosec
	b := u.Big()
	if i.Hi < 0 {
		// subtract 2^128
		b.Sub(b, new(big.Int).Lsh(big.NewInt(1), 128))
	}

	return b
}

func (i Int128) String() string {
	return i.Big().String()
}

// ZigZag64 maps signed integers to unsigned so small magnitudes stay small.
func ZigZag64(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63) //nolint:gosec
}

// UnZigZag64 reverses ZigZag64.
func UnZigZag64(v uint64) int64 {
	return int64((v >> 1) ^ -(v & 1)) //nolint:gosec
}

// ZigZag128 is the 128-bit counterpart of ZigZag64.
func ZigZag128(v Int128) Uint128 {
	sign := uint64(v.Hi >> 63) //nolint:gosec
	hi := uint64(v.Hi)<<1 | v.Lo>>63 //nolint:gosec
	lo := v.Lo << 1

	return Uint128{Hi: hi ^ sign, Lo: lo ^ sign}
}

// UnZigZag128 reverses ZigZag128.
func UnZigZag128(u Uint128) Int128 {
	mask := -(u.Lo & 1)
	lo := u.Lo>>1 | u.Hi<<63
	hi := u.Hi >> 1

	return Int128{Hi: int64(hi ^ mask), Lo: lo ^ mask} //nolint:gosec
}
