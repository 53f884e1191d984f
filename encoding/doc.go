// Package encoding provides the variable-length integer codec shared by the
// descriptive and plain formats.
//
// A VarInt stores an unsigned integer in 7-bit groups, least significant
// group first. Every byte except the last has its high bit set:
//
//	300 -> 0xAC 0x02
//
// Readers decode into a declared width (8 to 128 bits). A value that needs
// more bits than the width, or an encoding longer than the width allows,
// fails with errs.ErrVarIntOverflow rather than being truncated.
//
// Signed integers are zigzag mapped before encoding so small magnitudes of
// either sign stay short:
//
//	 0 -> 0, -1 -> 1, 1 -> 2, -2 -> 3, ...
//
// Uint128 and Int128 carry 128-bit payloads as two 64-bit words.
package encoding
