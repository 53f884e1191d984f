// Package value provides an untyped tree representation of tagwire data.
//
// A Value can hold anything the self-describing format can express, which
// makes it the natural target for schema-less decoding: inspecting unknown
// payloads, converting them to other formats, or comparing two payloads
// structurally.
package value

import (
	"bytes"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/arloliu/tagwire/encoding"
	"github.com/arloliu/tagwire/format"
)

// Kind identifies the shape held by a Value.
type Kind uint8

const (
	KindUnit Kind = iota
	KindBool
	KindChar
	KindNumber
	KindBytes
	KindString
	KindOption
	KindSequence
	KindMap
	KindVariant
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindNumber:
		return "number"
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindOption:
		return "option"
	case KindSequence:
		return "sequence"
	case KindMap:
		return "map"
	case KindVariant:
		return "variant"
	default:
		return "unknown"
	}
}

// Number is a numeric value together with its wire sub-kind.
//
// Bits holds the payload as it travels on the wire: zigzag encoded for
// signed kinds and the IEEE-754 bit pattern for floats.
type Number struct {
	Kind format.NumberKind
	Bits encoding.Uint128
}

// Entry is one key/value pair of a map.
type Entry struct {
	Key   Value
	Value Value
}

// Value is a decoded tagwire value.
//
// Only the fields matching Kind are meaningful. Options hold zero or one
// element in Items; variants hold exactly two, the discriminant and the
// payload.
type Value struct {
	Kind    Kind
	Bool    bool
	Char    rune
	Number  Number
	Bytes   []byte
	Str     string
	Items   []Value
	Entries []Entry
}

// Unit builds the unit value. The constructors below it build the other
// scalar and container kinds.
func Unit() Value              { return Value{Kind: KindUnit} }
func Bool(v bool) Value        { return Value{Kind: KindBool, Bool: v} }
func Char(v rune) Value        { return Value{Kind: KindChar, Char: v} }
func String(s string) Value    { return Value{Kind: KindString, Str: s} }
func Bytes(b []byte) Value     { return Value{Kind: KindBytes, Bytes: b} }
func None() Value              { return Value{Kind: KindOption} }
func Some(v Value) Value       { return Value{Kind: KindOption, Items: []Value{v}} }
func Seq(items ...Value) Value { return Value{Kind: KindSequence, Items: items} }
// Map builds a map from entries in order.
func Map(entries ...Entry) Value {
	return Value{Kind: KindMap, Entries: entries}
}

// Variant builds a tagged union value.
func Variant(tag, payload Value) Value {
	return Value{Kind: KindVariant, Items: []Value{tag, payload}}
}

// NumberOf builds a number from a raw wire payload.
func NumberOf(kind format.NumberKind, bits encoding.Uint128) Value {
	return Value{Kind: KindNumber, Number: Number{Kind: kind, Bits: bits}}
}

// U8 builds a u8 number. The constructors below it cover the other
// fixed widths.
func U8(v uint8) Value   { return Uint(format.NumberU8, uint64(v)) }
func U16(v uint16) Value { return Uint(format.NumberU16, uint64(v)) }
func U32(v uint32) Value { return Uint(format.NumberU32, uint64(v)) }
func U64(v uint64) Value { return Uint(format.NumberU64, v) }
func I8(v int8) Value    { return Int(format.NumberI8, int64(v)) }
func I16(v int16) Value  { return Int(format.NumberI16, int64(v)) }
func I32(v int32) Value  { return Int(format.NumberI32, int64(v)) }
func I64(v int64) Value  { return Int(format.NumberI64, v) }

// U128 builds a u128 number.
func U128(v encoding.Uint128) Value {
	return NumberOf(format.NumberU128, v)
}

// I128 builds an i128 number.
func I128(v encoding.Int128) Value {
	return NumberOf(format.NumberI128, encoding.ZigZag128(v))
}

// F32 builds an f32 number.
func F32(v float32) Value {
	return NumberOf(format.NumberF32, encoding.Uint128From64(uint64(math.Float32bits(v))))
}

// F64 builds an f64 number.
func F64(v float64) Value {
	return NumberOf(format.NumberF64, encoding.Uint128From64(math.Float64bits(v)))
}

// Uint builds an unsigned number of the given kind.
func Uint(kind format.NumberKind, v uint64) Value {
	return NumberOf(kind, encoding.Uint128From64(v))
}

// Int builds a signed number of the given kind.
func Int(kind format.NumberKind, v int64) Value {
	return NumberOf(kind, encoding.Uint128From64(encoding.ZigZag64(v)))
}

// IsSigned reports whether n is a signed integer.
func (n Number) IsSigned() bool {
	return n.Kind.Signed()
}

// IsFloat reports whether n is a floating point number.
func (n Number) IsFloat() bool {
	return n.Kind.Float()
}

// Uint64 returns n as an unsigned integer when it is a non-negative integer
// that fits 64 bits.
func (n Number) Uint64() (uint64, bool) {
	switch {
	case n.IsFloat():
		return 0, false
	case n.IsSigned():
		v := encoding.UnZigZag128(n.Bits)
		if v.Hi != 0 {
			return 0, false
		}

		return v.Lo, true
	default:
		return n.Bits.Lo, n.Bits.IsUint64()
	}
}

// Int64 returns n as a signed integer when it fits 64 bits.
func (n Number) Int64() (int64, bool) {
	switch {
	case n.IsFloat():
		return 0, false
	case n.IsSigned():
		v := encoding.UnZigZag128(n.Bits)
		if !v.IsInt64() {
			return 0, false
		}

		return int64(v.Lo), true //nolint:gosec
	default:
		if !n.Bits.IsUint64() || n.Bits.Lo > math.MaxInt64 {
			return 0, false
		}

		return int64(n.Bits.Lo), true //nolint:gosec
	}
}

// Float64 returns n converted to a float. Integers wider than 53 bits lose
// precision.
func (n Number) Float64() float64 {
	switch n.Kind {
	case format.NumberF32:
		return float64(math.Float32frombits(uint32(n.Bits.Lo))) //nolint:gosec
	case format.NumberF64:
		return math.Float64frombits(n.Bits.Lo)
	}

	if n.IsSigned() {
		f, _ := encoding.UnZigZag128(n.Bits).Big().Float64()
		return f
	}
	f, _ := n.Bits.Big().Float64()

	return f
}

func (n Number) String() string {
	switch {
	case n.IsFloat():
		return fmt.Sprintf("%g", n.Float64())
	case n.IsSigned():
		return encoding.UnZigZag128(n.Bits).String()
	default:
		return n.Bits.String()
	}
}

// Len returns the number of elements, entries or bytes held by v.
func (v Value) Len() int {
	switch v.Kind {
	case KindBytes:
		return len(v.Bytes)
	case KindString:
		return len(v.Str)
	case KindMap:
		return len(v.Entries)
	case KindSequence, KindOption:
		return len(v.Items)
	default:
		return 0
	}
}

// Get returns the value stored under the string key k of a map.
func (v Value) Get(k string) (Value, bool) {
	if v.Kind != KindMap {
		return Value{}, false
	}
	for _, e := range v.Entries {
		if e.Key.Kind == KindString && e.Key.Str == k {
			return e.Value, true
		}
	}

	return Value{}, false
}

// Equal reports whether a and b hold the same tree. Numbers compare by kind
// and payload bits, so 1u8 and 1u16 differ, as do 0.0 and -0.0.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindUnit:
		return true
	case KindBool:
		return a.Bool == b.Bool
	case KindChar:
		return a.Char == b.Char
	case KindNumber:
		return a.Number == b.Number
	case KindBytes:
		return bytes.Equal(a.Bytes, b.Bytes)
	case KindString:
		return a.Str == b.Str
	case KindMap:
		if len(a.Entries) != len(b.Entries) {
			return false
		}
		for i := range a.Entries {
			if !Equal(a.Entries[i].Key, b.Entries[i].Key) || !Equal(a.Entries[i].Value, b.Entries[i].Value) {
				return false
			}
		}

		return true
	default:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], b.Items[i]) {
				return false
			}
		}

		return true
	}
}

// Valid reports whether v can be encoded: options hold at most one value,
// variants exactly two, and chars and strings are valid Unicode.
func Valid(v Value) bool {
	switch v.Kind {
	case KindChar:
		return utf8.ValidRune(v.Char)
	case KindString:
		return utf8.ValidString(v.Str)
	case KindOption:
		return len(v.Items) <= 1 && all(v.Items)
	case KindVariant:
		return len(v.Items) == 2 && all(v.Items)
	case KindSequence:
		return all(v.Items)
	case KindMap:
		for _, e := range v.Entries {
			if !Valid(e.Key) || !Valid(e.Value) {
				return false
			}
		}

		return true
	default:
		return v.Kind <= KindVariant
	}
}

func all(items []Value) bool {
	for _, it := range items {
		if !Valid(it) {
			return false
		}
	}

	return true
}
