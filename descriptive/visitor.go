package descriptive

import (
	"fmt"

	"github.com/arloliu/tagwire/encoding"
	"github.com/arloliu/tagwire/errs"
	"github.com/arloliu/tagwire/format"
	"github.com/arloliu/tagwire/wire"
)

// NumberVisitor receives numbers decoded by Decoder.DecodeNumber and DecodeAny.
type NumberVisitor interface {
	VisitU8(v uint8) error
	VisitU16(v uint16) error
	VisitU32(v uint32) error
	VisitU64(v uint64) error
	VisitU128(v encoding.Uint128) error
	VisitI8(v int8) error
	VisitI16(v int16) error
	VisitI32(v int32) error
	VisitI64(v int64) error
	VisitI128(v encoding.Int128) error
	VisitF32(v float32) error
	VisitF64(v float64) error

	// VisitAnyNumber receives numbers whose sub-kind is not a known typed
	// kind. The payload is delivered as an unsigned 128-bit value.
	VisitAnyNumber(kind format.NumberKind, v encoding.Uint128) error
}

// Visitor receives the value found by Decoder.DecodeAny.
//
// Container and option callbacks receive cursors that are only valid for the
// duration of the call. Anything the visitor leaves undecoded is skipped.
type Visitor interface {
	NumberVisitor

	VisitUnit() error
	VisitBool(v bool) error
	VisitChar(v rune) error

	// VisitBytes receives a byte string; own tells how long b stays valid.
	VisitBytes(b []byte, own wire.Ownership) error

	// VisitString receives a string already validated as UTF-8.
	VisitString(s []byte, own wire.Ownership) error

	// VisitOption receives the wrapped value's decoder, or nil for None.
	VisitOption(some *Decoder) error

	VisitSequence(seq *RemainingDecoder) error
	VisitMap(m *RemainingDecoder) error
	VisitVariant(v *VariantDecoder) error
}

// UnimplementedVisitor rejects every value. Embed it in a visitor that only
// handles a few shapes.
type UnimplementedVisitor struct{}

var _ Visitor = UnimplementedVisitor{}

func unexpected(what string) error {
	return fmt.Errorf("%w: %s", errs.ErrUnexpectedValue, what)
}

func (UnimplementedVisitor) VisitU8(uint8) error              { return unexpected("u8") }
func (UnimplementedVisitor) VisitU16(uint16) error            { return unexpected("u16") }
func (UnimplementedVisitor) VisitU32(uint32) error            { return unexpected("u32") }
func (UnimplementedVisitor) VisitU64(uint64) error            { return unexpected("u64") }
func (UnimplementedVisitor) VisitU128(encoding.Uint128) error { return unexpected("u128") }
func (UnimplementedVisitor) VisitI8(int8) error               { return unexpected("i8") }
func (UnimplementedVisitor) VisitI16(int16) error             { return unexpected("i16") }
func (UnimplementedVisitor) VisitI32(int32) error             { return unexpected("i32") }
func (UnimplementedVisitor) VisitI64(int64) error             { return unexpected("i64") }
func (UnimplementedVisitor) VisitI128(encoding.Int128) error  { return unexpected("i128") }
func (UnimplementedVisitor) VisitF32(float32) error           { return unexpected("f32") }
func (UnimplementedVisitor) VisitF64(float64) error           { return unexpected("f64") }
func (UnimplementedVisitor) VisitUnit() error                 { return unexpected("unit") }
func (UnimplementedVisitor) VisitBool(bool) error             { return unexpected("bool") }
func (UnimplementedVisitor) VisitChar(rune) error             { return unexpected("char") }
func (UnimplementedVisitor) VisitOption(*Decoder) error       { return unexpected("option") }
func (UnimplementedVisitor) VisitSequence(*RemainingDecoder) error {
	return unexpected("sequence")
}
func (UnimplementedVisitor) VisitMap(*RemainingDecoder) error { return unexpected("map") }
func (UnimplementedVisitor) VisitVariant(*VariantDecoder) error {
	return unexpected("variant")
}

func (UnimplementedVisitor) VisitAnyNumber(kind format.NumberKind, _ encoding.Uint128) error {
	return unexpected(kind.String())
}

func (UnimplementedVisitor) VisitBytes([]byte, wire.Ownership) error {
	return unexpected("bytes")
}

func (UnimplementedVisitor) VisitString([]byte, wire.Ownership) error {
	return unexpected("string")
}
