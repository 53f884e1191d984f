package value

import (
	"github.com/arloliu/tagwire/descriptive"
	"github.com/arloliu/tagwire/encoding"
	"github.com/arloliu/tagwire/format"
	"github.com/arloliu/tagwire/wire"
)

// Decode reads one value of any shape from d.
func Decode(d *descriptive.Decoder) (Value, error) {
	var b builder
	if err := d.DecodeAny(&b); err != nil {
		return Value{}, err
	}

	return b.out, nil
}

// DecodeBytes decodes data, which must hold exactly one value.
func DecodeBytes(data []byte, opts ...wire.ContextOption) (Value, error) {
	d, err := descriptive.NewDecoder(wire.NewSliceReader(data), opts...)
	if err != nil {
		return Value{}, err
	}

	v, err := Decode(d)
	if err != nil {
		return Value{}, err
	}

	return v, d.End()
}

// DecodeAll decodes every concatenated top-level value of s.
func DecodeAll(s *descriptive.Stream) ([]Value, error) {
	var out []Value
	for {
		d, ok, err := s.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}

		v, err := Decode(d)
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
}

// builder turns visitor callbacks into a Value.
type builder struct {
	out Value
}

var _ descriptive.Visitor = (*builder)(nil)

func (b *builder) set(v Value) error {
	b.out = v
	return nil
}

func (b *builder) VisitU8(v uint8) error    { return b.set(U8(v)) }
func (b *builder) VisitU16(v uint16) error  { return b.set(U16(v)) }
func (b *builder) VisitU32(v uint32) error  { return b.set(U32(v)) }
func (b *builder) VisitU64(v uint64) error  { return b.set(U64(v)) }
func (b *builder) VisitI8(v int8) error     { return b.set(I8(v)) }
func (b *builder) VisitI16(v int16) error   { return b.set(I16(v)) }
func (b *builder) VisitI32(v int32) error   { return b.set(I32(v)) }
func (b *builder) VisitI64(v int64) error   { return b.set(I64(v)) }
func (b *builder) VisitF32(v float32) error { return b.set(F32(v)) }
func (b *builder) VisitF64(v float64) error { return b.set(F64(v)) }
func (b *builder) VisitUnit() error         { return b.set(Unit()) }
func (b *builder) VisitBool(v bool) error   { return b.set(Bool(v)) }
func (b *builder) VisitChar(v rune) error   { return b.set(Char(v)) }

func (b *builder) VisitU128(v encoding.Uint128) error {
	return b.set(U128(v))
}

func (b *builder) VisitI128(v encoding.Int128) error {
	return b.set(I128(v))
}

func (b *builder) VisitAnyNumber(kind format.NumberKind, v encoding.Uint128) error {
	return b.set(NumberOf(kind, v))
}

func (b *builder) VisitBytes(data []byte, own wire.Ownership) error {
	return b.set(Bytes(wire.Retain(data, own)))
}

func (b *builder) VisitString(s []byte, _ wire.Ownership) error {
	return b.set(String(string(s)))
}

func (b *builder) VisitOption(some *descriptive.Decoder) error {
	if some == nil {
		return b.set(None())
	}

	inner, err := Decode(some)
	if err != nil {
		return err
	}

	return b.set(Some(inner))
}

func (b *builder) VisitSequence(seq *descriptive.RemainingDecoder) error {
	items := make([]Value, 0, min(seq.Remaining(), preallocLimit))
	for {
		d, ok, err := seq.Next()
		if err != nil {
			return err
		}
		if !ok {
			return b.set(Seq(items...))
		}

		v, err := Decode(d)
		if err != nil {
			return err
		}
		items = append(items, v)
	}
}

func (b *builder) VisitMap(m *descriptive.RemainingDecoder) error {
	entries := make([]Entry, 0, min(m.Remaining(), preallocLimit))
	for {
		entry, ok, err := m.Entry()
		if err != nil {
			return err
		}
		if !ok {
			return b.set(Map(entries...))
		}

		key, err := Decode(entry.Key)
		if err != nil {
			return err
		}
		vd, err := entry.Value()
		if err != nil {
			return err
		}
		val, err := Decode(vd)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{Key: key, Value: val})
	}
}

func (b *builder) VisitVariant(v *descriptive.VariantDecoder) error {
	td, err := v.Tag()
	if err != nil {
		return err
	}
	tag, err := Decode(td)
	if err != nil {
		return err
	}

	vd, err := v.Value()
	if err != nil {
		return err
	}
	payload, err := Decode(vd)
	if err != nil {
		return err
	}

	return b.set(Variant(tag, payload))
}

// preallocLimit caps capacity reserved from an untrusted length field.
const preallocLimit = 1024
