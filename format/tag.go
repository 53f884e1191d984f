package format

import "fmt"

// Tag is the single header byte that precedes every encoded value.
//
// The upper three bits hold the Kind and the lower five bits hold the data
// field. For Bytes, String, Sequence and Map the data field is the inline
// length, or DataVarInt when the length follows as a VarInt. For Number it is
// the NumberKind, and for Mark it is the Mark code.
type Tag uint8

// NewTag packs a kind and a data field into a tag byte.
func NewTag(kind Kind, data uint8) Tag {
	return Tag(uint8(kind)<<KindShift | data&DataMask)
}

// NumberTag returns the tag announcing a number of the given sub-kind.
func NumberTag(n NumberKind) Tag {
	return NewTag(KindNumber, uint8(n))
}

// MarkTag returns the tag for the given mark.
func MarkTag(m Mark) Tag {
	return NewTag(KindMark, uint8(m))
}

// LenTag returns the tag for a length-prefixed kind together with a flag
// telling whether the length must be written as a trailing VarInt.
func LenTag(kind Kind, length int) (Tag, bool) {
	if length >= 0 && length <= MaxInlineLen {
		return NewTag(kind, uint8(length)), false
	}

	return NewTag(kind, DataVarInt), true
}

// Kind returns the kind stored in the upper three bits.
func (t Tag) Kind() Kind {
	return Kind(t >> KindShift)
}

// Data returns the raw five-bit data field.
func (t Tag) Data() uint8 {
	return uint8(t) & DataMask
}

// InlineLen returns the inline magnitude, or false when a VarInt follows.
func (t Tag) InlineLen() (int, bool) {
	d := t.Data()
	if d == DataVarInt {
		return 0, false
	}

	return int(d), true
}

// Mark interprets the data field as a Mark code.
func (t Tag) Mark() Mark {
	return Mark(t.Data())
}

// Number interprets the data field as a NumberKind.
func (t Tag) Number() NumberKind {
	return NumberKind(t.Data())
}

func (t Tag) String() string {
	switch k := t.Kind(); k {
	case KindNumber:
		return fmt.Sprintf("Number(%s)", t.Number())
	case KindMark:
		return fmt.Sprintf("Mark(%s)", t.Mark())
	case KindBytes, KindString, KindSequence, KindMap:
		if n, ok := t.InlineLen(); ok {
			return fmt.Sprintf("%s(len=%d)", k, n)
		}

		return fmt.Sprintf("%s(len=varint)", k)
	default:
		return fmt.Sprintf("Invalid(0x%02x)", uint8(t))
	}
}
