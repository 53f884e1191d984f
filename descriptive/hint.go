package descriptive

import "github.com/arloliu/tagwire/format"

// HintKind classifies the next value without decoding it.
type HintKind uint8

const (
	HintAny HintKind = iota
	HintUnit
	HintBool
	HintChar
	HintNumber
	HintBytes
	HintString
	HintSequence
	HintMap
	HintOption
	HintVariant
)

func (h HintKind) String() string {
	switch h {
	case HintUnit:
		return "unit"
	case HintBool:
		return "bool"
	case HintChar:
		return "char"
	case HintNumber:
		return "number"
	case HintBytes:
		return "bytes"
	case HintString:
		return "string"
	case HintSequence:
		return "sequence"
	case HintMap:
		return "map"
	case HintOption:
		return "option"
	case HintVariant:
		return "variant"
	default:
		return "any"
	}
}

// TypeHint describes the next value as seen from its tag byte alone.
type TypeHint struct {
	Kind HintKind
	// Number is the numeric sub-kind when Kind is HintNumber.
	Number format.NumberKind
	// Size is the element, pair or byte count when it is stored inline in the
	// tag, or -1 when it follows as a VarInt and is therefore unknown to a peek.
	Size int
}

// TupleHint carries the arity a tuple decode expects.
type TupleHint struct {
	Size int
}

func hintFromTag(tag format.Tag) TypeHint {
	hint := TypeHint{Size: -1}
	if n, ok := tag.InlineLen(); ok {
		hint.Size = n
	}

	switch tag.Kind() {
	case format.KindNumber:
		hint.Kind = HintNumber
		hint.Number = tag.Number()
		hint.Size = -1
	case format.KindBytes:
		hint.Kind = HintBytes
	case format.KindString:
		hint.Kind = HintString
	case format.KindSequence:
		hint.Kind = HintSequence
	case format.KindMap:
		hint.Kind = HintMap
	case format.KindMark:
		hint.Size = -1
		switch tag.Mark() {
		case format.MarkTrue, format.MarkFalse:
			hint.Kind = HintBool
		case format.MarkUnit:
			hint.Kind = HintUnit
		case format.MarkSome, format.MarkNone:
			hint.Kind = HintOption
		case format.MarkChar:
			hint.Kind = HintChar
		case format.MarkVariant:
			hint.Kind = HintVariant
		default:
			hint.Kind = HintAny
		}
	default:
		hint.Kind = HintAny
		hint.Size = -1
	}

	return hint
}
