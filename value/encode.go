package value

import (
	"bytes"
	"fmt"

	"github.com/arloliu/tagwire/descriptive"
	"github.com/arloliu/tagwire/errs"
)

// Encode writes v to e.
func Encode(e *descriptive.Encoder, v Value) error {
	switch v.Kind {
	case KindUnit:
		e.EncodeUnit()
	case KindBool:
		e.EncodeBool(v.Bool)
	case KindChar:
		e.EncodeChar(v.Char)
	case KindNumber:
		e.EncodeNumber(v.Number.Kind, v.Number.Bits)
	case KindBytes:
		e.EncodeBytes(v.Bytes)
	case KindString:
		e.EncodeString(v.Str)
	case KindOption:
		switch len(v.Items) {
		case 0:
			e.EncodeNone()
		case 1:
			e.EncodeSome()
			return Encode(e, v.Items[0])
		default:
			return fmt.Errorf("%w: option holds %d values", errs.ErrUnexpectedValue, len(v.Items))
		}
	case KindSequence:
		e.EncodeSequenceHeader(len(v.Items))
		for _, it := range v.Items {
			if err := Encode(e, it); err != nil {
				return err
			}
		}
	case KindMap:
		e.EncodeMapHeader(len(v.Entries))
		for _, entry := range v.Entries {
			if err := Encode(e, entry.Key); err != nil {
				return err
			}
			if err := Encode(e, entry.Value); err != nil {
				return err
			}
		}
	case KindVariant:
		if len(v.Items) != 2 {
			return fmt.Errorf("%w: variant holds %d values", errs.ErrUnexpectedValue, len(v.Items))
		}
		e.EncodeVariant()
		if err := Encode(e, v.Items[0]); err != nil {
			return err
		}

		return Encode(e, v.Items[1])
	default:
		return fmt.Errorf("%w: value kind %d", errs.ErrUnsupportedKind, v.Kind)
	}

	return nil
}

// EncodeBytes encodes v into a new slice.
func EncodeBytes(v Value) ([]byte, error) {
	e := descriptive.NewEncoder()
	defer e.Release()

	if err := Encode(e, v); err != nil {
		return nil, err
	}

	return bytes.Clone(e.Bytes()), nil
}
