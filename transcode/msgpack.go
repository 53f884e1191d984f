package transcode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/tagwire/format"
	"github.com/arloliu/tagwire/value"
	"github.com/vmihailenco/msgpack/v5"
)

// EncodeMsgPack writes values as consecutive MessagePack objects. Maps keep
// their entry order and composite keys; integers wider than 64 bits are
// written as decimal strings.
func EncodeMsgPack(w io.Writer, values ...value.Value) error {
	enc := msgpack.NewEncoder(w)
	for _, v := range values {
		if err := encodeMsgPack(enc, v); err != nil {
			return err
		}
	}

	return nil
}

func encodeMsgPack(enc *msgpack.Encoder, v value.Value) error {
	switch v.Kind {
	case value.KindUnit:
		return enc.EncodeNil()
	case value.KindBool:
		return enc.EncodeBool(v.Bool)
	case value.KindChar:
		return enc.EncodeString(string(v.Char))
	case value.KindNumber:
		return encodeMsgPackNumber(enc, v.Number)
	case value.KindBytes:
		return enc.EncodeBytes(v.Bytes)
	case value.KindString:
		return enc.EncodeString(v.Str)
	case value.KindOption:
		if len(v.Items) == 0 {
			return enc.EncodeNil()
		}

		return encodeMsgPack(enc, v.Items[0])
	case value.KindSequence:
		if err := enc.EncodeArrayLen(len(v.Items)); err != nil {
			return err
		}
		for _, item := range v.Items {
			if err := encodeMsgPack(enc, item); err != nil {
				return err
			}
		}

		return nil
	case value.KindMap:
		if err := enc.EncodeMapLen(len(v.Entries)); err != nil {
			return err
		}
		for _, e := range v.Entries {
			if err := encodeMsgPack(enc, e.Key); err != nil {
				return err
			}
			if err := encodeMsgPack(enc, e.Value); err != nil {
				return err
			}
		}

		return nil
	case value.KindVariant:
		if len(v.Items) != 2 {
			return fmt.Errorf("variant holds %d items, expected 2", len(v.Items))
		}
		if err := enc.EncodeMapLen(1); err != nil {
			return err
		}
		if err := encodeMsgPack(enc, v.Items[0]); err != nil {
			return err
		}

		return encodeMsgPack(enc, v.Items[1])
	default:
		return fmt.Errorf("unknown value kind %d", v.Kind)
	}
}

func encodeMsgPackNumber(enc *msgpack.Encoder, n value.Number) error {
	switch n.Kind {
	case format.NumberF32:
		return enc.EncodeFloat32(float32(n.Float64()))
	case format.NumberF64:
		return enc.EncodeFloat64(n.Float64())
	}

	if n.IsSigned() {
		if i, ok := n.Int64(); ok {
			return enc.EncodeInt(i)
		}

		return enc.EncodeString(n.String())
	}
	if u, ok := n.Uint64(); ok {
		return enc.EncodeUint(u)
	}

	return enc.EncodeString(n.String())
}

// FromMsgPack parses consecutive MessagePack objects. Map entries are sorted
// by key text.
func FromMsgPack(data []byte) ([]value.Value, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetMapDecoder(func(d *msgpack.Decoder) (any, error) {
		return d.DecodeUntypedMap()
	})

	var out []value.Value
	for {
		x, err := dec.DecodeInterface()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}

			return out, fmt.Errorf("decode MessagePack object %d: %w", len(out), err)
		}

		v, err := FromNative(x)
		if err != nil {
			return out, fmt.Errorf("MessagePack object %d: %w", len(out), err)
		}
		out = append(out, v)
	}
}
