package transcode

import (
	"cmp"
	"fmt"
	"math"
	"math/big"
	"slices"
	"strings"

	"github.com/arloliu/tagwire/encoding"
	"github.com/arloliu/tagwire/format"
	"github.com/arloliu/tagwire/internal/options"
	"github.com/arloliu/tagwire/value"
)

type nativeConfig struct {
	stringKeys bool
	bigAsText  bool
}

// NativeOption configures ToNative.
type NativeOption = options.Option[*nativeConfig]

// WithStringKeys renders every map key as a string and produces
// map[string]any, as required by JSON.
func WithStringKeys() NativeOption {
	return options.NoError(func(c *nativeConfig) {
		c.stringKeys = true
	})
}

// WithBigIntText renders integers that do not fit 64 bits as decimal
// strings instead of *big.Int.
func WithBigIntText() NativeOption {
	return options.NoError(func(c *nativeConfig) {
		c.bigAsText = true
	})
}

// ToNative converts v into plain Go data:
//
//	unit, none      -> nil
//	bool            -> bool
//	char            -> string
//	unsigned        -> uint64
//	signed          -> int64
//	128-bit         -> *big.Int (or string with WithBigIntText) when wider than 64 bits
//	f32, f64        -> float32, float64
//	bytes           -> []byte
//	string          -> string
//	some(x)         -> ToNative(x)
//	sequence        -> []any
//	map             -> map[any]any, or map[string]any with WithStringKeys
//	variant(t, p)   -> single-entry map {t: p}
//
// Map keys that are not comparable in Go (sequences, maps, bytes) are
// rendered as their text dump.
func ToNative(v value.Value, opts ...NativeOption) (any, error) {
	c := &nativeConfig{}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c.native(v)
}

func (c *nativeConfig) native(v value.Value) (any, error) {
	switch v.Kind {
	case value.KindUnit:
		return nil, nil
	case value.KindBool:
		return v.Bool, nil
	case value.KindChar:
		return string(v.Char), nil
	case value.KindNumber:
		return c.number(v.Number), nil
	case value.KindBytes:
		return v.Bytes, nil
	case value.KindString:
		return v.Str, nil
	case value.KindOption:
		if len(v.Items) == 0 {
			return nil, nil
		}

		return c.native(v.Items[0])
	case value.KindSequence:
		out := make([]any, len(v.Items))
		for i, item := range v.Items {
			n, err := c.native(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}

		return out, nil
	case value.KindMap:
		return c.mapping(v.Entries)
	case value.KindVariant:
		if len(v.Items) != 2 {
			return nil, fmt.Errorf("variant holds %d items, expected 2", len(v.Items))
		}

		return c.mapping([]value.Entry{{Key: v.Items[0], Value: v.Items[1]}})
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.Kind)
	}
}

func (c *nativeConfig) mapping(entries []value.Entry) (any, error) {
	if c.stringKeys {
		out := make(map[string]any, len(entries))
		for _, e := range entries {
			val, err := c.native(e.Value)
			if err != nil {
				return nil, err
			}
			out[keyString(e.Key)] = val
		}

		return out, nil
	}

	out := make(map[any]any, len(entries))
	for _, e := range entries {
		key, err := c.key(e.Key)
		if err != nil {
			return nil, err
		}
		val, err := c.native(e.Value)
		if err != nil {
			return nil, err
		}
		out[key] = val
	}

	return out, nil
}

// key returns a comparable Go value for a map key.
func (c *nativeConfig) key(k value.Value) (any, error) {
	switch k.Kind {
	case value.KindUnit, value.KindBool, value.KindChar, value.KindString:
		return c.native(k)
	case value.KindNumber:
		n := c.number(k.Number)
		if b, ok := n.(*big.Int); ok {
			return b.String(), nil
		}

		return n, nil
	case value.KindOption:
		if len(k.Items) == 0 {
			return nil, nil
		}

		return c.key(k.Items[0])
	default:
		return strings.TrimSpace(Diagnose(k)), nil
	}
}

func (c *nativeConfig) number(n value.Number) any {
	switch n.Kind {
	case format.NumberF32:
		return math.Float32frombits(uint32(n.Bits.Lo)) //nolint:gosec
	case format.NumberF64:
		return math.Float64frombits(n.Bits.Lo)
	}

	if n.IsSigned() {
		if v, ok := n.Int64(); ok {
			return v
		}

		return c.big(encoding.UnZigZag128(n.Bits).Big())
	}
	if v, ok := n.Uint64(); ok {
		return v
	}

	return c.big(n.Bits.Big())
}

func (c *nativeConfig) big(b *big.Int) any {
	if c.bigAsText {
		return b.String()
	}

	return b
}

// keyString renders a map key for formats that only allow string keys.
func keyString(k value.Value) string {
	switch k.Kind {
	case value.KindString:
		return k.Str
	case value.KindChar:
		return string(k.Char)
	case value.KindNumber:
		return k.Number.String()
	case value.KindBool:
		if k.Bool {
			return "true"
		}

		return "false"
	case value.KindOption:
		if len(k.Items) == 1 {
			return keyString(k.Items[0])
		}

		return "null"
	case value.KindUnit:
		return "null"
	default:
		return strings.TrimSpace(Diagnose(k))
	}
}

// FromNative converts plain Go data, as produced by encoding/json or
// yaml.v3 decoding into any, into a Value. Map keys are emitted in sorted
// order of their text form so the result is deterministic.
//
//	nil                          -> none
//	bool                         -> bool
//	int8 .. int64, uint8 .. uint64 -> number of the matching width (int and uint as 64 bits)
//	float32, float64             -> f32, f64
//	*big.Int                     -> narrowest of i64, u64, u128, i128
//	string                       -> string
//	[]byte                       -> bytes
//	[]any                        -> sequence
//	map[string]any, map[any]any  -> map
func FromNative(x any) (value.Value, error) {
	switch v := x.(type) {
	case nil:
		return value.None(), nil
	case bool:
		return value.Bool(v), nil
	case int:
		return value.I64(int64(v)), nil
	case int8:
		return value.I8(v), nil
	case int16:
		return value.I16(v), nil
	case int32:
		return value.I32(v), nil
	case int64:
		return value.I64(v), nil
	case uint:
		return value.U64(uint64(v)), nil
	case uint8:
		return value.U8(v), nil
	case uint16:
		return value.U16(v), nil
	case uint32:
		return value.U32(v), nil
	case uint64:
		return value.U64(v), nil
	case float32:
		return value.F32(v), nil
	case float64:
		return value.F64(v), nil
	case *big.Int:
		return fromBig(v)
	case string:
		return value.String(v), nil
	case []byte:
		return value.Bytes(v), nil
	case []any:
		items := make([]value.Value, len(v))
		for i, item := range v {
			iv, err := FromNative(item)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = iv
		}

		return value.Seq(items...), nil
	case map[string]any:
		generic := make(map[any]any, len(v))
		for k, val := range v {
			generic[k] = val
		}

		return fromMap(generic)
	case map[any]any:
		return fromMap(v)
	default:
		return value.Value{}, fmt.Errorf("unsupported native type %T", x)
	}
}

func fromMap(m map[any]any) (value.Value, error) {
	entries := make([]value.Entry, 0, len(m))
	for k, val := range m {
		kv, err := FromNative(k)
		if err != nil {
			return value.Value{}, err
		}
		vv, err := FromNative(val)
		if err != nil {
			return value.Value{}, err
		}
		entries = append(entries, value.Entry{Key: kv, Value: vv})
	}
	sortEntries(entries)

	return value.Map(entries...), nil
}

var (
	minInt128 = new(big.Int).Lsh(big.NewInt(-1), 127)
	maxU128   = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	mask64    = new(big.Int).SetUint64(math.MaxUint64)
)

// fromBig picks the narrowest integer kind that holds b: u64/i64 first,
// then u128/i128.
func fromBig(b *big.Int) (value.Value, error) {
	switch {
	case b.IsInt64():
		return value.I64(b.Int64()), nil
	case b.IsUint64():
		return value.U64(b.Uint64()), nil
	case b.Sign() > 0 && b.Cmp(maxU128) <= 0:
		return value.U128(split128(b)), nil
	case b.Sign() < 0 && b.Cmp(minInt128) >= 0:
		// two's complement in 128 bits
		u := new(big.Int).Add(b, new(big.Int).Lsh(big.NewInt(1), 128))
		w := split128(u)

		return value.I128(encoding.Int128{Hi: int64(w.Hi), Lo: w.Lo}), nil //nolint:gosec
	default:
		return value.Value{}, fmt.Errorf("integer %s does not fit 128 bits", b)
	}
}

func sortEntries(entries []value.Entry) {
	slices.SortStableFunc(entries, func(a, b value.Entry) int {
		return cmp.Compare(keyString(a.Key), keyString(b.Key))
	})
}

func split128(b *big.Int) encoding.Uint128 {
	lo := new(big.Int).And(b, mask64).Uint64()
	hi := new(big.Int).Rsh(b, 64).Uint64()

	return encoding.Uint128{Hi: hi, Lo: lo}
}
