package transcode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strings"

	"github.com/arloliu/tagwire/value"
	"github.com/tidwall/jsonc"
)

// EncodeJSON writes each value as an indented JSON document followed by a
// newline. Map keys are rendered as strings, bytes as base64, and non-finite
// floats as the strings "NaN", "+Inf" and "-Inf".
func EncodeJSON(w io.Writer, values ...value.Value) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	for _, v := range values {
		n, err := ToNative(v, WithStringKeys())
		if err != nil {
			return err
		}
		if err := enc.Encode(jsonSafe(n)); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
	}

	return nil
}

// jsonSafe replaces floats encoding/json rejects.
func jsonSafe(x any) any {
	switch v := x.(type) {
	case float64:
		return finiteOrText(v, x)
	case float32:
		return finiteOrText(float64(v), x)
	case []any:
		for i, item := range v {
			v[i] = jsonSafe(item)
		}

		return v
	case map[string]any:
		for k, item := range v {
			v[k] = jsonSafe(item)
		}

		return v
	default:
		return x
	}
}

func finiteOrText(f float64, orig any) any {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	default:
		return orig
	}
}

// FromJSON parses a sequence of JSON values. Comments and trailing commas
// (JSONC) are accepted. Object key order is preserved; integers become i64
// (u64, u128 or i128 when out of range) and other numbers f64.
func FromJSON(data []byte) ([]value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()

	var out []value.Value
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}

			return out, fmt.Errorf("parse JSON value %d: %w", len(out), err)
		}

		v, err := fromJSONToken(dec, tok)
		if err != nil {
			return out, fmt.Errorf("parse JSON value %d: %w", len(out), err)
		}
		out = append(out, v)
	}
}

func fromJSONToken(dec *json.Decoder, tok json.Token) (value.Value, error) {
	switch t := tok.(type) {
	case nil:
		return value.None(), nil
	case bool:
		return value.Bool(t), nil
	case string:
		return value.String(t), nil
	case json.Number:
		return fromJSONNumber(t)
	case json.Delim:
		switch t {
		case '[':
			var items []value.Value
			for dec.More() {
				v, err := nextJSON(dec)
				if err != nil {
					return value.Value{}, err
				}
				items = append(items, v)
			}
			if _, err := dec.Token(); err != nil {
				return value.Value{}, err
			}

			return value.Seq(items...), nil
		case '{':
			var entries []value.Entry
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return value.Value{}, err
				}
				key, ok := kt.(string)
				if !ok {
					return value.Value{}, fmt.Errorf("object key is %T", kt)
				}
				v, err := nextJSON(dec)
				if err != nil {
					return value.Value{}, err
				}
				entries = append(entries, value.Entry{Key: value.String(key), Value: v})
			}
			if _, err := dec.Token(); err != nil {
				return value.Value{}, err
			}

			return value.Map(entries...), nil
		}
	}

	return value.Value{}, fmt.Errorf("unexpected JSON token %v", tok)
}

func nextJSON(dec *json.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return value.Value{}, err
	}

	return fromJSONToken(dec, tok)
}

func fromJSONNumber(n json.Number) (value.Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if b, ok := new(big.Int).SetString(s, 10); ok {
			if v, err := fromBig(b); err == nil {
				return v, nil
			}
		}
	}

	f, err := n.Float64()
	if err != nil {
		return value.Value{}, fmt.Errorf("invalid number %q: %w", s, err)
	}

	return value.F64(f), nil
}
