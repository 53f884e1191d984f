package transcode

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/arloliu/tagwire/format"
	"github.com/arloliu/tagwire/value"
	"gopkg.in/yaml.v3"
)

// maxYAMLDepth bounds alias expansion and nesting while reading YAML.
const maxYAMLDepth = 10000

// ToYAMLNode converts v into a YAML node tree. Map entry order and
// composite keys are preserved; bytes become !!binary scalars.
func ToYAMLNode(v value.Value) (*yaml.Node, error) {
	switch v.Kind {
	case value.KindUnit:
		return scalarNode("!!null", "null"), nil
	case value.KindBool:
		return scalarNode("!!bool", strconv.FormatBool(v.Bool)), nil
	case value.KindChar:
		return scalarNode("!!str", string(v.Char)), nil
	case value.KindNumber:
		return numberNode(v.Number), nil
	case value.KindBytes:
		return scalarNode("!!binary", base64.StdEncoding.EncodeToString(v.Bytes)), nil
	case value.KindString:
		n := scalarNode("!!str", v.Str)
		if strings.Contains(v.Str, "\n") {
			n.Style = yaml.LiteralStyle
		}

		return n, nil
	case value.KindOption:
		if len(v.Items) == 0 {
			return scalarNode("!!null", "null"), nil
		}

		return ToYAMLNode(v.Items[0])
	case value.KindSequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items {
			child, err := ToYAMLNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}

		return n, nil
	case value.KindMap:
		return mappingNode(v.Entries)
	case value.KindVariant:
		if len(v.Items) != 2 {
			return nil, fmt.Errorf("variant holds %d items, expected 2", len(v.Items))
		}

		return mappingNode([]value.Entry{{Key: v.Items[0], Value: v.Items[1]}})
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.Kind)
	}
}

func scalarNode(tag, val string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: val}
}

func mappingNode(entries []value.Entry) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range entries {
		k, err := ToYAMLNode(e.Key)
		if err != nil {
			return nil, err
		}
		val, err := ToYAMLNode(e.Value)
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, k, val)
	}

	return n, nil
}

func numberNode(n value.Number) *yaml.Node {
	if !n.IsFloat() {
		return scalarNode("!!int", n.String())
	}

	f := n.Float64()
	switch {
	case math.IsNaN(f):
		return scalarNode("!!float", ".nan")
	case math.IsInf(f, 1):
		return scalarNode("!!float", ".inf")
	case math.IsInf(f, -1):
		return scalarNode("!!float", "-.inf")
	}

	bitSize := 64
	if n.Kind == format.NumberF32 {
		bitSize = 32
	}

	return scalarNode("!!float", strconv.FormatFloat(f, 'g', -1, bitSize))
}

// FromYAML parses every document in data. Integers become i64 (u64, u128 or
// i128 when out of range), floats f64, !!binary scalars bytes and nulls none.
// Mapping order is preserved.
func FromYAML(data []byte) ([]value.Value, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var out []value.Value
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}

			return out, fmt.Errorf("parse YAML document %d: %w", len(out), err)
		}

		v, err := fromYAMLNode(&doc, 0)
		if err != nil {
			return out, fmt.Errorf("YAML document %d: %w", len(out), err)
		}
		out = append(out, v)
	}
}

func fromYAMLNode(n *yaml.Node, depth int) (value.Value, error) {
	if depth > maxYAMLDepth {
		return value.Value{}, fmt.Errorf("line %d: nesting exceeds %d levels", n.Line, maxYAMLDepth)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.None(), nil
		}

		return fromYAMLNode(n.Content[0], depth+1)
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias, depth+1)
	case yaml.SequenceNode:
		items := make([]value.Value, len(n.Content))
		for i, c := range n.Content {
			v, err := fromYAMLNode(c, depth+1)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = v
		}

		return value.Seq(items...), nil
	case yaml.MappingNode:
		entries := make([]value.Entry, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, err := fromYAMLNode(n.Content[i], depth+1)
			if err != nil {
				return value.Value{}, err
			}
			v, err := fromYAMLNode(n.Content[i+1], depth+1)
			if err != nil {
				return value.Value{}, err
			}
			entries = append(entries, value.Entry{Key: k, Value: v})
		}

		return value.Map(entries...), nil
	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	default:
		return value.Value{}, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
	}
}

func fromYAMLScalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.None(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return value.Value{}, err
		}

		return value.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return value.I64(i), nil
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return value.U64(u), nil
		}

		b, ok := new(big.Int).SetString(strings.ReplaceAll(n.Value, "_", ""), 0)
		if !ok {
			return value.Value{}, fmt.Errorf("line %d: invalid integer %q", n.Line, n.Value)
		}

		return fromBig(b)
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return value.Value{}, err
		}

		return value.F64(f), nil
	case "!!binary":
		raw := strings.Join(strings.Fields(n.Value), "")
		b, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return value.Value{}, fmt.Errorf("line %d: invalid !!binary: %w", n.Line, err)
		}

		return value.Bytes(b), nil
	default:
		return value.String(n.Value), nil
	}
}

// EncodeYAML writes values as a YAML stream, one document per value.
func EncodeYAML(w io.Writer, values ...value.Value) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	for _, v := range values {
		n, err := ToYAMLNode(v)
		if err != nil {
			return err
		}
		if err := enc.Encode(n); err != nil {
			return err
		}
	}

	return enc.Close()
}
