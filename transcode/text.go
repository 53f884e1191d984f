package transcode

import (
	"bufio"
	"encoding/hex"
	"io"
	"strconv"
	"strings"

	"github.com/arloliu/tagwire/value"
)

const indentUnit = "  "

// Diagnose returns the indented text dump of v, terminated by a newline.
//
// Every scalar carries its kind: numbers as u32(7) or f64(1.5), bytes as
// h'0a0b', chars quoted with single quotes. Containers print their length:
//
//	map(2) {
//	  "id": u64(42)
//	  "tags": seq(1) [
//	    "a"
//	  ]
//	}
func Diagnose(v value.Value) string {
	var sb strings.Builder
	_ = WriteText(&sb, v)

	return sb.String()
}

// WriteText writes the text dump of v to w.
func WriteText(w io.Writer, v value.Value) error {
	bw := bufio.NewWriter(w)
	t := textWriter{w: bw}
	t.value(v, 0)
	bw.WriteByte('\n') //nolint:errcheck

	return bw.Flush()
}

type textWriter struct {
	w *bufio.Writer
}

func (t textWriter) indent(depth int) {
	for range depth {
		t.w.WriteString(indentUnit) //nolint:errcheck
	}
}

func (t textWriter) str(s string) {
	t.w.WriteString(s) //nolint:errcheck
}

func (t textWriter) value(v value.Value, depth int) {
	switch v.Kind {
	case value.KindUnit:
		t.str("unit")
	case value.KindBool:
		t.str(strconv.FormatBool(v.Bool))
	case value.KindChar:
		t.str(strconv.QuoteRune(v.Char))
	case value.KindNumber:
		t.str(v.Number.Kind.String())
		t.str("(")
		t.str(v.Number.String())
		t.str(")")
	case value.KindBytes:
		t.str("h'")
		t.str(hex.EncodeToString(v.Bytes))
		t.str("'")
	case value.KindString:
		t.str(strconv.Quote(v.Str))
	case value.KindOption:
		if len(v.Items) == 0 {
			t.str("none")
			return
		}
		t.str("some ")
		t.value(v.Items[0], depth)
	case value.KindSequence:
		t.str("seq(")
		t.str(strconv.Itoa(len(v.Items)))
		if len(v.Items) == 0 {
			t.str(") []")
			return
		}
		t.str(") [\n")
		for _, item := range v.Items {
			t.indent(depth + 1)
			t.value(item, depth+1)
			t.str("\n")
		}
		t.indent(depth)
		t.str("]")
	case value.KindMap:
		t.str("map(")
		t.str(strconv.Itoa(len(v.Entries)))
		if len(v.Entries) == 0 {
			t.str(") {}")
			return
		}
		t.str(") {\n")
		for _, e := range v.Entries {
			t.indent(depth + 1)
			t.value(e.Key, depth+1)
			t.str(": ")
			t.value(e.Value, depth+1)
			t.str("\n")
		}
		t.indent(depth)
		t.str("}")
	case value.KindVariant:
		t.str("variant ")
		if len(v.Items) != 2 {
			t.str("<invalid>")
			return
		}
		t.value(v.Items[0], depth)
		t.str(" => ")
		t.value(v.Items[1], depth)
	default:
		t.str("<unknown>")
	}
}
