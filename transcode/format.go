// Package transcode converts untyped tagwire values to and from other data
// formats: plain Go values, JSON, YAML, CBOR, MessagePack and an indented
// text dump.
//
// Conversions out of tagwire are lossy where the target format has no
// matching shape. Options flatten to their content or null, chars become
// one-character strings and variants become single-entry maps keyed by the
// discriminant.
package transcode

import (
	"fmt"
	"strings"
)

// Format selects an output or input rendering.
type Format uint8

const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
	FormatCBOR
	// FormatDiag is CBOR diagnostic notation (RFC 8949 section 8).
	FormatDiag
	FormatMsgPack
)

var formatNames = map[Format]string{
	FormatText:    "text",
	FormatJSON:    "json",
	FormatYAML:    "yaml",
	FormatCBOR:    "cbor",
	FormatDiag:    "diag",
	FormatMsgPack: "msgpack",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}

	return fmt.Sprintf("Format(%d)", uint8(f))
}

// Binary reports whether the rendering is not printable text.
func (f Format) Binary() bool {
	return f == FormatCBOR || f == FormatMsgPack
}

// ParseFormat maps a format name to a Format. Matching is case-insensitive
// and accepts "yml" and "mp" as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "cbor":
		return FormatCBOR, nil
	case "diag":
		return FormatDiag, nil
	case "msgpack", "mp":
		return FormatMsgPack, nil
	default:
		return 0, fmt.Errorf("unknown format %q", name)
	}
}
