package transcode

import (
	"fmt"
	"io"

	"github.com/arloliu/tagwire/value"
)

// Render writes values to w in the given format.
func Render(w io.Writer, f Format, values ...value.Value) error {
	switch f {
	case FormatText:
		for _, v := range values {
			if err := WriteText(w, v); err != nil {
				return err
			}
		}

		return nil
	case FormatJSON:
		return EncodeJSON(w, values...)
	case FormatYAML:
		return EncodeYAML(w, values...)
	case FormatCBOR:
		return EncodeCBOR(w, values...)
	case FormatDiag:
		return EncodeDiag(w, values...)
	case FormatMsgPack:
		return EncodeMsgPack(w, values...)
	default:
		return fmt.Errorf("unsupported output format %s", f)
	}
}

// Parse reads every value held by data in the given input format. Text and
// diagnostic notation are output-only.
func Parse(f Format, data []byte) ([]value.Value, error) {
	switch f {
	case FormatJSON:
		return FromJSON(data)
	case FormatYAML:
		return FromYAML(data)
	case FormatCBOR:
		return FromCBOR(data)
	case FormatMsgPack:
		return FromMsgPack(data)
	default:
		return nil, fmt.Errorf("unsupported input format %s", f)
	}
}
