package transcode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/tagwire/value"
	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses Core Deterministic Encoding (RFC 8949 section 4.2), so the
// same value always produces identical bytes.
var cborEncMode cbor.EncMode

var cborDecMode cbor.DecMode

func init() {
	var err error

	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("transcode: CBOR encoder initialization failed: " + err.Error())
	}

	cborDecMode, err = cbor.DecOptions{
		BigIntDec: cbor.BigIntDecodePointer,
	}.DecMode()
	if err != nil {
		panic("transcode: CBOR decoder initialization failed: " + err.Error())
	}
}

// ToCBOR encodes v as a deterministic CBOR item. Integers wider than 64 bits
// become bignums.
func ToCBOR(v value.Value) ([]byte, error) {
	n, err := ToNative(v)
	if err != nil {
		return nil, err
	}

	data, err := cborEncMode.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("encode CBOR: %w", err)
	}

	return data, nil
}

// EncodeCBOR writes values as a CBOR sequence (RFC 8742).
func EncodeCBOR(w io.Writer, values ...value.Value) error {
	for _, v := range values {
		data, err := ToCBOR(v)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}

	return nil
}

// EncodeDiag writes the CBOR diagnostic notation of each value on its own
// line.
func EncodeDiag(w io.Writer, values ...value.Value) error {
	for _, v := range values {
		data, err := ToCBOR(v)
		if err != nil {
			return err
		}
		notation, err := cbor.Diagnose(data)
		if err != nil {
			return fmt.Errorf("diagnose CBOR: %w", err)
		}
		if _, err := fmt.Fprintln(w, notation); err != nil {
			return err
		}
	}

	return nil
}

// FromCBOR parses a CBOR sequence. Map entries are sorted by key text since
// CBOR maps decode without order.
func FromCBOR(data []byte) ([]value.Value, error) {
	dec := cborDecMode.NewDecoder(bytes.NewReader(data))

	var out []value.Value
	for {
		var x any
		if err := dec.Decode(&x); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}

			return out, fmt.Errorf("decode CBOR item %d: %w", len(out), err)
		}

		v, err := FromNative(x)
		if err != nil {
			return out, fmt.Errorf("CBOR item %d: %w", len(out), err)
		}
		out = append(out, v)
	}
}
