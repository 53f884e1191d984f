package descriptive

import (
	"bytes"
	"testing"

	"github.com/arloliu/tagwire/wire"
)

func benchData() []byte {
	return encode(func(e *Encoder) {
		e.EncodeSequenceHeader(256)
		for range 256 {
			encodePersonV2(e)
		}
	})
}

func BenchmarkDecodeStructs(b *testing.B) {
	data := benchData()
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()

	for b.Loop() {
		d := NewDecoderWithContext(wire.NewSliceReader(data), nil)
		err := d.DecodeSequence(func(seq *RemainingDecoder) error {
			for {
				elem, ok, err := seq.Next()
				if err != nil || !ok {
					return err
				}
				if _, err := decodePerson(elem); err != nil {
					return err
				}
			}
		})
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSkip(b *testing.B) {
	data := benchData()
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()

	b.Run("SliceReader", func(b *testing.B) {
		for b.Loop() {
			if err := NewDecoderWithContext(wire.NewSliceReader(data), nil).Skip(); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("StreamReader", func(b *testing.B) {
		for b.Loop() {
			r := wire.NewStreamReader(bytes.NewReader(data))
			if err := NewDecoderWithContext(r, nil).Skip(); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkEncodeStructs(b *testing.B) {
	b.ReportAllocs()

	for b.Loop() {
		e := NewEncoder()
		e.EncodeSequenceHeader(256)
		for range 256 {
			encodePersonV2(e)
		}
		e.Release()
	}
}
