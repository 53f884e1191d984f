package descriptive

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/arloliu/tagwire/encoding"
	"github.com/arloliu/tagwire/format"
	"github.com/arloliu/tagwire/wire"
	"github.com/stretchr/testify/require"
)

// eachReader runs fn once over a SliceReader and once over a StreamReader.
func eachReader(t *testing.T, data []byte, fn func(t *testing.T, r wire.Reader)) {
	t.Helper()

	t.Run("SliceReader", func(t *testing.T) {
		fn(t, wire.NewSliceReader(data))
	})
	t.Run("StreamReader", func(t *testing.T) {
		fn(t, wire.NewStreamReader(bytes.NewReader(data)))
	})
}

func encode(fn func(e *Encoder)) []byte {
	e := NewEncoder()
	defer e.Release()
	fn(e)

	return bytes.Clone(e.Bytes())
}

func mustDecoder(t *testing.T, r wire.Reader, opts ...wire.ContextOption) *Decoder {
	t.Helper()

	d, err := NewDecoder(r, opts...)
	require.NoError(t, err)

	return d
}

func mustDecoderBytes(t *testing.T, data []byte, opts ...wire.ContextOption) *Decoder {
	t.Helper()

	return mustDecoder(t, wire.NewSliceReader(data), opts...)
}

// requireSentinel asserts that the next value on r is the u8 0xEE written by
// tests after the value under test.
func requireSentinel(t *testing.T, r wire.Reader) {
	t.Helper()

	v, err := mustDecoder(t, r).DecodeU8()
	require.NoError(t, err)
	require.Equal(t, uint8(0xEE), v)

	_, ok, err := r.PeekByte()
	require.NoError(t, err)
	require.False(t, ok, "input not fully consumed")
}

// recorder is a Visitor that walks every value and records what it saw.
type recorder struct {
	events []string
}

var _ Visitor = (*recorder)(nil)

func (r *recorder) add(format string, args ...any) error {
	r.events = append(r.events, fmt.Sprintf(format, args...))
	return nil
}

func (r *recorder) String() string {
	return strings.Join(r.events, " ")
}

func (r *recorder) VisitU8(v uint8) error              { return r.add("u8:%d", v) }
func (r *recorder) VisitU16(v uint16) error            { return r.add("u16:%d", v) }
func (r *recorder) VisitU32(v uint32) error            { return r.add("u32:%d", v) }
func (r *recorder) VisitU64(v uint64) error            { return r.add("u64:%d", v) }
func (r *recorder) VisitU128(v encoding.Uint128) error { return r.add("u128:%s", v) }
func (r *recorder) VisitI8(v int8) error               { return r.add("i8:%d", v) }
func (r *recorder) VisitI16(v int16) error             { return r.add("i16:%d", v) }
func (r *recorder) VisitI32(v int32) error             { return r.add("i32:%d", v) }
func (r *recorder) VisitI64(v int64) error             { return r.add("i64:%d", v) }
func (r *recorder) VisitI128(v encoding.Int128) error  { return r.add("i128:%s", v) }
func (r *recorder) VisitF32(v float32) error           { return r.add("f32:%g", v) }
func (r *recorder) VisitF64(v float64) error           { return r.add("f64:%g", v) }
func (r *recorder) VisitUnit() error                   { return r.add("unit") }
func (r *recorder) VisitBool(v bool) error             { return r.add("bool:%t", v) }
func (r *recorder) VisitChar(v rune) error             { return r.add("char:%c", v) }

func (r *recorder) VisitAnyNumber(kind format.NumberKind, v encoding.Uint128) error {
	return r.add("num(%d):%s", kind, v)
}

func (r *recorder) VisitBytes(b []byte, _ wire.Ownership) error {
	return r.add("bytes:%x", b)
}

func (r *recorder) VisitString(s []byte, _ wire.Ownership) error {
	return r.add("str:%s", s)
}

func (r *recorder) VisitOption(some *Decoder) error {
	if some == nil {
		return r.add("none")
	}
	_ = r.add("some")

	return some.DecodeAny(r)
}

func (r *recorder) VisitSequence(seq *RemainingDecoder) error {
	_ = r.add("seq(%d)", seq.Remaining())
	for {
		d, ok, err := seq.Next()
		if err != nil || !ok {
			return err
		}
		if err := d.DecodeAny(r); err != nil {
			return err
		}
	}
}

func (r *recorder) VisitMap(m *RemainingDecoder) error {
	_ = r.add("map(%d)", m.Remaining())
	for {
		entry, ok, err := m.Entry()
		if err != nil || !ok {
			return err
		}
		if err := entry.Key.DecodeAny(r); err != nil {
			return err
		}
		v, err := entry.Value()
		if err != nil {
			return err
		}
		if err := v.DecodeAny(r); err != nil {
			return err
		}
	}
}

func (r *recorder) VisitVariant(v *VariantDecoder) error {
	_ = r.add("variant")
	tag, err := v.Tag()
	if err != nil {
		return err
	}
	if err := tag.DecodeAny(r); err != nil {
		return err
	}
	val, err := v.Value()
	if err != nil {
		return err
	}

	return val.DecodeAny(r)
}

// shallow records containers without descending into them.
type shallow struct {
	recorder
}

func (s *shallow) VisitSequence(seq *RemainingDecoder) error {
	return s.add("seq(%d)", seq.Remaining())
}

func (s *shallow) VisitMap(m *RemainingDecoder) error {
	return s.add("map(%d)", m.Remaining())
}

func (s *shallow) VisitVariant(*VariantDecoder) error {
	return s.add("variant")
}

func (s *shallow) VisitOption(some *Decoder) error {
	if some == nil {
		return s.add("none")
	}

	return s.add("some")
}
