package descriptive

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/arloliu/tagwire/encoding"
	"github.com/arloliu/tagwire/errs"
	"github.com/arloliu/tagwire/format"
	"github.com/arloliu/tagwire/plain"
	"github.com/arloliu/tagwire/wire"
)

// scope is shared by every cursor handed to one callback. Closing it turns
// those cursors into errs.ErrCursorClosed.
type scope struct {
	closed bool
}

// Decoder decodes exactly one value from a wire.Reader.
//
// Decoders handed out by container cursors are only valid while the
// callback that received them runs.
//
// Note: The Decoder is NOT thread-safe.
type Decoder struct {
	r     wire.Reader
	cx    *wire.Context
	depth int
	scope *scope
	done  bool
}

// NewDecoder creates a Decoder for the next value of r.
func NewDecoder(r wire.Reader, opts ...wire.ContextOption) (*Decoder, error) {
	cx, err := wire.NewContext(opts...)
	if err != nil {
		return nil, err
	}

	return NewDecoderWithContext(r, cx), nil
}

// NewDecoderWithContext creates a Decoder sharing an existing context.
func NewDecoderWithContext(r wire.Reader, cx *wire.Context) *Decoder {
	if cx == nil {
		cx = wire.DefaultContext()
	}

	return &Decoder{r: r, cx: cx}
}

func newChild(r wire.Reader, cx *wire.Context, depth int, sc *scope) *Decoder {
	return &Decoder{r: r, cx: cx, depth: depth, scope: sc}
}

// Context returns the decode context.
func (d *Decoder) Context() *wire.Context {
	return d.cx
}

// Offset returns the reader position.
func (d *Decoder) Offset() int {
	return d.r.Offset()
}

// Consumed reports whether the value has already been decoded or skipped.
func (d *Decoder) Consumed() bool {
	return d.done
}

func (d *Decoder) usable() error {
	if d.scope != nil && d.scope.closed {
		return d.cx.Message(d.r, "%w", errs.ErrCursorClosed)
	}
	if d.done {
		return d.cx.Message(d.r, "%w", errs.ErrValueConsumed)
	}

	return nil
}

func (d *Decoder) take() error {
	if err := d.usable(); err != nil {
		return err
	}
	d.done = true

	return nil
}

func (d *Decoder) readTag() (format.Tag, int, error) {
	mark := d.cx.Mark(d.r)
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, mark, d.cx.Marked(mark, err)
	}

	return format.Tag(b), mark, nil
}

// expect takes the decoder and reads a tag of the given kind.
func (d *Decoder) expect(kind format.Kind, what string) (format.Tag, int, error) {
	if err := d.take(); err != nil {
		return 0, 0, err
	}

	tag, mark, err := d.readTag()
	if err != nil {
		return 0, mark, err
	}
	if tag.Kind() != kind {
		return 0, mark, mismatch(d.cx, mark, what, tag)
	}

	return tag, mark, nil
}

func (d *Decoder) expectMark(m format.Mark) (int, error) {
	if err := d.take(); err != nil {
		return 0, err
	}

	tag, mark, err := d.readTag()
	if err != nil {
		return mark, err
	}
	if tag != format.MarkTag(m) {
		return mark, mismatch(d.cx, mark, m.String(), tag)
	}

	return mark, nil
}

func (d *Decoder) enter(mark int) (int, error) {
	depth := d.depth + 1
	if depth > d.cx.MaxDepth() {
		return 0, d.cx.MarkedMessage(mark, "%w: %d", errs.ErrDepthLimit, d.cx.MaxDepth())
	}

	return depth, nil
}

func mismatch(cx *wire.Context, mark int, want string, got format.Tag) error {
	if !got.Kind().Valid() {
		return cx.MarkedMessage(mark, "%w: tag 0x%02x", errs.ErrUnsupportedKind, uint8(got))
	}

	return cx.MarkedMessage(mark, "%w: expected %s, found %s", errs.ErrTagMismatch, want, got)
}

// readLen returns the length carried by a length-prefixed tag.
func readLen(r wire.Reader, cx *wire.Context, tag format.Tag, mark int) (int, error) {
	if n, ok := tag.InlineLen(); ok {
		return cx.CheckLength(mark, uint64(n))
	}

	v, err := encoding.ReadUvarint(r, 64)
	if err != nil {
		return 0, cx.Marked(mark, err)
	}

	return cx.CheckLength(mark, v)
}

// TypeHint peeks at the next tag without consuming anything. An exhausted
// input reports HintAny rather than an error.
func (d *Decoder) TypeHint() (TypeHint, error) {
	if err := d.usable(); err != nil {
		return TypeHint{}, err
	}

	b, ok, err := d.r.PeekByte()
	if err != nil {
		return TypeHint{}, d.cx.Message(d.r, "%w", err)
	}
	if !ok {
		return TypeHint{Kind: HintAny, Size: -1}, nil
	}

	return hintFromTag(format.Tag(b)), nil
}

// Skip discards the value whatever its shape.
func (d *Decoder) Skip() error {
	if err := d.take(); err != nil {
		return err
	}

	return skipValues(d.r, d.cx, 1)
}

// End verifies that the input holds nothing after the decoded value. It is
// meant for top-level decoders over a complete buffer.
func (d *Decoder) End() error {
	if !d.done {
		if err := d.Skip(); err != nil {
			return err
		}
	}

	_, ok, err := d.r.PeekByte()
	if err != nil {
		return d.cx.Message(d.r, "%w", err)
	}
	if ok {
		return d.cx.Message(d.r, "%w", errs.ErrTrailingData)
	}

	return nil
}

// DecodeUnit consumes a unit mark.
func (d *Decoder) DecodeUnit() error {
	_, err := d.expectMark(format.MarkUnit)
	return err
}

// DecodeBool decodes a true or false mark.
func (d *Decoder) DecodeBool() (bool, error) {
	if err := d.take(); err != nil {
		return false, err
	}

	tag, mark, err := d.readTag()
	if err != nil {
		return false, err
	}

	switch tag {
	case format.MarkTag(format.MarkTrue):
		return true, nil
	case format.MarkTag(format.MarkFalse):
		return false, nil
	default:
		return false, mismatch(d.cx, mark, "bool", tag)
	}
}

// DecodeChar decodes a Unicode scalar value.
func (d *Decoder) DecodeChar() (rune, error) {
	mark, err := d.expectMark(format.MarkChar)
	if err != nil {
		return 0, err
	}

	return readChar(d.r, d.cx, mark)
}

func readChar(r wire.Reader, cx *wire.Context, mark int) (rune, error) {
	v, err := encoding.ReadUvarint(r, 32)
	if err != nil {
		return 0, cx.Marked(mark, err)
	}

	c := rune(v) //nolint:gosec
	if v > math.MaxInt32 || !utf8.ValidRune(c) {
		return 0, cx.MarkedMessage(mark, "%w: invalid char 0x%x", errs.ErrMalformedScalar, v)
	}

	return c, nil
}

func (d *Decoder) number(kind format.NumberKind) (uint64, error) {
	if err := d.take(); err != nil {
		return 0, err
	}

	tag, mark, err := d.readTag()
	if err != nil {
		return 0, err
	}
	if tag != format.NumberTag(kind) {
		return 0, mismatch(d.cx, mark, kind.String(), tag)
	}

	v, err := encoding.ReadUvarint(d.r, kind.Bits())
	if err != nil {
		return 0, d.cx.Marked(mark, err)
	}

	return v, nil
}

func (d *Decoder) number128(kind format.NumberKind) (encoding.Uint128, error) {
	if err := d.take(); err != nil {
		return encoding.Uint128{}, err
	}

	tag, mark, err := d.readTag()
	if err != nil {
		return encoding.Uint128{}, err
	}
	if tag != format.NumberTag(kind) {
		return encoding.Uint128{}, mismatch(d.cx, mark, kind.String(), tag)
	}

	v, err := encoding.ReadUvarint128(d.r)
	if err != nil {
		return encoding.Uint128{}, d.cx.Marked(mark, err)
	}

	return v, nil
}

// DecodeU8 decodes a number tagged u8.
func (d *Decoder) DecodeU8() (uint8, error) {
	v, err := d.number(format.NumberU8)
	return uint8(v), err //nolint:gosec
}

// DecodeU16 decodes a number tagged u16.
func (d *Decoder) DecodeU16() (uint16, error) {
	v, err := d.number(format.NumberU16)
	return uint16(v), err //nolint:gosec
}

// DecodeU32 decodes a number tagged u32.
func (d *Decoder) DecodeU32() (uint32, error) {
	v, err := d.number(format.NumberU32)
	return uint32(v), err //nolint:gosec
}

// DecodeU64 decodes a number tagged u64.
func (d *Decoder) DecodeU64() (uint64, error) {
	return d.number(format.NumberU64)
}

// DecodeU128 decodes a number tagged u128.
func (d *Decoder) DecodeU128() (encoding.Uint128, error) {
	return d.number128(format.NumberU128)
}

// DecodeUint decodes a platform-sized unsigned integer, written as u64.
func (d *Decoder) DecodeUint() (uint, error) {
	v, err := d.number(format.NumberU64)
	return uint(v), err
}

// DecodeI8 decodes a zigzag number tagged i8.
func (d *Decoder) DecodeI8() (int8, error) {
	v, err := d.number(format.NumberI8)
	return int8(encoding.UnZigZag64(v)), err //nolint:gosec
}

// DecodeI16 decodes a zigzag number tagged i16.
func (d *Decoder) DecodeI16() (int16, error) {
	v, err := d.number(format.NumberI16)
	return int16(encoding.UnZigZag64(v)), err //nolint:gosec
}

// DecodeI32 decodes a zigzag number tagged i32.
func (d *Decoder) DecodeI32() (int32, error) {
	v, err := d.number(format.NumberI32)
	return int32(encoding.UnZigZag64(v)), err //nolint:gosec
}

// DecodeI64 decodes a zigzag number tagged i64.
func (d *Decoder) DecodeI64() (int64, error) {
	v, err := d.number(format.NumberI64)
	return encoding.UnZigZag64(v), err
}

// DecodeI128 decodes a zigzag number tagged i128.
func (d *Decoder) DecodeI128() (encoding.Int128, error) {
	v, err := d.number128(format.NumberI128)
	return encoding.UnZigZag128(v), err
}

// DecodeInt decodes a platform-sized signed integer, written as i64.
func (d *Decoder) DecodeInt() (int, error) {
	v, err := d.number(format.NumberI64)
	return int(encoding.UnZigZag64(v)), err
}

// DecodeF32 decodes an f32 stored as its IEEE 754 bit pattern.
func (d *Decoder) DecodeF32() (float32, error) {
	v, err := d.number(format.NumberF32)
	return math.Float32frombits(uint32(v)), err //nolint:gosec
}

// DecodeF64 decodes an f64 stored as its IEEE 754 bit pattern.
func (d *Decoder) DecodeF64() (float64, error) {
	v, err := d.number(format.NumberF64)
	return math.Float64frombits(v), err
}

// DecodeNumber decodes a number of any sub-kind and hands it to v.
func (d *Decoder) DecodeNumber(v NumberVisitor) error {
	tag, mark, err := d.expect(format.KindNumber, "number")
	if err != nil {
		return err
	}

	return visitNumber(d.r, d.cx, mark, tag.Number(), v)
}

func visitNumber(r wire.Reader, cx *wire.Context, mark int, kind format.NumberKind, v NumberVisitor) error {
	if kind == format.NumberU128 || kind == format.NumberI128 || !kind.Valid() {
		wide, err := encoding.ReadUvarint128(r)
		if err != nil {
			return cx.Marked(mark, err)
		}

		switch kind {
		case format.NumberU128:
			return v.VisitU128(wide)
		case format.NumberI128:
			return v.VisitI128(encoding.UnZigZag128(wide))
		default:
			return v.VisitAnyNumber(kind, wide)
		}
	}

	raw, err := encoding.ReadUvarint(r, kind.Bits())
	if err != nil {
		return cx.Marked(mark, err)
	}

	//nolint:gosec
	switch kind {
	case format.NumberU8:
		return v.VisitU8(uint8(raw))
	case format.NumberU16:
		return v.VisitU16(uint16(raw))
	case format.NumberU32:
		return v.VisitU32(uint32(raw))
	case format.NumberU64:
		return v.VisitU64(raw)
	case format.NumberI8:
		return v.VisitI8(int8(encoding.UnZigZag64(raw)))
	case format.NumberI16:
		return v.VisitI16(int16(encoding.UnZigZag64(raw)))
	case format.NumberI32:
		return v.VisitI32(int32(encoding.UnZigZag64(raw)))
	case format.NumberI64:
		return v.VisitI64(encoding.UnZigZag64(raw))
	case format.NumberF32:
		return v.VisitF32(math.Float32frombits(uint32(raw)))
	default:
		return v.VisitF64(math.Float64frombits(raw))
	}
}

// DecodeBytes decodes a byte string and hands it to v.
func (d *Decoder) DecodeBytes(v wire.BytesVisitor) error {
	tag, mark, err := d.expect(format.KindBytes, "bytes")
	if err != nil {
		return err
	}

	n, err := readLen(d.r, d.cx, tag, mark)
	if err != nil {
		return err
	}

	return d.cx.Marked(mark, d.r.ReadBytes(n, v))
}

// DecodeBytesOwned decodes a byte string into a slice the caller owns.
func (d *Decoder) DecodeBytesOwned() ([]byte, error) {
	var out []byte
	err := d.DecodeBytes(wire.BytesFunc(func(b []byte, own wire.Ownership) error {
		out = wire.Retain(b, own)
		return nil
	}))

	return out, err
}

// DecodeArray decodes a byte string whose length must equal len(dst).
func (d *Decoder) DecodeArray(dst []byte) error {
	tag, mark, err := d.expect(format.KindBytes, "bytes")
	if err != nil {
		return err
	}

	n, err := readLen(d.r, d.cx, tag, mark)
	if err != nil {
		return err
	}
	if n != len(dst) {
		return d.cx.MarkedMessage(mark, "%w: expected %d bytes, found %d", errs.ErrLengthMismatch, len(dst), n)
	}

	return d.cx.Marked(mark, d.r.ReadFull(dst))
}

// DecodeStringBytes decodes a string and hands its UTF-8 validated bytes to v.
func (d *Decoder) DecodeStringBytes(v wire.BytesVisitor) error {
	tag, mark, err := d.expect(format.KindString, "string")
	if err != nil {
		return err
	}

	return readString(d.r, d.cx, tag, mark, func(b []byte, own wire.Ownership) error {
		switch own {
		case wire.Borrowed:
			return v.VisitBorrowed(b)
		case wire.Ref:
			return v.VisitRef(b)
		default:
			return v.VisitOwned(b)
		}
	})
}

// DecodeString decodes a UTF-8 string into a new Go string.
func (d *Decoder) DecodeString() (string, error) {
	var out string
	err := d.DecodeStringBytes(wire.BytesFunc(func(b []byte, _ wire.Ownership) error {
		out = string(b)
		return nil
	}))

	return out, err
}

func readString(r wire.Reader, cx *wire.Context, tag format.Tag, mark int, fn wire.BytesFunc) error {
	n, err := readLen(r, cx, tag, mark)
	if err != nil {
		return err
	}

	return cx.Marked(mark, r.ReadBytes(n, wire.BytesFunc(func(b []byte, own wire.Ownership) error {
		if !utf8.Valid(b) {
			return errs.ErrInvalidUTF8
		}

		return fn(b, own)
	})))
}

// DecodeOption decodes an optional value. It returns nil for None; for Some
// it returns the same decoder, now positioned at the wrapped value.
func (d *Decoder) DecodeOption() (*Decoder, error) {
	if err := d.take(); err != nil {
		return nil, err
	}

	tag, mark, err := d.readTag()
	if err != nil {
		return nil, err
	}

	switch tag {
	case format.MarkTag(format.MarkNone):
		return nil, nil
	case format.MarkTag(format.MarkSome):
		depth, err := d.enter(mark)
		if err != nil {
			return nil, err
		}
		d.depth = depth
		d.done = false

		return d, nil
	default:
		return nil, mismatch(d.cx, mark, "option", tag)
	}
}

// DecodePack decodes a Bytes value as a plain payload. fn reads the fields
// it knows; bytes it leaves unread are skipped.
func (d *Decoder) DecodePack(fn func(p *plain.Decoder) error, opts ...plain.DecoderOption) error {
	tag, mark, err := d.expect(format.KindBytes, "pack")
	if err != nil {
		return err
	}

	n, err := readLen(d.r, d.cx, tag, mark)
	if err != nil {
		return err
	}

	lr := d.r.Limit(n)
	p, err := plain.NewDecoder(lr, append([]plain.DecoderOption{plain.WithDecoderContext(d.cx)}, opts...)...)
	if err != nil {
		return err
	}
	if err := fn(p); err != nil {
		return err
	}

	return d.cx.Marked(mark, lr.End())
}

// DecodeSequence decodes a sequence. Elements fn does not consume are skipped.
func (d *Decoder) DecodeSequence(fn func(seq *RemainingDecoder) error) error {
	tag, mark, err := d.expect(format.KindSequence, "sequence")
	if err != nil {
		return err
	}

	return d.container(tag, mark, false, fn)
}

// DecodeMap decodes a map. Entries fn does not consume are skipped.
func (d *Decoder) DecodeMap(fn func(m *RemainingDecoder) error) error {
	tag, mark, err := d.expect(format.KindMap, "map")
	if err != nil {
		return err
	}

	return d.container(tag, mark, true, fn)
}

// DecodeStruct decodes a struct written as a map of field name or index to
// field value. Unknown fields are skipped.
func (d *Decoder) DecodeStruct(fn func(fields *RemainingDecoder) error) error {
	return d.DecodeMap(fn)
}

// DecodeUnsizedStruct is DecodeStruct for callers that do not track the
// field count; the encoded count still bounds the fields read.
func (d *Decoder) DecodeUnsizedStruct(fn func(fields *RemainingDecoder) error) error {
	return d.DecodeMap(fn)
}

func (d *Decoder) container(tag format.Tag, mark int, isMap bool, fn func(*RemainingDecoder) error) error {
	n, err := readLen(d.r, d.cx, tag, mark)
	if err != nil {
		return err
	}

	depth, err := d.enter(mark)
	if err != nil {
		return err
	}

	rd := newRemainingDecoder(d.r, d.cx, depth, n, isMap, mark)
	defer rd.close()

	if err := fn(rd); err != nil {
		return err
	}

	return rd.drain()
}

// DecodeTuple decodes a sequence of exactly hint.Size elements. The length is
// checked before fn runs; unlike DecodeSequence nothing is skipped afterwards.
func (d *Decoder) DecodeTuple(hint TupleHint, fn func(t *TupleDecoder) error) error {
	tag, mark, err := d.expect(format.KindSequence, "tuple")
	if err != nil {
		return err
	}

	n, err := readLen(d.r, d.cx, tag, mark)
	if err != nil {
		return err
	}
	if n != hint.Size {
		return d.cx.MarkedMessage(mark, "%w: expected tuple of %d, found %d", errs.ErrLengthMismatch, hint.Size, n)
	}

	depth, err := d.enter(mark)
	if err != nil {
		return err
	}

	td := &TupleDecoder{r: d.r, cx: d.cx, depth: depth, scope: &scope{}, items: n}
	defer td.close()

	return fn(td)
}

// DecodeVariant decodes a tagged union. Parts fn does not consume are skipped.
func (d *Decoder) DecodeVariant(fn func(v *VariantDecoder) error) error {
	mark, err := d.expectMark(format.MarkVariant)
	if err != nil {
		return err
	}

	return d.variant(mark, fn)
}

func (d *Decoder) variant(mark int, fn func(v *VariantDecoder) error) error {
	depth, err := d.enter(mark)
	if err != nil {
		return err
	}

	vd := &VariantDecoder{r: d.r, cx: d.cx, depth: depth, scope: &scope{}}
	defer vd.close()

	if err := fn(vd); err != nil {
		return err
	}

	return vd.finish()
}

// DecodeAny decodes whatever value comes next and hands it to v.
func (d *Decoder) DecodeAny(v Visitor) error {
	if err := d.take(); err != nil {
		return err
	}

	tag, mark, err := d.readTag()
	if err != nil {
		return err
	}

	switch tag.Kind() {
	case format.KindNumber:
		return visitNumber(d.r, d.cx, mark, tag.Number(), v)
	case format.KindBytes:
		n, err := readLen(d.r, d.cx, tag, mark)
		if err != nil {
			return err
		}

		return d.cx.Marked(mark, d.r.ReadBytes(n, wire.BytesFunc(v.VisitBytes)))
	case format.KindString:
		return readString(d.r, d.cx, tag, mark, v.VisitString)
	case format.KindSequence:
		return d.container(tag, mark, false, v.VisitSequence)
	case format.KindMap:
		return d.container(tag, mark, true, v.VisitMap)
	case format.KindMark:
		return d.visitMark(tag, mark, v)
	default:
		return d.cx.MarkedMessage(mark, "%w: tag 0x%02x", errs.ErrUnsupportedKind, uint8(tag))
	}
}

func (d *Decoder) visitMark(tag format.Tag, mark int, v Visitor) error {
	switch tag.Mark() {
	case format.MarkTrue:
		return v.VisitBool(true)
	case format.MarkFalse:
		return v.VisitBool(false)
	case format.MarkUnit:
		return v.VisitUnit()
	case format.MarkNone:
		return v.VisitOption(nil)
	case format.MarkSome:
		depth, err := d.enter(mark)
		if err != nil {
			return err
		}
		d.depth = depth
		d.done = false

		if err := v.VisitOption(d); err != nil {
			return err
		}
		if !d.done {
			return d.Skip()
		}

		return nil
	case format.MarkChar:
		c, err := readChar(d.r, d.cx, mark)
		if err != nil {
			return err
		}

		return v.VisitChar(c)
	case format.MarkVariant:
		return d.variant(mark, v.VisitVariant)
	default:
		return d.cx.MarkedMessage(mark, "%w: %d", errs.ErrUnknownMark, tag.Data())
	}
}

func (d *Decoder) String() string {
	return fmt.Sprintf("Decoder(offset=%d, depth=%d, consumed=%t)", d.r.Offset(), d.depth, d.done)
}
