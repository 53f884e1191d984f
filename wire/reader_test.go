package wire

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/arloliu/tagwire/errs"
	"github.com/arloliu/tagwire/internal/pool"
	"github.com/stretchr/testify/require"
)

type capture struct {
	data []byte
	own  Ownership
}

func (c *capture) fn() BytesFunc {
	return func(b []byte, own Ownership) error {
		c.data = Retain(b, own)
		c.own = own

		return nil
	}
}

func readers(data []byte) map[string]Reader {
	return map[string]Reader{
		"Slice":  NewSliceReader(data),
		"Stream": NewStreamReader(bytes.NewReader(data)),
	}
}

func TestReader_Basics(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}

	for name, r := range readers(data) {
		t.Run(name, func(t *testing.T) {
			b, ok, err := r.PeekByte()
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, byte(1), b)
			require.Equal(t, 0, r.Offset())

			b, err = r.ReadByte()
			require.NoError(t, err)
			require.Equal(t, byte(1), b)

			dst := make([]byte, 2)
			require.NoError(t, r.ReadFull(dst))
			require.Equal(t, []byte{2, 3}, dst)

			require.NoError(t, r.Skip(1))
			require.Equal(t, 4, r.Offset())

			var c capture
			require.NoError(t, r.ReadBytes(3, c.fn()))
			require.Equal(t, []byte{5, 6, 7}, c.data)

			require.NoError(t, r.Skip(1))
			_, ok, err = r.PeekByte()
			require.NoError(t, err)
			require.False(t, ok)

			_, err = r.ReadByte()
			require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
			require.ErrorIs(t, r.Skip(1), errs.ErrUnexpectedEOF)
		})
	}
}

func TestReader_Ownership(t *testing.T) {
	data := []byte("hello")

	var c capture
	require.NoError(t, NewSliceReader(data).ReadBytes(5, c.fn()))
	require.Equal(t, Borrowed, c.own)

	require.NoError(t, NewStreamReader(bytes.NewReader(data)).ReadBytes(5, c.fn()))
	require.Equal(t, Ref, c.own)
	require.Equal(t, data, c.data)

	large := bytes.Repeat([]byte{0xAB}, pool.ScratchMaxThreshold+1)
	require.NoError(t, NewStreamReader(bytes.NewReader(large)).ReadBytes(len(large), c.fn()))
	require.Equal(t, Owned, c.own)
	require.Equal(t, large, c.data)
}

func TestSliceReader_BorrowedAliasesInput(t *testing.T) {
	data := []byte("abcdef")
	r := NewSliceReader(data)
	require.NoError(t, r.Skip(2))

	var got []byte
	require.NoError(t, r.ReadBytes(2, BytesFunc(func(b []byte, _ Ownership) error {
		got = b
		return nil
	})))
	require.Equal(t, &data[2], &got[0])
	require.Equal(t, []byte("ef"), r.Remaining())
	require.Equal(t, 2, r.Len())
}

func TestReader_Truncated(t *testing.T) {
	for name, r := range readers([]byte{1, 2}) {
		t.Run(name, func(t *testing.T) {
			err := r.ReadFull(make([]byte, 3))
			require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
		})
	}
}

func TestLimitedReader(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 0xEE}

	for name, r := range readers(data) {
		t.Run(name, func(t *testing.T) {
			lr := r.Limit(5)
			require.Equal(t, 5, lr.Remaining())

			b, err := lr.ReadByte()
			require.NoError(t, err)
			require.Equal(t, byte(1), b)

			err = lr.Skip(10)
			require.ErrorIs(t, err, errs.ErrUnexpectedEOF)

			require.NoError(t, lr.End())
			require.Equal(t, 0, lr.Remaining())
			require.Equal(t, 5, r.Offset())

			_, ok, err := lr.PeekByte()
			require.NoError(t, err)
			require.False(t, ok)

			b, err = r.ReadByte()
			require.NoError(t, err)
			require.Equal(t, byte(0xEE), b)
		})
	}
}

func TestLimitedReader_Nested(t *testing.T) {
	r := NewSliceReader([]byte{1, 2, 3, 4})
	outer := r.Limit(3)
	inner := outer.Limit(2)

	require.NoError(t, inner.End())
	require.Equal(t, 1, outer.Remaining())
	require.Equal(t, 2, r.Offset())

	tooBig := outer.Limit(4)
	require.ErrorIs(t, tooBig.End(), errs.ErrUnexpectedEOF)
}

func TestStreamReader_ReadError(t *testing.T) {
	r := NewStreamReader(io.MultiReader(bytes.NewReader([]byte{1}), iotestErrReader{}))
	_, err := r.ReadByte()
	require.NoError(t, err)

	_, err = r.ReadByte()
	require.EqualError(t, err, "broken pipe")
}

type iotestErrReader struct{}

func (iotestErrReader) Read([]byte) (int, error) {
	return 0, errBroken
}

var errBroken = &brokenErr{}

type brokenErr struct{}

func (*brokenErr) Error() string { return "broken pipe" }

func TestContext(t *testing.T) {
	c := DefaultContext()
	require.Equal(t, DefaultMaxDepth, c.MaxDepth())
	require.Equal(t, DefaultMaxLength, c.MaxLength())
	require.False(t, c.Debug())

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c, err := NewContext(WithLogger(logger), WithMaxDepth(4), WithMaxLength(16))
	require.NoError(t, err)
	require.True(t, c.Debug())
	require.Equal(t, 4, c.MaxDepth())

	_, err = c.CheckLength(9, 17)
	require.ErrorIs(t, err, errs.ErrLengthLimit)
	off, ok := errs.Offset(err)
	require.True(t, ok)
	require.Equal(t, 9, off)

	n, err := c.CheckLength(0, 16)
	require.NoError(t, err)
	require.Equal(t, 16, n)

	_, err = NewContext(WithMaxDepth(0))
	require.Error(t, err)

	c2, err := NewContext(WithMaxLength(MaxLengthLimit))
	require.NoError(t, err)
	require.Equal(t, MaxLengthLimit, c2.MaxLength())
	_, err = NewContext(WithMaxLength(MaxLengthLimit + 1))
	require.Error(t, err)

	r := NewSliceReader([]byte{1, 2})
	require.NoError(t, r.Skip(1))
	require.Equal(t, 1, c.Mark(r))
	err = c.Message(r, "%w: boom", errs.ErrMalformedScalar)
	require.ErrorIs(t, err, errs.ErrMalformedScalar)
	require.EqualError(t, err, "at offset 1: malformed scalar: boom")
	require.True(t, IsEOF(errs.ErrUnexpectedEOF))
}
