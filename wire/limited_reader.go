package wire

import (
	"fmt"

	"github.com/arloliu/tagwire/errs"
)

// LimitedReader restricts a parent Reader to a fixed number of bytes.
//
// Reads that would cross the limit fail with errs.ErrUnexpectedEOF and
// PeekByte reports end of input once the limit is reached. End discards any
// bytes the consumer did not read, leaving the parent positioned exactly at
// the limit boundary.
type LimitedReader struct {
	parent    Reader
	remaining int
}

var _ Reader = (*LimitedReader)(nil)

func newLimitedReader(parent Reader, n int) *LimitedReader {
	if n < 0 {
		n = 0
	}

	return &LimitedReader{parent: parent, remaining: n}
}

// Remaining returns the number of bytes left before the limit.
func (r *LimitedReader) Remaining() int {
	return r.remaining
}

// End skips the unread remainder of the limit.
func (r *LimitedReader) End() error {
	if r.remaining == 0 {
		return nil
	}
	n := r.remaining
	r.remaining = 0

	return r.parent.Skip(n)
}

func (r *LimitedReader) Offset() int {
	return r.parent.Offset()
}

func (r *LimitedReader) PeekByte() (byte, bool, error) {
	if r.remaining == 0 {
		return 0, false, nil
	}

	return r.parent.PeekByte()
}

func (r *LimitedReader) ReadByte() (byte, error) {
	if r.remaining == 0 {
		return 0, fmt.Errorf("%w: read past limit", errs.ErrUnexpectedEOF)
	}
	b, err := r.parent.ReadByte()
	if err != nil {
		return 0, err
	}
	r.remaining--

	return b, nil
}

func (r *LimitedReader) ReadFull(dst []byte) error {
	if err := r.claim(len(dst)); err != nil {
		return err
	}

	return r.parent.ReadFull(dst)
}

func (r *LimitedReader) ReadBytes(n int, v BytesVisitor) error {
	if err := r.claim(n); err != nil {
		return err
	}

	return r.parent.ReadBytes(n, v)
}

func (r *LimitedReader) Skip(n int) error {
	if err := r.claim(n); err != nil {
		return err
	}

	return r.parent.Skip(n)
}

// Limit nests a further limit. Reads through the nested reader still count
// against this one, so a nested limit larger than Remaining fails on access.
func (r *LimitedReader) Limit(n int) *LimitedReader {
	return newLimitedReader(r, n)
}

func (r *LimitedReader) claim(n int) error {
	if n < 0 || n > r.remaining {
		return fmt.Errorf("%w: need %d bytes, limit has %d", errs.ErrUnexpectedEOF, n, r.remaining)
	}
	r.remaining -= n

	return nil
}
