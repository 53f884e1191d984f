package wire

import (
	"fmt"

	"github.com/arloliu/tagwire/errs"
)

// SliceReader reads from an in-memory byte slice.
//
// ReadBytes delivers borrowed sub-slices of the input, so decoding from a
// SliceReader never copies payload bytes.
type SliceReader struct {
	data []byte
	pos  int
}

var _ Reader = (*SliceReader)(nil)

// NewSliceReader creates a reader positioned at the start of data.
func NewSliceReader(data []byte) *SliceReader {
	return &SliceReader{data: data}
}

// Remaining returns the unread part of the input.
func (r *SliceReader) Remaining() []byte {
	return r.data[r.pos:]
}

// Len returns the number of unread bytes.
func (r *SliceReader) Len() int {
	return len(r.data) - r.pos
}

func (r *SliceReader) Offset() int {
	return r.pos
}

func (r *SliceReader) PeekByte() (byte, bool, error) {
	if r.pos >= len(r.data) {
		return 0, false, nil
	}

	return r.data[r.pos], true, nil
}

func (r *SliceReader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errs.ErrUnexpectedEOF
	}
	b := r.data[r.pos]
	r.pos++

	return b, nil
}

func (r *SliceReader) ReadFull(dst []byte) error {
	src, err := r.take(len(dst))
	if err != nil {
		return err
	}
	copy(dst, src)

	return nil
}

func (r *SliceReader) ReadBytes(n int, v BytesVisitor) error {
	src, err := r.take(n)
	if err != nil {
		return err
	}

	return v.VisitBorrowed(src)
}

func (r *SliceReader) Skip(n int) error {
	_, err := r.take(n)
	return err
}

func (r *SliceReader) Limit(n int) *LimitedReader {
	return newLimitedReader(r, n)
}

func (r *SliceReader) take(n int) ([]byte, error) {
	if n < 0 || n > len(r.data)-r.pos {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", errs.ErrUnexpectedEOF, n, len(r.data)-r.pos)
	}
	src := r.data[r.pos : r.pos+n : r.pos+n]
	r.pos += n

	return src, nil
}
