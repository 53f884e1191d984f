package wire

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/tagwire/errs"
	"github.com/arloliu/tagwire/internal/pool"
)

// StreamReader reads from an io.Reader through an internal buffer.
//
// Payloads up to pool.ScratchMaxThreshold bytes are delivered as Ref slices
// backed by a pooled scratch buffer; larger payloads are read into a fresh
// allocation and delivered as Owned.
type StreamReader struct {
	br  *bufio.Reader
	off int
}

var _ Reader = (*StreamReader)(nil)

// NewStreamReader creates a reader over r.
func NewStreamReader(r io.Reader) *StreamReader {
	if br, ok := r.(*bufio.Reader); ok {
		return &StreamReader{br: br}
	}

	return &StreamReader{br: bufio.NewReader(r)}
}

func (r *StreamReader) Offset() int {
	return r.off
}

func (r *StreamReader) PeekByte() (byte, bool, error) {
	b, err := r.br.Peek(1)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, false, nil
		}

		return 0, false, err
	}

	return b[0], true, nil
}

func (r *StreamReader) ReadByte() (byte, error) {
	b, err := r.br.ReadByte()
	if err != nil {
		return 0, eof(err)
	}
	r.off++

	return b, nil
}

func (r *StreamReader) ReadFull(dst []byte) error {
	n, err := io.ReadFull(r.br, dst)
	r.off += n
	if err != nil {
		return eof(err)
	}

	return nil
}

func (r *StreamReader) ReadBytes(n int, v BytesVisitor) error {
	if n < 0 {
		return fmt.Errorf("%w: negative length %d", errs.ErrUnexpectedEOF, n)
	}

	if n <= pool.ScratchMaxThreshold {
		scratch := pool.GetScratch()
		defer pool.PutScratch(scratch)

		buf := scratch.Resize(n)
		if err := r.ReadFull(buf); err != nil {
			return err
		}

		return v.VisitRef(buf)
	}

	buf := make([]byte, n)
	if err := r.ReadFull(buf); err != nil {
		return err
	}

	return v.VisitOwned(buf)
}

func (r *StreamReader) Skip(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative skip %d", errs.ErrUnexpectedEOF, n)
	}
	d, err := r.br.Discard(n)
	r.off += d
	if err != nil {
		return eof(err)
	}

	return nil
}

func (r *StreamReader) Limit(n int) *LimitedReader {
	return newLimitedReader(r, n)
}

func eof(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errs.ErrUnexpectedEOF
	}

	return err
}
