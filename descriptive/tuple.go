package descriptive

import (
	"github.com/arloliu/tagwire/errs"
	"github.com/arloliu/tagwire/wire"
)

// TupleDecoder is the cursor handed to DecodeTuple callbacks.
//
// The element count was checked against the expected arity before the
// callback ran, so every element is expected to be decoded in order. Nothing
// is skipped on the caller's behalf.
type TupleDecoder struct {
	r     wire.Reader
	cx    *wire.Context
	depth int
	scope *scope
	items int
}

// Next returns the decoder for the next element.
func (t *TupleDecoder) Next() (*Decoder, error) {
	if t.scope.closed {
		return nil, t.cx.Message(t.r, "%w", errs.ErrCursorClosed)
	}
	if t.items == 0 {
		return nil, t.cx.Message(t.r, "%w: tuple has no more elements", errs.ErrLengthMismatch)
	}
	t.items--

	return newChild(t.r, t.cx, t.depth, t.scope), nil
}

// Remaining returns the number of elements not pulled yet.
func (t *TupleDecoder) Remaining() int {
	return t.items
}

func (t *TupleDecoder) close() {
	t.scope.closed = true
}
