package descriptive

import (
	"github.com/arloliu/tagwire/wire"
)

// Stream iterates over concatenated top-level values.
//
// Example:
//
//	s, _ := descriptive.NewStream(wire.NewStreamReader(conn))
//	for {
//	    d, ok, err := s.Next()
//	    if err != nil || !ok {
//	        break
//	    }
//	    ...
//	}
type Stream struct {
	r   wire.Reader
	cx  *wire.Context
	cur *Decoder
	n   int
}

// NewStream creates a Stream over r.
func NewStream(r wire.Reader, opts ...wire.ContextOption) (*Stream, error) {
	cx, err := wire.NewContext(opts...)
	if err != nil {
		return nil, err
	}

	return &Stream{r: r, cx: cx}, nil
}

// Next returns a decoder for the next value, or false at a clean end of
// input. A previous value left undecoded is skipped.
func (s *Stream) Next() (*Decoder, bool, error) {
	if s.cur != nil && !s.cur.done {
		s.cur.done = true
		if err := skipValues(s.r, s.cx, 1); err != nil {
			return nil, false, err
		}
	}
	s.cur = nil

	_, ok, err := s.r.PeekByte()
	if err != nil {
		return nil, false, s.cx.Message(s.r, "%w", err)
	}
	if !ok {
		return nil, false, nil
	}

	s.n++
	s.cur = NewDecoderWithContext(s.r, s.cx)

	return s.cur, true, nil
}

// Count returns the number of values returned by Next so far.
func (s *Stream) Count() int {
	return s.n
}
