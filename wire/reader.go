// Package wire provides the pull-based byte source and the decode context that
// tagwire decoders are built on.
//
// A Reader is a cursor over encoded input. Every decoder borrows the same
// Reader for the duration of one decode step, so the Reader position is the
// single source of truth for where the next value starts.
//
// Two implementations are provided:
//   - SliceReader reads from an in-memory byte slice and hands out borrowed
//     sub-slices without copying.
//   - StreamReader reads from an io.Reader through a buffer and hands out
//     transient (ref) or owned copies.
//
// Limit returns a LimitedReader that refuses to read past a fixed number of
// bytes; its End method skips whatever the inner consumer left behind.
package wire

import "io"

// Reader is the byte source consumed by decoders.
//
// Reads past the end of input fail with errs.ErrUnexpectedEOF.
type Reader interface {
	io.ByteReader

	// PeekByte returns the next byte without consuming it.
	// ok is false when the input is exhausted.
	PeekByte() (b byte, ok bool, err error)

	// ReadFull fills dst completely.
	ReadFull(dst []byte) error

	// ReadBytes reads exactly n bytes and hands them to v using the most
	// efficient ownership variant the reader supports.
	ReadBytes(n int, v BytesVisitor) error

	// Skip discards exactly n bytes.
	Skip(n int) error

	// Limit returns a reader that yields at most n bytes from this one.
	Limit(n int) *LimitedReader

	// Offset returns the number of bytes consumed so far.
	Offset() int
}

// Ownership tells a BytesVisitor how long the delivered slice stays valid.
type Ownership uint8

const (
	// Borrowed slices alias the original input and live as long as it does.
	Borrowed Ownership = iota
	// Ref slices point into a scratch buffer and are only valid during the call.
	Ref
	// Owned slices were freshly allocated; the visitor may keep them.
	Owned
)

func (o Ownership) String() string {
	switch o {
	case Borrowed:
		return "borrowed"
	case Ref:
		return "ref"
	case Owned:
		return "owned"
	default:
		return "unknown"
	}
}

// BytesVisitor receives raw byte payloads.
type BytesVisitor interface {
	VisitBorrowed(b []byte) error
	VisitRef(b []byte) error
	VisitOwned(b []byte) error
}

// BytesFunc adapts a single function to BytesVisitor.
type BytesFunc func(b []byte, own Ownership) error

var _ BytesVisitor = BytesFunc(nil)

func (f BytesFunc) VisitBorrowed(b []byte) error { return f(b, Borrowed) }
func (f BytesFunc) VisitRef(b []byte) error      { return f(b, Ref) }
func (f BytesFunc) VisitOwned(b []byte) error    { return f(b, Owned) }

// Retain returns a slice the caller may keep: owned slices are returned as-is,
// anything else is copied.
func Retain(b []byte, own Ownership) []byte {
	if own == Owned {
		return b
	}

	out := make([]byte, len(b))
	copy(out, b)

	return out
}
