// Package errs defines the sentinel errors returned by tagwire packages.
//
// Errors are wrapped with additional context using fmt.Errorf and the %w verb,
// so callers should match them with errors.Is:
//
//	if errors.Is(err, errs.ErrTagMismatch) {
//	    // handle unexpected wire shape
//	}
//
// Decode failures are additionally wrapped in a PositionError carrying the
// byte offset captured before the failing read.
package errs

import (
	"errors"
	"fmt"
)

// Decode errors.
var (
	ErrTagMismatch         = errors.New("tag mismatch")
	ErrMalformedScalar     = errors.New("malformed scalar")
	ErrLengthMismatch      = errors.New("length mismatch")
	ErrFieldBudgetExceeded = errors.New("field budget exceeded")
	ErrUnsupportedKind     = errors.New("unsupported kind")
	ErrUnknownMark         = errors.New("unknown mark")
	ErrVarIntOverflow      = errors.New("varint overflows target width")
	ErrUnexpectedEOF       = errors.New("unexpected end of input")
	ErrInvalidUTF8         = errors.New("invalid UTF-8 string")
	ErrLengthLimit         = errors.New("length exceeds configured limit")
	ErrDepthLimit          = errors.New("nesting depth exceeds configured limit")
	ErrCursorClosed        = errors.New("decoder used outside its scope")
	ErrValueConsumed       = errors.New("value already decoded")
	ErrUnexpectedValue     = errors.New("unexpected value for visitor")
	ErrTrailingData        = errors.New("trailing data after value")
)

// Frame errors.
var (
	ErrInvalidFrameHeader = errors.New("invalid frame header")
	ErrChecksumMismatch   = errors.New("frame checksum mismatch")
	ErrInvalidCompression = errors.New("invalid compression type")
	ErrCorruptPayload     = errors.New("corrupt compressed payload")
)

// PositionError annotates an error with the input offset at which the failing
// value started.
type PositionError struct {
	Offset int
	Err    error
}

// Error prefixes the wrapped message with the offset.
func (e *PositionError) Error() string {
	return fmt.Sprintf("at offset %d: %v", e.Offset, e.Err)
}

// Unwrap returns the positioned error.
func (e *PositionError) Unwrap() error {
	return e.Err
}

// At wraps err with the given offset. Errors that already carry a position are
// returned unchanged so the innermost offset wins.
func At(offset int, err error) error {
	if err == nil {
		return nil
	}

	var pe *PositionError
	if errors.As(err, &pe) {
		return err
	}

	return &PositionError{Offset: offset, Err: err}
}

// Offset returns the offset recorded in err, if any.
func Offset(err error) (int, bool) {
	var pe *PositionError
	if errors.As(err, &pe) {
		return pe.Offset, true
	}

	return 0, false
}
