package wire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/arloliu/tagwire/errs"
	"github.com/arloliu/tagwire/internal/options"
)

const (
	// DefaultMaxDepth bounds recursive dispatch through nested containers.
	DefaultMaxDepth = 256
	// DefaultMaxLength bounds any single decoded length field.
	DefaultMaxLength = 64 << 20
	// MaxLengthLimit is the largest value WithMaxLength accepts. Doubling it
	// for map pair counts cannot overflow an int.
	MaxLengthLimit = math.MaxInt / 4
)

// Context carries decode configuration and builds positioned errors.
//
// A Context is immutable after construction and may be shared between
// decoders running on different goroutines.
type Context struct {
	logger    *slog.Logger
	maxDepth  int
	maxLength int
}

// ContextOption configures a Context.
type ContextOption = options.Option[*Context]

var defaultContext = &Context{
	logger:    slog.New(slog.DiscardHandler),
	maxDepth:  DefaultMaxDepth,
	maxLength: DefaultMaxLength,
}

// DefaultContext returns the shared default configuration.
func DefaultContext() *Context {
	return defaultContext
}

// NewContext creates a Context with the given options applied on top of the defaults.
func NewContext(opts ...ContextOption) (*Context, error) {
	if len(opts) == 0 {
		return defaultContext, nil
	}

	c := *defaultContext
	if err := options.Apply(&c, opts...); err != nil {
		return nil, err
	}

	return &c, nil
}

// WithLogger routes decoder diagnostics to logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) ContextOption {
	return options.NoError(func(c *Context) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		c.logger = logger
	})
}

// WithMaxDepth sets the maximum nesting depth for dispatching decodes.
func WithMaxDepth(depth int) ContextOption {
	return options.New(func(c *Context) error {
		if depth <= 0 {
			return fmt.Errorf("max depth must be positive, got %d", depth)
		}
		c.maxDepth = depth

		return nil
	})
}

// WithMaxLength sets the maximum accepted value of any length field. It must
// lie in (0, MaxLengthLimit].
func WithMaxLength(length int) ContextOption {
	return options.New(func(c *Context) error {
		if length <= 0 {
			return fmt.Errorf("max length must be positive, got %d", length)
		}
		if length > MaxLengthLimit {
			return fmt.Errorf("max length %d exceeds %d", length, MaxLengthLimit)
		}
		c.maxLength = length

		return nil
	})
}

// Logger returns the configured logger.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// MaxDepth returns the nesting limit for dispatching decodes.
func (c *Context) MaxDepth() int {
	return c.maxDepth
}

// MaxLength returns the largest accepted length field.
func (c *Context) MaxLength() int {
	return c.maxLength
}

// Debug reports whether debug logging is enabled.
func (c *Context) Debug() bool {
	return c.logger.Enabled(context.Background(), slog.LevelDebug)
}

// Mark captures the current position of r for later error reporting.
func (c *Context) Mark(r Reader) int {
	return r.Offset()
}

// Message builds an error positioned at the current offset of r.
func (c *Context) Message(r Reader, format string, args ...any) error {
	return errs.At(r.Offset(), fmt.Errorf(format, args...))
}

// MarkedMessage builds an error positioned at a previously captured mark.
func (c *Context) MarkedMessage(mark int, format string, args ...any) error {
	return errs.At(mark, fmt.Errorf(format, args...))
}

// Marked positions an existing error at mark.
func (c *Context) Marked(mark int, err error) error {
	return errs.At(mark, err)
}

// CheckLength converts a decoded length to int, enforcing the configured limit.
func (c *Context) CheckLength(mark int, n uint64) (int, error) {
	if n > uint64(c.maxLength) {
		return 0, c.MarkedMessage(mark, "%w: %d > %d", errs.ErrLengthLimit, n, c.maxLength)
	}

	return int(n), nil //nolint:gosec
}

// IsEOF reports whether err was caused by running out of input.
func IsEOF(err error) bool {
	return errors.Is(err, errs.ErrUnexpectedEOF)
}
