package descriptive

import (
	"github.com/arloliu/tagwire/errs"
	"github.com/arloliu/tagwire/wire"
)

type variantStage uint8

const (
	variantStart variantStage = iota
	variantTag
	variantValue
)

// VariantDecoder is the cursor handed to DecodeVariant callbacks. A variant
// is two consecutive values: the discriminant and the payload.
type VariantDecoder struct {
	r     wire.Reader
	cx    *wire.Context
	depth int
	scope *scope
	stage variantStage
	cur   *Decoder
}

func (v *VariantDecoder) check() error {
	if v.scope.closed {
		return v.cx.Message(v.r, "%w", errs.ErrCursorClosed)
	}

	return nil
}

// Tag returns the decoder for the discriminant. It must be called before Value.
func (v *VariantDecoder) Tag() (*Decoder, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	if v.stage != variantStart {
		return nil, v.cx.Message(v.r, "%w: variant tag already taken", errs.ErrValueConsumed)
	}

	v.stage = variantTag
	v.cur = newChild(v.r, v.cx, v.depth, v.scope)

	return v.cur, nil
}

// Value returns the decoder for the payload, skipping the discriminant if it
// was not decoded.
func (v *VariantDecoder) Value() (*Decoder, error) {
	if err := v.check(); err != nil {
		return nil, err
	}

	switch v.stage {
	case variantStart:
		if err := skipValues(v.r, v.cx, 1); err != nil {
			return nil, err
		}
	case variantTag:
		if err := v.settle(); err != nil {
			return nil, err
		}
	default:
		return nil, v.cx.Message(v.r, "%w: variant value already taken", errs.ErrValueConsumed)
	}

	v.stage = variantValue
	v.cur = newChild(v.r, v.cx, v.depth, v.scope)

	return v.cur, nil
}

func (v *VariantDecoder) settle() error {
	cur := v.cur
	v.cur = nil
	if cur == nil || cur.done {
		return nil
	}
	cur.done = true

	return skipValues(v.r, v.cx, 1)
}

// finish skips whatever part of the variant the callback did not decode.
func (v *VariantDecoder) finish() error {
	switch v.stage {
	case variantStart:
		v.stage = variantValue
		return skipValues(v.r, v.cx, 2)
	case variantTag:
		if err := v.settle(); err != nil {
			return err
		}
		v.stage = variantValue

		return skipValues(v.r, v.cx, 1)
	default:
		return v.settle()
	}
}

func (v *VariantDecoder) close() {
	v.scope.closed = true
}
