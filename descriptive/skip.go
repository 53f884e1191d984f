package descriptive

import (
	"fmt"
	"math"

	"github.com/arloliu/tagwire/encoding"
	"github.com/arloliu/tagwire/errs"
	"github.com/arloliu/tagwire/format"
	"github.com/arloliu/tagwire/wire"
)

// maxPending bounds the skip worklist counter.
const maxPending = math.MaxInt / 2

// skipValues discards n consecutive values.
//
// Containers add their children to the pending count instead of recursing,
// so arbitrarily deep input is skipped in constant stack space. Unknown mark
// codes are treated as zero-payload marks.
func skipValues(r wire.Reader, cx *wire.Context, n int) error {
	for pending := n; pending > 0; pending-- {
		mark := r.Offset()
		b, err := r.ReadByte()
		if err != nil {
			return cx.Marked(mark, err)
		}

		tag := format.Tag(b)
		var size int

		switch tag.Kind() {
		case format.KindNumber:
			err = encoding.SkipUvarint(r)
		case format.KindMark:
			switch tag.Mark() {
			case format.MarkChar:
				err = encoding.SkipUvarint(r)
			case format.MarkSome:
				err = addPending(&pending, 1)
			case format.MarkVariant:
				err = addPending(&pending, 2)
			}
		case format.KindBytes, format.KindString:
			if size, err = readLen(r, cx, tag, mark); err == nil {
				err = r.Skip(size)
			}
		case format.KindSequence:
			if size, err = readLen(r, cx, tag, mark); err == nil {
				err = addPending(&pending, size)
			}
		case format.KindMap:
			if size, err = readLen(r, cx, tag, mark); err == nil && size > maxPending/2 {
				err = errs.ErrLengthLimit
			}
			if err == nil {
				err = addPending(&pending, size*2)
			}
		default:
			err = cx.MarkedMessage(mark, "%w: tag 0x%02x", errs.ErrUnsupportedKind, b)
		}

		if err != nil {
			return cx.Marked(mark, err)
		}
	}

	return nil
}

// addPending grows the worklist counter, refusing to pass maxPending.
func addPending(pending *int, n int) error {
	if n > maxPending-*pending {
		return fmt.Errorf("%w: too many pending values", errs.ErrLengthLimit)
	}
	*pending += n

	return nil
}
