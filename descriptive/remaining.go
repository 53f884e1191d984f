package descriptive

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/tagwire/errs"
	"github.com/arloliu/tagwire/wire"
)

// RemainingDecoder is the cursor handed to sequence and map callbacks.
//
// It tracks how many values are left in the container. Pulling the next
// element first skips the previous one if the caller never decoded it, and
// whatever is left when the callback returns is drained, so the reader always
// finishes at the end of the container.
//
// Maps hold alternating keys and values. EntryKey and EntryValue pull them
// pairwise; Next pulls them one value at a time.
type RemainingDecoder struct {
	r     wire.Reader
	cx    *wire.Context
	depth int
	scope *scope
	mark  int
	isMap bool

	// items counts raw values, so a map of n entries starts at 2n.
	items int
	cur   *Decoder
	child *RemainingDecoder
}

func newRemainingDecoder(r wire.Reader, cx *wire.Context, depth, n int, isMap bool, mark int) *RemainingDecoder {
	items := n
	if isMap {
		items = n * 2
	}

	return &RemainingDecoder{
		r:     r,
		cx:    cx,
		depth: depth,
		scope: &scope{},
		mark:  mark,
		isMap: isMap,
		items: items,
	}
}

// IsMap reports whether the container is a map.
func (m *RemainingDecoder) IsMap() bool {
	return m.isMap
}

// Remaining returns the number of elements, or map entries, not pulled yet.
// A map entry whose key was pulled but whose value was not is not counted.
func (m *RemainingDecoder) Remaining() int {
	if m.isMap {
		return m.items / 2
	}

	return m.items
}

func (m *RemainingDecoder) check() error {
	if m.scope.closed {
		return m.cx.Message(m.r, "%w", errs.ErrCursorClosed)
	}

	return nil
}

func (m *RemainingDecoder) requireMap(op string) error {
	if !m.isMap {
		return m.cx.Message(m.r, "%w: %s on a sequence", errs.ErrTagMismatch, op)
	}

	return nil
}

// settle skips the last yielded value if the caller left it undecoded.
func (m *RemainingDecoder) settle() error {
	cur := m.cur
	m.cur = nil
	if cur == nil || cur.done {
		return nil
	}

	cur.done = true

	return skipValues(m.r, m.cx, 1)
}

func (m *RemainingDecoder) yield() *Decoder {
	m.items--
	m.cur = newChild(m.r, m.cx, m.depth, m.scope)

	return m.cur
}

// Next returns the next value, or false once the container is exhausted.
func (m *RemainingDecoder) Next() (*Decoder, bool, error) {
	if err := m.check(); err != nil {
		return nil, false, err
	}
	if err := m.settle(); err != nil {
		return nil, false, err
	}
	if m.items == 0 {
		return nil, false, nil
	}

	return m.yield(), true, nil
}

// EntryKey returns the key of the next map entry, or false once the map is
// exhausted. The value of the previous entry is skipped if it was never pulled.
func (m *RemainingDecoder) EntryKey() (*Decoder, bool, error) {
	if err := m.check(); err != nil {
		return nil, false, err
	}
	if err := m.requireMap("EntryKey"); err != nil {
		return nil, false, err
	}
	if err := m.settle(); err != nil {
		return nil, false, err
	}

	if m.items%2 == 1 {
		m.items--
		if err := skipValues(m.r, m.cx, 1); err != nil {
			return nil, false, err
		}
	}
	if m.items == 0 {
		return nil, false, nil
	}

	return m.yield(), true, nil
}

// EntryValue returns the value belonging to the key pulled last.
func (m *RemainingDecoder) EntryValue() (*Decoder, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	if err := m.requireMap("EntryValue"); err != nil {
		return nil, err
	}
	if m.items%2 == 0 {
		return nil, m.cx.Message(m.r, "%w: map value requested before its key", errs.ErrUnexpectedValue)
	}
	if err := m.settle(); err != nil {
		return nil, err
	}

	return m.yield(), nil
}

// Entry returns the next map entry, or false once the map is exhausted.
func (m *RemainingDecoder) Entry() (MapEntry, bool, error) {
	key, ok, err := m.EntryKey()
	if err != nil || !ok {
		return MapEntry{}, ok, err
	}

	return MapEntry{Key: key, m: m}, true, nil
}

// Field returns the next struct field. Unlike Entry it fails with
// errs.ErrFieldBudgetExceeded when the encoded field count is used up.
func (m *RemainingDecoder) Field() (MapEntry, error) {
	entry, ok, err := m.Entry()
	if err != nil {
		return MapEntry{}, err
	}
	if !ok {
		return MapEntry{}, m.cx.MarkedMessage(m.mark, "%w", errs.ErrFieldBudgetExceeded)
	}

	return entry, nil
}

// RemainingEntries hands every element not pulled yet to a new cursor. The
// receiver is left empty; both are drained when the enclosing callback ends.
func (m *RemainingDecoder) RemainingEntries() (*RemainingDecoder, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	if err := m.settle(); err != nil {
		return nil, err
	}
	if m.isMap && m.items%2 == 1 {
		m.items--
		if err := skipValues(m.r, m.cx, 1); err != nil {
			return nil, err
		}
	}

	child := &RemainingDecoder{
		r:     m.r,
		cx:    m.cx,
		depth: m.depth,
		scope: &scope{},
		mark:  m.mark,
		isMap: m.isMap,
		items: m.items,
		child: m.child,
	}
	m.items = 0
	m.child = child

	return child, nil
}

// drain skips everything the callback left behind.
func (m *RemainingDecoder) drain() error {
	if m.child != nil {
		if err := m.child.drain(); err != nil {
			return err
		}
	}
	if err := m.settle(); err != nil {
		return err
	}
	if m.items == 0 {
		return nil
	}

	if m.cx.Debug() {
		m.cx.Logger().Debug("skipping unconsumed container values",
			slog.Bool("map", m.isMap),
			slog.Int("values", m.items),
			slog.Int("container_offset", m.mark),
			slog.Int("offset", m.r.Offset()),
		)
	}

	n := m.items
	m.items = 0

	return skipValues(m.r, m.cx, n)
}

func (m *RemainingDecoder) close() {
	m.scope.closed = true
	if m.child != nil {
		m.child.close()
	}
}

func (m *RemainingDecoder) String() string {
	kind := "sequence"
	if m.isMap {
		kind = "map"
	}

	return fmt.Sprintf("RemainingDecoder(%s, remaining=%d)", kind, m.Remaining())
}

// MapEntry is a map entry whose key has been pulled.
type MapEntry struct {
	Key *Decoder
	m   *RemainingDecoder
}

// Value returns the entry's value. The key is skipped first if it was not
// decoded.
func (e MapEntry) Value() (*Decoder, error) {
	return e.m.EntryValue()
}
