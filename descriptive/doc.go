// Package descriptive implements the self-describing tagwire format.
//
// Every encoded value starts with a one-byte tag carrying its Kind (Number,
// Mark, Bytes, Sequence, Map or String) and either an inline magnitude or a
// sentinel announcing a trailing VarInt. Because the tag alone tells how many
// bytes and child values follow, a Decoder can traverse data without a schema,
// skip values it does not understand, and tolerate writers that add or drop
// fields.
//
// # Decoders and scopes
//
// A *Decoder is a one-shot cursor over exactly one value. Decoding a value
// consumes the Decoder; using it again returns errs.ErrValueConsumed.
//
// Containers are decoded through callbacks:
//
//	err := d.DecodeMap(func(m *descriptive.RemainingDecoder) error {
//	    key, ok, err := m.EntryKey()
//	    if err != nil || !ok {
//	        return err
//	    }
//	    name, err := key.DecodeString()
//	    ...
//	})
//
// When the callback returns, the framework drains whatever the callback did
// not consume so the shared reader always ends exactly at the container
// boundary. This is what makes unknown and extra fields harmless. Cursors
// handed to a callback are closed afterwards; retaining and using one fails
// with errs.ErrCursorClosed.
//
// Tuples are the strict exception: DecodeTuple verifies the encoded length
// against the expected arity up front and performs no trailing skip.
//
// # Skipping
//
// Skip discards one value of any shape. The skip engine keeps a counter of
// pending values instead of recursing, so its stack usage does not depend on
// how deeply the input is nested. Dispatching decodes (DecodeAny and the
// container callbacks) recurse once per nesting level and are bounded by the
// context's max depth.
//
// # Tag layout
//
// A tag byte is kind<<5 | data. Data values 0-30 are inline lengths and 31
// means a VarInt length follows. Numbers put their sub-kind in the data field
// and are always followed by one VarInt payload; marks put their mark code
// there. See package format for the constants.
package descriptive
