// Package endian provides the byte order abstraction used by the positional
// (packed) codec and by frame headers.
//
// EndianEngine combines encoding/binary's ByteOrder and AppendByteOrder so
// one value can both decode fixed-width words and append them:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, 42)
//	v := engine.Uint32(buf)
//
// Packed payloads inside the descriptive format are always little-endian;
// the big-endian engine exists for standalone plain encoding.
package endian

import "encoding/binary"

// EndianEngine is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// IsLittleEndian reports whether engine is the little-endian engine.
func IsLittleEndian(engine EndianEngine) bool {
	return engine == binary.LittleEndian
}
