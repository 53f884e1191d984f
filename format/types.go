package format

type (
	Kind            uint8
	Mark            uint8
	NumberKind      uint8
	CompressionType uint8
)

// Tag byte layout: bits 5-7 carry the Kind, bits 0-4 carry the data field.
const (
	KindShift = 5
	DataMask  = 0x1F // DataMask selects the data field (bits 0-4).

	// DataVarInt is the data sentinel meaning "an unsigned VarInt with the real magnitude follows".
	DataVarInt = DataMask

	// MaxInlineLen is the largest length that fits into the tag's data field.
	MaxInlineLen = DataVarInt - 1
)

const (
	KindNumber   Kind = 0x0 // KindNumber is a typed numeric value.
	KindMark     Kind = 0x1 // KindMark is a zero- or fixed-payload marker, see Mark.
	KindBytes    Kind = 0x2 // KindBytes is a length-prefixed raw byte string.
	KindSequence Kind = 0x3 // KindSequence is a counted list of values.
	KindMap      Kind = 0x4 // KindMap is a counted list of key/value pairs.
	KindString   Kind = 0x5 // KindString is a length-prefixed UTF-8 string.
)

const (
	MarkTrue    Mark = 0x0
	MarkFalse   Mark = 0x1
	MarkUnit    Mark = 0x2
	MarkSome    Mark = 0x3 // MarkSome is followed by the wrapped value.
	MarkNone    Mark = 0x4
	MarkChar    Mark = 0x5 // MarkChar is followed by a VarInt Unicode scalar.
	MarkVariant Mark = 0x6 // MarkVariant is followed by two values: tag, then data.
)

const (
	NumberU8   NumberKind = 0x0
	NumberU16  NumberKind = 0x1
	NumberU32  NumberKind = 0x2
	NumberU64  NumberKind = 0x3
	NumberU128 NumberKind = 0x4
	NumberI8   NumberKind = 0x5
	NumberI16  NumberKind = 0x6
	NumberI32  NumberKind = 0x7
	NumberI64  NumberKind = 0x8
	NumberI128 NumberKind = 0x9
	NumberF32  NumberKind = 0xA
	NumberF64  NumberKind = 0xB
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// Valid reports whether k is one of the six wire kinds.
func (k Kind) Valid() bool {
	return k <= KindString
}

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindMark:
		return "Mark"
	case KindBytes:
		return "Bytes"
	case KindSequence:
		return "Sequence"
	case KindMap:
		return "Map"
	case KindString:
		return "String"
	default:
		return "Unknown"
	}
}

// Valid reports whether m is a known mark code.
func (m Mark) Valid() bool {
	return m <= MarkVariant
}

func (m Mark) String() string {
	switch m {
	case MarkTrue:
		return "True"
	case MarkFalse:
		return "False"
	case MarkUnit:
		return "Unit"
	case MarkSome:
		return "Some"
	case MarkNone:
		return "None"
	case MarkChar:
		return "Char"
	case MarkVariant:
		return "Variant"
	default:
		return "Unknown"
	}
}

// Valid reports whether n is a typed numeric sub-kind.
func (n NumberKind) Valid() bool {
	return n <= NumberF64
}

// Bits returns the declared payload width in bits, or 128 for untyped numbers.
func (n NumberKind) Bits() int {
	switch n {
	case NumberU8, NumberI8:
		return 8
	case NumberU16, NumberI16:
		return 16
	case NumberU32, NumberI32, NumberF32:
		return 32
	case NumberU64, NumberI64, NumberF64:
		return 64
	default:
		return 128
	}
}

// Signed reports whether the payload is zigzag encoded.
func (n NumberKind) Signed() bool {
	return n >= NumberI8 && n <= NumberI128
}

// Float reports whether the payload is an IEEE-754 bit pattern.
func (n NumberKind) Float() bool {
	return n == NumberF32 || n == NumberF64
}

func (n NumberKind) String() string {
	switch n {
	case NumberU8:
		return "u8"
	case NumberU16:
		return "u16"
	case NumberU32:
		return "u32"
	case NumberU64:
		return "u64"
	case NumberU128:
		return "u128"
	case NumberI8:
		return "i8"
	case NumberI16:
		return "i16"
	case NumberI32:
		return "i32"
	case NumberI64:
		return "i64"
	case NumberI128:
		return "i128"
	case NumberF32:
		return "f32"
	case NumberF64:
		return "f64"
	default:
		return "number"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType maps a case-sensitive lower-case name to a CompressionType.
func ParseCompressionType(name string) (CompressionType, bool) {
	switch name {
	case "none", "":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
