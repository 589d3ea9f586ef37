package layout

import "strconv"

// Offset is a byte and bit position inside a data block.
// Bit is always below 8.
type Offset struct {
	Byte uint32
	Bit  uint8
}

// NewOffset returns a normalized offset, carrying bit overflow into bytes.
func NewOffset(byteOffset uint32, bitOffset uint8) Offset {
	return Offset{
		Byte: byteOffset + uint32(bitOffset/8),
		Bit:  bitOffset % 8,
	}
}

// FromBits converts an absolute bit position into an offset.
func FromBits(bits uint64) Offset {
	return Offset{Byte: uint32(bits / 8), Bit: uint8(bits % 8)}
}

// Bits returns the absolute bit position.
func (o Offset) Bits() uint64 {
	return uint64(o.Byte)*8 + uint64(o.Bit)
}

// Add returns o + other with bit carry.
func (o Offset) Add(other Offset) Offset {
	return FromBits(o.Bits() + other.Bits())
}

// Compare orders offsets by byte, then bit.
func (o Offset) Compare(other Offset) int {
	switch {
	case o.Byte < other.Byte:
		return -1
	case o.Byte > other.Byte:
		return 1
	case o.Bit < other.Bit:
		return -1
	case o.Bit > other.Bit:
		return 1
	}
	return 0
}

func (o Offset) Less(other Offset) bool {
	return o.Compare(other) < 0
}

// String formats the offset as "byte.bit".
func (o Offset) String() string {
	return strconv.FormatUint(uint64(o.Byte), 10) + "." + strconv.FormatUint(uint64(o.Bit), 10)
}
