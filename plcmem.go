package plcmem

// Memory is a bit-addressable byte array backing a data block.
//
// A 1-bit access transfers bit 0 of a single byte. Wider accesses must start
// on a byte boundary and cover a whole number of bytes. Zero-bit accesses
// return an empty slice.
type Memory interface {
	Fetch(byteOffset uint32, bitOffset uint8, bits int) ([]byte, error)
	Store(byteOffset uint32, bitOffset uint8, bits int, data []byte) error
	Size() uint32
}
