package memory

import "fmt"

// Buffer is a plcmem.Memory backed by a byte slice.
type Buffer struct {
	data []byte
}

// NewBuffer returns a zeroed buffer of size bytes.
func NewBuffer(size uint32) *Buffer {
	return &Buffer{data: make([]byte, size)}
}

// NewBufferFrom returns a buffer holding a copy of data.
func NewBufferFrom(data []byte) *Buffer {
	return &Buffer{data: append([]byte(nil), data...)}
}

// Bytes returns the underlying slice. It is not a copy.
func (b *Buffer) Bytes() []byte {
	return b.data
}

func (b *Buffer) Size() uint32 {
	return uint32(len(b.data))
}

func (b *Buffer) Fetch(byteOffset uint32, bitOffset uint8, bits int) ([]byte, error) {
	return fetch(b, byteOffset, bitOffset, bits)
}

func (b *Buffer) Store(byteOffset uint32, bitOffset uint8, bits int, data []byte) error {
	return store(b, byteOffset, bitOffset, bits, data)
}

func (b *Buffer) read(offset, length uint32) ([]byte, bool) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(b.data)) {
		return nil, false
	}
	return b.data[offset:end], true
}

func (b *Buffer) write(offset uint32, data []byte) bool {
	end := uint64(offset) + uint64(len(data))
	if end > uint64(len(b.data)) {
		return false
	}
	copy(b.data[offset:end], data)
	return true
}

func (b *Buffer) String() string {
	return fmt.Sprintf("buffer(%d bytes)", len(b.data))
}
