package memory

import (
	"github.com/wippyai/plcmem/errors"
)

// raw is the byte-level view shared by the Memory implementations.
type raw interface {
	read(offset, length uint32) ([]byte, bool)
	write(offset uint32, data []byte) bool
	Size() uint32
}

func checkAccess(m raw, byteOffset uint32, bitOffset uint8, bits int) (uint32, error) {
	if bits < 0 {
		return 0, errors.New(errors.PhaseMemory, errors.KindInvalidInput).
			Value(bits).
			Detail("negative access width %d", bits).
			Build()
	}
	if bitOffset > 7 {
		return 0, errors.New(errors.PhaseMemory, errors.KindInvalidInput).
			Value(bitOffset).
			Detail("bit offset %d out of range 0..7", bitOffset).
			Build()
	}
	if bits > 1 && (bitOffset != 0 || bits%8 != 0) {
		return 0, errors.New(errors.PhaseMemory, errors.KindUnsupported).
			Value(bits).
			Detail("unaligned access of %d bits at %d.%d", bits, byteOffset, bitOffset).
			Build()
	}

	length := uint32((bits + 7) / 8)
	if uint64(byteOffset)+uint64(length) > uint64(m.Size()) {
		return 0, errors.OutOfBounds(errors.PhaseMemory, byteOffset, length, m.Size())
	}
	return length, nil
}

func fetch(m raw, byteOffset uint32, bitOffset uint8, bits int) ([]byte, error) {
	length, err := checkAccess(m, byteOffset, bitOffset, bits)
	if err != nil {
		return nil, err
	}

	switch bits {
	case 0:
		return []byte{}, nil
	case 1:
		b, ok := m.read(byteOffset, 1)
		if !ok {
			return nil, errors.OutOfBounds(errors.PhaseMemory, byteOffset, 1, m.Size())
		}
		return []byte{(b[0] >> bitOffset) & 1}, nil
	default:
		data, ok := m.read(byteOffset, length)
		if !ok {
			return nil, errors.OutOfBounds(errors.PhaseMemory, byteOffset, length, m.Size())
		}
		return append([]byte(nil), data...), nil
	}
}

func store(m raw, byteOffset uint32, bitOffset uint8, bits int, data []byte) error {
	length, err := checkAccess(m, byteOffset, bitOffset, bits)
	if err != nil {
		return err
	}
	if uint32(len(data)) != length {
		return errors.New(errors.PhaseMemory, errors.KindInvalidInput).
			Value(len(data)).
			Detail("store of %d bits needs %d bytes, got %d", bits, length, len(data)).
			Build()
	}

	switch bits {
	case 0:
		return nil
	case 1:
		cur, ok := m.read(byteOffset, 1)
		if !ok {
			return errors.OutOfBounds(errors.PhaseMemory, byteOffset, 1, m.Size())
		}
		b := cur[0] &^ (1 << bitOffset)
		b |= (data[0] & 1) << bitOffset
		if !m.write(byteOffset, []byte{b}) {
			return errors.OutOfBounds(errors.PhaseMemory, byteOffset, 1, m.Size())
		}
		return nil
	default:
		if !m.write(byteOffset, data) {
			return errors.OutOfBounds(errors.PhaseMemory, byteOffset, length, m.Size())
		}
		return nil
	}
}
