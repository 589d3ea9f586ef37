package memory

import (
	"bytes"
	"errors"
	"testing"

	plcmem "github.com/wippyai/plcmem"
	plcerrors "github.com/wippyai/plcmem/errors"
)

var _ plcmem.Memory = (*Buffer)(nil)

func isKind(err error, kind plcerrors.Kind) bool {
	return errors.Is(err, &plcerrors.Error{Phase: plcerrors.PhaseMemory, Kind: kind})
}

func TestBufferBytes(t *testing.T) {
	buf := NewBuffer(4)

	if err := buf.Store(1, 0, 16, []byte{0xab, 0xcd}); err != nil {
		t.Fatal(err)
	}
	got, err := buf.Fetch(1, 0, 16)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0xab, 0xcd}) {
		t.Errorf("got %x, want abcd", got)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0, 0xab, 0xcd, 0}) {
		t.Errorf("buffer: got %x", buf.Bytes())
	}

	// fetched data is a copy
	got[0] = 0
	if buf.Bytes()[1] != 0xab {
		t.Error("Fetch returned a view into the buffer")
	}
}

func TestBufferBits(t *testing.T) {
	buf := NewBufferFrom([]byte{0x00, 0xff})

	for _, bit := range []uint8{0, 3, 7} {
		if err := buf.Store(0, bit, 1, []byte{1}); err != nil {
			t.Fatal(err)
		}
	}
	if buf.Bytes()[0] != 0x89 {
		t.Errorf("set bits: got %08b, want 10001001", buf.Bytes()[0])
	}

	if err := buf.Store(1, 4, 1, []byte{0}); err != nil {
		t.Fatal(err)
	}
	if buf.Bytes()[1] != 0xef {
		t.Errorf("clear bit: got %08b, want 11101111", buf.Bytes()[1])
	}

	tests := []struct {
		byteOff uint32
		bitOff  uint8
		want    byte
	}{
		{0, 0, 1}, {0, 1, 0}, {0, 3, 1}, {0, 7, 1}, {1, 4, 0}, {1, 5, 1},
	}
	for _, tc := range tests {
		got, err := buf.Fetch(tc.byteOff, tc.bitOff, 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0] != tc.want {
			t.Errorf("bit %d.%d: got %v, want [%d]", tc.byteOff, tc.bitOff, got, tc.want)
		}
	}

	// only bit 0 of the input byte is used
	if err := buf.Store(0, 1, 1, []byte{0xfe}); err != nil {
		t.Fatal(err)
	}
	if buf.Bytes()[0] != 0x89 {
		t.Errorf("store of 0xfe should clear: got %08b", buf.Bytes()[0])
	}
}

func TestBufferZeroWidth(t *testing.T) {
	buf := NewBuffer(2)
	got, err := buf.Fetch(2, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
	if err := buf.Store(2, 0, 0, nil); err != nil {
		t.Errorf("zero-width store: %v", err)
	}
}

func TestBufferErrors(t *testing.T) {
	buf := NewBuffer(4)

	tests := []struct {
		name string
		err  error
		kind plcerrors.Kind
	}{
		{"fetch past end", fetchErr(buf, 3, 0, 16), plcerrors.KindOutOfBounds},
		{"store past end", buf.Store(4, 0, 1, []byte{1}), plcerrors.KindOutOfBounds},
		{"unaligned word", fetchErr(buf, 0, 3, 16), plcerrors.KindUnsupported},
		{"odd width", fetchErr(buf, 0, 0, 12), plcerrors.KindUnsupported},
		{"bad bit offset", fetchErr(buf, 0, 8, 1), plcerrors.KindInvalidInput},
		{"negative width", fetchErr(buf, 0, 0, -8), plcerrors.KindInvalidInput},
		{"short data", buf.Store(0, 0, 16, []byte{1}), plcerrors.KindInvalidInput},
		{"bit data", buf.Store(0, 0, 1, []byte{1, 1}), plcerrors.KindInvalidInput},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !isKind(tc.err, tc.kind) {
				t.Errorf("got %v, want %s", tc.err, tc.kind)
			}
		})
	}
}

func fetchErr(m plcmem.Memory, byteOff uint32, bitOff uint8, bits int) error {
	_, err := m.Fetch(byteOff, bitOff, bits)
	return err
}
