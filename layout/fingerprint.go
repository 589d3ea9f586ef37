package layout

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Fingerprint returns a BLAKE3 hash of the struct's layout.
//
// Two structs share a fingerprint when they have the same size and the same
// field names, kinds, widths and offsets in the same order. Initial values
// are not part of the fingerprint, so a block whose defaults change can still
// be matched with stored data.
func Fingerprint(s *Struct) string {
	h := blake3.New()

	var buf [8]byte
	binary.BigEndian.PutUint32(buf[:4], s.Size())
	_, _ = h.Write(buf[:4])

	for _, f := range s.Fields() {
		_, _ = h.Write([]byte(f.name))
		_, _ = h.Write([]byte{0, byte(f.dataType.kind)})

		binary.BigEndian.PutUint64(buf[:], f.offset.Bits())
		_, _ = h.Write(buf[:])
		binary.BigEndian.PutUint32(buf[:4], uint32(int32(f.BitSize())))
		_, _ = h.Write(buf[:4])

		final := f.FinalOverride()
		binary.BigEndian.PutUint64(buf[:], final.offset.Bits())
		_, _ = h.Write(buf[:])
	}

	return hex.EncodeToString(h.Sum(nil))
}
