package layout

// alignTo rounds offset up to a multiple of align.
// Alignments of 0 and 1 leave the offset unchanged.
func alignTo(offset, align uint32) uint32 {
	if align <= 1 {
		return offset
	}
	if rem := offset % align; rem != 0 {
		return offset + align - rem
	}
	return offset
}

func bytesForBits(bits int) int {
	if bits <= 0 {
		return 0
	}
	return (bits + 7) / 8
}
