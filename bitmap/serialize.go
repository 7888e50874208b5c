package bitmap

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Serialize writes the bitmap in the portable wire format: a 4-byte
// little-endian count of 64-bit words, that many little-endian 64-bit
// words, then a 4-byte trailing-bit count (the number of valid bits in
// the final word, or 0 if size is an exact multiple of 64). The format is
// a dense snapshot of the logical sequence, so byte-identical logical
// bitmaps always serialize to byte-identical streams, independent of how
// their in-memory run encoding happens to be chunked.
func (b *Bitmap) Serialize(w io.Writer) error {
	words := b.toWords()
	if err := binary.Write(w, binary.LittleEndian, uint32(len(words))); err != nil {
		return fmt.Errorf("bitmap: write word count: %w", err)
	}
	for _, word := range words {
		if err := binary.Write(w, binary.LittleEndian, word); err != nil {
			return fmt.Errorf("bitmap: write word: %w", err)
		}
	}
	trailing := uint32(b.size % wordBits)
	if err := binary.Write(w, binary.LittleEndian, trailing); err != nil {
		return fmt.Errorf("bitmap: write trailing bit count: %w", err)
	}
	return nil
}

// Deserialize reads a bitmap previously written by Serialize.
func Deserialize(r io.Reader) (*Bitmap, error) {
	var numWords uint32
	if err := binary.Read(r, binary.LittleEndian, &numWords); err != nil {
		return nil, fmt.Errorf("bitmap: read word count: %w", err)
	}
	words := make([]uint64, numWords)
	for i := range words {
		if err := binary.Read(r, binary.LittleEndian, &words[i]); err != nil {
			return nil, fmt.Errorf("bitmap: read word: %w", err)
		}
	}
	var trailing uint32
	if err := binary.Read(r, binary.LittleEndian, &trailing); err != nil {
		return nil, fmt.Errorf("bitmap: read trailing bit count: %w", err)
	}
	if trailing >= wordBits {
		return nil, fmt.Errorf("bitmap: corrupt trailing bit count %d", trailing)
	}
	size := int(numWords) * wordBits
	if trailing > 0 {
		if numWords == 0 {
			return nil, fmt.Errorf("bitmap: corrupt: trailing bits with no words")
		}
		size = int(numWords-1)*wordBits + int(trailing)
	}
	return fromWords(words, size), nil
}
