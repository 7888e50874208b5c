package coder

import (
	"fmt"
	"io"

	"github.com/precurse/vast/bitmap"
)

// BitSliceCoder represents a fixed-width unsigned integer as one bitmap
// per bit position: bitmaps[i] has a 1 bit at every position whose coded
// value has bit i set. Order comparisons are a most-significant-bit-first
// reduction: at each bit, any position whose bits have matched the query
// value so far ("equal so far") either settles less-than (its bit is 0
// where the query's is 1), settles greater-than, or remains a candidate
// for the next, less significant bit.
type BitSliceCoder struct {
	width   int
	bitmaps []*bitmap.Bitmap
	size    int
}

// NewBitSliceCoder returns a BitSliceCoder over width-bit unsigned values.
func NewBitSliceCoder(width int) *BitSliceCoder {
	bms := make([]*bitmap.Bitmap, width)
	for i := range bms {
		bms[i] = bitmap.New()
	}
	return &BitSliceCoder{width: width, bitmaps: bms}
}

func (c *BitSliceCoder) Size() int { return c.size }

func (c *BitSliceCoder) Append(v int64) {
	for i, bm := range c.bitmaps {
		bit := (v>>uint(i))&1 == 1
		bm.AppendBit(bit)
	}
	c.size++
}

func (c *BitSliceCoder) Skip(n int) {
	for _, bm := range c.bitmaps {
		bm.AppendBits(false, n)
	}
	c.size += n
}

func (c *BitSliceCoder) Equal(v int64) *bitmap.Bitmap {
	result := bitmap.Ones(c.size)
	for i, bm := range c.bitmaps {
		bit := (v>>uint(i))&1 == 1
		if bit {
			result = result.And(bm)
		} else {
			result = result.And(bm.Not())
		}
	}
	return result
}

func (c *BitSliceCoder) NotEqual(v int64) *bitmap.Bitmap {
	return c.Equal(v).Not()
}

// Less walks the bit planes from most to least significant, accumulating
// positions that have diverged below v and narrowing the "equal so far"
// candidate set as it goes.
func (c *BitSliceCoder) Less(v int64) *bitmap.Bitmap {
	result := bitmap.Zeros(c.size)
	eq := bitmap.Ones(c.size)
	for i := c.width - 1; i >= 0; i-- {
		slice := c.bitmaps[i]
		vBit := (v>>uint(i))&1 == 1
		if vBit {
			result = result.Or(eq.And(slice.Not()))
			eq = eq.And(slice)
		} else {
			eq = eq.And(slice.Not())
		}
	}
	return result
}

func (c *BitSliceCoder) LessEqual(v int64) *bitmap.Bitmap {
	return c.Less(v).Or(c.Equal(v))
}

func (c *BitSliceCoder) Greater(v int64) *bitmap.Bitmap {
	return c.LessEqual(v).Not()
}

func (c *BitSliceCoder) GreaterEqual(v int64) *bitmap.Bitmap {
	return c.Less(v).Not()
}

func (c *BitSliceCoder) In(vs []int64) *bitmap.Bitmap {
	out := bitmap.Zeros(c.size)
	for _, v := range vs {
		out = out.Or(c.Equal(v))
	}
	return out
}

func (c *BitSliceCoder) Save(w io.Writer) error {
	if err := writeTag(w, kindBitSlice); err != nil {
		return err
	}
	if err := writeInt(w, int32(c.width)); err != nil {
		return err
	}
	return writeBitmaps(w, c.bitmaps)
}

func loadBitSliceCoder(r io.Reader) (*BitSliceCoder, error) {
	width, err := readInt(r)
	if err != nil {
		return nil, fmt.Errorf("coder: bit-slice width: %w", err)
	}
	bms, err := readBitmaps(r, int(width))
	if err != nil {
		return nil, err
	}
	size := 0
	if len(bms) > 0 {
		size = bms[0].Size()
	}
	return &BitSliceCoder{width: int(width), bitmaps: bms, size: size}, nil
}
