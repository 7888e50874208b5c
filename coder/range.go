package coder

import (
	"fmt"
	"io"

	"github.com/precurse/vast/bitmap"
)

// RangeCoder represents a bounded, ordered domain of size D with D
// cumulative bitmaps: bitmap[i] has a 1 bit at every position whose coded
// value is <= i. This prefix encoding answers <= and < in a single bitmap
// lookup (or its complement), at the cost of touching up to D bitmaps per
// Append.
type RangeCoder struct {
	domain  int
	bitmaps []*bitmap.Bitmap
	size    int
}

// NewRangeCoder returns a RangeCoder over the ordered domain [0, domain).
func NewRangeCoder(domain int) *RangeCoder {
	bms := make([]*bitmap.Bitmap, domain)
	for i := range bms {
		bms[i] = bitmap.New()
	}
	return &RangeCoder{domain: domain, bitmaps: bms}
}

func (c *RangeCoder) Size() int { return c.size }

func (c *RangeCoder) Append(v int64) {
	for i, bm := range c.bitmaps {
		bm.AppendBit(i >= int(v))
	}
	c.size++
}

func (c *RangeCoder) Skip(n int) {
	for _, bm := range c.bitmaps {
		bm.AppendBits(false, n)
	}
	c.size += n
}

// lte returns the bitmap for "coded value <= v", clamping v outside the
// domain to the all-zero (v < 0) or all-one (v >= domain) boundary cases.
func (c *RangeCoder) lte(v int) *bitmap.Bitmap {
	if v < 0 {
		return bitmap.Zeros(c.size)
	}
	if v >= c.domain {
		return bitmap.Ones(c.size)
	}
	return c.bitmaps[v].Clone()
}

func (c *RangeCoder) LessEqual(v int64) *bitmap.Bitmap    { return c.lte(int(v)) }
func (c *RangeCoder) Less(v int64) *bitmap.Bitmap         { return c.lte(int(v) - 1) }
func (c *RangeCoder) GreaterEqual(v int64) *bitmap.Bitmap { return c.lte(int(v) - 1).Not() }
func (c *RangeCoder) Greater(v int64) *bitmap.Bitmap      { return c.lte(int(v)).Not() }

func (c *RangeCoder) Equal(v int64) *bitmap.Bitmap {
	return c.lte(int(v)).And(c.lte(int(v) - 1).Not())
}

func (c *RangeCoder) NotEqual(v int64) *bitmap.Bitmap {
	return c.Equal(v).Not()
}

func (c *RangeCoder) In(vs []int64) *bitmap.Bitmap {
	out := bitmap.Zeros(c.size)
	for _, v := range vs {
		out = out.Or(c.Equal(v))
	}
	return out
}

func (c *RangeCoder) Save(w io.Writer) error {
	if err := writeTag(w, kindRange); err != nil {
		return err
	}
	if err := writeInt(w, int32(c.domain)); err != nil {
		return err
	}
	return writeBitmaps(w, c.bitmaps)
}

func loadRangeCoder(r io.Reader) (*RangeCoder, error) {
	domain, err := readInt(r)
	if err != nil {
		return nil, fmt.Errorf("coder: range domain: %w", err)
	}
	bms, err := readBitmaps(r, int(domain))
	if err != nil {
		return nil, err
	}
	size := 0
	if len(bms) > 0 {
		size = bms[0].Size()
	}
	return &RangeCoder{domain: int(domain), bitmaps: bms, size: size}, nil
}
