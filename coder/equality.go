package coder

import (
	"fmt"
	"io"

	"github.com/precurse/vast/bitmap"
)

// EqualityCoder represents a bounded domain of size D as D bitmaps, one
// per value: bitmap[v] has a 1 bit at every position coded with value v.
// Equal and NotEqual are a single bitmap lookup; the order operators
// (Less, Greater, ...) delegate to a linear OR over the bitmaps in the
// matching range, which is only meaningful when the domain itself has a
// natural order (as the protocol and prefix-length domains do).
type EqualityCoder struct {
	domain  int
	bitmaps []*bitmap.Bitmap
	size    int
}

// NewEqualityCoder returns an EqualityCoder over the domain [0, domain).
func NewEqualityCoder(domain int) *EqualityCoder {
	bms := make([]*bitmap.Bitmap, domain)
	for i := range bms {
		bms[i] = bitmap.New()
	}
	return &EqualityCoder{domain: domain, bitmaps: bms}
}

func (c *EqualityCoder) Size() int { return c.size }

func (c *EqualityCoder) Append(v int64) {
	for i, bm := range c.bitmaps {
		bm.AppendBit(i == int(v))
	}
	c.size++
}

func (c *EqualityCoder) Skip(n int) {
	for _, bm := range c.bitmaps {
		bm.AppendBits(false, n)
	}
	c.size += n
}

func (c *EqualityCoder) Equal(v int64) *bitmap.Bitmap {
	if v < 0 || int(v) >= c.domain {
		return bitmap.Zeros(c.size)
	}
	return c.bitmaps[v].Clone()
}

func (c *EqualityCoder) NotEqual(v int64) *bitmap.Bitmap {
	return c.Equal(v).Not()
}

func (c *EqualityCoder) orRange(lo, hi int) *bitmap.Bitmap {
	out := bitmap.Zeros(c.size)
	if lo < 0 {
		lo = 0
	}
	if hi > c.domain {
		hi = c.domain
	}
	for i := lo; i < hi; i++ {
		out = out.Or(c.bitmaps[i])
	}
	return out
}

func (c *EqualityCoder) Less(v int64) *bitmap.Bitmap         { return c.orRange(0, int(v)) }
func (c *EqualityCoder) LessEqual(v int64) *bitmap.Bitmap    { return c.orRange(0, int(v)+1) }
func (c *EqualityCoder) Greater(v int64) *bitmap.Bitmap      { return c.orRange(int(v)+1, c.domain) }
func (c *EqualityCoder) GreaterEqual(v int64) *bitmap.Bitmap { return c.orRange(int(v), c.domain) }

func (c *EqualityCoder) In(vs []int64) *bitmap.Bitmap {
	out := bitmap.Zeros(c.size)
	for _, v := range vs {
		out = out.Or(c.Equal(v))
	}
	return out
}

func (c *EqualityCoder) Save(w io.Writer) error {
	if err := writeTag(w, kindEquality); err != nil {
		return err
	}
	if err := writeInt(w, int32(c.domain)); err != nil {
		return err
	}
	return writeBitmaps(w, c.bitmaps)
}

func loadEqualityCoder(r io.Reader) (*EqualityCoder, error) {
	domain, err := readInt(r)
	if err != nil {
		return nil, fmt.Errorf("coder: equality domain: %w", err)
	}
	bms, err := readBitmaps(r, int(domain))
	if err != nil {
		return nil, err
	}
	size := 0
	if len(bms) > 0 {
		size = bms[0].Size()
	}
	return &EqualityCoder{domain: int(domain), bitmaps: bms, size: size}, nil
}
