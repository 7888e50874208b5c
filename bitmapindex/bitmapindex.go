// Package bitmapindex composes a binner.Binner with the coder.Coder it
// builds and adds the two concerns every concrete value index in package
// valueindex needs on top of raw coding: a null mask tracking which
// positions never received a value, and sparse append semantics that let
// callers append against sorted, possibly non-contiguous event IDs.
package bitmapindex

import (
	"fmt"
	"io"

	"github.com/precurse/vast/binner"
	"github.com/precurse/vast/bitmap"
	"github.com/precurse/vast/coder"
	"github.com/precurse/vast/index"
)

// Index is a single-column bitmap index: one coder plus a null mask.
type Index struct {
	binner binner.Binner
	coder  coder.Coder
	mask   *bitmap.Bitmap // 1 bit at every position appended as none
	nextID uint64
	seeded bool
}

// New returns an empty Index backed by b's coder.
func New(b binner.Binner) *Index {
	return &Index{binner: b, coder: b.NewCoder(), mask: bitmap.New()}
}

// Size returns the number of positions (including none positions and
// skipped gaps) the index currently covers.
func (idx *Index) Size() int { return idx.coder.Size() }

// Append appends v at the next sequential position, equivalent to
// AppendAt(v, Size()).
func (idx *Index) Append(v float64) {
	idx.coder.Append(idx.binner.Bin(v))
	idx.mask.AppendBit(false)
	idx.nextID = uint64(idx.Size())
	idx.seeded = true
}

// AppendAt appends v at event id, which must be >= the index's current
// size (its next expected id). Any gap between the current size and id is
// filled with none positions before v is coded.
func (idx *Index) AppendAt(v float64, id uint64) error {
	size := uint64(idx.Size())
	if id < size {
		return fmt.Errorf("bitmapindex: id %d before current size %d: %w", id, size, index.ErrInvalidID)
	}
	if gap := int(id - size); gap > 0 {
		idx.Skip(gap)
	}
	idx.coder.Append(idx.binner.Bin(v))
	idx.mask.AppendBit(false)
	idx.nextID = id + 1
	idx.seeded = true
	return nil
}

// AppendNone records a none (absent) value at the next position.
func (idx *Index) AppendNone() {
	idx.coder.Skip(1)
	idx.mask.AppendBit(true)
	idx.nextID = uint64(idx.Size())
	idx.seeded = true
}

// Skip appends n none positions in bulk, used both directly and to fill
// gaps discovered by AppendAt.
func (idx *Index) Skip(n int) {
	if n <= 0 {
		return
	}
	idx.coder.Skip(n)
	idx.mask.AppendBits(true, n)
}

// notNull returns the complement of the null mask, sized to the index's
// current length.
func (idx *Index) notNull() *bitmap.Bitmap {
	return idx.mask.Not()
}

// Lookup evaluates a single-value comparison operator, excluding none
// positions from the result: a none position can never satisfy any
// comparison, equality or inequality alike, since its value is unknown
// rather than some specific out-of-range sentinel.
func (idx *Index) Lookup(op index.Operator, v float64) (*bitmap.Bitmap, error) {
	bm, err := coder.Lookup(idx.coder, op, idx.binner.Bin(v))
	if err != nil {
		return nil, fmt.Errorf("bitmapindex: %w", err)
	}
	return bm.And(idx.notNull()), nil
}

// LookupIn evaluates the "in" operator over a set of values, OR-ing the
// individual equality results and excluding none positions.
func (idx *Index) LookupIn(vs []float64) *bitmap.Bitmap {
	coded := make([]int64, len(vs))
	for i, v := range vs {
		coded[i] = idx.binner.Bin(v)
	}
	return idx.coder.In(coded).And(idx.notNull())
}

// LookupNotIn is the null-masked complement of LookupIn.
func (idx *Index) LookupNotIn(vs []float64) *bitmap.Bitmap {
	return idx.LookupIn(vs).Not().And(idx.notNull())
}

// LookupNone answers lookup(==, none) and lookup(!=, none): the former is
// exactly the null mask, the latter its complement.
func (idx *Index) LookupNone(op index.Operator) (*bitmap.Bitmap, error) {
	switch op {
	case index.Equal:
		return idx.mask.Clone(), nil
	case index.NotEqual:
		return idx.mask.Not(), nil
	default:
		return nil, fmt.Errorf("bitmapindex: none %s: %w", op, index.ErrUnsupportedOperator)
	}
}

// Save writes the coder and the null mask.
func (idx *Index) Save(w io.Writer) error {
	if err := idx.coder.Save(w); err != nil {
		return fmt.Errorf("bitmapindex: save coder: %w", err)
	}
	if err := idx.mask.Serialize(w); err != nil {
		return fmt.Errorf("bitmapindex: save mask: %w", err)
	}
	return nil
}

// Load reads back an Index previously written by Save. The binner is not
// persisted; callers must supply the same binner used to build it (the
// factory layer recreates it from the stored type descriptor).
func Load(r io.Reader, b binner.Binner) (*Index, error) {
	c, err := coder.Load(r)
	if err != nil {
		return nil, fmt.Errorf("bitmapindex: load coder: %w", err)
	}
	mask, err := bitmap.Deserialize(r)
	if err != nil {
		return nil, fmt.Errorf("bitmapindex: load mask: %w", err)
	}
	return &Index{binner: b, coder: c, mask: mask, nextID: uint64(mask.Size()), seeded: mask.Size() > 0}, nil
}
