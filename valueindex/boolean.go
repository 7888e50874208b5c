package valueindex

import (
	"fmt"
	"io"

	"github.com/precurse/vast/binner"
	"github.com/precurse/vast/bitmap"
	"github.com/precurse/vast/bitmapindex"
	"github.com/precurse/vast/index"
	"github.com/precurse/vast/value"
)

// BooleanIndex represents a column of booleans as a single bitmap: 1 for
// true. Only Equal/NotEqual are supported; every other operator is
// UnsupportedOperator.
type BooleanIndex struct {
	entry
	sub *bitmapindex.Index
}

func NewBoolean() *BooleanIndex {
	return &BooleanIndex{entry: newEntry(), sub: bitmapindex.New(binner.Identity{Width: 1})}
}

func (x *BooleanIndex) Size() int { return x.entry.size() }

func (x *BooleanIndex) Append(v value.View) error {
	return x.AppendAt(v, uint64(x.Size()))
}

func (x *BooleanIndex) AppendAt(v value.View, id uint64) error {
	gap, err := x.checkGap(id)
	if err != nil {
		return err
	}
	for i := 0; i < gap; i++ {
		x.appendNone()
	}
	if v.IsNone() {
		x.appendNone()
		return nil
	}
	if v.Kind() != value.Boolean {
		return fmt.Errorf("booleanindex: append: %w", index.ErrTypeMismatch)
	}
	b := 0.0
	if v.Bool() {
		b = 1
	}
	x.sub.Append(b)
	x.appendMask(false)
	return nil
}

func (x *BooleanIndex) appendNone() {
	x.sub.Skip(1)
	x.appendMask(true)
}

func (x *BooleanIndex) Lookup(op index.Operator, v value.View) (*bitmap.Bitmap, error) {
	if v.IsNone() {
		return x.lookupNone(op)
	}
	if v.Kind() != value.Boolean {
		return nil, fmt.Errorf("booleanindex: lookup: %w", index.ErrTypeMismatch)
	}
	b := 0.0
	if v.Bool() {
		b = 1
	}
	switch op {
	case index.Equal, index.NotEqual:
		bm, err := x.sub.Lookup(op, b)
		if err != nil {
			return nil, fmt.Errorf("booleanindex: %w", err)
		}
		return bm.And(x.notNull()), nil
	default:
		return nil, fmt.Errorf("booleanindex: %s: %w", op, index.ErrUnsupportedOperator)
	}
}

// LookupIn evaluates in/not_in against a set of boolean values, exposed
// separately since index.Index.Lookup takes a single view.
func (x *BooleanIndex) LookupIn(op index.Operator, vs []value.View) (*bitmap.Bitmap, error) {
	result := bitmap.Zeros(x.Size())
	for _, v := range vs {
		if v.Kind() != value.Boolean {
			return nil, fmt.Errorf("booleanindex: lookup in: %w", index.ErrTypeMismatch)
		}
		bm, err := x.Lookup(index.Equal, v)
		if err != nil {
			return nil, err
		}
		result = result.Or(bm)
	}
	switch op {
	case index.In:
		return result, nil
	case index.NotIn:
		return result.Not().And(x.notNull()), nil
	default:
		return nil, fmt.Errorf("booleanindex: %s: %w", op, index.ErrUnsupportedOperator)
	}
}

func (x *BooleanIndex) Save(w io.Writer) error {
	if err := writeTag(w, KindBoolean); err != nil {
		return err
	}
	if err := x.saveMask(w); err != nil {
		return err
	}
	if err := x.sub.Save(w); err != nil {
		return fmt.Errorf("booleanindex: save sub: %w", err)
	}
	return nil
}

func loadBoolean(r io.Reader) (*BooleanIndex, error) {
	e, err := loadEntry(r)
	if err != nil {
		return nil, err
	}
	sub, err := bitmapindex.Load(r, binner.Identity{Width: 1})
	if err != nil {
		return nil, fmt.Errorf("booleanindex: load sub: %w", err)
	}
	return &BooleanIndex{entry: e, sub: sub}, nil
}
