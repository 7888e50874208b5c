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

// SequenceIndex covers both vector and set containers identically,
// as a fixed number of element slots plus a size
// index. Elements beyond maxSize are silently discarded at append time,
// since they can never be the target of a slot-indexed membership
// lookup.
type SequenceIndex struct {
	entry
	elementKind value.Kind
	maxSize     int
	size        *bitmapindex.Index
	slots       []index.Index
}

// NewSequence returns a SequenceIndex holding up to maxSize elements of
// elementKind per row.
func NewSequence(elementKind value.Kind, maxSize int) (*SequenceIndex, error) {
	slots := make([]index.Index, maxSize)
	for i := range slots {
		s, err := newScalarIndex(elementKind)
		if err != nil {
			return nil, err
		}
		slots[i] = s
	}
	return &SequenceIndex{
		entry:       newEntry(),
		elementKind: elementKind,
		maxSize:     maxSize,
		size:        bitmapindex.New(binner.DefaultLengthBinner()),
		slots:       slots,
	}, nil
}

func (x *SequenceIndex) Size() int { return x.entry.size() }

func (x *SequenceIndex) Append(v value.View) error {
	return x.AppendAt(v, uint64(x.Size()))
}

func (x *SequenceIndex) AppendAt(v value.View, id uint64) error {
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
	if v.Kind() != value.Vector && v.Kind() != value.Set {
		return fmt.Errorf("sequenceindex: append: %w", index.ErrTypeMismatch)
	}
	items := v.Items()
	x.size.Append(float64(len(items)))
	for i, slot := range x.slots {
		if i < len(items) {
			if err := slot.Append(items[i]); err != nil {
				return fmt.Errorf("sequenceindex: append slot %d: %w", i, err)
			}
		} else {
			if err := slot.Append(value.NewNone()); err != nil {
				return fmt.Errorf("sequenceindex: append slot %d: %w", i, err)
			}
		}
	}
	x.appendMask(false)
	return nil
}

func (x *SequenceIndex) appendNone() {
	x.size.Skip(1)
	for _, slot := range x.slots {
		slot.Append(value.NewNone())
	}
	x.appendMask(true)
}

// Lookup only implements equal/not_equal between two full sequences
// (element-by-element AND across slots and size). Use Ni/In for
// membership and containment, which take an element or container value
// rather than a same-shaped sequence.
func (x *SequenceIndex) Lookup(op index.Operator, v value.View) (*bitmap.Bitmap, error) {
	if v.IsNone() {
		return x.lookupNone(op)
	}
	switch op {
	case index.Equal, index.NotEqual:
		if v.Kind() != value.Vector && v.Kind() != value.Set {
			return nil, fmt.Errorf("sequenceindex: lookup: %w", index.ErrTypeMismatch)
		}
		items := v.Items()
		eq, err := x.size.Lookup(index.Equal, float64(len(items)))
		if err != nil {
			return nil, fmt.Errorf("sequenceindex: %w", err)
		}
		for i, slot := range x.slots {
			var elemEq *bitmap.Bitmap
			var lerr error
			if i < len(items) {
				elemEq, lerr = index.Lookup(slot, index.Equal, items[i])
			} else {
				elemEq, lerr = index.Lookup(slot, index.Equal, value.NewNone())
			}
			if lerr != nil {
				return nil, fmt.Errorf("sequenceindex: %w", lerr)
			}
			eq = eq.And(elemEq)
		}
		eq = eq.And(x.notNull())
		if op == index.NotEqual {
			return eq.Not().And(x.notNull()), nil
		}
		return eq, nil
	default:
		return nil, fmt.Errorf("sequenceindex: %s: %w", op, index.ErrUnsupportedOperator)
	}
}

// Ni evaluates element membership: "x ni row" means row's sequence
// contains x, computed as the OR over slots of slot[i].lookup(==, x).
func (x *SequenceIndex) Ni(op index.Operator, elem value.View) (*bitmap.Bitmap, error) {
	result := bitmap.Zeros(x.Size())
	for i, slot := range x.slots {
		eq, err := index.Lookup(slot, index.Equal, elem)
		if err != nil {
			return nil, fmt.Errorf("sequenceindex: slot %d: %w", i, err)
		}
		result = result.Or(eq)
	}
	switch op {
	case index.Ni:
		return result.And(x.notNull()), nil
	case index.NotNi:
		return result.Not().And(x.notNull()), nil
	default:
		return nil, fmt.Errorf("sequenceindex: %s: %w", op, index.ErrUnsupportedOperator)
	}
}

// In evaluates container containment: every element of container must
// satisfy Ni, i.e. the row's sequence must hold each of container's
// elements somewhere in its slots.
func (x *SequenceIndex) In(op index.Operator, container value.View) (*bitmap.Bitmap, error) {
	result := bitmap.Ones(x.Size()).And(x.notNull())
	for _, elem := range container.Items() {
		eq, err := x.Ni(index.Ni, elem)
		if err != nil {
			return nil, err
		}
		result = result.And(eq)
	}
	switch op {
	case index.In:
		return result, nil
	case index.NotIn:
		return result.Not().And(x.notNull()), nil
	default:
		return nil, fmt.Errorf("sequenceindex: %s: %w", op, index.ErrUnsupportedOperator)
	}
}

func (x *SequenceIndex) Save(w io.Writer) error {
	if err := writeTag(w, KindSequence); err != nil {
		return err
	}
	if err := writeInt(w, int32(x.elementKind)); err != nil {
		return err
	}
	if err := writeInt(w, int32(x.maxSize)); err != nil {
		return err
	}
	if err := x.saveMask(w); err != nil {
		return err
	}
	if err := x.size.Save(w); err != nil {
		return fmt.Errorf("sequenceindex: save size: %w", err)
	}
	for i, slot := range x.slots {
		if err := slot.Save(w); err != nil {
			return fmt.Errorf("sequenceindex: save slot %d: %w", i, err)
		}
	}
	return nil
}

func loadSequence(r io.Reader) (*SequenceIndex, error) {
	kind, err := readInt(r)
	if err != nil {
		return nil, err
	}
	maxSize, err := readInt(r)
	if err != nil {
		return nil, err
	}
	e, err := loadEntry(r)
	if err != nil {
		return nil, err
	}
	size, err := bitmapindex.Load(r, binner.DefaultLengthBinner())
	if err != nil {
		return nil, fmt.Errorf("sequenceindex: load size: %w", err)
	}
	slots := make([]index.Index, maxSize)
	for i := range slots {
		s, err := Load(r)
		if err != nil {
			return nil, fmt.Errorf("sequenceindex: load slot %d: %w", i, err)
		}
		slots[i] = s
	}
	return &SequenceIndex{
		entry:       e,
		elementKind: value.Kind(kind),
		maxSize:     int(maxSize),
		size:        size,
		slots:       slots,
	}, nil
}
