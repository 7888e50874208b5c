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

// tableSlot holds one (key, value) pair position of a table row.
type tableSlot struct {
	key index.Index
	val index.Index
}

// TableIndex covers the table container value: like SequenceIndex, it
// holds a fixed number of (key, value) slots plus a size index, using
// the same enumerate-and-restrict strategy the vector/set adapters use
// rather than a hash-style key lookup.
type TableIndex struct {
	entry
	keyKind value.Kind
	valKind value.Kind
	maxSize int
	size    *bitmapindex.Index
	slots   []tableSlot
}

func NewTable(keyKind, valKind value.Kind, maxSize int) (*TableIndex, error) {
	slots := make([]tableSlot, maxSize)
	for i := range slots {
		k, err := newScalarIndex(keyKind)
		if err != nil {
			return nil, err
		}
		v, err := newScalarIndex(valKind)
		if err != nil {
			return nil, err
		}
		slots[i] = tableSlot{key: k, val: v}
	}
	return &TableIndex{
		entry:   newEntry(),
		keyKind: keyKind,
		valKind: valKind,
		maxSize: maxSize,
		size:    bitmapindex.New(binner.DefaultLengthBinner()),
		slots:   slots,
	}, nil
}

func (x *TableIndex) Size() int { return x.entry.size() }

func (x *TableIndex) Append(v value.View) error {
	return x.AppendAt(v, uint64(x.Size()))
}

func (x *TableIndex) AppendAt(v value.View, id uint64) error {
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
	if v.Kind() != value.Table {
		return fmt.Errorf("tableindex: append: %w", index.ErrTypeMismatch)
	}
	entries := v.Entries()
	x.size.Append(float64(len(entries)))
	for i, slot := range x.slots {
		if i < len(entries) {
			if err := slot.key.Append(entries[i].Key); err != nil {
				return fmt.Errorf("tableindex: append slot %d key: %w", i, err)
			}
			if err := slot.val.Append(entries[i].Value); err != nil {
				return fmt.Errorf("tableindex: append slot %d value: %w", i, err)
			}
		} else {
			if err := slot.key.Append(value.NewNone()); err != nil {
				return fmt.Errorf("tableindex: append slot %d key: %w", i, err)
			}
			if err := slot.val.Append(value.NewNone()); err != nil {
				return fmt.Errorf("tableindex: append slot %d value: %w", i, err)
			}
		}
	}
	x.appendMask(false)
	return nil
}

func (x *TableIndex) appendNone() {
	x.size.Skip(1)
	for _, slot := range x.slots {
		slot.key.Append(value.NewNone())
		slot.val.Append(value.NewNone())
	}
	x.appendMask(true)
}

// Lookup only implements equal/not_equal between two full tables. Use Ni
// for (key, value) pair membership.
func (x *TableIndex) Lookup(op index.Operator, v value.View) (*bitmap.Bitmap, error) {
	if v.IsNone() {
		return x.lookupNone(op)
	}
	switch op {
	case index.Equal, index.NotEqual:
		if v.Kind() != value.Table {
			return nil, fmt.Errorf("tableindex: lookup: %w", index.ErrTypeMismatch)
		}
		entries := v.Entries()
		eq, err := x.size.Lookup(index.Equal, float64(len(entries)))
		if err != nil {
			return nil, fmt.Errorf("tableindex: %w", err)
		}
		for i, slot := range x.slots {
			key, val := value.NewNone(), value.NewNone()
			if i < len(entries) {
				key, val = entries[i].Key, entries[i].Value
			}
			keq, err := index.Lookup(slot.key, index.Equal, key)
			if err != nil {
				return nil, fmt.Errorf("tableindex: %w", err)
			}
			veq, err := index.Lookup(slot.val, index.Equal, val)
			if err != nil {
				return nil, fmt.Errorf("tableindex: %w", err)
			}
			eq = eq.And(keq).And(veq)
		}
		eq = eq.And(x.notNull())
		if op == index.NotEqual {
			return eq.Not().And(x.notNull()), nil
		}
		return eq, nil
	default:
		return nil, fmt.Errorf("tableindex: %s: %w", op, index.ErrUnsupportedOperator)
	}
}

// Ni evaluates (key, value) pair membership, ORing per-slot equality
// across both the key and value sub-indexes.
func (x *TableIndex) Ni(op index.Operator, entry value.Entry) (*bitmap.Bitmap, error) {
	result := bitmap.Zeros(x.Size())
	for i, slot := range x.slots {
		keq, err := index.Lookup(slot.key, index.Equal, entry.Key)
		if err != nil {
			return nil, fmt.Errorf("tableindex: slot %d: %w", i, err)
		}
		veq, err := index.Lookup(slot.val, index.Equal, entry.Value)
		if err != nil {
			return nil, fmt.Errorf("tableindex: slot %d: %w", i, err)
		}
		result = result.Or(keq.And(veq))
	}
	switch op {
	case index.Ni:
		return result.And(x.notNull()), nil
	case index.NotNi:
		return result.Not().And(x.notNull()), nil
	default:
		return nil, fmt.Errorf("tableindex: %s: %w", op, index.ErrUnsupportedOperator)
	}
}

func (x *TableIndex) Save(w io.Writer) error {
	if err := writeTag(w, KindTable); err != nil {
		return err
	}
	if err := writeInt(w, int32(x.keyKind)); err != nil {
		return err
	}
	if err := writeInt(w, int32(x.valKind)); err != nil {
		return err
	}
	if err := writeInt(w, int32(x.maxSize)); err != nil {
		return err
	}
	if err := x.saveMask(w); err != nil {
		return err
	}
	if err := x.size.Save(w); err != nil {
		return fmt.Errorf("tableindex: save size: %w", err)
	}
	for i, slot := range x.slots {
		if err := slot.key.Save(w); err != nil {
			return fmt.Errorf("tableindex: save slot %d key: %w", i, err)
		}
		if err := slot.val.Save(w); err != nil {
			return fmt.Errorf("tableindex: save slot %d value: %w", i, err)
		}
	}
	return nil
}

func loadTable(r io.Reader) (*TableIndex, error) {
	keyKind, err := readInt(r)
	if err != nil {
		return nil, err
	}
	valKind, err := readInt(r)
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
		return nil, fmt.Errorf("tableindex: load size: %w", err)
	}
	slots := make([]tableSlot, maxSize)
	for i := range slots {
		k, err := Load(r)
		if err != nil {
			return nil, fmt.Errorf("tableindex: load slot %d key: %w", i, err)
		}
		v, err := Load(r)
		if err != nil {
			return nil, fmt.Errorf("tableindex: load slot %d value: %w", i, err)
		}
		slots[i] = tableSlot{key: k, val: v}
	}
	return &TableIndex{
		entry:   e,
		keyKind: value.Kind(keyKind),
		valKind: value.Kind(valKind),
		maxSize: int(maxSize),
		size:    size,
		slots:   slots,
	}, nil
}
