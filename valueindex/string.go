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

// noChar is the sentinel byte-index value a character slot holds at
// positions beyond a stored string's own length, distinct from every
// real byte value 0-255.
const noChar = 256

// StringIndex maintains a length index (range-coded over a uniform base)
// and one bit-slice character index per byte position up to maxLength,
// one per character position. Strings longer than maxLength are truncated
// for indexing purposes only: their length is still recorded exactly, so
// Equal rules out any string of a different length, but two strings of
// the same length over maxLength that share their first maxLength bytes
// compare equal (and not NotEqual). Ni substring search only sees the
// first maxLength bytes.
type StringIndex struct {
	entry
	maxLength int
	length    *bitmapindex.Index
	chars     []*bitmapindex.Index
}

func NewString(maxLength int) *StringIndex {
	chars := make([]*bitmapindex.Index, maxLength)
	for i := range chars {
		chars[i] = bitmapindex.New(binner.Identity{Width: 9})
	}
	return &StringIndex{
		entry:     newEntry(),
		maxLength: maxLength,
		length:    bitmapindex.New(binner.DefaultLengthBinner()),
		chars:     chars,
	}
}

func (x *StringIndex) Size() int { return x.entry.size() }

func (x *StringIndex) Append(v value.View) error {
	return x.AppendAt(v, uint64(x.Size()))
}

func (x *StringIndex) AppendAt(v value.View, id uint64) error {
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
	if v.Kind() != value.String {
		return fmt.Errorf("stringindex: append: %w", index.ErrTypeMismatch)
	}
	s := v.Str()
	x.length.Append(float64(len(s)))
	for i, slot := range x.chars {
		if i < len(s) {
			slot.Append(float64(s[i]))
		} else {
			slot.Append(float64(noChar))
		}
	}
	x.appendMask(false)
	return nil
}

func (x *StringIndex) appendNone() {
	x.length.Skip(1)
	for _, slot := range x.chars {
		slot.Skip(1)
	}
	x.appendMask(true)
}

// Lookup implements equal, not_equal and match (always unsupported). Use
// Ni for substring membership, since index.Index.Lookup has no slot for
// a second string argument beyond v.
func (x *StringIndex) Lookup(op index.Operator, v value.View) (*bitmap.Bitmap, error) {
	if v.IsNone() {
		return x.lookupNone(op)
	}
	switch op {
	case index.Match, index.NotMatch:
		return nil, fmt.Errorf("stringindex: %s: %w", op, index.ErrUnsupportedOperator)
	case index.Equal, index.NotEqual:
		if v.Kind() != value.String {
			return nil, fmt.Errorf("stringindex: lookup: %w", index.ErrTypeMismatch)
		}
		eq, err := x.equal(v.Str())
		if err != nil {
			return nil, err
		}
		if op == index.NotEqual {
			return eq.Not().And(x.notNull()), nil
		}
		return eq, nil
	default:
		return nil, fmt.Errorf("stringindex: %s: %w", op, index.ErrUnsupportedOperator)
	}
}

func (x *StringIndex) equal(s string) (*bitmap.Bitmap, error) {
	bm, err := x.length.Lookup(index.Equal, float64(len(s)))
	if err != nil {
		return nil, fmt.Errorf("stringindex: %w", err)
	}
	for i := 0; i < len(s) && i < x.maxLength; i++ {
		cbm, err := x.chars[i].Lookup(index.Equal, float64(s[i]))
		if err != nil {
			return nil, fmt.Errorf("stringindex: %w", err)
		}
		bm = bm.And(cbm)
	}
	return bm.And(x.notNull()), nil
}

// Ni evaluates substring membership: "ni sub" (and its complement
// "not_ni") are not representable as a single value.View lookup and so
// live on a method outside index.Index, exercised by callers that know
// they hold a *StringIndex.
func (x *StringIndex) Ni(op index.Operator, sub string) (*bitmap.Bitmap, error) {
	if len(sub) == 0 {
		switch op {
		case index.Ni:
			return x.notNull(), nil
		case index.NotNi:
			return bitmap.Zeros(x.Size()), nil
		default:
			return nil, fmt.Errorf("stringindex: %s: %w", op, index.ErrUnsupportedOperator)
		}
	}
	result := bitmap.Zeros(x.Size())
	for o := 0; o+len(sub) <= x.maxLength; o++ {
		window := x.notNull()
		for i := 0; i < len(sub); i++ {
			cbm, err := x.chars[o+i].Lookup(index.Equal, float64(sub[i]))
			if err != nil {
				return nil, fmt.Errorf("stringindex: %w", err)
			}
			window = window.And(cbm)
		}
		result = result.Or(window)
	}
	switch op {
	case index.Ni:
		return result.And(x.notNull()), nil
	case index.NotNi:
		return result.Not().And(x.notNull()), nil
	default:
		return nil, fmt.Errorf("stringindex: %s: %w", op, index.ErrUnsupportedOperator)
	}
}

func (x *StringIndex) Save(w io.Writer) error {
	if err := writeTag(w, KindString); err != nil {
		return err
	}
	if err := writeInt(w, int32(x.maxLength)); err != nil {
		return err
	}
	if err := x.saveMask(w); err != nil {
		return err
	}
	if err := x.length.Save(w); err != nil {
		return fmt.Errorf("stringindex: save length: %w", err)
	}
	for i, slot := range x.chars {
		if err := slot.Save(w); err != nil {
			return fmt.Errorf("stringindex: save char %d: %w", i, err)
		}
	}
	return nil
}

func loadString(r io.Reader) (*StringIndex, error) {
	maxLength, err := readInt(r)
	if err != nil {
		return nil, err
	}
	e, err := loadEntry(r)
	if err != nil {
		return nil, err
	}
	length, err := bitmapindex.Load(r, binner.DefaultLengthBinner())
	if err != nil {
		return nil, fmt.Errorf("stringindex: load length: %w", err)
	}
	chars := make([]*bitmapindex.Index, maxLength)
	for i := range chars {
		c, err := bitmapindex.Load(r, binner.Identity{Width: 9})
		if err != nil {
			return nil, fmt.Errorf("stringindex: load char %d: %w", i, err)
		}
		chars[i] = c
	}
	return &StringIndex{entry: e, maxLength: int(maxLength), length: length, chars: chars}, nil
}
