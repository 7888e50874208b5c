package coder

import (
	"fmt"
	"io"

	"github.com/precurse/vast/bitmap"
	"github.com/precurse/vast/numeric"
)

// MultiLevelCoder decomposes a value into k digits in a fixed base, most
// significant first, and routes each digit to its own sub-coder. Equal is
// the AND of every digit's Equal; the order operators use the same
// most-significant-digit-first reduction as BitSliceCoder, generalized
// from bits to digits. The digit sub-coders can be of any kind: a bit-
// slice coder per digit is the usual choice for arithmetic domains, a
// range coder per digit is used for the string length index.
type MultiLevelCoder struct {
	base   int
	digits []Coder // digits[0] is most significant
}

// NewDigit constructs one sub-coder for a single digit position.
type NewDigit func() Coder

// NewMultiLevelCoder returns a MultiLevelCoder with k digits in the given
// base, each built by calling newDigit.
func NewMultiLevelCoder(base, k int, newDigit NewDigit) *MultiLevelCoder {
	digits := make([]Coder, k)
	for i := range digits {
		digits[i] = newDigit()
	}
	return &MultiLevelCoder{base: base, digits: digits}
}

func (m *MultiLevelCoder) decompose(v int64) []int64 {
	return numeric.Digits(uint64(v), m.base, len(m.digits))
}

func (m *MultiLevelCoder) Size() int {
	if len(m.digits) == 0 {
		return 0
	}
	return m.digits[0].Size()
}

func (m *MultiLevelCoder) Append(v int64) {
	for i, d := range m.decompose(v) {
		m.digits[i].Append(d)
	}
}

func (m *MultiLevelCoder) Skip(n int) {
	for _, d := range m.digits {
		d.Skip(n)
	}
}

func (m *MultiLevelCoder) Equal(v int64) *bitmap.Bitmap {
	result := bitmap.Ones(m.Size())
	for i, d := range m.decompose(v) {
		result = result.And(m.digits[i].Equal(d))
	}
	return result
}

func (m *MultiLevelCoder) NotEqual(v int64) *bitmap.Bitmap {
	return m.Equal(v).Not()
}

func (m *MultiLevelCoder) Less(v int64) *bitmap.Bitmap {
	size := m.Size()
	result := bitmap.Zeros(size)
	eq := bitmap.Ones(size)
	for i, d := range m.decompose(v) {
		result = result.Or(eq.And(m.digits[i].Less(d)))
		eq = eq.And(m.digits[i].Equal(d))
	}
	return result
}

func (m *MultiLevelCoder) LessEqual(v int64) *bitmap.Bitmap {
	return m.Less(v).Or(m.Equal(v))
}

func (m *MultiLevelCoder) Greater(v int64) *bitmap.Bitmap {
	return m.LessEqual(v).Not()
}

func (m *MultiLevelCoder) GreaterEqual(v int64) *bitmap.Bitmap {
	return m.Less(v).Not()
}

func (m *MultiLevelCoder) In(vs []int64) *bitmap.Bitmap {
	out := bitmap.Zeros(m.Size())
	for _, v := range vs {
		out = out.Or(m.Equal(v))
	}
	return out
}

func (m *MultiLevelCoder) Save(w io.Writer) error {
	if err := writeTag(w, kindMultiLevel); err != nil {
		return err
	}
	if err := writeInt(w, int32(m.base)); err != nil {
		return err
	}
	if err := writeInt(w, int32(len(m.digits))); err != nil {
		return err
	}
	for _, d := range m.digits {
		if err := d.Save(w); err != nil {
			return fmt.Errorf("coder: multi-level digit: %w", err)
		}
	}
	return nil
}

func loadMultiLevelCoder(r io.Reader) (*MultiLevelCoder, error) {
	base, err := readInt(r)
	if err != nil {
		return nil, fmt.Errorf("coder: multi-level base: %w", err)
	}
	k, err := readInt(r)
	if err != nil {
		return nil, fmt.Errorf("coder: multi-level digit count: %w", err)
	}
	digits := make([]Coder, k)
	for i := range digits {
		d, err := Load(r)
		if err != nil {
			return nil, fmt.Errorf("coder: multi-level digit %d: %w", i, err)
		}
		digits[i] = d
	}
	return &MultiLevelCoder{base: int(base), digits: digits}, nil
}
