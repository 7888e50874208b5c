package valueindex

import (
	"fmt"
	"io"
	"math"

	"github.com/precurse/vast/binner"
	"github.com/precurse/vast/bitmap"
	"github.com/precurse/vast/bitmapindex"
	"github.com/precurse/vast/index"
	"github.com/precurse/vast/value"
)

// ArithmeticIndex covers integer, count, real, duration and timestamp
// columns, all of which reduce to the same uniform-base, bias-projected
// bit-slice pipeline once their raw magnitude is extracted: integers and
// counts use their exact value, durations and timestamps their nanosecond
// count, and reals their value scaled by 10^Scale and rounded (the
// precision-binning step for real values).
type ArithmeticIndex struct {
	entry
	kind  value.Kind
	scale int
	base  int
	k     int
	bin   binner.Binner
	sub   *bitmapindex.Index
}

// NewArithmetic returns an ArithmeticIndex for kind (one of Integer,
// Count, Real, Duration, Timestamp) using a uniform-base(base, k) coder.
// scale is only meaningful for Real, the number of decimal digits of
// precision retained.
func NewArithmetic(kind value.Kind, base, k, scale int) *ArithmeticIndex {
	b := binner.UniformBase{Base: base, K: k}
	return &ArithmeticIndex{
		entry: newEntry(),
		kind:  kind,
		scale: scale,
		base:  base,
		k:     k,
		bin:   b,
		sub:   bitmapindex.New(b),
	}
}

func (x *ArithmeticIndex) Size() int { return x.entry.size() }

// project extracts v's raw numeric magnitude, validating its kind.
func (x *ArithmeticIndex) project(v value.View) (float64, error) {
	if v.Kind() != x.kind {
		return 0, fmt.Errorf("arithmeticindex: %w", index.ErrTypeMismatch)
	}
	switch x.kind {
	case value.Integer:
		return float64(v.Int()), nil
	case value.Count:
		return float64(v.Count()), nil
	case value.Real:
		return v.Real() * math.Pow(10, float64(x.scale)), nil
	case value.Duration:
		return float64(v.Dur().Nanoseconds()), nil
	case value.Timestamp:
		return float64(v.Time().UnixNano()), nil
	default:
		return 0, fmt.Errorf("arithmeticindex: unsupported kind %s: %w", x.kind, index.ErrTypeMismatch)
	}
}

func (x *ArithmeticIndex) Append(v value.View) error {
	return x.AppendAt(v, uint64(x.Size()))
}

func (x *ArithmeticIndex) AppendAt(v value.View, id uint64) error {
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
	raw, err := x.project(v)
	if err != nil {
		return err
	}
	x.sub.Append(raw)
	x.appendMask(false)
	return nil
}

func (x *ArithmeticIndex) appendNone() {
	x.sub.Skip(1)
	x.appendMask(true)
}

func (x *ArithmeticIndex) Lookup(op index.Operator, v value.View) (*bitmap.Bitmap, error) {
	if v.IsNone() {
		return x.lookupNone(op)
	}
	switch op {
	case index.In, index.NotIn:
		return nil, fmt.Errorf("arithmeticindex: %s takes a set, use LookupIn/LookupNotIn: %w", op, index.ErrUnsupportedOperator)
	}
	raw, err := x.project(v)
	if err != nil {
		return nil, err
	}
	bm, err := x.sub.Lookup(op, raw)
	if err != nil {
		return nil, fmt.Errorf("arithmeticindex: %w", err)
	}
	return bm.And(x.notNull()), nil
}

// LookupIn evaluates in/not_in against a set of values of the index's
// kind, exposed separately since index.Index.Lookup takes a single view.
func (x *ArithmeticIndex) LookupIn(op index.Operator, vs []value.View) (*bitmap.Bitmap, error) {
	raws := make([]float64, len(vs))
	for i, v := range vs {
		raw, err := x.project(v)
		if err != nil {
			return nil, err
		}
		raws[i] = raw
	}
	switch op {
	case index.In:
		return x.sub.LookupIn(raws).And(x.notNull()), nil
	case index.NotIn:
		return x.sub.LookupNotIn(raws), nil
	default:
		return nil, fmt.Errorf("arithmeticindex: %s: %w", op, index.ErrUnsupportedOperator)
	}
}

func (x *ArithmeticIndex) Save(w io.Writer) error {
	if err := writeTag(w, KindArithmetic); err != nil {
		return err
	}
	if err := writeInt(w, int32(x.kind)); err != nil {
		return err
	}
	if err := writeInt(w, int32(x.scale)); err != nil {
		return err
	}
	if err := writeInt(w, int32(x.base)); err != nil {
		return err
	}
	if err := writeInt(w, int32(x.k)); err != nil {
		return err
	}
	if err := x.saveMask(w); err != nil {
		return err
	}
	if err := x.sub.Save(w); err != nil {
		return fmt.Errorf("arithmeticindex: save sub: %w", err)
	}
	return nil
}

func loadArithmetic(r io.Reader) (*ArithmeticIndex, error) {
	kind, err := readInt(r)
	if err != nil {
		return nil, err
	}
	scale, err := readInt(r)
	if err != nil {
		return nil, err
	}
	base, err := readInt(r)
	if err != nil {
		return nil, err
	}
	k, err := readInt(r)
	if err != nil {
		return nil, err
	}
	e, err := loadEntry(r)
	if err != nil {
		return nil, err
	}
	b := binner.UniformBase{Base: int(base), K: int(k)}
	sub, err := bitmapindex.Load(r, b)
	if err != nil {
		return nil, fmt.Errorf("arithmeticindex: load sub: %w", err)
	}
	return &ArithmeticIndex{
		entry: e,
		kind:  value.Kind(kind),
		scale: int(scale),
		base:  int(base),
		k:     int(k),
		bin:   b,
		sub:   sub,
	}, nil
}
