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

// maxPrefixLength covers the full IPv6 bit width; IPv4 prefixes (0-32)
// are stored as-is, since AddressIndex's v4Mask already disambiguates
// the family and equal-length v4/v6 prefixes never compare together.
const maxPrefixLength = 129

// SubnetIndex stores each appended (network, prefix_length) pair as an
// address sub-index over the network address plus an equality index
// over the prefix length.
type SubnetIndex struct {
	entry
	network *AddressIndex
	prefix  *bitmapindex.Index
}

func NewSubnet() *SubnetIndex {
	return &SubnetIndex{
		entry:   newEntry(),
		network: NewAddress(),
		prefix:  bitmapindex.New(binner.Equality{Domain: maxPrefixLength}),
	}
}

func (x *SubnetIndex) Size() int { return x.entry.size() }

func (x *SubnetIndex) Append(v value.View) error {
	return x.AppendAt(v, uint64(x.Size()))
}

func (x *SubnetIndex) AppendAt(v value.View, id uint64) error {
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
	if v.Kind() != value.Subnet {
		return fmt.Errorf("subnetindex: append: %w", index.ErrTypeMismatch)
	}
	if err := x.network.Append(value.NewAddress(v.Addr())); err != nil {
		return fmt.Errorf("subnetindex: append network: %w", err)
	}
	x.prefix.Append(float64(v.Prefix()))
	x.appendMask(false)
	return nil
}

func (x *SubnetIndex) appendNone() {
	x.network.appendNone()
	x.prefix.Skip(1)
	x.appendMask(true)
}

// Lookup implements equal, not_equal (exact network and prefix-length
// match) and in (the stored subnet is contained in v: prefix-length >=
// v's and the stored network falls within v as a subnet). Use Ni for
// "does this subnet contain address a", which needs an address
// argument rather than a subnet one.
func (x *SubnetIndex) Lookup(op index.Operator, v value.View) (*bitmap.Bitmap, error) {
	if v.IsNone() {
		return x.lookupNone(op)
	}
	if v.Kind() != value.Subnet {
		return nil, fmt.Errorf("subnetindex: lookup: %w", index.ErrTypeMismatch)
	}
	switch op {
	case index.Equal, index.NotEqual:
		netEq, err := x.network.Lookup(index.Equal, value.NewAddress(v.Addr()))
		if err != nil {
			return nil, fmt.Errorf("subnetindex: %w", err)
		}
		prefEq, err := x.prefix.Lookup(index.Equal, float64(v.Prefix()))
		if err != nil {
			return nil, fmt.Errorf("subnetindex: %w", err)
		}
		eq := netEq.And(prefEq).And(x.notNull())
		if op == index.NotEqual {
			return eq.Not().And(x.notNull()), nil
		}
		return eq, nil
	case index.In:
		ge, err := x.prefix.Lookup(index.GreaterEqual, float64(v.Prefix()))
		if err != nil {
			return nil, fmt.Errorf("subnetindex: %w", err)
		}
		within, err := x.network.Lookup(index.In, v)
		if err != nil {
			return nil, fmt.Errorf("subnetindex: %w", err)
		}
		return ge.And(within).And(x.notNull()), nil
	case index.NotIn:
		in, err := x.Lookup(index.In, v)
		if err != nil {
			return nil, err
		}
		return in.Not().And(x.notNull()), nil
	default:
		return nil, fmt.Errorf("subnetindex: %s: %w", op, index.ErrUnsupportedOperator)
	}
}

// Ni evaluates "does the stored subnet contain address a", by checking,
// for every prefix length present in the column, whether a agrees with
// the stored network of the rows with that length in that many leading
// bits. The stored network is kept as appended; only its own
// prefix-length bits take part.
func (x *SubnetIndex) Ni(op index.Operator, addr value.View) (*bitmap.Bitmap, error) {
	if addr.Kind() != value.Address {
		return nil, fmt.Errorf("subnetindex: ni: %w", index.ErrTypeMismatch)
	}
	result := bitmap.Zeros(x.Size())
	for prefixLen := 0; prefixLen < maxPrefixLength; prefixLen++ {
		hasLen, err := x.prefix.Lookup(index.Equal, float64(prefixLen))
		if err != nil {
			return nil, fmt.Errorf("subnetindex: %w", err)
		}
		if hasLen.Rank() == 0 {
			continue
		}
		contains, err := x.network.Lookup(index.In, value.NewSubnet(addr.Addr(), prefixLen))
		if err != nil {
			return nil, fmt.Errorf("subnetindex: %w", err)
		}
		result = result.Or(hasLen.And(contains))
	}
	switch op {
	case index.Ni:
		return result.And(x.notNull()), nil
	case index.NotNi:
		return result.Not().And(x.notNull()), nil
	default:
		return nil, fmt.Errorf("subnetindex: %s: %w", op, index.ErrUnsupportedOperator)
	}
}

func (x *SubnetIndex) Save(w io.Writer) error {
	if err := writeTag(w, KindSubnet); err != nil {
		return err
	}
	if err := x.saveMask(w); err != nil {
		return err
	}
	if err := x.network.Save(w); err != nil {
		return fmt.Errorf("subnetindex: save network: %w", err)
	}
	if err := x.prefix.Save(w); err != nil {
		return fmt.Errorf("subnetindex: save prefix: %w", err)
	}
	return nil
}

func loadSubnet(r io.Reader) (*SubnetIndex, error) {
	e, err := loadEntry(r)
	if err != nil {
		return nil, err
	}
	tag, err := readTag(r)
	if err != nil {
		return nil, err
	}
	if tag != KindAddress {
		return nil, fmt.Errorf("subnetindex: load network: %w", index.ErrCorrupt)
	}
	network, err := loadAddress(r)
	if err != nil {
		return nil, fmt.Errorf("subnetindex: load network: %w", err)
	}
	prefix, err := bitmapindex.Load(r, binner.Equality{Domain: maxPrefixLength})
	if err != nil {
		return nil, fmt.Errorf("subnetindex: load prefix: %w", err)
	}
	return &SubnetIndex{entry: e, network: network, prefix: prefix}, nil
}
