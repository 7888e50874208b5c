package valueindex

import (
	"fmt"
	"io"
	"net/netip"

	"github.com/precurse/vast/bitmap"
	"github.com/precurse/vast/index"
	"github.com/precurse/vast/value"
)

// AddressIndex represents an IPv4/IPv6 address column as 128 bitmaps, one
// per bit of the canonical 128-bit form (IPv4 addresses map into
// ::ffff:a.b.c.d), plus a v4Mask bitmap distinguishing v4-mapped
// positions for subnet containment queries.
type AddressIndex struct {
	entry
	bits   [128]*bitmap.Bitmap
	v4Mask *bitmap.Bitmap
}

func NewAddress() *AddressIndex {
	x := &AddressIndex{entry: newEntry(), v4Mask: bitmap.New()}
	for i := range x.bits {
		x.bits[i] = bitmap.New()
	}
	return x
}

func (x *AddressIndex) Size() int { return x.entry.size() }

func (x *AddressIndex) Append(v value.View) error {
	return x.AppendAt(v, uint64(x.Size()))
}

func (x *AddressIndex) AppendAt(v value.View, id uint64) error {
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
	if v.Kind() != value.Address {
		return fmt.Errorf("addressindex: append: %w", index.ErrTypeMismatch)
	}
	addr := v.Addr()
	bits := addressBits128(addr)
	for i, b := range bits {
		x.bits[i].AppendBit(b)
	}
	x.v4Mask.AppendBit(addr.Is4())
	x.appendMask(false)
	return nil
}

func (x *AddressIndex) appendNone() {
	for _, bm := range x.bits {
		bm.AppendBit(false)
	}
	x.v4Mask.AppendBit(false)
	x.appendMask(true)
}

func (x *AddressIndex) Lookup(op index.Operator, v value.View) (*bitmap.Bitmap, error) {
	if v.IsNone() {
		return x.lookupNone(op)
	}
	switch op {
	case index.Equal, index.NotEqual:
		if v.Kind() != value.Address {
			return nil, fmt.Errorf("addressindex: lookup: %w", index.ErrTypeMismatch)
		}
		eq := x.equalBitmap(v.Addr())
		if op == index.NotEqual {
			return eq.Not().And(x.notNull()), nil
		}
		return eq, nil
	case index.In, index.NotIn:
		if v.Kind() != value.Subnet {
			return nil, fmt.Errorf("addressindex: lookup: %w", index.ErrTypeMismatch)
		}
		in := x.inSubnet(v.Addr(), v.Prefix())
		if op == index.NotIn {
			return in.Not().And(x.notNull()), nil
		}
		return in, nil
	default:
		return nil, fmt.Errorf("addressindex: %s: %w", op, index.ErrUnsupportedOperator)
	}
}

func (x *AddressIndex) equalBitmap(addr netip.Addr) *bitmap.Bitmap {
	bits := addressBits128(addr)
	bm := bitmap.Ones(x.Size())
	for i, b := range bits {
		if b {
			bm = bm.And(x.bits[i])
		} else {
			bm = bm.And(x.bits[i].Not())
		}
	}
	return bm.And(x.notNull())
}

// inSubnet returns the positions whose stored address falls within
// network/prefix: the shared prefix bits must match exactly, and the
// position's v4-ness must match the network's (a v4 network can never
// contain a v6 address and vice versa, even though both occupy the same
// 128-bit field).
func (x *AddressIndex) inSubnet(network netip.Addr, prefix int) *bitmap.Bitmap {
	bits := addressBits128(network)
	lo, hi := prefixBitRange(network, prefix)
	bm := bitmap.Ones(x.Size())
	for i := lo; i < hi; i++ {
		if bits[i] {
			bm = bm.And(x.bits[i])
		} else {
			bm = bm.And(x.bits[i].Not())
		}
	}
	if network.Is4() {
		bm = bm.And(x.v4Mask)
	} else {
		bm = bm.And(x.v4Mask.Not())
	}
	return bm.And(x.notNull())
}

func (x *AddressIndex) Save(w io.Writer) error {
	if err := writeTag(w, KindAddress); err != nil {
		return err
	}
	if err := x.saveMask(w); err != nil {
		return err
	}
	if err := x.v4Mask.Serialize(w); err != nil {
		return fmt.Errorf("addressindex: save v4 mask: %w", err)
	}
	for i, bm := range x.bits {
		if err := bm.Serialize(w); err != nil {
			return fmt.Errorf("addressindex: save bit %d: %w", i, err)
		}
	}
	return nil
}

func loadAddress(r io.Reader) (*AddressIndex, error) {
	e, err := loadEntry(r)
	if err != nil {
		return nil, err
	}
	v4Mask, err := bitmap.Deserialize(r)
	if err != nil {
		return nil, fmt.Errorf("addressindex: load v4 mask: %w", err)
	}
	x := &AddressIndex{entry: e, v4Mask: v4Mask}
	for i := range x.bits {
		bm, err := bitmap.Deserialize(r)
		if err != nil {
			return nil, fmt.Errorf("addressindex: load bit %d: %w", i, err)
		}
		x.bits[i] = bm
	}
	return x, nil
}
