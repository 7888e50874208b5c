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

// protocols enumerates the transport-layer protocol domain a PortIndex's
// protocol component is coded over; an unlisted protocol string falls
// into the last, catch-all "unknown" slot.
var protocols = []string{"tcp", "udp", "icmp", "icmp6", "sctp", "unknown"}

func protocolOrdinal(proto string) int64 {
	for i, p := range protocols {
		if p == proto {
			return int64(i)
		}
	}
	return int64(len(protocols) - 1)
}

// PortIndex codes a port number as a 16-bit bit-slice and its protocol as
// an equality index over the small protocol domain.
// Order operators compare the port number alone; protocol only
// participates in equality, and is ignored entirely when the query's
// protocol is "unknown" or any other string outside the protocol domain.
type PortIndex struct {
	entry
	number   *bitmapindex.Index
	protocol *bitmapindex.Index
}

func NewPort() *PortIndex {
	return &PortIndex{
		entry:    newEntry(),
		number:   bitmapindex.New(binner.Identity{Width: 16}),
		protocol: bitmapindex.New(binner.Equality{Domain: len(protocols)}),
	}
}

func (x *PortIndex) Size() int { return x.entry.size() }

func (x *PortIndex) Append(v value.View) error {
	return x.AppendAt(v, uint64(x.Size()))
}

func (x *PortIndex) AppendAt(v value.View, id uint64) error {
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
	if v.Kind() != value.Port {
		return fmt.Errorf("portindex: append: %w", index.ErrTypeMismatch)
	}
	x.number.Append(float64(v.PortNumber()))
	x.protocol.Append(float64(protocolOrdinal(v.Protocol())))
	x.appendMask(false)
	return nil
}

func (x *PortIndex) appendNone() {
	x.number.Skip(1)
	x.protocol.Skip(1)
	x.appendMask(true)
}

func (x *PortIndex) Lookup(op index.Operator, v value.View) (*bitmap.Bitmap, error) {
	if v.IsNone() {
		return x.lookupNone(op)
	}
	if v.Kind() != value.Port {
		return nil, fmt.Errorf("portindex: lookup: %w", index.ErrTypeMismatch)
	}
	switch op {
	case index.Equal, index.NotEqual:
		eq, err := x.number.Lookup(index.Equal, float64(v.PortNumber()))
		if err != nil {
			return nil, fmt.Errorf("portindex: %w", err)
		}
		if protocolOrdinal(v.Protocol()) != int64(len(protocols)-1) {
			protoEq, err := x.protocol.Lookup(index.Equal, float64(protocolOrdinal(v.Protocol())))
			if err != nil {
				return nil, fmt.Errorf("portindex: %w", err)
			}
			eq = eq.And(protoEq)
		}
		eq = eq.And(x.notNull())
		if op == index.NotEqual {
			return eq.Not().And(x.notNull()), nil
		}
		return eq, nil
	case index.Less, index.LessEqual, index.Greater, index.GreaterEqual:
		bm, err := x.number.Lookup(op, float64(v.PortNumber()))
		if err != nil {
			return nil, fmt.Errorf("portindex: %w", err)
		}
		return bm.And(x.notNull()), nil
	default:
		return nil, fmt.Errorf("portindex: %s: %w", op, index.ErrUnsupportedOperator)
	}
}

func (x *PortIndex) Save(w io.Writer) error {
	if err := writeTag(w, KindPort); err != nil {
		return err
	}
	if err := x.saveMask(w); err != nil {
		return err
	}
	if err := x.number.Save(w); err != nil {
		return fmt.Errorf("portindex: save number: %w", err)
	}
	if err := x.protocol.Save(w); err != nil {
		return fmt.Errorf("portindex: save protocol: %w", err)
	}
	return nil
}

func loadPort(r io.Reader) (*PortIndex, error) {
	e, err := loadEntry(r)
	if err != nil {
		return nil, err
	}
	number, err := bitmapindex.Load(r, binner.Identity{Width: 16})
	if err != nil {
		return nil, fmt.Errorf("portindex: load number: %w", err)
	}
	protocol, err := bitmapindex.Load(r, binner.Equality{Domain: len(protocols)})
	if err != nil {
		return nil, fmt.Errorf("portindex: load protocol: %w", err)
	}
	return &PortIndex{entry: e, number: number, protocol: protocol}, nil
}
