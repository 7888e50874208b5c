// Package valueindex implements the per-domain value indexes listed in
// the data model: boolean, arithmetic (integer/count/real/duration/
// timestamp), string, address, subnet, port, sequence (vector/set) and
// table. Each wraps one or more bitmapindex.Index sub-indexes plus a
// top-level null mask, and implements the shared index.Index interface:
// Append/AppendAt encode a value.View at an event id, Lookup evaluates a
// relational operator against a query value.View, and Save persists the
// full state as a tagged byte stream that package factory dispatches on.
package valueindex

import (
	"fmt"
	"io"

	"github.com/precurse/vast/bitmap"
	"github.com/precurse/vast/index"
)

// entry is the common null-mask bookkeeping embedded by every concrete
// value index: it tracks which positions were appended as none and
// implements the shared gap-filling and none-lookup logic common to
// every value index type.
type entry struct {
	mask *bitmap.Bitmap
}

func newEntry() entry { return entry{mask: bitmap.New()} }

func (e *entry) size() int { return e.mask.Size() }

// checkGap validates id against the current size and returns how many
// none positions must be inserted before it.
func (e *entry) checkGap(id uint64) (int, error) {
	size := uint64(e.size())
	if id < size {
		return 0, fmt.Errorf("valueindex: id %d before size %d: %w", id, size, index.ErrInvalidID)
	}
	return int(id - size), nil
}

func (e *entry) appendMask(none bool) { e.mask.AppendBit(none) }

func (e *entry) notNull() *bitmap.Bitmap { return e.mask.Not() }

func (e *entry) lookupNone(op index.Operator) (*bitmap.Bitmap, error) {
	switch op {
	case index.Equal:
		return e.mask.Clone(), nil
	case index.NotEqual:
		return e.mask.Not(), nil
	default:
		return nil, fmt.Errorf("valueindex: none %s: %w", op, index.ErrUnsupportedOperator)
	}
}

func (e *entry) saveMask(w io.Writer) error {
	if err := e.mask.Serialize(w); err != nil {
		return fmt.Errorf("valueindex: save mask: %w", err)
	}
	return nil
}

func loadEntry(r io.Reader) (entry, error) {
	mask, err := bitmap.Deserialize(r)
	if err != nil {
		return entry{}, fmt.Errorf("valueindex: load mask: %w", err)
	}
	return entry{mask: mask}, nil
}

// Kind tags for the factory-level tagged byte stream.
const (
	KindBoolean = iota + 1
	KindArithmetic
	KindString
	KindAddress
	KindSubnet
	KindPort
	KindSequence
	KindTable
)
