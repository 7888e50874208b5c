// Package index defines the relational operators and the sentinel error
// kinds shared by every coder and value index in the module, plus the
// Index interface and lookup-dispatch helper that the factory and its
// collaborators program against.
package index

import (
	"errors"
	"io"

	"github.com/precurse/vast/bitmap"
	"github.com/precurse/vast/value"
)

// Operator is one of the closed set of relational predicates a value
// index can be asked to evaluate.
type Operator int

const (
	Equal Operator = iota
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
	In
	NotIn
	Ni
	NotNi
	Match
	NotMatch
)

func (op Operator) String() string {
	switch op {
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case Less:
		return "<"
	case LessEqual:
		return "<="
	case Greater:
		return ">"
	case GreaterEqual:
		return ">="
	case In:
		return "in"
	case NotIn:
		return "not in"
	case Ni:
		return "ni"
	case NotNi:
		return "not ni"
	case Match:
		return "match"
	case NotMatch:
		return "not match"
	default:
		return "unknown"
	}
}

// Negate returns the operator's logical negation, e.g. Less negates to
// GreaterEqual and In negates to NotIn.
func (op Operator) Negate() Operator {
	switch op {
	case Equal:
		return NotEqual
	case NotEqual:
		return Equal
	case Less:
		return GreaterEqual
	case LessEqual:
		return Greater
	case Greater:
		return LessEqual
	case GreaterEqual:
		return Less
	case In:
		return NotIn
	case NotIn:
		return In
	case Ni:
		return NotNi
	case NotNi:
		return Ni
	case Match:
		return NotMatch
	case NotMatch:
		return Match
	default:
		return op
	}
}

// Sentinel error kinds returned by coders, binners and value indexes.
// Callers should use errors.Is against these, since the concrete errors
// are always wrapped with additional context via fmt.Errorf's %w.
var (
	// ErrUnsupportedOperator is returned when an index or coder is asked
	// to evaluate an operator it has no representation for.
	ErrUnsupportedOperator = errors.New("index: unsupported operator")
	// ErrTypeMismatch is returned when a lookup value's Go type does not
	// match the value index's data type.
	ErrTypeMismatch = errors.New("index: type mismatch")
	// ErrInvalidID is returned by Append/AppendAt when the given event ID
	// is not strictly greater than every previously appended ID.
	ErrInvalidID = errors.New("index: invalid id")
	// ErrCorrupt is returned when deserialized index state fails a
	// structural or checksum validation.
	ErrCorrupt = errors.New("index: corrupt data")
)

// Index is the interface every concrete value index in package
// valueindex implements, and the one the factory and its collaborators
// (ingestion, query) program against.
type Index interface {
	// Append appends v at the next sequential event id (Size()).
	Append(v value.View) error
	// AppendAt appends v at event id, which must be >= Size(); any gap is
	// filled with none positions first.
	AppendAt(v value.View, id uint64) error
	// Lookup evaluates op against v and returns the matching event IDs as
	// a bitmap, or ErrUnsupportedOperator / ErrTypeMismatch.
	Lookup(op Operator, v value.View) (*bitmap.Bitmap, error)
	// Size returns the number of positions the index currently covers.
	Size() int
	// Save writes the index's full state as an opaque byte stream.
	Save(w io.Writer) error
}

// Lookup is a convenience dispatcher for callers holding only the Index
// interface: it just forwards to idx.Lookup, existing so collaborators
// can depend on a free function rather than a method value when that is
// more convenient (e.g. passing it to a higher-order combinator).
func Lookup(idx Index, op Operator, v value.View) (*bitmap.Bitmap, error) {
	return idx.Lookup(op, v)
}
