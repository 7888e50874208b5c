package valueindex

import (
	"fmt"

	"github.com/precurse/vast/index"
	"github.com/precurse/vast/value"
)

// defaultMaxLength bounds character slots for strings nested inside a
// sequence or table element when the caller does not size them
// explicitly; it is smaller than the factory's top-level max_length
// default of 100.
const defaultMaxLength = 64

// newScalarIndex constructs the default value index for a scalar kind,
// the same per-kind binner/sub-index wiring the factory will later
// parameterize with attributes. Sequence and table elements are always
// scalar: containers never nest inside containers here, so this
// covers every kind a slot can hold.
func newScalarIndex(kind value.Kind) (index.Index, error) {
	switch kind {
	case value.Boolean:
		return NewBoolean(), nil
	case value.Integer, value.Count, value.Duration, value.Timestamp:
		return NewArithmetic(kind, 10, 20, 0), nil
	case value.Real:
		return NewArithmetic(kind, 10, 20, 2), nil
	case value.String, value.Pattern, value.Enumeration:
		return NewString(defaultMaxLength), nil
	case value.Address:
		return NewAddress(), nil
	case value.Subnet:
		return NewSubnet(), nil
	case value.Port:
		return NewPort(), nil
	default:
		return nil, fmt.Errorf("valueindex: element kind %s: %w", kind, index.ErrTypeMismatch)
	}
}
