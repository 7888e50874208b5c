package valueindex

import (
	"fmt"
	"io"

	"github.com/precurse/vast/index"
)

// Load reads back whichever concrete value index Save wrote, dispatching
// on the leading kind tag.
func Load(r io.Reader) (index.Index, error) {
	tag, err := readTag(r)
	if err != nil {
		return nil, err
	}
	switch tag {
	case KindBoolean:
		return loadBoolean(r)
	case KindArithmetic:
		return loadArithmetic(r)
	case KindString:
		return loadString(r)
	case KindAddress:
		return loadAddress(r)
	case KindSubnet:
		return loadSubnet(r)
	case KindPort:
		return loadPort(r)
	case KindSequence:
		return loadSequence(r)
	case KindTable:
		return loadTable(r)
	default:
		return nil, fmt.Errorf("valueindex: %w", index.ErrCorrupt)
	}
}
