// Package factory maps a type descriptor plus an attribute map to a
// concrete value index, and wraps the resulting index's own tagged byte
// stream with a small file header and a checksum trailer, the way an
// on-disk segment format frames its posting lists with a magic
// number and version before persisting them.
package factory

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/precurse/vast/index"
	"github.com/precurse/vast/numeric"
	"github.com/precurse/vast/value"
	"github.com/precurse/vast/valueindex"
)

// Descriptor names a value index's domain kind and, for the two
// container kinds, the kind(s) of what it holds.
type Descriptor struct {
	Kind        value.Kind
	ElementKind value.Kind // Vector, Set
	KeyKind     value.Kind // Table
	ValueKind   value.Kind // Table
}

// Attributes is the key->string map the factory's attribute grammar
// parses: "base", "max_size", "max_length", and the "scale" extension
// used for Real values to control decimal precision when binning.
type Attributes map[string]string

const (
	defaultArithmeticBase  = 10
	defaultArithmeticDigits = 20
	defaultRealScale        = 2
	defaultStringMaxLength  = 100
	defaultContainerMaxSize = 8
)

// parseBase parses a base = "uniform(b, k)" attribute, returning the
// defaults when the attribute is absent.
func parseBase(attrs Attributes) (base, k int, err error) {
	raw, ok := attrs["base"]
	if !ok {
		return defaultArithmeticBase, defaultArithmeticDigits, nil
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(raw, "uniform("), ")")
	parts := strings.Split(inner, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("factory: malformed base attribute %q", raw)
	}
	base, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("factory: malformed base attribute %q: %w", raw, err)
	}
	k, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("factory: malformed base attribute %q: %w", raw, err)
	}
	return base, k, nil
}

func parseIntAttr(attrs Attributes, key string, def int) (int, error) {
	raw, ok := attrs[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("factory: malformed %s attribute %q: %w", key, raw, err)
	}
	return n, nil
}

// New constructs the concrete value index described by desc and attrs.
func New(desc Descriptor, attrs Attributes) (index.Index, error) {
	base, k, err := parseBase(attrs)
	if err != nil {
		return nil, err
	}
	switch desc.Kind {
	case value.Boolean:
		return valueindex.NewBoolean(), nil
	case value.Integer, value.Count, value.Duration, value.Timestamp:
		return valueindex.NewArithmetic(desc.Kind, base, k, 0), nil
	case value.Real:
		scale, err := parseIntAttr(attrs, "scale", defaultRealScale)
		if err != nil {
			return nil, err
		}
		return valueindex.NewArithmetic(desc.Kind, base, k, scale), nil
	case value.String, value.Pattern, value.Enumeration:
		maxLength, err := parseIntAttr(attrs, "max_length", defaultStringMaxLength)
		if err != nil {
			return nil, err
		}
		return valueindex.NewString(maxLength), nil
	case value.Address:
		return valueindex.NewAddress(), nil
	case value.Subnet:
		return valueindex.NewSubnet(), nil
	case value.Port:
		return valueindex.NewPort(), nil
	case value.Vector, value.Set:
		maxSize, err := parseIntAttr(attrs, "max_size", defaultContainerMaxSize)
		if err != nil {
			return nil, err
		}
		return valueindex.NewSequence(desc.ElementKind, maxSize)
	case value.Table:
		maxSize, err := parseIntAttr(attrs, "max_size", defaultContainerMaxSize)
		if err != nil {
			return nil, err
		}
		return valueindex.NewTable(desc.KeyKind, desc.ValueKind, maxSize)
	default:
		return nil, fmt.Errorf("factory: unsupported kind %s: %w", desc.Kind, index.ErrTypeMismatch)
	}
}

const (
	magicNumber   uint32 = 0x56415354 // "VAST"
	formatVersion uint8  = 1
)

// Save frames idx's own tagged byte stream with a magic number, format
// version, length and xxhash64 checksum, so that a corrupted or
// truncated file is caught at load time rather than producing a
// silently wrong index.
func Save(idx index.Index, w io.Writer) error {
	var body bytes.Buffer
	if err := idx.Save(&body); err != nil {
		return fmt.Errorf("factory: save index: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, magicNumber); err != nil {
		return fmt.Errorf("factory: write magic number: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, formatVersion); err != nil {
		return fmt.Errorf("factory: write version: %w", err)
	}
	if err := numeric.WriteVarint(w, uint64(body.Len())); err != nil {
		return fmt.Errorf("factory: write length: %w", err)
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return fmt.Errorf("factory: write body: %w", err)
	}
	sum := xxhash.Sum64(body.Bytes())
	if err := binary.Write(w, binary.LittleEndian, sum); err != nil {
		return fmt.Errorf("factory: write checksum: %w", err)
	}
	return nil
}

// Load reverses Save, rejecting files with the wrong magic number,
// an unsupported format version, or a checksum mismatch.
func Load(r io.Reader) (index.Index, error) {
	var magic uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("factory: read magic number: %w", err)
	}
	if magic != magicNumber {
		return nil, fmt.Errorf("factory: bad magic number: %w", index.ErrCorrupt)
	}
	var version uint8
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("factory: read version: %w", err)
	}
	if version != formatVersion {
		return nil, fmt.Errorf("factory: unsupported format version %d: %w", version, index.ErrCorrupt)
	}
	length, err := numeric.ReadVarint(r)
	if err != nil {
		return nil, fmt.Errorf("factory: read length: %w", err)
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("factory: read body: %w", err)
	}
	var sum uint64
	if err := binary.Read(r, binary.LittleEndian, &sum); err != nil {
		return nil, fmt.Errorf("factory: read checksum: %w", err)
	}
	if xxhash.Sum64(body) != sum {
		return nil, fmt.Errorf("factory: checksum mismatch: %w", index.ErrCorrupt)
	}
	return valueindex.Load(bytes.NewReader(body))
}
