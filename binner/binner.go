// Package binner implements the binning strategies that sit between a
// raw scalar value and the bitmap coder that represents it: identity
// binning (fixed-width bit-slice coding of the raw integer), precision
// binning (scaling and truncating a real number to a fixed number of
// decimal digits before coding), uniform-base binning (decomposing an
// integer into k digits of a fixed base and routing each digit to its own
// sub-coder via coder.MultiLevelCoder, with bit-slice or range digit
// coders), and equality binning for small non-negative enumerations.
//
// Every binner except Equality projects its raw value through
// numeric.Bias first, so the coder beneath it only ever has to compare
// unsigned bit or digit patterns.
package binner

import (
	"math"

	"github.com/precurse/vast/coder"
	"github.com/precurse/vast/numeric"
)

// Binner converts a raw scalar value (already widened to float64 for
// reals, or carrying an exact integer value for everything else) into the
// coder domain value, and constructs the coder it was designed to pair
// with.
type Binner interface {
	Bin(v float64) int64
	NewCoder() coder.Coder
}

// Identity binner performs no scaling: it bias-projects the raw integer
// and codes it with a fixed-width bit-slice coder, which keeps only the
// low Width bits of the projected value. Bias flips bit 63 alone, so with
// Width below 64 the coded value equals the raw one for 0 <= v < 2^Width
// (1 bit for booleans, 16 for ports) and negative values do not keep
// their order; Width 64 keeps the full signed order.
type Identity struct {
	Width int
}

func (b Identity) Bin(v float64) int64 {
	return int64(numeric.Bias(int64(math.Round(v))))
}

func (b Identity) NewCoder() coder.Coder {
	return coder.NewBitSliceCoder(b.Width)
}

// Precision binner scales a real number by 10^Scale, rounds to the
// nearest integer, and codes the result as an Identity binner would. A
// Scale of 2 keeps two decimal digits of precision, matching the
// tightest resolution of comparisons against that index.
type Precision struct {
	Scale int
	Width int
}

func (b Precision) Bin(v float64) int64 {
	scaled := v * math.Pow(10, float64(b.Scale))
	return int64(numeric.Bias(int64(math.Round(scaled))))
}

func (b Precision) Unbin(coded int64) float64 {
	raw := numeric.Unbias(uint64(coded))
	return float64(raw) / math.Pow(10, float64(b.Scale))
}

func (b Precision) NewCoder() coder.Coder {
	return coder.NewBitSliceCoder(b.Width)
}

// UniformBase binner decomposes the bias-projected integer into K digits
// of the given Base and routes each digit to its own bit-slice sub-coder
// via coder.MultiLevelCoder. This is the default strategy for integer and
// count value indexes (Base 10, K 20 unless the factory attributes
// override it).
type UniformBase struct {
	Base int
	K    int
}

func (b UniformBase) Bin(v float64) int64 {
	return int64(numeric.Bias(int64(math.Round(v))))
}

func (b UniformBase) NewCoder() coder.Coder {
	width := numeric.BitWidth(b.Base)
	return coder.NewMultiLevelCoder(b.Base, b.K, func() coder.Coder {
		return coder.NewBitSliceCoder(width)
	})
}

// UniformBaseRange decomposes the bias-projected integer into K digits of
// the given Base, like UniformBase, but routes each digit to a range
// sub-coder instead of a bit-slice one. This is the string length index's
// strategy, a multi-level range coder over a uniform base, chosen
// there because lengths are small, non-negative and the range coder's
// prefix encoding answers the common <=/< length comparisons in O(1) per
// digit without needing a sign-aware bit-slice at all.
type UniformBaseRange struct {
	Base int
	K    int
}

func (b UniformBaseRange) Bin(v float64) int64 {
	return int64(numeric.Bias(int64(math.Round(v))))
}

func (b UniformBaseRange) NewCoder() coder.Coder {
	return coder.NewMultiLevelCoder(b.Base, b.K, func() coder.Coder {
		return coder.NewRangeCoder(b.Base)
	})
}

// Equality binner codes a small bounded non-negative domain (prefix
// lengths, protocol numbers, enumeration ordinals) directly as one
// bitmap per value, with no bias projection: the domain has no negative
// values to reorder, so Bin is the identity.
type Equality struct {
	Domain int
}

func (b Equality) Bin(v float64) int64 {
	return int64(math.Round(v))
}

func (b Equality) NewCoder() coder.Coder {
	return coder.NewEqualityCoder(b.Domain)
}

// DefaultArithmeticBinner is the base-10, 20-digit uniform-base binner
// used by integer, count, duration and timestamp value indexes unless a
// factory attribute requests otherwise.
func DefaultArithmeticBinner() Binner {
	return UniformBase{Base: 10, K: 20}
}

// DefaultLengthBinner bins a non-negative length (string length, sequence
// size) via the range-coded uniform-base strategy described above.
func DefaultLengthBinner() Binner {
	return UniformBaseRange{Base: 10, K: 10}
}
