// Package numeric holds the small generic integer helpers shared by the
// coder and binner packages: zig-zag and order-preserving bias projection
// of signed values onto the unsigned domain the bitmap coders operate
// over (the binners use the bias projection), base-b digit
// decomposition for the uniform-base binner and the multi-level coder,
// and the varint framing every package's tagged byte stream uses for its
// length and kind fields.
package numeric

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/exp/constraints"
)

// ZigZagEncode maps a signed integer onto an unsigned one so that small
// magnitudes (positive or negative) stay small: 0, -1, 1, -2, 2, ... map
// to 0, 1, 2, 3, 4, .... It does not preserve order, so the coders use
// Bias instead.
func ZigZagEncode[T constraints.Signed](v T) uint64 {
	x := int64(v)
	return uint64((x << 1) ^ (x >> 63))
}

// ZigZagDecode inverts ZigZagEncode.
func ZigZagDecode(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// Bias projects a signed int64 onto the unsigned domain by flipping its
// sign bit, which is equivalent to adding 2^63 modulo 2^64. Unlike
// ZigZagEncode, Bias is order-preserving: Bias(a) < Bias(b) iff a < b for
// all int64 a, b. This is what the bit-slice and multi-level coders use
// to represent signed integer, real, duration and timestamp domains,
// since those coders answer Less/Greater by comparing unsigned bit (or
// digit) patterns directly.
func Bias(v int64) uint64 {
	return uint64(v) ^ (uint64(1) << 63)
}

// Unbias inverts Bias.
func Unbias(u uint64) int64 {
	return int64(u ^ (uint64(1) << 63))
}

// Digits decomposes v into k digits in the given base, most significant
// digit first (digits[0] is d_{k-1}, digits[k-1] is d_0). v is treated as
// an unsigned quantity; callers working with signed domains must project
// through Bias first.
func Digits(v uint64, base, k int) []int64 {
	out := make([]int64, k)
	x := v
	b := uint64(base)
	for i := k - 1; i >= 0; i-- {
		out[i] = int64(x % b)
		x /= b
	}
	return out
}

// FromDigits reassembles a value from its most-significant-digit-first
// base-b decomposition. It is the inverse of Digits.
func FromDigits(digits []int64, base int) uint64 {
	var x uint64
	b := uint64(base)
	for _, d := range digits {
		x = x*b + uint64(d)
	}
	return x
}

// BitWidth returns the number of bits needed to represent values in
// [0, base), i.e. ceil(log2(base)), with a floor of 1.
func BitWidth(base int) int {
	w := 0
	for n := base - 1; n > 0; n >>= 1 {
		w++
	}
	if w == 0 {
		w = 1
	}
	return w
}

// WriteVarint writes v as a little-endian base-128 varint, the same
// framing scheme the original codebase used for its delta-encoded
// posting lists: small tag and length fields (the overwhelming majority
// of what every package's tagged byte stream writes) cost one byte
// instead of four.
func WriteVarint(w io.Writer, v uint64) error {
	buf := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(buf, v)
	if _, err := w.Write(buf[:n]); err != nil {
		return fmt.Errorf("numeric: write varint: %w", err)
	}
	return nil
}

// ReadVarint inverts WriteVarint.
func ReadVarint(r io.Reader) (uint64, error) {
	var value uint64
	var shift uint
	buf := make([]byte, 1)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return 0, fmt.Errorf("numeric: read varint: %w", err)
		}
		b := buf[0]
		value |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift > 63 {
			return 0, fmt.Errorf("numeric: varint overflow")
		}
	}
	return value, nil
}
