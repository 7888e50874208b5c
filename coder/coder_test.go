package coder

import (
	"bytes"
	"testing"

	"github.com/precurse/vast/numeric"
	"github.com/stretchr/testify/require"
)

// expect builds the literal "0"/"1" bitmap string a correct coder should
// produce for pred applied to each of vs in order.
func expect(vs []int64, pred func(int64) bool) string {
	buf := make([]byte, len(vs))
	for i, v := range vs {
		if pred(v) {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}

func TestEqualityCoder(t *testing.T) {
	vs := []int64{0, 2, 1, 2, 0, 3}
	c := NewEqualityCoder(4)
	for _, v := range vs {
		c.Append(v)
	}
	require.Equal(t, expect(vs, func(v int64) bool { return v == 2 }), c.Equal(2).String())
	require.Equal(t, expect(vs, func(v int64) bool { return v != 2 }), c.NotEqual(2).String())
	require.Equal(t, expect(vs, func(v int64) bool { return v < 2 }), c.Less(2).String())
	require.Equal(t, expect(vs, func(v int64) bool { return v >= 2 }), c.GreaterEqual(2).String())
	require.Equal(t, expect(vs, func(v int64) bool { return v == 0 || v == 3 }), c.In([]int64{0, 3}).String())
}

func TestRangeCoder(t *testing.T) {
	vs := []int64{5, 0, 9, 3, 3, 7}
	c := NewRangeCoder(10)
	for _, v := range vs {
		c.Append(v)
	}
	require.Equal(t, expect(vs, func(v int64) bool { return v <= 3 }), c.LessEqual(3).String())
	require.Equal(t, expect(vs, func(v int64) bool { return v < 3 }), c.Less(3).String())
	require.Equal(t, expect(vs, func(v int64) bool { return v > 3 }), c.Greater(3).String())
	require.Equal(t, expect(vs, func(v int64) bool { return v >= 3 }), c.GreaterEqual(3).String())
	require.Equal(t, expect(vs, func(v int64) bool { return v == 3 }), c.Equal(3).String())
	// boundary: the domain's own extremes must clamp cleanly.
	require.Equal(t, expect(vs, func(v int64) bool { return v <= 9 }), c.LessEqual(9).String())
	require.Equal(t, expect(vs, func(v int64) bool { return v >= 0 }), c.GreaterEqual(0).String())
}

func TestBitSliceCoderUnsigned(t *testing.T) {
	vs := []int64{200, 1, 255, 0, 127, 128}
	c := NewBitSliceCoder(8)
	for _, v := range vs {
		c.Append(v)
	}
	require.Equal(t, expect(vs, func(v int64) bool { return v == 127 }), c.Equal(127).String())
	require.Equal(t, expect(vs, func(v int64) bool { return v < 128 }), c.Less(128).String())
	require.Equal(t, expect(vs, func(v int64) bool { return v > 128 }), c.Greater(128).String())
	require.Equal(t, expect(vs, func(v int64) bool { return v <= 127 }), c.LessEqual(127).String())
	require.Equal(t, expect(vs, func(v int64) bool { return v >= 128 }), c.GreaterEqual(128).String())
	require.Equal(t, expect(vs, func(v int64) bool { return v == 0 || v == 255 }), c.In([]int64{0, 255}).String())
}

// TestMultiLevelCoderSignedIntegers mirrors the arithmetic value index's
// default base-10, 20-digit decomposition over bias-projected signed
// integers, including negative values.
func TestMultiLevelCoderSignedIntegers(t *testing.T) {
	raw := []int64{-7, 42, 10000, 4711, 31337, 42, 42}
	c := NewMultiLevelCoder(10, 20, func() Coder { return NewBitSliceCoder(4) })
	for _, v := range raw {
		c.Append(int64(numeric.Bias(v)))
	}
	biased := func(v int64) int64 { return int64(numeric.Bias(v)) }

	require.Equal(t, expect(raw, func(v int64) bool { return v == 42 }), c.Equal(biased(42)).String())
	require.Equal(t, expect(raw, func(v int64) bool { return v != 42 }), c.NotEqual(biased(42)).String())
	require.Equal(t, expect(raw, func(v int64) bool { return v < 42 }), c.Less(biased(42)).String())
	require.Equal(t, expect(raw, func(v int64) bool { return v > 42 }), c.Greater(biased(42)).String())
	require.Equal(t, expect(raw, func(v int64) bool { return v <= 42 }), c.LessEqual(biased(42)).String())
	require.Equal(t, expect(raw, func(v int64) bool { return v >= 42 }), c.GreaterEqual(biased(42)).String())
	require.Equal(t,
		expect(raw, func(v int64) bool { return v == 42 || v == 10000 }),
		c.In([]int64{biased(42), biased(10000)}).String())
}

func TestMultiLevelCoderSaveLoad(t *testing.T) {
	raw := []int64{-7, 42, 10000, 4711, 31337, 42, 42}
	c := NewMultiLevelCoder(10, 20, func() Coder { return NewBitSliceCoder(4) })
	for _, v := range raw {
		c.Append(int64(numeric.Bias(v)))
	}
	var buf bytes.Buffer
	require.NoError(t, c.Save(&buf))
	loaded, err := Load(&buf)
	require.NoError(t, err)
	require.Equal(t, c.Equal(int64(numeric.Bias(42))).String(), loaded.Equal(int64(numeric.Bias(42))).String())
}

func TestSkipAppendsAbsentPositions(t *testing.T) {
	c := NewEqualityCoder(3)
	c.Append(1)
	c.Skip(2)
	c.Append(2)
	require.Equal(t, 4, c.Size())
	require.Equal(t, "1000", c.Equal(1).String())
	require.Equal(t, "0000", c.Equal(0).String())
}
