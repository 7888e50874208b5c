package binner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentityRoundTripsOrder(t *testing.T) {
	b := Identity{Width: 64}
	c := b.NewCoder()
	raw := []float64{-5, 3000, -1, 0, 12345}
	for _, v := range raw {
		c.Append(b.Bin(v))
	}
	got := c.Less(b.Bin(0)).String()
	want := "10100"
	require.Equal(t, want, got)
}

func TestPrecisionTruncatesAndRounds(t *testing.T) {
	b := Precision{Scale: 2, Width: 32}
	require.Equal(t, b.Bin(1.005), b.Bin(1.00)) // below float rounding noise at scale 2
	coded := b.Bin(3.14159)
	require.InDelta(t, 3.14, b.Unbin(coded), 0.001)
}

func TestUniformBaseHandlesNegativesAndLargeMagnitudes(t *testing.T) {
	b := DefaultArithmeticBinner()
	c := b.NewCoder()
	raw := []float64{-7, 42, 10000, 4711, 31337, 42, 42}
	for _, v := range raw {
		c.Append(b.Bin(v))
	}
	require.Equal(t, "0100011", c.Equal(b.Bin(42)).String())
	require.Equal(t, "1000000", c.Less(b.Bin(42)).String())
	require.Equal(t, "0010100", c.Greater(b.Bin(4711)).String())
}
