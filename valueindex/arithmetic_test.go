package valueindex

import (
	"bytes"
	"testing"

	"github.com/precurse/vast/index"
	"github.com/precurse/vast/value"
	"github.com/stretchr/testify/require"
)

func TestArithmeticIntegerOrderAndEquality(t *testing.T) {
	x := NewArithmetic(value.Integer, 10, 20, 0)
	for _, n := range []int64{-7, 42, 10000, 4711, 31337, 42, 42} {
		require.NoError(t, x.Append(value.NewInteger(n)))
	}

	bm, err := x.Lookup(index.Equal, value.NewInteger(31337))
	require.NoError(t, err)
	require.Equal(t, "0000100", bm.String())

	bm, err = x.Lookup(index.Less, value.NewInteger(31337))
	require.NoError(t, err)
	require.Equal(t, "1111011", bm.String())

	bm, err = x.Lookup(index.Greater, value.NewInteger(0))
	require.NoError(t, err)
	require.Equal(t, "0111111", bm.String())
}

func TestArithmeticLookupInSet(t *testing.T) {
	x := NewArithmetic(value.Integer, 10, 20, 0)
	for _, n := range []int64{-7, 42, 10000, 4711, 31337, 42, 42} {
		require.NoError(t, x.Append(value.NewInteger(n)))
	}

	bm, err := x.LookupIn(index.In, []value.View{
		value.NewInteger(42), value.NewInteger(10), value.NewInteger(4711),
	})
	require.NoError(t, err)
	require.Equal(t, "0101011", bm.String())
}

func TestArithmeticSaveLoad(t *testing.T) {
	x := NewArithmetic(value.Integer, 10, 20, 0)
	for _, n := range []int64{-7, 42, 10000} {
		require.NoError(t, x.Append(value.NewInteger(n)))
	}

	var buf bytes.Buffer
	require.NoError(t, x.Save(&buf))
	loaded, err := loadArithmetic(&buf)
	require.NoError(t, err)

	bm, err := loaded.Lookup(index.Equal, value.NewInteger(42))
	require.NoError(t, err)
	require.Equal(t, "010", bm.String())
}
