package bitmapindex

import (
	"bytes"
	"testing"

	"github.com/precurse/vast/binner"
	"github.com/precurse/vast/index"
	"github.com/stretchr/testify/require"
)

func TestAppendAndLookup(t *testing.T) {
	idx := New(binner.DefaultArithmeticBinner())
	for _, v := range []float64{1, 2, 3, 2, 1} {
		idx.Append(v)
	}
	bm, err := idx.Lookup(index.Equal, 2)
	require.NoError(t, err)
	require.Equal(t, "01010", bm.String())

	bm, err = idx.Lookup(index.GreaterEqual, 2)
	require.NoError(t, err)
	require.Equal(t, "01110", bm.String())
}

func TestNullMaskExcludesNonePositions(t *testing.T) {
	idx := New(binner.DefaultArithmeticBinner())
	idx.Append(5)
	idx.AppendNone()
	idx.Append(5)

	eq, err := idx.Lookup(index.Equal, 5)
	require.NoError(t, err)
	require.Equal(t, "101", eq.String())

	ne, err := idx.Lookup(index.NotEqual, 5)
	require.NoError(t, err)
	require.Equal(t, "000", ne.String(), "none position must not satisfy != either")

	none, err := idx.LookupNone(index.Equal)
	require.NoError(t, err)
	require.Equal(t, "010", none.String())

	notNone, err := idx.LookupNone(index.NotEqual)
	require.NoError(t, err)
	require.Equal(t, "101", notNone.String())
}

func TestAppendAtFillsGapsWithNone(t *testing.T) {
	idx := New(binner.DefaultArithmeticBinner())
	require.NoError(t, idx.AppendAt(10, 0))
	require.NoError(t, idx.AppendAt(20, 3))
	require.Equal(t, 4, idx.Size())

	none, err := idx.LookupNone(index.Equal)
	require.NoError(t, err)
	require.Equal(t, "0110", none.String())

	require.Error(t, idx.AppendAt(30, 1))
}

func TestSaveLoadPreservesLookups(t *testing.T) {
	idx := New(binner.DefaultArithmeticBinner())
	idx.Append(1)
	idx.AppendNone()
	idx.Append(3)

	var buf bytes.Buffer
	require.NoError(t, idx.Save(&buf))
	loaded, err := Load(&buf, binner.DefaultArithmeticBinner())
	require.NoError(t, err)

	bm, err := loaded.Lookup(index.LessEqual, 3)
	require.NoError(t, err)
	require.Equal(t, "101", bm.String())
}
