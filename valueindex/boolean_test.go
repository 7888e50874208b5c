package valueindex

import (
	"bytes"
	"testing"

	"github.com/precurse/vast/index"
	"github.com/precurse/vast/value"
	"github.com/stretchr/testify/require"
)

func TestBooleanEqualAndNotEqual(t *testing.T) {
	x := NewBoolean()
	for _, b := range []bool{true, true, false, true, false, false, false, true} {
		require.NoError(t, x.Append(value.NewBoolean(b)))
	}

	bm, err := x.Lookup(index.Equal, value.NewBoolean(false))
	require.NoError(t, err)
	require.Equal(t, "00101110", bm.String())

	bm, err = x.Lookup(index.NotEqual, value.NewBoolean(false))
	require.NoError(t, err)
	require.Equal(t, "11010001", bm.String())
}

func TestBooleanLookupInBothValuesMatchesEverything(t *testing.T) {
	x := NewBoolean()
	for _, b := range []bool{true, true, false, true, false, false, false, true} {
		require.NoError(t, x.Append(value.NewBoolean(b)))
	}

	bm, err := x.LookupIn(index.In, []value.View{value.NewBoolean(true), value.NewBoolean(false)})
	require.NoError(t, err)
	require.Equal(t, "11111111", bm.String())
}

func TestBooleanSaveLoad(t *testing.T) {
	x := NewBoolean()
	for _, b := range []bool{true, false, true} {
		require.NoError(t, x.Append(value.NewBoolean(b)))
	}

	var buf bytes.Buffer
	require.NoError(t, x.Save(&buf))
	loaded, err := loadBoolean(&buf)
	require.NoError(t, err)

	bm, err := loaded.Lookup(index.Equal, value.NewBoolean(true))
	require.NoError(t, err)
	require.Equal(t, "101", bm.String())
}
