package valueindex

import (
	"testing"

	"github.com/precurse/vast/index"
	"github.com/precurse/vast/value"
	"github.com/stretchr/testify/require"
)

func TestTableNiPairMembership(t *testing.T) {
	x, err := NewTable(value.String, value.Integer, 3)
	require.NoError(t, err)
	require.NoError(t, x.Append(value.NewTable(
		value.Entry{Key: value.NewString("a"), Value: value.NewInteger(1)},
		value.Entry{Key: value.NewString("b"), Value: value.NewInteger(2)},
	)))
	require.NoError(t, x.Append(value.NewTable(
		value.Entry{Key: value.NewString("a"), Value: value.NewInteger(99)},
	)))

	bm, err := x.Ni(index.Ni, value.Entry{Key: value.NewString("a"), Value: value.NewInteger(1)})
	require.NoError(t, err)
	require.Equal(t, "10", bm.String())

	bm, err = x.Ni(index.Ni, value.Entry{Key: value.NewString("a"), Value: value.NewInteger(99)})
	require.NoError(t, err)
	require.Equal(t, "01", bm.String())
}

func TestTableEqual(t *testing.T) {
	x, err := NewTable(value.String, value.Integer, 2)
	require.NoError(t, err)
	entries := []value.Entry{{Key: value.NewString("a"), Value: value.NewInteger(1)}}
	require.NoError(t, x.Append(value.NewTable(entries...)))
	require.NoError(t, x.Append(value.NewTable(value.Entry{Key: value.NewString("a"), Value: value.NewInteger(2)})))

	bm, err := x.Lookup(index.Equal, value.NewTable(entries...))
	require.NoError(t, err)
	require.Equal(t, "10", bm.String())
}
