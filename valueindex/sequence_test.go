package valueindex

import (
	"testing"

	"github.com/precurse/vast/index"
	"github.com/precurse/vast/value"
	"github.com/stretchr/testify/require"
)

func TestSequenceNiMembership(t *testing.T) {
	x, err := NewSequence(value.Integer, 4)
	require.NoError(t, err)
	require.NoError(t, x.Append(value.NewVector(value.NewInteger(1), value.NewInteger(2), value.NewInteger(3))))
	require.NoError(t, x.Append(value.NewVector(value.NewInteger(4), value.NewInteger(5))))
	require.NoError(t, x.Append(value.NewSet(value.NewInteger(2))))

	bm, err := x.Ni(index.Ni, value.NewInteger(2))
	require.NoError(t, err)
	require.Equal(t, "101", bm.String())

	bm, err = x.Ni(index.Ni, value.NewInteger(5))
	require.NoError(t, err)
	require.Equal(t, "010", bm.String())
}

func TestSequenceElementsBeyondMaxSizeAreDropped(t *testing.T) {
	x, err := NewSequence(value.Integer, 2)
	require.NoError(t, err)
	require.NoError(t, x.Append(value.NewVector(value.NewInteger(1), value.NewInteger(2), value.NewInteger(99))))

	bm, err := x.Ni(index.Ni, value.NewInteger(99))
	require.NoError(t, err)
	require.Equal(t, "0", bm.String(), "an element past max_size can never be matched")
}

func TestSequenceIn(t *testing.T) {
	x, err := NewSequence(value.Integer, 4)
	require.NoError(t, err)
	require.NoError(t, x.Append(value.NewVector(value.NewInteger(1), value.NewInteger(2), value.NewInteger(3))))
	require.NoError(t, x.Append(value.NewVector(value.NewInteger(4), value.NewInteger(5))))

	bm, err := x.In(index.In, value.NewSet(value.NewInteger(1), value.NewInteger(3)))
	require.NoError(t, err)
	require.Equal(t, "10", bm.String())
}
