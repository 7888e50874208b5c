package factory

import (
	"bytes"
	"testing"

	"github.com/precurse/vast/index"
	"github.com/precurse/vast/value"
	"github.com/precurse/vast/valueindex"
	"github.com/stretchr/testify/require"
)

func TestNewDispatchesOnKind(t *testing.T) {
	idx, err := New(Descriptor{Kind: value.Boolean}, nil)
	require.NoError(t, err)
	require.NoError(t, idx.Append(value.NewBoolean(true)))
	bm, err := idx.Lookup(index.Equal, value.NewBoolean(true))
	require.NoError(t, err)
	require.Equal(t, "1", bm.String())
}

func TestNewParsesBaseAttribute(t *testing.T) {
	idx, err := New(Descriptor{Kind: value.Integer}, Attributes{"base": "uniform(2, 8)"})
	require.NoError(t, err)
	require.NoError(t, idx.Append(value.NewInteger(5)))
	require.NoError(t, idx.Append(value.NewInteger(7)))
	bm, err := idx.Lookup(index.Less, value.NewInteger(7))
	require.NoError(t, err)
	require.Equal(t, "10", bm.String())
}

func TestNewRejectsMalformedBase(t *testing.T) {
	_, err := New(Descriptor{Kind: value.Integer}, Attributes{"base": "uniform(bogus)"})
	require.Error(t, err)
}

func TestNewBuildsSequenceWithMaxSize(t *testing.T) {
	idx, err := New(Descriptor{Kind: value.Vector, ElementKind: value.Integer}, Attributes{"max_size": "2"})
	require.NoError(t, err)
	seq, ok := idx.(*valueindex.SequenceIndex)
	require.True(t, ok)
	require.NoError(t, seq.Append(value.NewVector(value.NewInteger(1), value.NewInteger(2), value.NewInteger(99))))
	bm, err := seq.Ni(index.Ni, value.NewInteger(99))
	require.NoError(t, err)
	require.Equal(t, "0", bm.String(), "element past max_size must never match")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	idx, err := New(Descriptor{Kind: value.Integer}, nil)
	require.NoError(t, err)
	for _, v := range []int64{1, 2, 3, 2, 1} {
		require.NoError(t, idx.Append(value.NewInteger(v)))
	}

	var buf bytes.Buffer
	require.NoError(t, Save(idx, &buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	bm, err := loaded.Lookup(index.Equal, value.NewInteger(2))
	require.NoError(t, err)
	require.Equal(t, "01010", bm.String())
}

func TestLoadRejectsCorruptedChecksum(t *testing.T) {
	idx, err := New(Descriptor{Kind: value.Integer}, nil)
	require.NoError(t, err)
	require.NoError(t, idx.Append(value.NewInteger(1)))

	var buf bytes.Buffer
	require.NoError(t, Save(idx, &buf))
	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] ^= 0xFF

	_, err = Load(bytes.NewReader(corrupted))
	require.ErrorIs(t, err, index.ErrCorrupt)
}
