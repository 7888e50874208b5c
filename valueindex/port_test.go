package valueindex

import (
	"bytes"
	"testing"

	"github.com/precurse/vast/index"
	"github.com/precurse/vast/value"
	"github.com/stretchr/testify/require"
)

func TestPortEqualIgnoresProtocolWhenUnknown(t *testing.T) {
	x := NewPort()
	require.NoError(t, x.Append(value.NewPort(80, "tcp")))
	require.NoError(t, x.Append(value.NewPort(80, "udp")))
	require.NoError(t, x.Append(value.NewPort(443, "tcp")))

	bm, err := x.Lookup(index.Equal, value.NewPort(80, "tcp"))
	require.NoError(t, err)
	require.Equal(t, "100", bm.String())

	bm, err = x.Lookup(index.Equal, value.NewPort(80, "unknown"))
	require.NoError(t, err)
	require.Equal(t, "110", bm.String(), "unknown protocol in the query ignores the protocol component")
}

func TestPortOrderComparesNumberOnly(t *testing.T) {
	x := NewPort()
	require.NoError(t, x.Append(value.NewPort(22, "tcp")))
	require.NoError(t, x.Append(value.NewPort(8080, "udp")))
	require.NoError(t, x.Append(value.NewPort(443, "tcp")))

	bm, err := x.Lookup(index.Greater, value.NewPort(100, "unknown"))
	require.NoError(t, err)
	require.Equal(t, "011", bm.String())
}

func TestPortSaveLoad(t *testing.T) {
	x := NewPort()
	require.NoError(t, x.Append(value.NewPort(53, "udp")))
	require.NoError(t, x.Append(value.NewPort(53, "tcp")))

	var buf bytes.Buffer
	require.NoError(t, x.Save(&buf))
	loaded, err := Load(&buf)
	require.NoError(t, err)

	bm, err := loaded.Lookup(index.Equal, value.NewPort(53, "udp"))
	require.NoError(t, err)
	require.Equal(t, "10", bm.String())
}
