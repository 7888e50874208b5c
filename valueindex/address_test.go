package valueindex

import (
	"bytes"
	"net/netip"
	"testing"

	"github.com/precurse/vast/index"
	"github.com/precurse/vast/value"
	"github.com/stretchr/testify/require"
)

func mustAddr(t *testing.T, s string) netip.Addr {
	t.Helper()
	a, err := netip.ParseAddr(s)
	require.NoError(t, err)
	return a
}

func TestAddressEqual(t *testing.T) {
	x := NewAddress()
	for _, s := range []string{"192.168.0.1", "192.168.0.2", "192.168.0.3", "192.168.0.1", "192.168.0.1", "192.168.0.2"} {
		require.NoError(t, x.Append(value.NewAddress(mustAddr(t, s))))
	}
	bm, err := x.Lookup(index.Equal, value.NewAddress(mustAddr(t, "192.168.0.1")))
	require.NoError(t, err)
	require.Equal(t, "100110", bm.String())
}

func TestAddressInSubnet(t *testing.T) {
	x := NewAddress()
	addrs := []string{
		"192.168.0.1", "192.168.0.2", "192.168.0.3", "192.168.0.1", "192.168.0.1", "192.168.0.2",
		"192.168.0.128", "192.168.0.130", "192.168.0.240", "192.168.0.127", "192.168.0.33",
	}
	for _, s := range addrs {
		require.NoError(t, x.Append(value.NewAddress(mustAddr(t, s))))
	}
	bm, err := x.Lookup(index.In, value.NewSubnet(mustAddr(t, "192.168.0.128"), 25))
	require.NoError(t, err)
	require.Equal(t, "00000011100", bm.String())

	bm, err = x.Lookup(index.In, value.NewSubnet(mustAddr(t, "192.168.0.0"), 20))
	require.NoError(t, err)
	require.Equal(t, "11111111111", bm.String())
}

func TestAddressV4V6Disjoint(t *testing.T) {
	x := NewAddress()
	require.NoError(t, x.Append(value.NewAddress(mustAddr(t, "10.0.0.1"))))
	require.NoError(t, x.Append(value.NewAddress(mustAddr(t, "fe80::1"))))

	bm, err := x.Lookup(index.In, value.NewSubnet(mustAddr(t, "0.0.0.0"), 0))
	require.NoError(t, err)
	require.Equal(t, "10", bm.String(), "a v4 /0 subnet must never match a v6 address")

	bm, err = x.Lookup(index.In, value.NewSubnet(mustAddr(t, "::"), 0))
	require.NoError(t, err)
	require.Equal(t, "01", bm.String(), "a v6 /0 subnet must never match a v4 address")
}

func TestAddressSaveLoad(t *testing.T) {
	x := NewAddress()
	require.NoError(t, x.Append(value.NewAddress(mustAddr(t, "192.168.0.1"))))
	require.NoError(t, x.Append(value.NewAddress(mustAddr(t, "192.168.0.2"))))

	var buf bytes.Buffer
	require.NoError(t, x.Save(&buf))
	loaded, err := Load(&buf)
	require.NoError(t, err)

	bm, err := loaded.Lookup(index.Equal, value.NewAddress(mustAddr(t, "192.168.0.1")))
	require.NoError(t, err)
	require.Equal(t, "10", bm.String())
}
