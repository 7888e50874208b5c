package valueindex

import (
	"testing"

	"github.com/precurse/vast/index"
	"github.com/precurse/vast/value"
	"github.com/stretchr/testify/require"
)

func mustSubnet(t *testing.T, s string, prefix int) value.View {
	t.Helper()
	return value.NewSubnet(mustAddr(t, s), prefix)
}

func TestSubnetNi(t *testing.T) {
	x := NewSubnet()
	subnets := []struct {
		addr   string
		prefix int
	}{
		{"192.168.0.0", 24}, {"192.168.1.0", 24}, {"192.168.0.0", 24},
		{"192.168.0.0", 24}, {"fe80::", 10}, {"fe80::", 10},
	}
	for _, s := range subnets {
		require.NoError(t, x.Append(mustSubnet(t, s.addr, s.prefix)))
	}

	bm, err := x.Ni(index.Ni, value.NewAddress(mustAddr(t, "192.168.0.1")))
	require.NoError(t, err)
	require.Equal(t, "101100", bm.String())

	bm, err = x.Ni(index.Ni, value.NewAddress(mustAddr(t, "fe80::aaaa")))
	require.NoError(t, err)
	require.Equal(t, "000011", bm.String())
}

func TestSubnetIn(t *testing.T) {
	x := NewSubnet()
	subnets := []struct {
		addr   string
		prefix int
	}{
		{"192.168.0.0", 24}, {"192.168.1.0", 24}, {"192.168.0.0", 24},
		{"192.168.0.0", 24}, {"fe80::", 10}, {"fe80::", 10},
	}
	for _, s := range subnets {
		require.NoError(t, x.Append(mustSubnet(t, s.addr, s.prefix)))
	}

	bm, err := x.Lookup(index.In, mustSubnet(t, "192.168.0.0", 23))
	require.NoError(t, err)
	require.Equal(t, "111100", bm.String())
}

func TestSubnetEqual(t *testing.T) {
	x := NewSubnet()
	require.NoError(t, x.Append(mustSubnet(t, "192.168.0.0", 24)))
	require.NoError(t, x.Append(mustSubnet(t, "192.168.0.0", 25)))
	require.NoError(t, x.Append(mustSubnet(t, "192.168.0.0", 24)))

	bm, err := x.Lookup(index.Equal, mustSubnet(t, "192.168.0.0", 24))
	require.NoError(t, err)
	require.Equal(t, "101", bm.String())
}
