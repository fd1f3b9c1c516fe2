package lxcconf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEmptyNetworkContainer(t *testing.T) {
	conf := NewDefault("t1")
	err := Parse(strings.NewReader("lxc.utsname = t1\n"), conf)
	require.NoError(t, err)
	require.Equal(t, "t1", conf.UtsName)
	require.Empty(t, conf.Networks)
}

func TestParseVethToBridge(t *testing.T) {
	conf := NewDefault("t2")
	cfg := `
lxc.network.type = veth
lxc.network.link = br0
lxc.network.name = eth0
lxc.network.flags = up
lxc.network.ipv4 = 10.0.3.5/24 10.0.3.255
`
	require.NoError(t, Parse(strings.NewReader(cfg), conf))
	require.Len(t, conf.Networks, 1)
	n := conf.Networks[0]
	require.Equal(t, NetVeth, n.Type)
	require.Equal(t, "br0", n.Link)
	require.Equal(t, "eth0", n.Name)
	require.True(t, n.Up)
	require.Len(t, n.IPv4, 1)
	require.Equal(t, "10.0.3.5", n.IPv4[0].Addr.String())
	require.Equal(t, 24, n.IPv4[0].Prefix)
	require.Equal(t, "10.0.3.255", n.IPv4[0].Bcast.String())
}

func TestParseRejectsOrphanNetworkKey(t *testing.T) {
	conf := NewDefault("t3")
	err := Parse(strings.NewReader("lxc.network.name = eth0\n"), conf)
	require.Error(t, err)
}

func TestParseCapDrop(t *testing.T) {
	conf := NewDefault("t4")
	err := Parse(strings.NewReader("lxc.cap.drop = sys_admin mknod\n"), conf)
	require.NoError(t, err)
	require.Equal(t, []string{"sys_admin", "mknod"}, conf.CapDrop)
}

func TestParseGatewayAuto(t *testing.T) {
	conf := NewDefault("t5")
	cfg := "lxc.network.type = veth\nlxc.network.ipv4.gateway = auto\n"
	require.NoError(t, Parse(strings.NewReader(cfg), conf))
	require.True(t, conf.Networks[0].Proxy4)
	require.Nil(t, conf.Networks[0].Gateway4)
}
