//go:build linux

package launch

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mihalicyn/golxc/internal/lxcconf"
	"github.com/mihalicyn/golxc/internal/syncchan"
)

func TestSendRecvPendingRoundTrip(t *testing.T) {
	pair, err := syncchan.New()
	require.NoError(t, err)
	sender := syncchan.NewEndpoint(pair.ParentEnd)
	receiver := syncchan.NewEndpoint(pair.ChildEnd)

	sent := []pendingMove{
		{net: &lxcconf.NetConf{Type: lxcconf.NetVeth, Name: "eth0"}, tempName: "golxcC12345678", hostSide: "golxcH12345678"},
		{net: &lxcconf.NetConf{Type: lxcconf.NetPhys, Name: "eth1"}, tempName: "eth1"},
	}

	var wg sync.WaitGroup
	var got []pendingMove
	var recvErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		got, recvErr = recvPending(receiver)
	}()

	require.NoError(t, sendPending(sender, sent))
	wg.Wait()

	require.NoError(t, recvErr)
	require.Len(t, got, 2)
	require.Equal(t, "eth0", got[0].net.Name)
	require.Equal(t, "golxcC12345678", got[0].tempName)
	require.Equal(t, lxcconf.NetPhys, got[1].net.Type)
}
