//go:build linux

package netops

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvertMACRoundTrip(t *testing.T) {
	mac, err := ConvertMAC("aa:bb:cc:dd:ee:ff")
	require.NoError(t, err)
	require.Equal(t, "aa:bb:cc:dd:ee:ff", FormatMAC(mac))
}

func TestConvertMACMalformed(t *testing.T) {
	_, err := ConvertMAC("not-a-mac")
	require.Error(t, err)
}

func TestConfirmNDPBuildsSolicitation(t *testing.T) {
	sol, err := confirmNDP([]byte{0xfe, 0x80, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1})
	require.NoError(t, err)
	require.Len(t, sol.Options, 1)
}
