//go:build linux

package launch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mihalicyn/golxc/internal/lxcconf"
)

func TestEncodeDecodeWireRoundTrip(t *testing.T) {
	w := &wireData{
		Conf:         lxcconf.NewDefault("test"),
		NonceDir:     "/var/lib/golxc/test/run/abc123",
		InitProgram:  "/sbin/init",
		InitArgs:     []string{"--foo"},
		SyncFD:       3,
		SlaveFDStart: 4,
	}
	encoded, err := encodeWire(w)
	require.NoError(t, err)

	got, err := decodeWire(encoded)
	require.NoError(t, err)
	require.Equal(t, w.Conf.Name, got.Conf.Name)
	require.Equal(t, w.NonceDir, got.NonceDir)
	require.Equal(t, w.InitProgram, got.InitProgram)
	require.Equal(t, w.InitArgs, got.InitArgs)
	require.Equal(t, w.SyncFD, got.SyncFD)
	require.Equal(t, w.SlaveFDStart, got.SlaveFDStart)
}

func TestDecodeWireRejectsGarbage(t *testing.T) {
	_, err := decodeWire("not-base64!!!")
	require.Error(t, err)
}
