//go:build linux

package ttyrpc

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDialServeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	sockPath := filepath.Join(dir, SocketName)

	masterPath := filepath.Join(dir, "master")
	require.NoError(t, os.WriteFile(masterPath, []byte("hi"), 0o600))
	master, err := os.Open(masterPath)
	require.NoError(t, err)
	defer master.Close()

	l, err := net.ListenUnix("unix", &net.UnixAddr{Name: sockPath, Net: "unix"})
	require.NoError(t, err)
	defer l.Close()

	go Serve(l, func(index int) (*os.File, error) {
		require.Equal(t, 0, index)
		return master, nil
	})

	got, err := Dial(sockPath, 0)
	require.NoError(t, err)
	defer got.Close()

	buf := make([]byte, 2)
	n, err := got.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "hi", string(buf[:n]))
}

func TestDialNoSuchTTY(t *testing.T) {
	dir := t.TempDir()
	sockPath := filepath.Join(dir, SocketName)

	l, err := net.ListenUnix("unix", &net.UnixAddr{Name: sockPath, Net: "unix"})
	require.NoError(t, err)
	defer l.Close()

	go Serve(l, func(index int) (*os.File, error) {
		return nil, os.ErrNotExist
	})

	_, err = Dial(sockPath, 3)
	require.Error(t, err)
}
