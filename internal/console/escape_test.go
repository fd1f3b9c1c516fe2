//go:build linux

package console

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEscapeByteDefault(t *testing.T) {
	require.Equal(t, byte(1), EscapeByte(""))
}

func TestEscapeByteCaretPrefix(t *testing.T) {
	require.Equal(t, byte(1), EscapeByte("^a"))
	require.Equal(t, byte(1), EscapeByte("^A"))
}

func TestEscapeByteBareLetter(t *testing.T) {
	require.Equal(t, byte(24), EscapeByte("x")) // Ctrl-X
}
