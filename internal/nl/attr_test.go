//go:build linux

package nl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttrBuilderAlignment(t *testing.T) {
	b := NewAttrBuilder(64)
	require.NoError(t, b.Put(1, []byte("abc"))) // 3-byte value -> padded to 4
	require.Equal(t, 8, b.Len())                 // hdr(4) + value(3) padded to 4 = 8

	require.NoError(t, b.Put(2, []byte("ab"))) // 2-byte value -> padded to 4
	require.Equal(t, 16, b.Len())
}

func TestAttrBuilderOverflow(t *testing.T) {
	b := NewAttrBuilder(8)
	require.NoError(t, b.Put(1, []byte("abc")))
	err := b.Put(2, []byte("defgh"))
	require.Error(t, err)
}

func TestParseAttrsRoundTrip(t *testing.T) {
	b := NewAttrBuilder(64)
	require.NoError(t, b.PutString(3, "eth0"))
	require.NoError(t, b.PutUint32(4, 1500))

	attrs := ParseAttrs(b.Bytes())
	require.Len(t, attrs, 2)
	require.Equal(t, uint16(3), attrs[0].Type)
	require.Equal(t, "eth0\x00", string(attrs[0].Value))
	require.Equal(t, uint16(4), attrs[1].Type)
}

func TestParseAttrsTruncated(t *testing.T) {
	attrs := ParseAttrs([]byte{1, 2})
	require.Nil(t, attrs)
}
