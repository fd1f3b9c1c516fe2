//go:build linux

package nl

import (
	"encoding/binary"

	"github.com/mihalicyn/golxc/internal/errkind"
)

const rtaHdrLen = 4 // sizeof(struct rtattr): len(2) + type(2)

func align4(n int) int {
	return (n + 3) &^ 3
}

// AttrBuilder accumulates attribute TLVs into a backing buffer,
// centralising the 4-byte alignment and overflow checks the original
// C source left to scattered pointer arithmetic (see SPEC_FULL.md §9
// "Attribute TLV builder").
type AttrBuilder struct {
	buf []byte
	max int
}

// NewAttrBuilder returns a builder that refuses to grow its buffer
// beyond max bytes.
func NewAttrBuilder(max int) *AttrBuilder {
	return &AttrBuilder{buf: make([]byte, 0, max), max: max}
}

// Put appends one attribute of the given type carrying value, padded
// to a 4-byte boundary. It returns NET_INVAL if the attribute would
// overflow the builder's buffer.
func (b *AttrBuilder) Put(attrType uint16, value []byte) error {
	total := align4(rtaHdrLen + len(value))
	if len(b.buf)+total > b.max {
		return errkind.New(errkind.NetInval, "attribute builder overflow", nil)
	}
	hdr := make([]byte, rtaHdrLen)
	binary.LittleEndian.PutUint16(hdr[0:2], uint16(rtaHdrLen+len(value)))
	binary.LittleEndian.PutUint16(hdr[2:4], attrType)
	b.buf = append(b.buf, hdr...)
	b.buf = append(b.buf, value...)
	pad := total - (rtaHdrLen + len(value))
	if pad > 0 {
		b.buf = append(b.buf, make([]byte, pad)...)
	}
	return nil
}

// PutUint32 is a convenience wrapper for the common fixed-width case.
func (b *AttrBuilder) PutUint32(attrType uint16, v uint32) error {
	val := make([]byte, 4)
	binary.LittleEndian.PutUint32(val, v)
	return b.Put(attrType, val)
}

// PutString appends a NUL-terminated string attribute (IFLA_IFNAME and
// friends are C strings on the wire).
func (b *AttrBuilder) PutString(attrType uint16, s string) error {
	return b.Put(attrType, append([]byte(s), 0))
}

// PutNested appends attrType carrying the serialised contents of a
// nested builder, e.g. VETH_INFO_PEER wrapping a full ifinfomsg+attrs.
func (b *AttrBuilder) PutNested(attrType uint16, nested *AttrBuilder) error {
	return b.Put(attrType, nested.Bytes())
}

func (b *AttrBuilder) Bytes() []byte { return b.buf }
func (b *AttrBuilder) Len() int      { return len(b.buf) }

// Attr is one decoded attribute TLV from a response.
type Attr struct {
	Type  uint16
	Value []byte
}

// ParseAttrs walks a raw attribute-TLV region and returns the decoded
// list. Malformed trailing bytes (shorter than a header, or a length
// that runs past the buffer) stop parsing rather than panic.
func ParseAttrs(buf []byte) []Attr {
	var attrs []Attr
	for len(buf) >= rtaHdrLen {
		l := binary.LittleEndian.Uint16(buf[0:2])
		t := binary.LittleEndian.Uint16(buf[2:4])
		if int(l) < rtaHdrLen || int(l) > len(buf) {
			break
		}
		attrs = append(attrs, Attr{Type: t, Value: buf[rtaHdrLen:l]})
		buf = buf[align4(int(l)):]
	}
	return attrs
}
