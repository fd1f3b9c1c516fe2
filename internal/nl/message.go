//go:build linux

package nl

import "encoding/binary"

// nlmsgHdrLen is sizeof(struct nlmsghdr): len(4) type(2) flags(2) seq(4) pid(4).
const nlmsgHdrLen = 16

// Request is one outbound netlink message: a header plus an opaque
// family-specific payload (already including its own nested
// attribute TLVs, built via AttrBuilder).
type Request struct {
	Type    uint16
	Flags   uint16
	Payload []byte
}

// encode serialises hdr+payload with the header's Len field filled in
// and the given sequence number and the caller's own pid.
func (r *Request) encode(seq uint32, pid uint32) []byte {
	total := nlmsgHdrLen + len(r.Payload)
	buf := make([]byte, total)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(total))
	binary.LittleEndian.PutUint16(buf[4:6], r.Type)
	binary.LittleEndian.PutUint16(buf[6:8], r.Flags)
	binary.LittleEndian.PutUint32(buf[8:12], seq)
	binary.LittleEndian.PutUint32(buf[12:16], pid)
	copy(buf[nlmsgHdrLen:], r.Payload)
	return buf
}

// header is a decoded nlmsghdr from a response datagram.
type header struct {
	Len   uint32
	Type  uint16
	Flags uint16
	Seq   uint32
	Pid   uint32
}

func decodeHeader(buf []byte) header {
	return header{
		Len:   binary.LittleEndian.Uint32(buf[0:4]),
		Type:  binary.LittleEndian.Uint16(buf[4:6]),
		Flags: binary.LittleEndian.Uint16(buf[6:8]),
		Seq:   binary.LittleEndian.Uint32(buf[8:12]),
		Pid:   binary.LittleEndian.Uint32(buf[12:16]),
	}
}

// Response is one reassembled reply: the concatenated payloads of
// every non-multicast message belonging to the request's sequence
// number, from the first message up to (not including) NLMSG_DONE.
type Response struct {
	Payload []byte
}
