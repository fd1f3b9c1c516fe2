//go:build linux

// Package nl is the raw netlink transport (Component A): socket
// lifecycle, sequence tracking, request framing, and response
// decoding over NETLINK_ROUTE. It deliberately does not depend on a
// pre-built netlink client library — building this transport directly
// against the kernel ABI is the point of this package.
package nl

import (
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/mihalicyn/golxc/internal/errkind"
)

// recvBufSize is the minimum receive buffer size mandated by the spec
// (at least 16 KiB, generous enough for a multipart link dump).
const recvBufSize = 16 * 1024

// Socket is an open NETLINK_ROUTE routing socket with its own
// monotonic sequence counter. Not safe for concurrent use by multiple
// goroutines issuing independent requests — the core never does that
// (see SPEC_FULL.md §5, single-threaded per process).
type Socket struct {
	fd  int
	seq uint32
}

// Open creates and binds a NETLINK_ROUTE socket. The sequence counter
// seeds from the process pid, matching the transport's documented
// starting point ("process pid or a random seed").
func Open() (*Socket, error) {
	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_RAW|unix.SOCK_CLOEXEC, unix.NETLINK_ROUTE)
	if err != nil {
		return nil, errkind.New(errkind.NetIO, "open netlink socket", err)
	}
	if err := unix.Bind(fd, &unix.SockaddrNetlink{Family: unix.AF_NETLINK}); err != nil {
		unix.Close(fd)
		return nil, errkind.New(errkind.NetIO, "bind netlink socket", err)
	}
	return &Socket{fd: fd, seq: uint32(unix.Getpid())}, nil
}

func (s *Socket) Close() error {
	return unix.Close(s.fd)
}

// nextSeq returns the next monotonic sequence number for this socket.
func (s *Socket) nextSeq() uint32 {
	return atomic.AddUint32(&s.seq, 1)
}
