//go:build linux

package nl

import (
	"errors"

	"github.com/Rican7/retry"
	"github.com/Rican7/retry/strategy"
	"golang.org/x/sys/unix"

	"github.com/mihalicyn/golxc/internal/errkind"
)

var errUnexpectedEOF = errors.New("netlink: zero-length datagram")

const maxRecvRetries = 1000

// Do sends req and waits for its matching response(s), reassembling a
// multipart (NLM_F_MULTI) reply until NLMSG_DONE and surfacing
// NLMSG_ERROR as an error carrying the kernel errno (errno 0 is a bare
// success ACK, not an error). Multicast traffic — anything not
// addressed to our own sequence number — is discarded.
func (s *Socket) Do(req *Request) (*Response, error) {
	req.Flags |= unix.NLM_F_REQUEST
	seq := s.nextSeq()
	pid := uint32(unix.Getpid())
	wire := req.encode(seq, pid)

	dst := &unix.SockaddrNetlink{Family: unix.AF_NETLINK}
	if err := unix.Sendto(s.fd, wire, 0, dst); err != nil {
		return nil, errkind.New(errkind.NetIO, "send netlink request", err)
	}

	resp := &Response{}
	for {
		buf, err := s.recvOne()
		if err != nil {
			return nil, err
		}
		for len(buf) >= nlmsgHdrLen {
			h := decodeHeader(buf)
			if int(h.Len) < nlmsgHdrLen || int(h.Len) > len(buf) {
				break
			}
			body := buf[nlmsgHdrLen:h.Len]
			buf = buf[align4(int(h.Len)):]

			if h.Seq != seq {
				// Not ours — multicast or stale, ignore.
				continue
			}
			switch h.Type {
			case unix.NLMSG_ERROR:
				errno := int32(hostEndian(body))
				if errno == 0 {
					return resp, nil
				}
				return nil, netErrorFromErrno(errno)
			case unix.NLMSG_DONE:
				return resp, nil
			default:
				resp.Payload = append(resp.Payload, body...)
				if h.Flags&unix.NLM_F_MULTI == 0 {
					return resp, nil
				}
			}
		}
	}
}

// recvOne performs one retrying Recvfrom, transparently restarting on
// EINTR/EAGAIN and on short reads that returned zero bytes.
func (s *Socket) recvOne() ([]byte, error) {
	buf := make([]byte, recvBufSize)
	var n int
	var recvErr error
	retry.Retry(func(attempt uint) error {
		n, _, recvErr = unix.Recvfrom(s.fd, buf, 0)
		if recvErr == unix.EINTR || recvErr == unix.EAGAIN {
			return recvErr
		}
		if recvErr == nil && n == 0 {
			recvErr = errUnexpectedEOF
			return recvErr
		}
		return nil
	}, strategy.Limit(maxRecvRetries))
	if recvErr != nil {
		return nil, errkind.New(errkind.NetIO, "recv netlink response", recvErr)
	}
	return buf[:n], nil
}

func hostEndian(body []byte) int32 {
	if len(body) < 4 {
		return 0
	}
	return int32(body[0]) | int32(body[1])<<8 | int32(body[2])<<16 | int32(body[3])<<24
}

// netErrorFromErrno maps a kernel-supplied negative errno from
// NLMSG_ERROR onto the closed §4.B error taxonomy.
func netErrorFromErrno(errno int32) error {
	e := unix.Errno(-errno)
	switch e {
	case unix.ENODEV, unix.ENOENT:
		return errkind.New(errkind.NetNotFound, "netlink operation", e)
	case unix.EEXIST:
		return errkind.New(errkind.NetExists, "netlink operation", e)
	case unix.EPERM, unix.EACCES:
		return errkind.New(errkind.NetPerm, "netlink operation", e)
	case unix.EBUSY:
		return errkind.New(errkind.NetBusy, "netlink operation", e)
	case unix.EINVAL:
		return errkind.New(errkind.NetInval, "netlink operation", e)
	default:
		return errkind.New(errkind.NetIO, "netlink operation", e)
	}
}
