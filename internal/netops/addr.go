//go:build linux

package netops

import (
	"net"

	"golang.org/x/sys/unix"

	"github.com/mihalicyn/golxc/internal/errkind"
	"github.com/mihalicyn/golxc/internal/nl"
)

const ifaddrmsgLen = 8 // family(1) prefixlen(1) flags(1) scope(1) index(4)

func buildIfaddrmsg(family uint8, prefix uint8, index int32) []byte {
	buf := make([]byte, ifaddrmsgLen)
	buf[0] = family
	buf[1] = prefix
	putU32(buf[4:8], uint32(index))
	return buf
}

// IPAddrAdd adds an IPv4 address. Idempotency is not guaranteed: the
// kernel returns EEXIST (mapped to NET_EXISTS) if addr is already
// present; callers that mean "ensure present" must handle that
// themselves (SPEC_FULL.md §4.B).
func (o *Ops) IPAddrAdd(ifname string, addr net.IP, prefix int, bcast net.IP) error {
	return o.ipAddrAdd(ifname, addr, prefix, bcast, unix.AF_INET, 4)
}

// IP6AddrAdd is the IPv6 counterpart of IPAddrAdd.
func (o *Ops) IP6AddrAdd(ifname string, addr net.IP, prefix int, bcast net.IP) error {
	return o.ipAddrAdd(ifname, addr, prefix, bcast, unix.AF_INET6, 16)
}

func (o *Ops) ipAddrAdd(ifname string, addr net.IP, prefix int, bcast net.IP, family int, size int) error {
	idx, err := ifIndex(ifname)
	if err != nil {
		return err
	}
	raw := addr.To4()
	if size == 16 {
		raw = addr.To16()
	}
	if raw == nil {
		return errkind.New(errkind.ConfigInvalid, "ip_addr_add "+ifname, nil)
	}

	ab := nl.NewAttrBuilder(maxAttrBuf)
	if err := ab.Put(unix.IFA_LOCAL, raw); err != nil {
		return err
	}
	if err := ab.Put(unix.IFA_ADDRESS, raw); err != nil {
		return err
	}
	if bcast != nil {
		bc := bcast.To4()
		if size == 16 {
			bc = bcast.To16()
		}
		if bc != nil {
			if err := ab.Put(unix.IFA_BROADCAST, bc); err != nil {
				return err
			}
		}
	}

	req := &nl.Request{
		Type:    unix.RTM_NEWADDR,
		Flags:   unix.NLM_F_CREATE | unix.NLM_F_EXCL | unix.NLM_F_ACK,
		Payload: append(buildIfaddrmsg(uint8(family), uint8(prefix), idx), ab.Bytes()...),
	}
	_, err = o.sock.Do(req)
	return err
}
