//go:build linux

package netops

import (
	"net"

	"golang.org/x/sys/unix"

	"github.com/mihalicyn/golxc/internal/nl"
)

const rtmsgLen = 12 // family(1) dst_len(1) src_len(1) tos(1) table(1) protocol(1) scope(1) type(1) flags(4)

func buildRtmsg(family uint8) []byte {
	buf := make([]byte, rtmsgLen)
	buf[0] = family
	buf[4] = unix.RT_TABLE_MAIN
	buf[5] = unix.RTPROT_BOOT
	buf[6] = unix.RT_SCOPE_UNIVERSE
	buf[7] = unix.RTN_UNICAST
	return buf
}

// RouteCreateDefault adds a default route (destination length 0) via
// gw over ifname.
func (o *Ops) RouteCreateDefault(gw net.IP, ifname string, family int) error {
	return o.defaultRoute(unix.RTM_NEWROUTE, unix.NLM_F_CREATE|unix.NLM_F_EXCL|unix.NLM_F_ACK, gw, ifname, family)
}

// RouteDeleteDefault removes a previously created default route.
func (o *Ops) RouteDeleteDefault(gw net.IP, ifname string, family int) error {
	return o.defaultRoute(unix.RTM_DELROUTE, unix.NLM_F_ACK, gw, ifname, family)
}

func (o *Ops) defaultRoute(msgType uint16, flags uint16, gw net.IP, ifname string, family int) error {
	idx, err := ifIndex(ifname)
	if err != nil {
		return err
	}
	raw := gw.To4()
	if family == unix.AF_INET6 {
		raw = gw.To16()
	}

	ab := nl.NewAttrBuilder(maxAttrBuf)
	if err := ab.Put(unix.RTA_GATEWAY, raw); err != nil {
		return err
	}
	if err := ab.PutUint32(unix.RTA_OIF, uint32(idx)); err != nil {
		return err
	}

	req := &nl.Request{
		Type:    msgType,
		Flags:   flags,
		Payload: append(buildRtmsg(uint8(family)), ab.Bytes()...),
	}
	_, err = o.sock.Do(req)
	return err
}
