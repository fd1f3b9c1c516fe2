//go:build linux

package netops

import (
	"golang.org/x/sys/unix"

	"github.com/mihalicyn/golxc/internal/nl"
)

// These IFLA_INFO_* / VETH_INFO_* constants are not exposed by
// golang.org/x/sys/unix; every pack example that builds veth/vlan
// links defines them locally the same way.
const (
	iflaInfoKind = 1
	iflaInfoData = 2
	iflaLinkinfo = 18
	vethInfoPeer = 1
)

// VethCreate creates a veth pair name1<->name2 in one newlink request
// carrying a nested VETH_INFO_PEER. Per the kernel's own atomicity
// guarantee, if the request errors neither endpoint exists — the core
// does not attempt to compensate for a partial result (SPEC_FULL §4.B).
func (o *Ops) VethCreate(name1, name2 string) error {
	peer := nl.NewAttrBuilder(maxAttrBuf)
	if err := peer.PutString(unix.IFLA_IFNAME, name2); err != nil {
		return err
	}
	peerIfinfo := append(buildIfinfomsg(0, 0, 0), peer.Bytes()...)

	data := nl.NewAttrBuilder(maxAttrBuf)
	if err := data.Put(vethInfoPeer, peerIfinfo); err != nil {
		return err
	}

	linkinfo := nl.NewAttrBuilder(maxAttrBuf)
	if err := linkinfo.PutString(iflaInfoKind, "veth"); err != nil {
		return err
	}
	if err := linkinfo.PutNested(iflaInfoData, data); err != nil {
		return err
	}

	top := nl.NewAttrBuilder(maxAttrBuf)
	if err := top.PutString(unix.IFLA_IFNAME, name1); err != nil {
		return err
	}
	if err := top.PutNested(iflaLinkinfo, linkinfo); err != nil {
		return err
	}

	req := &nl.Request{
		Type:    unix.RTM_NEWLINK,
		Flags:   unix.NLM_F_CREATE | unix.NLM_F_EXCL | unix.NLM_F_ACK,
		Payload: append(buildIfinfomsg(0, 0, 0), top.Bytes()...),
	}
	_, err := o.sock.Do(req)
	return err
}
