//go:build linux

package netops

import (
	"golang.org/x/sys/unix"

	"github.com/mihalicyn/golxc/internal/nl"
)

// macvlanModeBridge is MACVLAN_MODE_BRIDGE, the spec's default mode.
const (
	iflaMacvlanMode  = 1
	macvlanModeBridge = 4
)

// MacvlanCreate creates a macvlan device named name stacked on master,
// in MACVLAN_MODE_BRIDGE per SPEC_FULL.md §4.B.
func (o *Ops) MacvlanCreate(master, name string) error {
	masterIdx, err := ifIndex(master)
	if err != nil {
		return err
	}

	data := nl.NewAttrBuilder(maxAttrBuf)
	if err := data.PutUint32(iflaMacvlanMode, macvlanModeBridge); err != nil {
		return err
	}

	linkinfo := nl.NewAttrBuilder(maxAttrBuf)
	if err := linkinfo.PutString(iflaInfoKind, "macvlan"); err != nil {
		return err
	}
	if err := linkinfo.PutNested(iflaInfoData, data); err != nil {
		return err
	}

	top := nl.NewAttrBuilder(maxAttrBuf)
	if err := top.PutString(unix.IFLA_IFNAME, name); err != nil {
		return err
	}
	if err := top.PutUint32(unix.IFLA_LINK, uint32(masterIdx)); err != nil {
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
	_, err = o.sock.Do(req)
	return err
}
