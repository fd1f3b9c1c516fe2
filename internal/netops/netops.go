//go:build linux

// Package netops implements Component B: the typed network operations
// (link create/delete/up/down/rename/mtu, address add, bridge
// attach/detach, default route add/del, neighbour-proxy, forwarding,
// device move to pid) built on the raw netlink transport in
// internal/nl. The full operation set is grounded one-to-one on
// original_source/src/lxc/network.h.
package netops

import (
	"errors"
	"net"

	"golang.org/x/sys/unix"

	"github.com/mihalicyn/golxc/internal/errkind"
	"github.com/mihalicyn/golxc/internal/nl"
)

// Ops binds the typed network operations to one open netlink socket.
type Ops struct {
	sock *nl.Socket
}

func New() (*Ops, error) {
	s, err := nl.Open()
	if err != nil {
		return nil, err
	}
	return &Ops{sock: s}, nil
}

func (o *Ops) Close() error { return o.sock.Close() }

// ConvertMAC parses a colon-separated hex MAC address into its 6-byte
// form. Fails with CONFIG_INVALID on malformed input.
func ConvertMAC(s string) ([]byte, error) {
	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 {
		return nil, errkind.New(errkind.ConfigInvalid, "convert_mac "+s, err)
	}
	return []byte(hw), nil
}

// FormatMAC is the inverse of ConvertMAC, always lowercase, used by
// the round-trip property in SPEC_FULL.md §8.
func FormatMAC(mac []byte) string {
	return net.HardwareAddr(mac).String()
}

func ifIndex(name string) (int32, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return 0, errkind.New(errkind.NetNotFound, "lookup interface "+name, err)
	}
	return int32(iface.Index), nil
}

const (
	ifinfomsgLen = 16 // family(1) pad(1) type(2) index(4) flags(4) change(4)
	maxAttrBuf   = 1024
)

func buildIfinfomsg(index int32, flags, change uint32) []byte {
	buf := make([]byte, ifinfomsgLen)
	buf[0] = unix.AF_UNSPEC
	putU32(buf[4:8], uint32(index))
	putU32(buf[8:12], flags)
	putU32(buf[12:16], change)
	return buf
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// DeviceUp brings name up via setlink with the IFF_UP change mask.
func (o *Ops) DeviceUp(name string) error { return o.setUpDown(name, true) }

// DeviceDown brings name down via setlink with the IFF_UP change mask.
func (o *Ops) DeviceDown(name string) error { return o.setUpDown(name, false) }

func (o *Ops) setUpDown(name string, up bool) error {
	idx, err := ifIndex(name)
	if err != nil {
		return err
	}
	var flags uint32
	if up {
		flags = unix.IFF_UP
	}
	req := &nl.Request{
		Type:    unix.RTM_NEWLINK,
		Flags:   unix.NLM_F_ACK,
		Payload: buildIfinfomsg(idx, flags, unix.IFF_UP),
	}
	_, err = o.sock.Do(req)
	return err
}

// DeviceDelete removes a link via RTM_DELLINK.
func (o *Ops) DeviceDelete(name string) error {
	idx, err := ifIndex(name)
	if err != nil {
		return err
	}
	req := &nl.Request{
		Type:    unix.RTM_DELLINK,
		Flags:   unix.NLM_F_ACK,
		Payload: buildIfinfomsg(idx, 0, 0),
	}
	_, err = o.sock.Do(req)
	return err
}

// DeviceRename changes name to newName via setlink with IFLA_IFNAME.
// Fails NET_EXISTS if newName is already taken (kernel-enforced).
func (o *Ops) DeviceRename(name, newName string) error {
	idx, err := ifIndex(name)
	if err != nil {
		return err
	}
	ab := nl.NewAttrBuilder(maxAttrBuf)
	if err := ab.PutString(unix.IFLA_IFNAME, newName); err != nil {
		return err
	}
	req := &nl.Request{
		Type:    unix.RTM_NEWLINK,
		Flags:   unix.NLM_F_ACK,
		Payload: append(buildIfinfomsg(idx, 0, 0), ab.Bytes()...),
	}
	_, err = o.sock.Do(req)
	return err
}

// DeviceSetMTU sets the link MTU via IFLA_MTU.
func (o *Ops) DeviceSetMTU(name string, mtu int) error {
	idx, err := ifIndex(name)
	if err != nil {
		return err
	}
	ab := nl.NewAttrBuilder(maxAttrBuf)
	if err := ab.PutUint32(unix.IFLA_MTU, uint32(mtu)); err != nil {
		return err
	}
	req := &nl.Request{
		Type:    unix.RTM_NEWLINK,
		Flags:   unix.NLM_F_ACK,
		Payload: append(buildIfinfomsg(idx, 0, 0), ab.Bytes()...),
	}
	_, err = o.sock.Do(req)
	return err
}

// DeviceSetHWAddr sets the link-layer address via IFLA_ADDRESS.
func (o *Ops) DeviceSetHWAddr(name string, mac []byte) error {
	idx, err := ifIndex(name)
	if err != nil {
		return err
	}
	ab := nl.NewAttrBuilder(maxAttrBuf)
	if err := ab.Put(unix.IFLA_ADDRESS, mac); err != nil {
		return err
	}
	req := &nl.Request{
		Type:    unix.RTM_NEWLINK,
		Flags:   unix.NLM_F_ACK,
		Payload: append(buildIfinfomsg(idx, 0, 0), ab.Bytes()...),
	}
	_, err = o.sock.Do(req)
	return err
}

// DeviceMove sets IFLA_NET_NS_PID, moving the link into pid's network
// namespace. Fails NET_NOTFOUND if the interface doesn't exist, or
// NAMESPACE_FAIL if pid lacks a network namespace (surfaced by the
// kernel as ESRCH or EINVAL, which the transport maps to NET_IO and
// NET_INVAL; both are re-classed here since this is specifically a
// namespace failure).
func (o *Ops) DeviceMove(name string, pid int) error {
	idx, err := ifIndex(name)
	if err != nil {
		return err
	}
	ab := nl.NewAttrBuilder(maxAttrBuf)
	if err := ab.PutUint32(unix.IFLA_NET_NS_PID, uint32(pid)); err != nil {
		return err
	}
	req := &nl.Request{
		Type:    unix.RTM_NEWLINK,
		Flags:   unix.NLM_F_ACK,
		Payload: append(buildIfinfomsg(idx, 0, 0), ab.Bytes()...),
	}
	_, err = o.sock.Do(req)
	if err != nil && (errkind.KindOf(err) == errkind.NetInval || errors.Is(err, unix.ESRCH)) {
		return errkind.New(errkind.NamespaceFail, "device_move "+name, err)
	}
	return err
}
