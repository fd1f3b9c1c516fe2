//go:build linux

package netops

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/mihalicyn/golxc/internal/errkind"
)

// ifreq mirrors struct ifreq's name+ifindex union member, the layout
// SIOCBRADDIF/SIOCBRDELIF expect (legacy bridge ioctl path, not
// netlink — there is no RTM_* message for this operation).
type ifreq struct {
	name  [unix.IFNAMSIZ]byte
	index int32
	_     [unix.IFNAMSIZ - 4]byte
}

// BridgeAttach attaches ifname to bridge via SIOCBRADDIF. Fails
// NET_INVAL if bridge is not in fact a bridge device.
func (o *Ops) BridgeAttach(bridge, ifname string) error {
	return bridgeIoctl(bridge, ifname, unix.SIOCBRADDIF)
}

// BridgeDetach removes ifname from bridge via SIOCBRDELIF.
func (o *Ops) BridgeDetach(bridge, ifname string) error {
	return bridgeIoctl(bridge, ifname, unix.SIOCBRDELIF)
}

func bridgeIoctl(bridge, ifname string, op uintptr) error {
	idx, err := ifIndex(ifname)
	if err != nil {
		return err
	}
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return errkind.New(errkind.NetIO, "open bridge control socket", err)
	}
	defer unix.Close(fd)

	var req ifreq
	copy(req.name[:], bridge)
	req.index = idx

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), op, uintptr(unsafe.Pointer(&req)))
	if errno == unix.EOPNOTSUPP {
		// The kernel refuses bridge-port ioctls on a non-bridge device.
		return errkind.New(errkind.NetInval, bridge+" is not a bridge", errno)
	}
	if errno != 0 {
		return netErrorFromErrno(-int32(errno))
	}
	return nil
}
