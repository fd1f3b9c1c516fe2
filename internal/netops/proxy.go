//go:build linux

package netops

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/mihalicyn/golxc/internal/errkind"
)

// procKnob writes "0" or "1" to one of the per-interface sysctl-style
// procfs knobs. These are plain file writes, not netlink requests —
// there is no RTM_* message for proxy_arp/proxy_ndp/forwarding, so a
// direct os.WriteFile is the correct tool, matching the original's
// direct fopen/write (original_source/src/lxc/network.h's
// lxc_neigh_proxy_on/off, lxc_ip_forward_on/off).
func procKnob(path string, on bool) error {
	val := "0"
	if on {
		val = "1"
	}
	if err := os.WriteFile(path, []byte(val), 0o644); err != nil {
		if os.IsNotExist(err) {
			return errkind.New(errkind.NetNotFound, "proc knob "+path, err)
		}
		if os.IsPermission(err) {
			return errkind.New(errkind.NetPerm, "proc knob "+path, err)
		}
		return errkind.New(errkind.NetIO, "proc knob "+path, err)
	}
	return nil
}

// NeighProxyOn enables the kernel's per-interface neighbour-proxy
// knob: proxy_arp for AF_INET, proxy_ndp for AF_INET6.
func (o *Ops) NeighProxyOn(ifname string, family int) error {
	return procKnob(neighProxyPath(ifname, family), true)
}

func (o *Ops) NeighProxyOff(ifname string, family int) error {
	return procKnob(neighProxyPath(ifname, family), false)
}

func neighProxyPath(ifname string, family int) string {
	if family == unix.AF_INET6 {
		return fmt.Sprintf("/proc/sys/net/ipv6/conf/%s/proxy_ndp", ifname)
	}
	return fmt.Sprintf("/proc/sys/net/ipv4/conf/%s/proxy_arp", ifname)
}

// IPForwardOn/Off toggle the per-interface forwarding knob, same
// pattern as the neighbour-proxy knob.
func (o *Ops) IPForwardOn(ifname string, family int) error {
	return procKnob(forwardPath(ifname, family), true)
}

func (o *Ops) IPForwardOff(ifname string, family int) error {
	return procKnob(forwardPath(ifname, family), false)
}

func forwardPath(ifname string, family int) string {
	if family == unix.AF_INET6 {
		return fmt.Sprintf("/proc/sys/net/ipv6/conf/%s/forwarding", ifname)
	}
	return fmt.Sprintf("/proc/sys/net/ipv4/conf/%s/forwarding", ifname)
}
