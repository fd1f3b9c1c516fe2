//go:build linux

package launch

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/mihalicyn/golxc/internal/errkind"
	"github.com/mihalicyn/golxc/internal/lxcconf"
	"github.com/mihalicyn/golxc/internal/netops"
)

// pendingMove is one interface created on the host that still needs
// to be moved into the child's network namespace.
type pendingMove struct {
	net      *lxcconf.NetConf
	tempName string // name on the host, to be renamed container-side
	hostSide string // non-empty only for veth: the end that stays
}

// createHostSide performs all network creation on the host side, per
// spec.md §4.D step 5 (first half, before the move). Each veth and
// macvlan NetConf gets a randomly-named temporary interface so two
// launches never collide on names; a phys device is moved under its
// own host name, and an empty NetConf creates nothing.
func (h *Handler) createHostSide() ([]pendingMove, error) {
	var pending []pendingMove
	for _, n := range h.Conf.Networks {
		switch n.Type {
		case lxcconf.NetEmpty:
			continue
		case lxcconf.NetVeth:
			hostSide := "golxcH" + shortID()
			peerSide := "golxcC" + shortID()
			if err := h.ctx.Net.VethCreate(hostSide, peerSide); err != nil {
				return pending, err
			}
			h.createdHostVeths = append(h.createdHostVeths, hostSide)
			if err := h.ctx.Net.DeviceUp(hostSide); err != nil {
				return pending, err
			}
			if n.Link != "" {
				if err := h.ctx.Net.BridgeAttach(n.Link, hostSide); err != nil {
					return pending, err
				}
			}
			pending = append(pending, pendingMove{net: n, tempName: peerSide, hostSide: hostSide})
		case lxcconf.NetMacvlan:
			tempName := "golxcM" + shortID()
			if err := h.ctx.Net.MacvlanCreate(n.Link, tempName); err != nil {
				return pending, err
			}
			pending = append(pending, pendingMove{net: n, tempName: tempName})
		case lxcconf.NetPhys:
			pending = append(pending, pendingMove{net: n, tempName: n.Link})
		}
	}
	return pending, nil
}

func shortID() string {
	id := uuid.New().String()
	return id[:8]
}

// moveToChild moves every pending interface into pid's network
// namespace, the second half of step 5.
func (h *Handler) moveToChild(pending []pendingMove, pid int) error {
	for _, p := range pending {
		if err := h.ctx.Net.DeviceMove(p.tempName, pid); err != nil {
			return err
		}
	}
	return nil
}

// verifyMoved asserts the SPEC_FULL.md §8 move invariant for every
// interface moveToChild just handed off: for each device_move that
// returned success, the interface must now be visible from pid's
// network namespace. A device_move report of success that the kernel
// silently didn't honor is exactly the class of bug this catches.
func verifyMoved(pending []pendingMove, pid int) error {
	for _, p := range pending {
		ok, err := netops.LinkExistsInPidNetNS(pid, p.tempName)
		if err != nil {
			return err
		}
		if !ok {
			return errkind.New(errkind.NamespaceFail,
				fmt.Sprintf("device_move reported success but %s is not visible in pid %d's netns", p.tempName, pid), nil)
		}
	}
	return nil
}

// rollbackHostVeths deletes any host-side veth halves created during
// a launch that aborted before the move completed (spec.md §4.D
// "Resource ownership during launch": a veth pair where one end is
// moved and the other is not is the one case that needs explicit
// cleanup — deleting either end removes the kernel-paired other half).
func (h *Handler) rollbackHostVeths() {
	for _, name := range h.createdHostVeths {
		if err := h.ctx.Net.DeviceDelete(name); err != nil {
			h.ctx.Log.WithError(err).Warnf("cleanup: failed to delete host veth %s", name)
		}
	}
	h.createdHostVeths = nil
}

// configureChildSide runs inside the child, inside the now-populated
// network namespace: rename each received interface to its
// container-side name, set MAC/MTU, add addresses, bring it up if
// requested. This is step 6 of spec.md §4.D.
func configureChildSide(ops *netops.Ops, pending []pendingMove) error {
	for _, p := range pending {
		name := p.net.Name
		if name == "" {
			name = p.tempName
		}
		if name != p.tempName {
			if err := ops.DeviceRename(p.tempName, name); err != nil {
				return err
			}
		}
		if p.net.HWAddr != "" {
			mac, err := netops.ConvertMAC(p.net.HWAddr)
			if err != nil {
				return err
			}
			if err := ops.DeviceSetHWAddr(name, mac); err != nil {
				return err
			}
		}
		if p.net.MTU != 0 {
			if err := ops.DeviceSetMTU(name, p.net.MTU); err != nil {
				return err
			}
		}
		for _, a := range p.net.IPv4 {
			if err := ops.IPAddrAdd(name, a.Addr, a.Prefix, a.Bcast); err != nil {
				return err
			}
		}
		for _, a := range p.net.IPv6 {
			if err := ops.IP6AddrAdd(name, a.Addr, a.Prefix, a.Bcast); err != nil {
				return err
			}
		}
		if p.net.Gateway4 != nil {
			if err := ops.RouteCreateDefault(p.net.Gateway4, name, unix.AF_INET); err != nil {
				return err
			}
			// Best-effort: an unreachable gateway is a misconfiguration
			// worth a log line, never a reason to fail bring-up.
			if err := netops.ConfirmReachable(name, p.net.Gateway4); err != nil {
				logrus.WithFields(logrus.Fields{"device": name, "gateway": p.net.Gateway4}).
					WithError(err).Debug("gateway not confirmed reachable after ip_addr_add")
			}
		}
		if p.net.Gateway6 != nil {
			if err := ops.RouteCreateDefault(p.net.Gateway6, name, unix.AF_INET6); err != nil {
				return err
			}
		}
		if p.net.Proxy4 {
			if err := ops.NeighProxyOn(name, unix.AF_INET); err != nil {
				return err
			}
		}
		if p.net.Proxy6 {
			if err := ops.NeighProxyOn(name, unix.AF_INET6); err != nil {
				return err
			}
		}
		if p.net.Up {
			if err := ops.DeviceUp(name); err != nil {
				return err
			}
		}
	}
	return nil
}
