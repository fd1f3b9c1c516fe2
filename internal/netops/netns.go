//go:build linux

package netops

import (
	"fmt"

	"github.com/vishvananda/netns"

	"github.com/mihalicyn/golxc/internal/errkind"
)

// LinkExistsInPidNetNS reports whether name appears in the link list
// visible from pid's network namespace, used by the launch state
// machine to verify the invariant in SPEC_FULL.md §8: "for every
// device_move that returns success, name no longer appears on the
// host and does appear in /proc/pid/ns/net's link list." Uses
// vishvananda/netns purely to open/enter the namespace fd by pid
// rather than hand-rolling /proc/<pid>/ns/net open+setns boilerplate.
func LinkExistsInPidNetNS(pid int, name string) (bool, error) {
	target, err := netns.GetFromPid(pid)
	if err != nil {
		return false, errkind.New(errkind.NamespaceFail, fmt.Sprintf("open netns for pid %d", pid), err)
	}
	defer target.Close()

	current, err := netns.Get()
	if err != nil {
		return false, errkind.New(errkind.NamespaceFail, "open current netns", err)
	}
	defer current.Close()

	if err := netns.Set(target); err != nil {
		return false, errkind.New(errkind.NamespaceFail, fmt.Sprintf("enter netns for pid %d", pid), err)
	}
	defer netns.Set(current)

	_, err = ifIndex(name)
	if err != nil {
		if errkind.KindOf(err) == errkind.NetNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
