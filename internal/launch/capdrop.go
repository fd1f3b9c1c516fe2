//go:build linux

package launch

import (
	"strings"

	"github.com/syndtr/gocapability/capability"

	"github.com/mihalicyn/golxc/internal/errkind"
	"github.com/mihalicyn/golxc/internal/lxcconf"
)

// capByName maps the config surface's space-separated capability
// names (lxc.cap.drop, spec.md §6) onto gocapability's Cap constants.
// Only the commonly dropped set is named explicitly; anything else is
// CONFIG_INVALID rather than silently ignored.
var capByName = map[string]capability.Cap{
	"sys_admin":    capability.CAP_SYS_ADMIN,
	"sys_module":   capability.CAP_SYS_MODULE,
	"sys_rawio":    capability.CAP_SYS_RAWIO,
	"sys_pacct":    capability.CAP_SYS_PACCT,
	"sys_nice":     capability.CAP_SYS_NICE,
	"sys_resource": capability.CAP_SYS_RESOURCE,
	"sys_time":     capability.CAP_SYS_TIME,
	"sys_tty_config": capability.CAP_SYS_TTY_CONFIG,
	"mknod":        capability.CAP_MKNOD,
	"net_admin":    capability.CAP_NET_ADMIN,
	"net_raw":      capability.CAP_NET_RAW,
	"setpcap":      capability.CAP_SETPCAP,
}

// dropCapabilities removes every named capability from the calling
// (child) process's effective/permitted/bounding sets before execve,
// per spec.md §4.D step 8.
func dropCapabilities(conf *lxcconf.Conf) error {
	if len(conf.CapDrop) == 0 {
		return nil
	}
	caps, err := capability.NewPid2(0)
	if err != nil {
		return errkind.New(errkind.NamespaceFail, "open capability set", err)
	}
	if err := caps.Load(); err != nil {
		return errkind.New(errkind.NamespaceFail, "load capability set", err)
	}

	var toDrop []capability.Cap
	for _, name := range conf.CapDrop {
		c, ok := capByName[strings.ToLower(name)]
		if !ok {
			return errkind.New(errkind.ConfigInvalid, "unknown capability "+name, nil)
		}
		toDrop = append(toDrop, c)
	}

	caps.Unset(capability.CAPS|capability.BOUNDING, toDrop...)
	if err := caps.Apply(capability.CAPS | capability.BOUNDING); err != nil {
		return errkind.New(errkind.NamespaceFail, "apply dropped capabilities", err)
	}
	return nil
}
