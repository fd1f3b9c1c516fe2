//go:build linux

package launch

import (
	"fmt"
	"os/exec"

	"github.com/mihalicyn/golxc/internal/errkind"
)

// attachCgroups issues the single cgroup-attach command named by
// Conf.CgroupSettings, per spec.md §1: "the cgroup attach step is a
// single command the core issues, not a subsystem it implements."
// Each entry is a shell-ready command template with "%pid%"
// substituted for the child's pid.
func (h *Handler) attachCgroups(pid int) error {
	for _, tmpl := range h.Conf.CgroupSettings {
		cmdline := substitutePid(tmpl, pid)
		cmd := exec.Command("/bin/sh", "-c", cmdline)
		if out, err := cmd.CombinedOutput(); err != nil {
			return errkind.New(errkind.IO, fmt.Sprintf("cgroup attach command %q: %s", cmdline, out), err)
		}
	}
	return nil
}

func substitutePid(tmpl string, pid int) string {
	out := make([]byte, 0, len(tmpl))
	for i := 0; i < len(tmpl); i++ {
		if i+5 <= len(tmpl) && tmpl[i:i+5] == "%pid%" {
			out = append(out, []byte(fmt.Sprint(pid))...)
			i += 4
			continue
		}
		out = append(out, tmpl[i])
	}
	return string(out)
}
