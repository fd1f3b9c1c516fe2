//go:build linux

package launch

import "syscall"

// computeCloneFlags builds the namespace-isolation bitmask from Conf,
// per spec.md §4.D step 2: UTS|PID|IPC|NS|NET always, USER only when
// the container configuration opts in.
func (h *Handler) computeCloneFlags() uintptr {
	flags := syscall.CLONE_NEWUTS |
		syscall.CLONE_NEWPID |
		syscall.CLONE_NEWIPC |
		syscall.CLONE_NEWNS |
		syscall.CLONE_NEWNET
	if h.Conf.UserNS {
		flags |= syscall.CLONE_NEWUSER
	}
	return uintptr(flags)
}
