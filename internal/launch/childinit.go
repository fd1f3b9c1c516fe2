//go:build linux

package launch

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/mihalicyn/golxc/internal/errkind"
	"github.com/mihalicyn/golxc/internal/lxcconf"
	"github.com/mihalicyn/golxc/internal/netops"
	"github.com/mihalicyn/golxc/internal/syncchan"
)

// RunChildInit is the entry point cmd/lxc-start dispatches to when it
// recognises itself as the re-exec'd container init (os.Args[0] ==
// ReExecMarker). It never returns on success: step 8 ends in an
// execve. On failure it reports SYNC_ERROR to the parent and exits 1.
func RunChildInit() {
	wire, ep, err := childBootstrap()
	if err != nil {
		if ep != nil {
			ep.Abort()
		}
		os.Exit(1)
	}

	if err := runChildInit(wire, ep); err != nil {
		ep.Abort()
		os.Exit(1)
	}
	// unreachable: runChildInit only returns via execve or the error
	// path above.
}

func childBootstrap() (*wireData, *syncchan.Endpoint, error) {
	encoded := os.Getenv(envWireKey)
	if encoded == "" {
		return nil, nil, errkind.New(errkind.ConfigInvalid, "missing child wire data", nil)
	}
	wire, err := decodeWire(encoded)
	if err != nil {
		return nil, nil, err
	}

	syncFile := os.NewFile(uintptr(wire.SyncFD), "sync-child")
	ep := syncchan.NewEndpoint(syncFile)
	return wire, ep, nil
}

// runChildInit implements steps 4, 6 and 8 of spec.md §4.D.
func runChildInit(wire *wireData, ep *syncchan.Endpoint) error {
	conf := wire.Conf

	// Step 4: hostname, mount moves, pre-allocated ttys are already
	// open (inherited fds starting at wire.SlaveFDStart); barrier.
	if conf.UtsName != "" {
		if err := syscall.Sethostname([]byte(conf.UtsName)); err != nil {
			return errkind.New(errkind.NamespaceFail, "set hostname", err)
		}
	}
	if err := applyMounts(conf); err != nil {
		return err
	}
	if err := attachControllingTTY(wire.SlaveFDStart); err != nil {
		return err
	}

	if err := ep.Wake(syncchan.PostConfigure); err != nil {
		return err
	}
	pending, err := recvPending(ep)
	if err != nil {
		return err
	}
	if err := ep.Wait(syncchan.PostNetwork); err != nil {
		return err
	}

	// Step 6: configure the interfaces P moved into this netns, then
	// barrier to let P attach cgroups.
	ops, err := netops.New()
	if err != nil {
		return err
	}
	defer ops.Close()
	if err := configureChildSide(ops, pending); err != nil {
		return err
	}

	if err := ep.Barrier(syncchan.PostNetwork); err != nil {
		return err
	}

	// Step 8: drop capabilities, execve. No other inherited descriptor
	// is closed here: the tty slave fds stay open across execve, and
	// only the sync fd is closed by it. The sync fd's CLOEXEC bit (set just below,
	// since Go's exec.Cmd clears CLOEXEC on ExtraFiles so the child
	// can see them at all) closes it implicitly at execve, which is
	// what the parent observes as success at POST_START.
	if err := dropCapabilities(conf); err != nil {
		return err
	}
	if err := syscall.CloseOnExec(int(ep.File().Fd())); err != nil {
		return errkind.New(errkind.ExecFail, "set CLOEXEC before init exec", err)
	}

	argv := append([]string{wire.InitProgram}, wire.InitArgs...)
	if err := syscall.Exec(wire.InitProgram, argv, os.Environ()); err != nil {
		return errkind.New(errkind.ExecFail, "exec "+wire.InitProgram, err)
	}
	return nil
}

// attachControllingTTY makes the first pre-allocated pty slave the
// process's controlling terminal and wires it to stdio, so the init
// program inherits a usable console (spec.md §4.D step 4 "opens its
// pre-allocated ttys").
func attachControllingTTY(slaveFD int) error {
	if _, err := unix.Setsid(); err != nil {
		return errkind.New(errkind.TTYFail, "setsid", err)
	}
	if err := unix.IoctlSetInt(slaveFD, unix.TIOCSCTTY, 0); err != nil {
		return errkind.New(errkind.TTYFail, "set controlling tty", err)
	}
	for _, std := range []int{0, 1, 2} {
		if err := unix.Dup2(slaveFD, std); err != nil {
			return errkind.New(errkind.TTYFail, "dup tty onto stdio", err)
		}
	}
	return nil
}

func wirePendingToPendingMove(in []wirePendingMove) []pendingMove {
	out := make([]pendingMove, len(in))
	for i, p := range in {
		out[i] = pendingMove{net: p.Net, tempName: p.TempName}
	}
	return out
}

// applyMounts reads each lxc.mount table file ("source target" per
// line, blank lines and "#" comments skipped) and bind-mounts source
// under the new root, then chroots into it. Grounded on lxc.mount in
// spec.md §6; unlike the original's mount_auto_mounts this does not
// special-case /proc or /sys, since the clone flags already give the
// child fresh namespaces for both.
func applyMounts(conf *lxcconf.Conf) error {
	for _, tableFile := range conf.Mounts {
		if err := applyMountTable(conf.Rootfs, tableFile); err != nil {
			return err
		}
	}
	if conf.Rootfs == "" {
		return nil
	}
	if err := unix.Chroot(conf.Rootfs); err != nil {
		return errkind.New(errkind.NamespaceFail, "chroot "+conf.Rootfs, err)
	}
	if err := os.Chdir("/"); err != nil {
		return errkind.New(errkind.NamespaceFail, "chdir after chroot", err)
	}
	return nil
}

func applyMountTable(rootfs, tableFile string) error {
	f, err := os.Open(tableFile)
	if err != nil {
		return errkind.New(errkind.ConfigInvalid, "open mount table "+tableFile, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return errkind.New(errkind.ConfigInvalid, "malformed mount line: "+line, nil)
		}
		source, target := fields[0], fields[1]
		dest := target
		if rootfs != "" {
			dest = filepath.Join(rootfs, target)
		}
		if err := unix.Mount(source, dest, "", unix.MS_BIND, ""); err != nil {
			return errkind.New(errkind.NamespaceFail, "bind mount "+source+" -> "+dest, err)
		}
	}
	if err := sc.Err(); err != nil {
		return errkind.New(errkind.ConfigInvalid, "read mount table "+tableFile, err)
	}
	return nil
}
