//go:build linux

package launch

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/pkg/xattr"

	"github.com/mihalicyn/golxc/internal/errkind"
	"github.com/mihalicyn/golxc/internal/lxcconf"
	"github.com/mihalicyn/golxc/internal/netops"
	"github.com/mihalicyn/golxc/internal/paths"
	"github.com/mihalicyn/golxc/internal/rtctx"
	"github.com/mihalicyn/golxc/internal/syncchan"
	"github.com/mihalicyn/golxc/internal/ttyrpc"
)

// stateXattr stamps the runtime nonce directory with the handler's
// current state, a cheap on-disk breadcrumb an operator (or a crashed
// daemon's next invocation) can inspect without a live process to ask.
const stateXattr = "user.golxc.state"

// New creates a Handler bound to one container configuration; it does
// not start anything.
func New(ctx *rtctx.Ctx, conf *lxcconf.Conf) *Handler {
	return &Handler{Name: conf.Name, Conf: conf, State: Stopped, ctx: ctx}
}

// Start runs the nine-step launch protocol of spec.md §4.D. initProgram
// defaults to /sbin/init when empty, matching "start receives no
// command" in spec.md §6.
func (h *Handler) Start(initProgram string, initArgs []string) error {
	if initProgram == "" {
		initProgram = "/sbin/init"
	}

	// Step 1: allocate the sync channel, pre-open ttys, enter STARTING.
	pair, err := syncchan.New()
	if err != nil {
		return err
	}
	h.sync = pair
	if err := h.allocatePtys(); err != nil {
		pair.ParentEnd.Close()
		pair.ChildEnd.Close()
		return err
	}

	nonce := uuid.New().String()
	h.nonceDir = paths.RunDir(h.Name, nonce)
	if err := os.MkdirAll(h.nonceDir, 0700); err != nil {
		h.closePtys()
		pair.ParentEnd.Close()
		pair.ChildEnd.Close()
		return errkind.New(errkind.IO, "create runtime directory", err)
	}
	h.State = Starting
	h.stampState()

	h.CloneFlags = h.computeCloneFlags()

	wire := &wireData{
		Conf:         h.Conf,
		NonceDir:     h.nonceDir,
		InitProgram:  initProgram,
		InitArgs:     initArgs,
		SyncFD:       3,
		SlaveFDStart: 4,
	}
	encoded, err := encodeWire(wire)
	if err != nil {
		h.abortUnforked(err)
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		h.abortUnforked(err)
		return errkind.New(errkind.ExecFail, "resolve own executable", err)
	}

	// Step 2/3: fork via re-exec with the clone-flag bitmask; the
	// child's end of the sync channel and every tty slave are its only
	// inherited descriptors beyond stdio.
	extraFiles := append([]*os.File{h.sync.ChildEnd}, h.ttySlaves...)
	cmd := exec.Command(exe)
	cmd.Args = []string{ReExecMarker}
	cmd.Env = append(os.Environ(), fmt.Sprintf("%s=%s", envWireKey, encoded))
	cmd.ExtraFiles = extraFiles
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Cloneflags: h.CloneFlags,
		Pdeathsig:  syscall.SIGKILL,
	}

	if err := cmd.Start(); err != nil {
		h.abortUnforked(errkind.New(errkind.NamespaceFail, "fork container init", err))
		return errkind.New(errkind.NamespaceFail, "fork container init", err)
	}
	h.cmd = cmd
	h.Pid = cmd.Process.Pid

	// P closes child_end; the child's copy (inherited via ExtraFiles)
	// is the one that must survive to be closed by its own execve.
	h.sync.ChildEnd.Close()
	ep := syncchan.NewEndpoint(h.sync.ParentEnd)

	if err := h.runParentHandshake(ep); err != nil {
		h.ctx.Log.WithError(err).Warnf("launch %s aborting", h.Name)
		h.State = Aborting
		h.stampState()
		ep.Abort()
		h.rollbackHostVeths()
		h.reap()
		h.closePtys()
		h.State = Stopped
		h.stampState()
		return err
	}

	h.State = Running
	h.stampState()
	h.closeSlaves() // parent keeps only the masters — slaves belong to the child now
	h.startControlSocket()
	return nil
}

// runParentHandshake drives steps 5/7/9 of the protocol: wait for the
// child at each barrier, do the parent-owned work in between, and
// finally observe the child's execve as a clean close.
func (h *Handler) runParentHandshake(ep *syncchan.Endpoint) error {
	if err := ep.Wait(syncchan.PostConfigure); err != nil {
		return err
	}

	if names, err := netops.ListInterfaces(); err != nil {
		h.ctx.Log.WithError(err).Debug("failed to list host interfaces before network setup")
	} else {
		h.ctx.Log.WithField("interfaces", names).Debug("host interfaces before network setup")
	}

	pending, err := h.createHostSide()
	if err != nil {
		return err
	}
	if err := sendPending(ep, pending); err != nil {
		return err
	}
	if err := h.moveToChild(pending, h.Pid); err != nil {
		return err
	}
	if err := verifyMoved(pending, h.Pid); err != nil {
		return err
	}
	if err := ep.Wake(syncchan.PostNetwork); err != nil {
		return err
	}

	if err := ep.Wait(syncchan.PostNetwork); err != nil {
		return err
	}

	if err := h.attachCgroups(h.Pid); err != nil {
		return err
	}
	if err := ep.Wake(syncchan.PostCgroup); err != nil {
		return err
	}

	// Step 9: the child execve's init next; its sync fd closes
	// implicitly, and this Wait returns success on that clean EOF.
	return ep.Wait(syncchan.PostStart)
}

func (h *Handler) abortUnforked(err error) {
	h.ctx.Log.WithError(err).Warnf("launch %s failed before fork", h.Name)
	h.State = Aborting
	h.closePtys()
	h.sync.ParentEnd.Close()
	h.sync.ChildEnd.Close()
	h.State = Stopped
	h.stampState()
}

func (h *Handler) reap() {
	if h.cmd == nil || h.cmd.Process == nil {
		return
	}
	h.cmd.Process.Kill()
	h.cmd.Wait()
}

func (h *Handler) stampState() {
	if h.nonceDir == "" {
		return
	}
	if err := xattr.Set(h.nonceDir, stateXattr, []byte(h.State.String())); err != nil {
		h.ctx.Log.WithError(err).Debug("failed to stamp runtime state xattr")
	}
}

// startControlSocket opens the ttyrpc listener the console proxy
// (Component E) dials to obtain a running container's pty masters.
func (h *Handler) startControlSocket() {
	sockPath := filepath.Join(h.nonceDir, ttyrpc.SocketName)
	l, err := net.ListenUnix("unix", &net.UnixAddr{Name: sockPath, Net: "unix"})
	if err != nil {
		h.ctx.Log.WithError(err).Warn("failed to open console control socket")
		return
	}
	h.ctlListener = l
	go ttyrpc.Serve(l, h.resolveTTY)
}

func (h *Handler) resolveTTY(index int) (*os.File, error) {
	if index < 0 || index >= len(h.ttyMasters) {
		return nil, errkind.New(errkind.TTYFail, "no such tty", nil)
	}
	return h.ttyMasters[index], nil
}

// Wait blocks until the container's init process exits and returns its
// exit status, transitioning STOPPING then STOPPED.
func (h *Handler) Wait() (int, error) {
	h.State = Stopping
	h.stampState()
	err := h.cmd.Wait()
	if h.ctlListener != nil {
		h.ctlListener.Close()
	}
	for _, m := range h.ttyMasters {
		m.Close()
	}
	h.State = Stopped
	h.stampState()
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return -1, errkind.New(errkind.IO, "wait for container init", err)
}
