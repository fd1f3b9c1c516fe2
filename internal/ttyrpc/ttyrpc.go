//go:build linux

// Package ttyrpc is the narrow control-socket protocol the console
// proxy (Component E) uses to obtain a running container's pty
// master descriptor from the launch parent that owns it (Component
// D). It is a supplemented piece of plumbing SPEC_FULL.md's "Resolves
// a pty master for the requested tty (delegated; see §6)" requires
// but leaves unspecified at the wire level; no pack example covers
// fd-passing, so this is built directly on stdlib net.UnixConn +
// syscall.UnixRights, the correct tool for SCM_RIGHTS (see DESIGN.md).
package ttyrpc

import (
	"fmt"
	"net"
	"os"
	"syscall"

	"github.com/mihalicyn/golxc/internal/errkind"
)

// SocketName is the fixed file name of the control socket inside a
// container's runtime nonce directory.
const SocketName = "control.sock"

// Serve accepts connections on the listener, serving each in its own
// goroutine: it reads a single byte tty index per connection and
// replies with a status byte that carries the fd returned by
// resolve(index) via SCM_RIGHTS. It runs until the
// listener is closed, which the handler (parent, on STOPPING) does.
func Serve(l *net.UnixListener, resolve func(index int) (*os.File, error)) {
	for {
		conn, err := l.AcceptUnix()
		if err != nil {
			return
		}
		go serveOne(conn, resolve)
	}
}

func serveOne(conn *net.UnixConn, resolve func(index int) (*os.File, error)) {
	defer conn.Close()
	buf := make([]byte, 1)
	if _, err := conn.Read(buf); err != nil {
		return
	}
	master, err := resolve(int(buf[0]))
	if err != nil {
		conn.Write([]byte{1})
		return
	}
	// The status byte and the fd travel in one message: Dial reads a
	// single byte, and a stream socket only delivers the rights attached
	// to the bytes that read actually consumes.
	rights := syscall.UnixRights(int(master.Fd()))
	conn.WriteMsgUnix([]byte{0}, rights, nil)
}

// Dial connects to the container's control socket and requests the
// master descriptor for ttyIndex, returning it as an *os.File the
// caller owns.
func Dial(socketPath string, ttyIndex int) (*os.File, error) {
	conn, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: socketPath, Net: "unix"})
	if err != nil {
		return nil, errkind.New(errkind.IO, "dial console control socket", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte{byte(ttyIndex)}); err != nil {
		return nil, errkind.New(errkind.IO, "request tty", err)
	}

	status := make([]byte, 1)
	oob := make([]byte, syscall.CmsgSpace(4))
	n, oobn, _, _, err := conn.ReadMsgUnix(status, oob)
	if err != nil {
		return nil, errkind.New(errkind.IO, "read tty response", err)
	}
	if n != 1 || status[0] != 0 {
		return nil, errkind.New(errkind.TTYFail, "no such tty", nil)
	}

	cmsgs, err := syscall.ParseSocketControlMessage(oob[:oobn])
	if err != nil || len(cmsgs) == 0 {
		return nil, errkind.New(errkind.TTYFail, "no fd in tty response", err)
	}
	fds, err := syscall.ParseUnixRights(&cmsgs[0])
	if err != nil || len(fds) == 0 {
		return nil, errkind.New(errkind.TTYFail, "parse tty response fds", err)
	}
	return os.NewFile(uintptr(fds[0]), fmt.Sprintf("tty%d-master", ttyIndex)), nil
}
