//go:build linux

// Package console implements Component E: the controlling-terminal /
// pty-master event loop, window-size tracking, and escape-sequence
// recognition, grounded line-for-line on
// original_source/src/lxc/lxc_console.c.
package console

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/mihalicyn/golxc/internal/errkind"
	"github.com/mihalicyn/golxc/internal/paths"
	"github.com/mihalicyn/golxc/internal/ttyrpc"
)

// Session owns the pty master descriptor, the saved original
// terminal attributes of the controlling fd, and the escape control
// byte, per spec.md §3 "Console session".
type Session struct {
	master     *os.File
	controlFd  int
	saved      *unix.Termios
	escapeByte byte
}

// Attach resolves the pty master for the requested tty of the named
// running container, attaches the calling process's controlling
// terminal to it, and runs the proxy loop until exit. It returns the
// exit code the console command should return.
func Attach(name string, ttyIndex int, escapeExpr string) (int, error) {
	nonceDir, err := currentRunDir(name)
	if err != nil {
		return 1, err
	}
	master, err := ttyrpc.Dial(filepath.Join(nonceDir, ttyrpc.SocketName), ttyIndex)
	if err != nil {
		return 1, err
	}

	sess := &Session{
		master:     master,
		controlFd:  int(os.Stdin.Fd()),
		escapeByte: EscapeByte(escapeExpr),
	}
	return sess.run()
}

// currentRunDir locates the running container's runtime nonce
// directory. It is the only entry under $LXCPATH/<name>/run while the
// container is up (§6 "runtime nonce directory").
func currentRunDir(name string) (string, error) {
	runBase := filepath.Join(paths.ContainerDir(name), "run")
	entries, err := os.ReadDir(runBase)
	if err != nil {
		return "", errkind.New(errkind.ConfigInvalid, "container "+name+" is not running", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			return filepath.Join(runBase, e.Name()), nil
		}
	}
	return "", errkind.New(errkind.ConfigInvalid, "container "+name+" is not running", nil)
}

func (s *Session) run() (int, error) {
	saved, err := SaveAndSetRaw(s.controlFd)
	if err != nil {
		return 1, err
	}
	s.saved = saved
	defer func() {
		Restore(s.controlFd, s.saved)
		s.master.Close()
		fmt.Println()
	}()

	fmt.Fprintf(os.Stderr, "\nType <Ctrl+%c q> to exit the console\n", 'a'+s.escapeByte-1)

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	defer signal.Stop(winch)
	go func() {
		for range winch {
			CopyWinsize(s.controlFd, int(s.master.Fd()))
		}
	}()
	CopyWinsize(s.controlFd, int(s.master.Fd()))

	return s.loop()
}
