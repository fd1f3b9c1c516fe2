//go:build linux

package console

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/mihalicyn/golxc/internal/errkind"
)

// loop is the poll-driven byte proxy described in spec.md §4.E. It is
// byte-transparent for everything except the escape sequence: every
// byte written to the controlling fd other than the escape byte and a
// following 'q' arrives on the master in order.
func (s *Session) loop() (int, error) {
	armed := false
	masterFd := int(s.master.Fd())

	for {
		fds := []unix.PollFd{
			{Fd: int32(s.controlFd), Events: unix.POLLIN | unix.POLLPRI},
			{Fd: int32(masterFd), Events: unix.POLLIN | unix.POLLPRI},
		}
		n, err := unix.Poll(fds, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return 1, errkind.New(errkind.IO, "console poll", err)
		}
		if n == 0 {
			continue
		}

		if fds[0].Revents&unix.POLLIN != 0 {
			var c [1]byte
			if _, err := (errkind.Reader{Reader: os.Stdin}).Read(c[:]); err != nil {
				return 1, errkind.New(errkind.IO, "console read stdin", err)
			}

			if c[0] == s.escapeByte {
				armed = !armed
				continue
			}
			if c[0] == 'q' && armed {
				return 0, nil
			}
			armed = false
			if _, err := (errkind.Writer{Writer: s.master}).Write(c[:]); err != nil {
				return 1, errkind.New(errkind.IO, "console write master", err)
			}
		}

		if fds[1].Revents&unix.POLLHUP != 0 {
			return 0, nil
		}

		if fds[1].Revents&unix.POLLIN != 0 {
			buf := make([]byte, 1024)
			r, err := (errkind.Reader{Reader: s.master}).Read(buf)
			if err != nil {
				return 1, errkind.New(errkind.IO, "console read master", err)
			}
			if _, err := (errkind.Writer{Writer: os.Stdout}).Write(buf[:r]); err != nil {
				return 1, errkind.New(errkind.IO, "console write stdout", err)
			}
		}
	}
}
