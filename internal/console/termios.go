//go:build linux

package console

import (
	"golang.org/x/sys/unix"

	"github.com/mihalicyn/golxc/internal/errkind"
)

// SaveAndSetRaw reads fd's current termios, saves it, then applies
// the local-terminal-transparent settings the console proxy needs:
// clear ECHO/ICANON/ISIG, clear IGNBRK, keep BRKINT, VMIN=1, VTIME=0.
// Grounded on original_source/src/lxc/lxc_console.c's main(); the
// apparent `&= BRKINT` typo is resolved per DESIGN.md: BRKINT is left
// as it was, only IGNBRK is cleared from the input flags.
func SaveAndSetRaw(fd int) (saved *unix.Termios, err error) {
	saved, err = unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, errkind.New(errkind.TTYFail, "get terminal attributes", err)
	}

	tios := *saved
	tios.Iflag &^= unix.IGNBRK
	tios.Lflag &^= unix.ECHO | unix.ICANON | unix.ISIG
	tios.Cc[unix.VMIN] = 1
	tios.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TCSETSF, &tios); err != nil {
		return nil, errkind.New(errkind.TTYFail, "set terminal attributes", err)
	}
	return saved, nil
}

// Restore writes saved back to fd. Restoring after the console exit
// must yield a struct byte-identical to the one SaveAndSetRaw
// returned (spec.md §8 invariant).
func Restore(fd int, saved *unix.Termios) error {
	if err := unix.IoctlSetTermios(fd, unix.TCSETSF, saved); err != nil {
		return errkind.New(errkind.TTYFail, "restore terminal attributes", err)
	}
	return nil
}

// CopyWinsize copies from's window size onto to, used both at attach
// time and on every SIGWINCH.
func CopyWinsize(from, to int) error {
	wsz, err := unix.IoctlGetWinsize(from, unix.TIOCGWINSZ)
	if err != nil {
		return nil // matches winsz(): silently skip if TIOCGWINSZ fails
	}
	return unix.IoctlSetWinsize(to, unix.TIOCSWINSZ, wsz)
}
