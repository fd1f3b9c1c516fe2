//go:build linux

// Package syncchan implements Component C: the strictly ordered
// parent/child step-coordination primitive used by the launch
// protocol. Grounded line-for-line on original_source/src/lxc/sync.c
// (__sync_wake/__sync_wait/__sync_barrier, the LXC_SYNC_ERROR
// sentinel, and the socketpair-with-CLOEXEC construction).
package syncchan

import (
	"encoding/binary"
	"io"
	"os"
	"syscall"

	"github.com/mihalicyn/golxc/internal/errkind"
)

// ErrorSentinel is the reserved value a side writes to signal that it
// is aborting the launch; the peer observes it on its next Wait and
// fails with PEER_ABORT.
const ErrorSentinel int32 = -1

// Pair is a connected byte-stream pair. ParentEnd and ChildEnd are
// each held by exactly one process after fork; the peer's end is
// closed before the handshake begins (see SPEC_FULL.md §3 invariants).
type Pair struct {
	ParentEnd *os.File
	ChildEnd  *os.File
}

// New creates a Unix-domain socketpair and sets CLOEXEC on the
// child's descriptor only; the parent's end has no CLOEXEC. The flag
// does not reach the re-executed child: os/exec installs ExtraFiles in
// the child without CLOEXEC, so the child sets it again on its own end
// right before it execve's the container's init program (step 8, see
// childinit.go). That second flag is what closes the child's end at
// execve and gives the parent its "wait -> 0" observation at
// POST_START (see DESIGN.md).
func New() (*Pair, error) {
	fds, err := syscall.Socketpair(syscall.AF_UNIX, syscall.SOCK_STREAM, 0)
	if err != nil {
		return nil, errkind.New(errkind.IO, "create sync socketpair", err)
	}
	parent := os.NewFile(uintptr(fds[0]), "sync-parent")
	child := os.NewFile(uintptr(fds[1]), "sync-child")
	if err := syscall.CloseOnExec(fds[1]); err != nil {
		parent.Close()
		child.Close()
		return nil, errkind.New(errkind.IO, "set CLOEXEC on sync child end", err)
	}
	return &Pair{ParentEnd: parent, ChildEnd: child}, nil
}

// Endpoint is one side of the pair as seen by a single process after
// it has closed its peer's end.
type Endpoint struct {
	f *os.File
}

func NewEndpoint(f *os.File) *Endpoint { return &Endpoint{f: f} }

func (e *Endpoint) Close() error { return e.f.Close() }

// File returns the underlying descriptor, for the one caller
// (childinit, step 8) that must set CLOEXEC on it explicitly right
// before its own execve.
func (e *Endpoint) File() *os.File { return e.f }

// Wake writes the 4-byte integer n to the endpoint. Fails with IO if
// the peer has already closed its end.
func (e *Endpoint) Wake(n int32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(n))
	if _, err := e.f.Write(buf[:]); err != nil {
		return errkind.New(errkind.IO, "sync wake", err)
	}
	return nil
}

// Wait reads a 4-byte integer and compares it to the expected value
// n. A clean peer close (zero-length read, io.EOF) is treated as
// success — equivalent to reaching the final step, per the resolved
// Open Question in SPEC_FULL.md/DESIGN.md. SYNC_ERROR fails with
// PEER_ABORT; any other mismatch fails with SYNC_DESYNC.
func (e *Endpoint) Wait(n int32) error {
	var buf [4]byte
	_, err := io.ReadFull(e.f, buf[:])
	if err == io.EOF {
		return nil
	}
	if err == io.ErrUnexpectedEOF {
		return errkind.New(errkind.SyncDesync, "sync wait: short read", err)
	}
	if err != nil {
		return errkind.New(errkind.IO, "sync wait", err)
	}
	got := int32(binary.LittleEndian.Uint32(buf[:]))
	if got == ErrorSentinel {
		return errkind.New(errkind.PeerAbort, "sync wait", nil)
	}
	if got != n {
		return errkind.New(errkind.SyncDesync, "sync wait", nil)
	}
	return nil
}

// Barrier composes Wake(n) followed by Wait(n+1), the shape every
// launch protocol step uses (SPEC_FULL.md §4.C/§4.D).
func (e *Endpoint) Barrier(n int32) error {
	if err := e.Wake(n); err != nil {
		return err
	}
	return e.Wait(n + 1)
}

// Abort writes SYNC_ERROR, signalling the peer to abort cleanly on
// its next Wait.
func (e *Endpoint) Abort() error {
	return e.Wake(ErrorSentinel)
}

// Launch protocol sync points, matching SPEC_FULL.md §4.D / spec.md §4.C.
const (
	PostConfigure int32 = 1
	PostNetwork   int32 = 2
	PostCgroup    int32 = 3
	PostStart     int32 = 4
)
