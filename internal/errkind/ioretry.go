//go:build linux

package errkind

import (
	"os"

	"github.com/Rican7/retry"
	"github.com/Rican7/retry/strategy"
	"golang.org/x/sys/unix"
)

// maxIORetries bounds the EAGAIN/EINTR retry loop so a genuinely wedged
// descriptor fails with IO instead of looping forever.
const maxIORetries = 1000

func retryable(err error) bool {
	var errno unix.Errno
	switch e := err.(type) {
	case unix.Errno:
		errno = e
	case *os.SyscallError:
		errno, _ = e.Err.(unix.Errno)
	case *os.PathError:
		errno, _ = e.Err.(unix.Errno)
	default:
		return false
	}
	return errno == unix.EAGAIN || errno == unix.EINTR
}

// Reader wraps an io.Reader, retrying reads that fail with EAGAIN or
// EINTR instead of surfacing them to the caller. Grounded on the retry
// predicate documented by the teacher's eagain package tests.
type Reader struct {
	Reader interface {
		Read(p []byte) (int, error)
	}
}

func (r Reader) Read(p []byte) (n int, err error) {
	retryErr := retry.Retry(func(attempt uint) error {
		n, err = r.Reader.Read(p)
		if err != nil && retryable(err) {
			return err
		}
		return nil
	}, strategy.Limit(maxIORetries))
	if retryErr != nil {
		return n, err
	}
	return n, err
}

// Writer wraps an io.Writer with the same EAGAIN/EINTR retry behavior.
type Writer struct {
	Writer interface {
		Write(p []byte) (int, error)
	}
}

func (w Writer) Write(p []byte) (n int, err error) {
	retryErr := retry.Retry(func(attempt uint) error {
		n, err = w.Writer.Write(p)
		if err != nil && retryable(err) {
			return err
		}
		return nil
	}, strategy.Limit(maxIORetries))
	if retryErr != nil {
		return n, err
	}
	return n, err
}
