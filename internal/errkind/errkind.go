// Package errkind defines the closed error taxonomy shared by every
// component of the container core, plus the interrupted-syscall retry
// helpers used anywhere a blocking read or write crosses a kernel boundary.
package errkind

import "fmt"

// Kind is a closed set of error categories. Every fallible operation in
// the core returns an error carrying one of these, never a bare errno.
type Kind int

const (
	// Unknown is never returned deliberately; its presence in a log
	// indicates a wrapping bug, not a taxonomy gap.
	Unknown Kind = iota
	ConfigInvalid
	NetNotFound
	NetExists
	NetPerm
	NetBusy
	NetInval
	NetIO
	SyncDesync
	PeerAbort
	NamespaceFail
	ExecFail
	TTYFail
	IO
)

func (k Kind) String() string {
	switch k {
	case ConfigInvalid:
		return "CONFIG_INVALID"
	case NetNotFound:
		return "NET_NOTFOUND"
	case NetExists:
		return "NET_EXISTS"
	case NetPerm:
		return "NET_PERM"
	case NetBusy:
		return "NET_BUSY"
	case NetInval:
		return "NET_INVAL"
	case NetIO:
		return "NET_IO"
	case SyncDesync:
		return "SYNC_DESYNC"
	case PeerAbort:
		return "PEER_ABORT"
	case NamespaceFail:
		return "NAMESPACE_FAIL"
	case ExecFail:
		return "EXEC_FAIL"
	case TTYFail:
		return "TTY_FAIL"
	case IO:
		return "IO"
	default:
		return "UNKNOWN"
	}
}

// Error wraps an underlying error with its Kind and a short context
// string identifying the failing step. Callers bubble it unchanged to
// the top of the launch/console driver, where it is logged exactly once.
type Error struct {
	Kind    Kind
	Context string
	Err     error
}

func New(kind Kind, context string, err error) *Error {
	return &Error{Kind: kind, Context: context, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Context)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the Kind from err if it (or something it wraps) is an
// *Error; otherwise it returns Unknown.
func KindOf(err error) Kind {
	var e *Error
	if As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// As is a thin indirection over errors.As kept local so callers only
// need to import this package when working with the taxonomy.
func As(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
