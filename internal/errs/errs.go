// Package errs defines the categorical error kinds surfaced by sealfile's
// encryption core.
package errs

import (
	"errors"
	"fmt"
)

// Kind is a categorical error classification. The CLI maps a Kind to the
// single-line, non-zero-exit message shown to the user.
type Kind int

const (
	// KindUnknown is the zero value and should never be returned.
	KindUnknown Kind = iota
	KindIoError
	KindMalformedContainer
	KindMalformedStream
	KindAuthenticationFailed
	KindKeyMismatch
	KindEmptyPassword
	KindEmptyKeyfile
	KindKdfError
	KindCipherError
	KindSameFile
	KindPathTraversal
	KindStreamTooLong
	KindInternalError
)

func (k Kind) String() string {
	switch k {
	case KindIoError:
		return "IoError"
	case KindMalformedContainer:
		return "MalformedContainer"
	case KindMalformedStream:
		return "MalformedStream"
	case KindAuthenticationFailed:
		return "AuthenticationFailed"
	case KindKeyMismatch:
		return "KeyMismatch"
	case KindEmptyPassword:
		return "EmptyPassword"
	case KindEmptyKeyfile:
		return "EmptyKeyfile"
	case KindKdfError:
		return "KdfError"
	case KindCipherError:
		return "CipherError"
	case KindSameFile:
		return "SameFile"
	case KindPathTraversal:
		return "PathTraversal"
	case KindStreamTooLong:
		return "StreamTooLong"
	case KindInternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// Error wraps an operation name, a categorical Kind, and the underlying
// cause so callers can both log a human message and branch on Kind via
// errors.As.
type Error struct {
	Op   string
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sealfile.%s: %s: %s: %v", e.Op, e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("sealfile.%s: %s: %s", e.Op, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, errs.New("", errs.KindAuthenticationFailed, "")).
func (e *Error) Is(target error) bool {
	var te *Error
	if errors.As(target, &te) {
		return te.Kind == e.Kind
	}
	return false
}

// New constructs an *Error.
func New(op string, kind Kind, msg string) *Error {
	return &Error{Op: op, Kind: kind, Msg: msg}
}

// Wrap constructs an *Error wrapping an underlying cause.
func Wrap(op string, kind Kind, msg string, err error) *Error {
	return &Error{Op: op, Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the Kind from err, or KindUnknown if err is not (or does
// not wrap) a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
