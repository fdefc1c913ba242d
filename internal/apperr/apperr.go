// Package apperr defines the failure kinds surfaced by the persistence layer.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a persistence failure.
type Kind string

const (
	KindPathResolution Kind = "path_resolution"
	KindIO             Kind = "io"
	KindParse          Kind = "parse"
	KindSerialization  Kind = "serialization"
	KindUserCancelled  Kind = "user_cancelled"
)

// Error is a classified failure. Op names the step that failed and Path the file
// involved, when there is one.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Kind == KindUserCancelled {
		// cancellation carries only its user-facing message
		if e.Err != nil {
			return e.Err.Error()
		}
		return "cancelled"
	}

	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		if msg != "" {
			msg += ": "
		}
		msg += e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a classified error.
func New(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// PathResolution reports that the application-data directory could not be determined.
func PathResolution(op string, err error) *Error {
	return New(KindPathResolution, op, "", err)
}

// IO reports a read, write or mkdir failure on path.
func IO(op, path string, err error) *Error {
	return New(KindIO, op, path, err)
}

// Parse reports that the file at path does not hold valid JSON.
func Parse(path string, err error) *Error {
	return New(KindParse, "parse", path, err)
}

// Serialization reports a value that could not be encoded.
func Serialization(err error) *Error {
	return New(KindSerialization, "serialize", "", err)
}

// Cancelled reports that the user dismissed a dialog; message is shown as is.
func Cancelled(message string) *Error {
	return New(KindUserCancelled, "", "", errors.New(message))
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsCancelled reports whether err is a user cancellation.
func IsCancelled(err error) bool {
	return Is(err, KindUserCancelled)
}

// Errorf is a convenience for wrapping with a kind and a formatted cause.
func Errorf(kind Kind, op, path, format string, args ...any) *Error {
	return New(kind, op, path, fmt.Errorf(format, args...))
}
