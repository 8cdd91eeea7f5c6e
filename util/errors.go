package util

import (
	"errors"
	"fmt"
	"syscall"
)

// Sentinel errors for package util.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Construction errors
	ErrExpectedFile     = errors.New("expected file, got directory")
	ErrNoInputs         = errors.New("no input files given")
	ErrInvalidChunkSize = errors.New("chunk size must be positive")

	// Resolution errors
	ErrNotFound      = errors.New("no such entry")
	ErrInvalidHandle = errors.New("handle does not name an entry in this mode")
	ErrIsDirectory   = errors.New("handle names the root directory")

	// Read errors
	ErrOutOfRange = errors.New("offset beyond end of data")

	// Rename errors
	ErrNameExists  = errors.New("name already in use by another entry")
	ErrInvalidName = errors.New("invalid entry name")
)

// IOError reports a failed open or read against a backing file. Errno is
// the platform error code of the failing call.
type IOError struct {
	Op    string
	Path  string
	Errno syscall.Errno
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Errno)
}

func (e *IOError) Unwrap() error {
	return e.Errno
}

func ioError(op, path string, err error) error {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		errno = syscall.EIO
	}
	return &IOError{Op: op, Path: path, Errno: errno}
}
