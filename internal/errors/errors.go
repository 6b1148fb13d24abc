// Package errors defines the error types shared across mooring.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors that can be checked with errors.Is().
var (
	// ErrNotHeld indicates a content operation was attempted on a
	// Locker that does not currently hold a lock.
	ErrNotHeld = errors.New("no lock held")

	// ErrHeld indicates a lock attempt on a Locker that already
	// holds a lock.
	ErrHeld = errors.New("lock already held")

	// ErrBadLockName indicates a lock name that does not map to a
	// single file inside the lock directory.
	ErrBadLockName = errors.New("invalid lock name")
)

// New creates a new error with the given message.
// This is a convenience function that wraps errors.New.
func New(message string) error {
	return errors.New(message)
}

// Errorf creates a new formatted error.
// This is a convenience function that wraps fmt.Errorf.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Wrap wraps an error with a message for better context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message for better context.
func Wrapf(err error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether target is in err's chain.
// This is a convenience function that wraps errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience function that wraps errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// LockError represents a failure while operating on a lock file.
// Op names the operation that failed (open, lock, truncate, seek,
// write, sync, read, close, remove) and Err carries the underlying
// OS error, so callers can reach the errno with errors.As.
type LockError struct {
	Path string
	Op   string
	Err  error
}

// Error implements the error interface with the failing operation and path.
func (e *LockError) Error() string {
	return fmt.Sprintf("lock file %s: %s: %v", e.Path, e.Op, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *LockError) Unwrap() error {
	return e.Err
}

// NewLockError creates a new LockError with the given parameters.
func NewLockError(path, op string, err error) *LockError {
	return &LockError{
		Path: path,
		Op:   op,
		Err:  err,
	}
}
