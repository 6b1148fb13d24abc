// Package locker provides advisory file locking for coordinating
// independent processes on the same host. A Locker owns a lock file
// path and, while a lock is held, an open handle on it; holders can
// stamp identifying content into the file for diagnostics.
//
// Lock attempts never block: they report acquisition as a boolean and
// reserve the error return for genuine failures of the lock subsystem.
package locker

import (
	"io"
	"os"

	mooringErrors "github.com/cameronsjo/mooring/internal/errors"
)

// lockFileMode is the permission mode for newly created lock files.
const lockFileMode = 0660

// Locker coordinates access to a shared resource through an advisory
// lock on a single file. The zero value is not usable; construct with
// New. A Locker is either unheld (file is nil) or held (file is an
// open handle on path); content operations require the held state.
//
// A Locker is not safe for concurrent use by multiple goroutines;
// it models one logical lock holder.
type Locker struct {
	path string
	file *os.File
}

// New creates a Locker for the lock file at path. No file I/O occurs
// until a lock attempt.
func New(path string) *Locker {
	return &Locker{path: path}
}

// Path returns the lock file path.
func (l *Locker) Path() string {
	return l.path
}

// Held reports whether this instance currently holds a lock.
func (l *Locker) Held() bool {
	return l.file != nil
}

// ReadLock attempts to acquire a shared lock. It returns true if the
// lock was granted, false if another holder currently excludes it.
// A false return is not an error; the error return is reserved for
// failures opening the file or talking to the lock facility.
func (l *Locker) ReadLock() (bool, error) {
	return l.lock(false)
}

// WriteLock attempts to acquire an exclusive lock, with the same
// result contract as ReadLock.
func (l *Locker) WriteLock() (bool, error) {
	return l.lock(true)
}

// lock opens (creating if absent) the lock file and issues a single
// non-blocking whole-file lock request of the given kind. Shared and
// exclusive acquisition differ only in the requested lock type.
func (l *Locker) lock(exclusive bool) (bool, error) {
	if l.file != nil {
		return false, mooringErrors.NewLockError(l.path, "lock", mooringErrors.ErrHeld)
	}

	// O_CLOEXEC is implied: os.OpenFile opens with close-on-exec set,
	// so the descriptor does not leak across exec.
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, lockFileMode)
	if err != nil {
		return false, mooringErrors.NewLockError(l.path, "open", err)
	}

	acquired, err := tryLock(f, exclusive)
	if err != nil {
		_ = f.Close()
		return false, mooringErrors.NewLockError(l.path, "lock", err)
	}
	if !acquired {
		// Contention is the expected negative result, not an error.
		// Close the probe descriptor so repeated attempts don't leak.
		_ = f.Close()
		return false, nil
	}

	l.file = f
	return true, nil
}

// WriteContent replaces the lock file's content with content and
// flushes it to durable storage. The lock must be held.
func (l *Locker) WriteContent(content []byte) error {
	if l.file == nil {
		return mooringErrors.NewLockError(l.path, "write", mooringErrors.ErrNotHeld)
	}

	if err := l.file.Truncate(0); err != nil {
		return mooringErrors.NewLockError(l.path, "truncate", err)
	}
	if _, err := l.file.Seek(0, io.SeekStart); err != nil {
		return mooringErrors.NewLockError(l.path, "seek", err)
	}
	if _, err := l.file.Write(content); err != nil {
		return mooringErrors.NewLockError(l.path, "write", err)
	}
	if err := l.file.Sync(); err != nil {
		return mooringErrors.NewLockError(l.path, "sync", err)
	}
	return nil
}

// ReadContent returns the full content of the lock file. The lock
// must be held. The file position is left at end-of-file.
func (l *Locker) ReadContent() ([]byte, error) {
	if l.file == nil {
		return nil, mooringErrors.NewLockError(l.path, "read", mooringErrors.ErrNotHeld)
	}

	if _, err := l.file.Seek(0, io.SeekStart); err != nil {
		return nil, mooringErrors.NewLockError(l.path, "seek", err)
	}
	content, err := io.ReadAll(l.file)
	if err != nil {
		return nil, mooringErrors.NewLockError(l.path, "read", err)
	}
	return content, nil
}

// Unlock releases the lock, closes the handle, and removes the lock
// file. Calling Unlock on an unheld Locker is a no-op, so repeated
// calls are safe.
//
// If closing the handle fails, the Locker stays held so the caller
// can retry. If removing the file fails, the handle is already gone
// and the Locker transitions to unheld; the removal error is still
// reported. A lock file that has already disappeared counts as
// removed.
func (l *Locker) Unlock() error {
	if l.file == nil {
		return nil
	}

	unlockFile(l.file)

	if err := l.file.Close(); err != nil {
		return mooringErrors.NewLockError(l.path, "close", err)
	}
	l.file = nil

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return mooringErrors.NewLockError(l.path, "remove", err)
	}
	return nil
}

// Close releases the lock and discards any error. It exists for
// defer: teardown must never propagate a cleanup failure. Callers
// that want to observe unlock errors should call Unlock first.
func (l *Locker) Close() {
	_ = l.Unlock()
}
