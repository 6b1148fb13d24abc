//go:build !windows

package locker

import (
	"os"

	"golang.org/x/sys/unix"
)

// tryLock issues a single non-blocking flock(2) request covering the
// whole file. It returns false with a nil error when another open
// descriptor holds a conflicting lock.
func tryLock(f *os.File, exclusive bool) (bool, error) {
	how := unix.LOCK_SH
	if exclusive {
		how = unix.LOCK_EX
	}

	err := unix.Flock(int(f.Fd()), how|unix.LOCK_NB)
	if err == nil {
		return true, nil
	}

	// Older systems report EWOULDBLOCK and EAGAIN as distinct codes;
	// some lock facilities surface contention as EACCES. All three
	// mean "held elsewhere".
	if err == unix.EWOULDBLOCK || err == unix.EAGAIN || err == unix.EACCES {
		return false, nil
	}
	return false, err
}

// unlockFile drops the lock before the descriptor is closed. Close
// would release it anyway; doing it explicitly keeps the release
// visible at the call site. Errors are ignored because close follows
// immediately.
func unlockFile(f *os.File) {
	_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
