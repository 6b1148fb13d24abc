//go:build windows

package locker

import (
	"os"

	"golang.org/x/sys/windows"
)

// tryLock issues a single non-blocking LockFileEx request. Every
// Locker locks the same single byte at offset zero, which gives
// whole-file semantics: shared requests coexist, exclusive requests
// exclude everyone.
func tryLock(f *os.File, exclusive bool) (bool, error) {
	flags := uint32(windows.LOCKFILE_FAIL_IMMEDIATELY)
	if exclusive {
		flags |= windows.LOCKFILE_EXCLUSIVE_LOCK
	}

	overlapped := &windows.Overlapped{}
	err := windows.LockFileEx(
		windows.Handle(f.Fd()),
		flags,
		0,          // reserved
		1,          // lock 1 byte
		0,          // high-order size (0 for small files)
		overlapped, // overlapped structure
	)
	if err == nil {
		return true, nil
	}
	if err == windows.ERROR_LOCK_VIOLATION {
		return false, nil
	}
	return false, err
}

// unlockFile releases the locked region before close.
func unlockFile(f *os.File) {
	overlapped := &windows.Overlapped{}
	_ = windows.UnlockFileEx(
		windows.Handle(f.Fd()),
		0,          // reserved
		1,          // unlock 1 byte
		0,          // high-order size
		overlapped, // overlapped structure
	)
}
