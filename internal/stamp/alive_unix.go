//go:build !windows

package stamp

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// processAlive checks for a process using signal 0, which performs
// the existence and permission checks without delivering a signal.
func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(unix.Signal(0))
	// EPERM means the process exists but belongs to someone else.
	return err == nil || errors.Is(err, unix.EPERM)
}
