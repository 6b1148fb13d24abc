package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsjo/mooring/internal/config"
	"github.com/cameronsjo/mooring/internal/locker"
	"github.com/cameronsjo/mooring/internal/stamp"
)

// staleLockFile writes a lock file stamped with a pid that cannot be
// running, without holding any lock on it.
func staleLockFile(t *testing.T, dir, name string) string {
	t.Helper()
	s := stamp.New()
	s.PID = 1 << 29
	data, err := s.Encode()
	require.NoError(t, err)
	path := filepath.Join(dir, name+".lock")
	require.NoError(t, os.WriteFile(path, data, 0660))
	return path
}

func TestCleanCmd_RemovesStaleKeepsHeld(t *testing.T) {
	lockDir := t.TempDir()
	t.Setenv(config.EnvLockDir, lockDir)

	stalePath := staleLockFile(t, lockDir, "stale")

	// A lock that is actively held must survive clean.
	held := locker.New(filepath.Join(lockDir, "busy.lock"))
	acquired, err := held.WriteLock()
	require.NoError(t, err)
	require.True(t, acquired)
	defer held.Close()

	_, err = executeCmd(t, "clean")
	require.NoError(t, err)

	_, statErr := os.Stat(stalePath)
	assert.True(t, os.IsNotExist(statErr), "stale lock should be removed")

	_, statErr = os.Stat(held.Path())
	assert.NoError(t, statErr, "held lock must not be touched")
	assert.True(t, held.Held())
}

func TestCleanCmd_DryRunRemovesNothing(t *testing.T) {
	lockDir := t.TempDir()
	t.Setenv(config.EnvLockDir, lockDir)

	stalePath := staleLockFile(t, lockDir, "stale")

	_, err := executeCmd(t, "clean", "--dry-run")
	require.NoError(t, err)

	_, statErr := os.Stat(stalePath)
	assert.NoError(t, statErr, "dry run must not remove anything")
}
