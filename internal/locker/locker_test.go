package locker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mooringErrors "github.com/cameronsjo/mooring/internal/errors"
)

func lockPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "resource.lock")
}

func TestNew(t *testing.T) {
	path := lockPath(t)
	lk := New(path)
	assert.Equal(t, path, lk.Path())
	assert.False(t, lk.Held())

	// Construction does no I/O.
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteLock_CreatesFile(t *testing.T) {
	path := lockPath(t)
	lk := New(path)
	defer lk.Close()

	acquired, err := lk.WriteLock()
	require.NoError(t, err)
	assert.True(t, acquired)
	assert.True(t, lk.Held())

	// The lock file exists once a lock attempt has been made.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestWriteLock_Contention(t *testing.T) {
	path := lockPath(t)
	holder := New(path)
	defer holder.Close()

	acquired, err := holder.WriteLock()
	require.NoError(t, err)
	require.True(t, acquired)

	// A second independent holder must be refused, not errored.
	rival := New(path)
	defer rival.Close()
	acquired, err = rival.WriteLock()
	require.NoError(t, err)
	assert.False(t, acquired)
	assert.False(t, rival.Held())
	assert.True(t, holder.Held())

	// A failed attempt still leaves the lock file in place.
	_, err = os.Stat(path)
	require.NoError(t, err)

	// Once released, the rival succeeds immediately.
	require.NoError(t, holder.Unlock())
	acquired, err = rival.WriteLock()
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestReadLocks_Coexist(t *testing.T) {
	path := lockPath(t)
	first := New(path)
	second := New(path)
	defer first.Close()
	defer second.Close()

	acquired, err := first.ReadLock()
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, err = second.ReadLock()
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestReadAndWriteLocks_Exclude(t *testing.T) {
	t.Run("shared blocks exclusive", func(t *testing.T) {
		path := lockPath(t)
		reader := New(path)
		defer reader.Close()

		acquired, err := reader.ReadLock()
		require.NoError(t, err)
		require.True(t, acquired)

		writer := New(path)
		defer writer.Close()
		acquired, err = writer.WriteLock()
		require.NoError(t, err)
		assert.False(t, acquired)
	})

	t.Run("exclusive blocks shared", func(t *testing.T) {
		path := lockPath(t)
		writer := New(path)
		defer writer.Close()

		acquired, err := writer.WriteLock()
		require.NoError(t, err)
		require.True(t, acquired)

		reader := New(path)
		defer reader.Close()
		acquired, err = reader.ReadLock()
		require.NoError(t, err)
		assert.False(t, acquired)
	})
}

func TestContent_RoundTrip(t *testing.T) {
	lk := New(lockPath(t))
	defer lk.Close()

	acquired, err := lk.WriteLock()
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, lk.WriteContent([]byte("X")))
	content, err := lk.ReadContent()
	require.NoError(t, err)
	assert.Equal(t, []byte("X"), content)

	// Overwrite truncates rather than appends.
	require.NoError(t, lk.WriteContent([]byte("YY")))
	content, err = lk.ReadContent()
	require.NoError(t, err)
	assert.Equal(t, []byte("YY"), content)

	// And shrinking works too.
	require.NoError(t, lk.WriteContent([]byte("Z")))
	content, err = lk.ReadContent()
	require.NoError(t, err)
	assert.Equal(t, []byte("Z"), content)
}

func TestContent_RequiresHeldLock(t *testing.T) {
	lk := New(lockPath(t))

	err := lk.WriteContent([]byte("orphan"))
	require.Error(t, err)
	assert.True(t, mooringErrors.Is(err, mooringErrors.ErrNotHeld))

	_, err = lk.ReadContent()
	require.Error(t, err)
	assert.True(t, mooringErrors.Is(err, mooringErrors.ErrNotHeld))

	var lockErr *mooringErrors.LockError
	require.True(t, mooringErrors.As(err, &lockErr))
	assert.Equal(t, lk.Path(), lockErr.Path)
}

func TestContent_AfterFailedAttempt(t *testing.T) {
	path := lockPath(t)
	holder := New(path)
	defer holder.Close()

	acquired, err := holder.WriteLock()
	require.NoError(t, err)
	require.True(t, acquired)

	// A refused attempt must not leave the rival usable for content
	// operations.
	rival := New(path)
	acquired, err = rival.WriteLock()
	require.NoError(t, err)
	require.False(t, acquired)

	err = rival.WriteContent([]byte("sneak"))
	assert.True(t, mooringErrors.Is(err, mooringErrors.ErrNotHeld))
}

func TestUnlock_RemovesFile(t *testing.T) {
	path := lockPath(t)
	lk := New(path)

	acquired, err := lk.WriteLock()
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, lk.Unlock())
	assert.False(t, lk.Held())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// A fresh holder succeeds immediately on the same path.
	next := New(path)
	defer next.Close()
	acquired, err = next.WriteLock()
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestUnlock_Twice(t *testing.T) {
	lk := New(lockPath(t))

	acquired, err := lk.WriteLock()
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, lk.Unlock())
	require.NoError(t, lk.Unlock())
}

func TestUnlock_WithoutLock(t *testing.T) {
	lk := New(lockPath(t))
	require.NoError(t, lk.Unlock())
}

func TestUnlock_ToleratesMissingFile(t *testing.T) {
	path := lockPath(t)
	lk := New(path)

	acquired, err := lk.WriteLock()
	require.NoError(t, err)
	require.True(t, acquired)

	// Someone removed the lock file out from under us; the unlock
	// postcondition (file absent, lock released) still holds.
	require.NoError(t, os.Remove(path))
	require.NoError(t, lk.Unlock())
	assert.False(t, lk.Held())
}

func TestClose_CleansUp(t *testing.T) {
	path := lockPath(t)
	lk := New(path)

	acquired, err := lk.WriteLock()
	require.NoError(t, err)
	require.True(t, acquired)

	// Teardown without an explicit Unlock still removes the file.
	lk.Close()
	assert.False(t, lk.Held())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Close is repeat-safe as well.
	lk.Close()
}

func TestLock_WhileAlreadyHeld(t *testing.T) {
	lk := New(lockPath(t))
	defer lk.Close()

	acquired, err := lk.WriteLock()
	require.NoError(t, err)
	require.True(t, acquired)

	_, err = lk.WriteLock()
	require.Error(t, err)
	assert.True(t, mooringErrors.Is(err, mooringErrors.ErrHeld))

	_, err = lk.ReadLock()
	require.Error(t, err)
	assert.True(t, mooringErrors.Is(err, mooringErrors.ErrHeld))

	// The original lock survives the rejected attempts.
	assert.True(t, lk.Held())
	require.NoError(t, lk.WriteContent([]byte("still mine")))
}

func TestLock_OpenFailureIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "resource.lock")
	lk := New(path)

	acquired, err := lk.WriteLock()
	assert.False(t, acquired)
	require.Error(t, err)

	var lockErr *mooringErrors.LockError
	require.True(t, mooringErrors.As(err, &lockErr))
	assert.Equal(t, "open", lockErr.Op)
	assert.Equal(t, path, lockErr.Path)
}

func TestLock_RepeatedFailedAttempts(t *testing.T) {
	path := lockPath(t)
	holder := New(path)
	defer holder.Close()

	acquired, err := holder.WriteLock()
	require.NoError(t, err)
	require.True(t, acquired)

	// Refused attempts close their probe descriptor, so hammering
	// the lock must not error or disturb the holder.
	rival := New(path)
	for i := 0; i < 50; i++ {
		acquired, err = rival.WriteLock()
		require.NoError(t, err)
		require.False(t, acquired)
	}
	assert.True(t, holder.Held())
}
