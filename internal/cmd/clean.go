package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/mooring/internal/locker"
	"github.com/cameronsjo/mooring/internal/ui"
)

var cleanDryRun bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove lock files left behind by dead holders",
	Long: `Remove lock files whose holder no longer exists.

Each lock file is probed with a non-waiting exclusive lock attempt:
a file that can be locked has no holder, so it is a leftover from a
crashed process and gets removed. Locks that are in use are never
touched.

With --dry-run, holders are only checked against their stamped pid
and nothing is removed.`,
	Run: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&cleanDryRun, "dry-run", "n", false, "Only report what would be removed")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	entries, err := os.ReadDir(cfg.LockDir)
	if err != nil {
		ui.Fatal("Failed to read lock directory %s: %v", cfg.LockDir, err)
	}

	removed, kept := 0, 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := cfg.NameFor(entry.Name())
		if !ok {
			continue
		}
		path := filepath.Join(cfg.LockDir, entry.Name())

		if cleanDryRun {
			if s, stamped := readStamp(path); stamped && s.Alive() {
				kept++
				continue
			}
			ui.Warning("Would remove %s", name)
			removed++
			continue
		}

		lk := locker.New(path)
		acquired, err := lk.WriteLock()
		if err != nil {
			ui.Warning("Skipping %s: %v", name, err)
			continue
		}
		if !acquired {
			// Someone holds it; leave it alone.
			kept++
			continue
		}

		// Nobody held the lock, so the file is a leftover. Unlock
		// removes it.
		if err := lk.Unlock(); err != nil {
			ui.Warning("Failed to remove %s: %v", name, err)
			continue
		}
		ui.Success("Removed stale lock %s", name)
		removed++
	}

	switch {
	case cleanDryRun:
		ui.Info("%d stale, %d in use", removed, kept)
	case removed == 0 && kept == 0:
		ui.Info("No locks in %s", cfg.LockDir)
	default:
		ui.Info("Removed %d, kept %d", removed, kept)
	}
}
