package cmd

import (
	"os"

	"github.com/cameronsjo/mooring/internal/config"
	"github.com/cameronsjo/mooring/internal/locker"
	"github.com/cameronsjo/mooring/internal/stamp"
	"github.com/cameronsjo/mooring/internal/ui"
)

// loadConfig resolves the configuration and makes sure the lock
// directory exists. Failures here are unrecoverable for every command.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		ui.Fatal("Failed to load configuration: %v", err)
	}
	if err := cfg.EnsureLockDir(); err != nil {
		ui.Fatal("Failed to prepare lock directory: %v", err)
	}
	return cfg
}

// lockerFor maps a lock name to a Locker, exiting on invalid names.
func lockerFor(cfg *config.Config, name string) *locker.Locker {
	path, err := cfg.PathFor(name)
	if err != nil {
		ui.Fatal("Invalid lock name: %v", err)
	}
	return locker.New(path)
}

// readStamp reads the holder stamp directly from a lock file, without
// touching the lock. ok is false when the file is unreadable or does
// not contain a stamp.
func readStamp(path string) (stamp.Stamp, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return stamp.Stamp{}, false
	}
	s, err := stamp.Decode(data)
	if err != nil || s.PID == 0 {
		return stamp.Stamp{}, false
	}
	return s, true
}

// describeHolder prints the holder details of a stamp.
func describeHolder(s stamp.Stamp) {
	ui.Detail("pid:      %d", s.PID)
	ui.Detail("host:     %s", s.Host)
	ui.Detail("token:    %s", s.Token)
	ui.Detail("acquired: %s", s.AcquiredAt.Format("2006-01-02 15:04:05 MST"))
	if s.Alive() {
		ui.Detail("process:  alive")
	} else {
		ui.Detail("process:  gone (stale lock)")
	}
}
