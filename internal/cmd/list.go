package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/mooring/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all lock files and their holders",
	Run:     runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	entries, err := os.ReadDir(cfg.LockDir)
	if err != nil {
		ui.Fatal("Failed to read lock directory %s: %v", cfg.LockDir, err)
	}

	interactive := ui.Interactive()
	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := cfg.NameFor(entry.Name())
		if !ok {
			continue
		}
		count++

		s, stamped := readStamp(filepath.Join(cfg.LockDir, entry.Name()))
		switch {
		case !stamped:
			if interactive {
				ui.Info("%s (no holder stamp)", name)
			} else {
				fmt.Printf("%s unknown\n", name)
			}
		case s.Alive():
			if interactive {
				ui.Anchor("%s held by pid %d on %s", name, s.PID, s.Host)
			} else {
				fmt.Printf("%s held pid=%d host=%s\n", name, s.PID, s.Host)
			}
		default:
			if interactive {
				ui.Warning("%s stale (pid %d is gone)", name, s.PID)
			} else {
				fmt.Printf("%s stale pid=%d host=%s\n", name, s.PID, s.Host)
			}
		}
	}

	if count == 0 && interactive {
		ui.Info("No locks in %s", cfg.LockDir)
	}
}
