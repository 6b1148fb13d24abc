package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/mooring/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status <name>",
	Short: "Show whether a lock is free and who holds it",
	Long: `Show the state of the named lock.

A lock file that exists carries the stamp of its last exclusive
holder. The holder's process is probed to distinguish a live lock
from a stale file left behind by a crash.

Examples:
  mooring status dbcache`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	name := args[0]

	path, err := cfg.PathFor(name)
	if err != nil {
		ui.Fatal("Invalid lock name: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if ui.Interactive() {
			ui.Success("Lock %s is free", name)
		} else {
			fmt.Printf("%s free\n", name)
		}
		return
	}

	s, ok := readStamp(path)
	if !ok {
		if ui.Interactive() {
			ui.Warning("Lock file %s exists but carries no holder stamp", path)
		} else {
			fmt.Printf("%s unknown\n", name)
		}
		return
	}

	if !ui.Interactive() {
		state := "held"
		if !s.Alive() {
			state = "stale"
		}
		fmt.Printf("%s %s pid=%d host=%s\n", name, state, s.PID, s.Host)
		return
	}

	if s.Alive() {
		ui.Anchor("Lock %s is held", name)
	} else {
		ui.Warning("Lock %s looks stale (holder is gone); run 'mooring clean'", name)
	}
	describeHolder(s)
}
