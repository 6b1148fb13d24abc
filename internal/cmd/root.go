// Package cmd provides the CLI commands for mooring.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mooring",
	Short: "Advisory file locks for processes sharing a host",
	Long: `mooring - advisory file locks for processes sharing a host

Coordinates independent processes through named lock files. Lock
attempts never wait: they either take the lock immediately or report
who holds it.

LOCK COMMANDS
  run <name> -- <cmd>   Run a command while holding the named lock
    --shared, -s        Take a shared lock instead of exclusive

DIAGNOSTICS
  status <name>         Show whether a lock is free and who holds it
  list                  List all lock files and their holders
  watch <name>          Stream lock acquire/release events
  clean                 Remove lock files left behind by dead holders
    --dry-run, -n       Only report what would be removed

MAINTENANCE
  update                Update mooring to the latest release
    --check             Check for updates without installing

The lock directory defaults to $TMPDIR/mooring and can be set with
MOORING_LOCK_DIR or lock_dir in ~/.config/mooring/config.yaml.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Version template
	rootCmd.SetVersionTemplate("mooring version {{.Version}}\n")
}
