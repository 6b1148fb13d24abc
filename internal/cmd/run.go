package cmd

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/mooring/internal/stamp"
	"github.com/cameronsjo/mooring/internal/ui"
)

var runShared bool

var runCmd = &cobra.Command{
	Use:   "run <name> -- <command> [args...]",
	Short: "Run a command while holding a lock",
	Long: `Run a command while holding the named lock.

The lock is taken without waiting: if another process holds it, run
reports the holder and exits immediately with status 1. The lock is
released and its file removed when the command finishes, including
when run is interrupted.

Examples:
  mooring run dbcache -- ./rebuild-cache.sh
  mooring run dbcache --shared -- ./read-cache.sh`,
	Args: cobra.MinimumNArgs(2),
	Run:  runRun,
}

func init() {
	runCmd.Flags().BoolVarP(&runShared, "shared", "s", false, "Take a shared lock instead of exclusive")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	name, argv := args[0], args[1:]

	lk := lockerFor(cfg, name)
	defer lk.Close()

	acquire, kind := lk.WriteLock, "exclusive"
	if runShared {
		acquire, kind = lk.ReadLock, "shared"
	}

	acquired, err := acquire()
	if err != nil {
		ui.Fatal("Failed to take %s lock %s: %v", kind, name, err)
	}
	if !acquired {
		ui.Error("Lock %s is held by another process", name)
		if s, ok := readStamp(lk.Path()); ok {
			describeHolder(s)
		}
		os.Exit(1)
	}

	// Stamp the holder. Shared holders coexist and would overwrite
	// each other, so only an exclusive holder stamps.
	if !runShared {
		if data, err := stamp.New().Encode(); err == nil {
			if err := lk.WriteContent(data); err != nil {
				ui.Warning("Could not stamp lock file: %v", err)
			}
		}
	}

	// An interrupt cancels the child; the deferred Close still
	// removes the lock file on the way out.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	child := exec.CommandContext(ctx, argv[0], argv[1:]...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	runErr := child.Run()

	if err := lk.Unlock(); err != nil {
		ui.Warning("Failed to release lock %s: %v", name, err)
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		ui.Fatal("Failed to run command: %v", runErr)
	}
}
