package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/mooring/internal/ui"
	"github.com/cameronsjo/mooring/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <name>",
	Short: "Stream lock acquire/release events",
	Long: `Watch the named lock and report when its file is created,
stamped, or removed. Watching observes only; it never takes the lock.

Interrupt with Ctrl-C to stop.`,
	Args: cobra.ExactArgs(1),
	Run:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	name := args[0]

	path, err := cfg.PathFor(name)
	if err != nil {
		ui.Fatal("Invalid lock name: %v", err)
	}

	w, err := watch.New(path)
	if err != nil {
		ui.Fatal("Failed to watch %s: %v", name, err)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runDone := make(chan error, 1)
	go func() { runDone <- w.Run(ctx) }()

	ui.Info("Watching lock %s (%s)", name, path)
	for e := range w.Events() {
		ts := e.At.Format("15:04:05")
		switch e.Type {
		case watch.Created:
			ui.Anchor("%s lock file created", ts)
		case watch.Updated:
			if s, ok := readStamp(path); ok {
				ui.Info("%s stamped by pid %d on %s", ts, s.PID, s.Host)
			} else {
				ui.Info("%s lock file updated", ts)
			}
		case watch.Removed:
			ui.Success("%s lock released", ts)
		}
	}

	if err := <-runDone; err != nil {
		ui.Fatal("Watch failed: %v", err)
	}
}
