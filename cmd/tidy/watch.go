package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/tidy/pkg/tidy/logging"
	"github.com/jamesainslie/tidy/pkg/tidy/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Organize a directory continuously",
	Long: `Watch a directory and organize it whenever new files arrive.

Events are debounced so a burst of downloads triggers a single run once
the directory settles. Runs until interrupted with Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", 0, "settle period before organizing (default from config)")
	rootCmd.AddCommand(watchCmd)
}

// runWatch organizes the directory once, then keeps organizing as
// files arrive.
func runWatch(cmd *cobra.Command, args []string) error {
	settings, err := buildSettings(args)
	if err != nil {
		return err
	}
	// Prompting makes no sense for unattended runs.
	settings.interactive = false

	initLogging(settings.cfg)
	defer func() { _ = logging.Close() }()
	warnCollisions(settings)

	debounce, _ := cmd.Flags().GetDuration("debounce")
	if debounce <= 0 {
		if d, err := time.ParseDuration(settings.cfg.Watch.Debounce); err == nil {
			debounce = d
		}
	}

	w, err := watch.New(settings.root, debounce)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	organize := func(ctx context.Context) error {
		report, err := organizeOnce(ctx, settings)
		if err != nil {
			return err
		}
		if len(report.Moves) > 0 || len(report.Errors) > 0 {
			if err := renderReport(report); err != nil {
				return err
			}
		}
		return nil
	}

	// Initial pass picks up whatever is already there.
	if err := organize(ctx); err != nil {
		return err
	}

	printInfo("Watching %s (Ctrl-C to stop)", settings.root)

	if err := w.Run(ctx, organize); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	printInfo("Stopped.")
	return nil
}
