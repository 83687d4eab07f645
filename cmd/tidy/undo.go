package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/tidy/pkg/tidy/config"
	"github.com/jamesainslie/tidy/pkg/tidy/logging"
	"github.com/jamesainslie/tidy/pkg/tidy/manifest"
	"github.com/jamesainslie/tidy/pkg/tidy/output"
	"github.com/jamesainslie/tidy/pkg/tidy/undo"
)

var undoCmd = &cobra.Command{
	Use:   "undo [id]",
	Short: "Revert an organize run",
	Long: `Undo moves the files of a recorded run back to where they came from.

Without an argument the most recent run is reverted. Pass a manifest ID
(see 'tidy history') to revert an older run. Files that were deleted or
replaced since the run are left alone, and the manifest is kept so the
undo can be retried.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUndo,
}

func init() {
	rootCmd.AddCommand(undoCmd)
}

// runUndo reverts a recorded run.
func runUndo(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	initLogging(cfg)
	defer func() { _ = logging.Close() }()

	store, err := manifest.NewStore(cfg.Manifest.Path)
	if err != nil {
		return err
	}

	id := ""
	if len(args) > 0 {
		id = args[0]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := undo.New(store).Undo(ctx, id)
	if err != nil {
		if errors.Is(err, manifest.ErrNotFound) {
			if id == "" {
				return errors.New("nothing to undo: no recorded runs")
			}
			return fmt.Errorf("no run with ID %s", id)
		}
		return err
	}

	report := &output.Report{
		Action:          output.ActionUndo,
		Source:          res.Run.SourceDir,
		ManifestID:      res.Run.ID,
		Restored:        res.Restored,
		ManifestDeleted: res.ManifestDeleted,
	}
	for _, s := range res.Skipped {
		report.SkippedRestores = append(report.SkippedRestores, output.SkipInfo{
			Path:   s.Move.Destination,
			Reason: s.Reason,
		})
	}

	return renderReport(report)
}
