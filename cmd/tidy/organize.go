package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/tidy/pkg/tidy/category"
	"github.com/jamesainslie/tidy/pkg/tidy/config"
	"github.com/jamesainslie/tidy/pkg/tidy/engine"
	"github.com/jamesainslie/tidy/pkg/tidy/logging"
	"github.com/jamesainslie/tidy/pkg/tidy/manifest"
	"github.com/jamesainslie/tidy/pkg/tidy/output"
	"github.com/jamesainslie/tidy/pkg/tidy/planner"
	"github.com/jamesainslie/tidy/pkg/tidy/types"
	"github.com/jamesainslie/tidy/pkg/tidy/walker"
)

// organizeSettings gathers everything a single organize run needs,
// resolved from config, flags, and arguments.
type organizeSettings struct {
	cfg        *config.Config
	table      *category.Table
	collisions []category.Collision
	root       string

	recursive bool
	maxDepth  int
	minSize   int64
	maxSize   int64

	dryRun      bool
	interactive bool

	plannerOpts planner.Options

	writeManifest bool
}

// runOrganize is the main organize command handler.
func runOrganize(_ *cobra.Command, args []string) error {
	settings, err := buildSettings(args)
	if err != nil {
		return err
	}

	initLogging(settings.cfg)
	defer func() { _ = logging.Close() }()
	warnCollisions(settings)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := organizeOnce(ctx, settings)
	if err != nil {
		return err
	}

	return renderReport(report)
}

// buildSettings resolves the run configuration from config file, flags,
// and the optional path argument.
func buildSettings(args []string) (*organizeSettings, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	expanded, err := config.ExpandPath(root)
	if err != nil {
		return nil, err
	}
	absRoot, err := filepath.Abs(expanded)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("path does not exist: %s", absRoot)
		}
		return nil, fmt.Errorf("cannot access path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", absRoot)
	}

	table, collisions, err := category.NewTable(cfg.Categories, cfg.DefaultCategory)
	if err != nil {
		return nil, fmt.Errorf("building category table: %w", err)
	}

	minSize, err := parseSizeFlag(viper.GetString("min_size"))
	if err != nil {
		return nil, fmt.Errorf("invalid min-size: %w", err)
	}
	maxSize, err := parseSizeFlag(viper.GetString("max_size"))
	if err != nil {
		return nil, fmt.Errorf("invalid max-size: %w", err)
	}

	plannerOpts := planner.Options{
		ByDate:          viper.GetBool("by_date"),
		DateFormat:      viper.GetString("date.format"),
		DateType:        planner.DateType(viper.GetString("date.type")),
		CombineWithType: viper.GetBool("combine_with_type"),
	}
	if err := plannerOpts.Validate(); err != nil {
		return nil, err
	}

	return &organizeSettings{
		cfg:           cfg,
		table:         table,
		collisions:    collisions,
		root:          absRoot,
		recursive:     viper.GetBool("recursive"),
		maxDepth:      viper.GetInt("max_depth"),
		minSize:       minSize,
		maxSize:       maxSize,
		dryRun:        viper.GetBool("dry_run"),
		interactive:   viper.GetBool("interactive"),
		plannerOpts:   plannerOpts,
		writeManifest: cfg.Manifest.Enabled && !viper.GetBool("no_manifest"),
	}, nil
}

// warnCollisions reports extension collisions found while building the
// category table. Loggers handed out before logging.Init discard their
// output, so this must run after initLogging.
func warnCollisions(s *organizeSettings) {
	for _, c := range s.collisions {
		logging.Get("organizer").Warn("extension claimed twice",
			"ext", c.Ext, "kept", c.Winner, "dropped", c.Loser)
	}
}

// organizeOnce performs one complete organize pass: walk, plan,
// execute, record. Watch mode calls it repeatedly.
func organizeOnce(ctx context.Context, s *organizeSettings) (*output.Report, error) {
	start := time.Now()
	logger := logging.Get("organizer")
	logger.Info("organize started", "root", s.root, "recursive", s.recursive, "dry_run", s.dryRun)

	w := walker.New(walker.Options{
		Root:         s.root,
		Recursive:    s.recursive,
		MaxDepth:     s.maxDepth,
		MinSize:      s.minSize,
		MaxSize:      s.maxSize,
		ExcludeDirs:  s.cfg.ExcludeDirs,
		CategoryDirs: s.table.Categories(),
	})

	walkResult, err := w.Walk(ctx)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", s.root, err)
	}

	opts := engine.Options{DryRun: s.dryRun}
	if s.interactive {
		opts.Confirmer = engine.NewTerminalConfirmer(os.Stdin, os.Stderr)
	}

	p := planner.New(s.root, s.table, s.plannerOpts)
	eng := engine.New(p, opts)

	execResult, err := eng.Execute(ctx, walkResult.Candidates)
	aborted := errors.Is(err, engine.ErrAborted)
	if err != nil && !aborted {
		return nil, err
	}

	report := &output.Report{
		Action:        output.ActionOrganize,
		Source:        s.root,
		Skipped:       execResult.Skipped,
		SkippedBySize: walkResult.SkippedBySize,
		Duration:      time.Since(start),
		Aborted:       aborted,
	}
	if s.dryRun {
		report.Action = output.ActionDryRun
		for _, plan := range execResult.Planned {
			report.Moves = append(report.Moves, output.MoveInfo{
				Source:      plan.Source,
				Destination: plan.Destination,
				Category:    plan.Category,
			})
		}
	} else {
		for _, m := range execResult.Moves {
			report.Moves = append(report.Moves, output.MoveInfo{
				Source:      m.Source,
				Destination: m.Destination,
				Category:    m.Category,
			})
		}
	}
	for _, we := range walkResult.Errors {
		report.Errors = append(report.Errors, we.Error())
	}
	for _, me := range execResult.Errors {
		report.Errors = append(report.Errors, me.Error())
	}

	if s.writeManifest && !s.dryRun && len(execResult.Moves) > 0 {
		store, err := manifest.NewStore(s.cfg.Manifest.Path)
		if err != nil {
			return nil, err
		}

		var maxDepth *int
		if s.recursive && s.maxDepth >= 0 {
			d := s.maxDepth
			maxDepth = &d
		}

		run, err := store.Record(s.root, s.recursive, maxDepth, execResult.Moves)
		if err != nil {
			// The moves happened; losing the manifest must not hide that.
			logger.Error("manifest write failed", "error", err)
			report.Errors = append(report.Errors, fmt.Sprintf("manifest not recorded: %v", err))
		} else {
			report.ManifestID = run.ID
		}
	}

	logger.Info("organize finished",
		"moved", len(execResult.Moves), "skipped", report.Skipped,
		"errors", len(report.Errors), "duration", report.Duration.String())

	return report, nil
}

// parseSizeFlag parses an optional size string; empty means no limit.
func parseSizeFlag(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return types.ParseSize(s)
}
