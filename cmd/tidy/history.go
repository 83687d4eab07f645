package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/tidy/pkg/tidy/config"
	"github.com/jamesainslie/tidy/pkg/tidy/manifest"
	"github.com/jamesainslie/tidy/pkg/tidy/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded organize runs",
	Long: `List the manifests of past organize runs, newest first.

Each entry can be reverted with 'tidy undo <id>' and inspected with
'tidy history show <id>'.`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the moves of a specific run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove manifests older than the retention period",
	RunE:  runHistoryClean,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of runs to show")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// getStore returns a manifest store with the configured directory.
func getStore() (*manifest.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return manifest.NewStore(config.DefaultManifestDir())
	}
	return manifest.NewStore(cfg.Manifest.Path)
}

// runHistory lists recent runs.
func runHistory(_ *cobra.Command, _ []string) error {
	store, err := getStore()
	if err != nil {
		return err
	}

	runs, err := store.List(historyLimit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	report := &output.Report{Action: output.ActionHistory}
	for _, run := range runs {
		report.Runs = append(report.Runs, output.RunInfo{
			ID:         run.ID,
			Timestamp:  run.Timestamp,
			SourceDir:  run.SourceDir,
			FilesMoved: run.FilesMoved,
		})
	}

	return renderReport(report)
}

// runHistoryShow displays the moves of a single run.
func runHistoryShow(_ *cobra.Command, args []string) error {
	store, err := getStore()
	if err != nil {
		return err
	}

	run, err := store.Get(args[0])
	if err != nil {
		return fmt.Errorf("loading run: %w", err)
	}

	fmt.Printf("ID:        %s\n", run.ID)
	fmt.Printf("When:      %s\n", run.Timestamp.Local().Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Source:    %s\n", run.SourceDir)
	fmt.Printf("Recursive: %v\n", run.Recursive)
	if run.MaxDepth != nil {
		fmt.Printf("Max depth: %d\n", *run.MaxDepth)
	}
	fmt.Printf("Files:     %d\n", run.FilesMoved)

	if len(run.Moves) > 0 {
		fmt.Println()
		fmt.Println(strings.Repeat("-", 60))
		for _, m := range run.Moves {
			fmt.Printf("%-12s %s\n", m.Category, m.Source)
		}
	}

	return nil
}

// runHistoryClean removes manifests past the retention period.
func runHistoryClean(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	store, err := manifest.NewStore(cfg.Manifest.Path)
	if err != nil {
		return err
	}

	retentionDays := cfg.Manifest.RetentionDays
	if retentionDays <= 0 {
		retentionDays = config.DefaultRetentionDays
	}

	printInfo("Removing manifests older than %d days...", retentionDays)

	if err := store.Cleanup(retentionDays); err != nil {
		return fmt.Errorf("cleaning history: %w", err)
	}

	printInfo("Done.")
	return nil
}
