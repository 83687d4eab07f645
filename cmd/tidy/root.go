package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/tidy/pkg/tidy/config"
	"github.com/jamesainslie/tidy/pkg/tidy/logging"
	"github.com/jamesainslie/tidy/pkg/tidy/output"
	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "tidy [path]",
		Short: "Organize files into category folders",
		Long: `Tidy sorts the files in a directory into category folders based on
their extensions, and records each run so it can be undone.

Examples:
  tidy                         # Organize current directory
  tidy ~/Downloads             # Organize a specific directory
  tidy -n ~/Downloads          # Preview without moving anything
  tidy -r -d 2 ~/Downloads     # Recurse two levels deep
  tidy --by-date ~/Photos      # Sort into date folders instead
  tidy undo                    # Revert the most recent run
  tidy history                 # List recorded runs
  tidy watch ~/Downloads       # Keep organizing as files arrive`,
		Args: cobra.MaximumNArgs(1),
		RunE: runOrganize,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/tidy/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "pretty", "output format (pretty, plain, json, jsonl, yaml)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Organize flags
	rootCmd.Flags().BoolP("dry-run", "n", false, "preview moves without performing them")
	rootCmd.Flags().BoolP("interactive", "i", false, "confirm each move (y/n/a/c/q)")
	rootCmd.Flags().BoolP("recursive", "r", false, "descend into subdirectories")
	rootCmd.Flags().IntP("max-depth", "d", -1, "depth limit for --recursive (-1 = unlimited)")
	rootCmd.Flags().String("min-size", "", "skip files smaller than this (e.g., 10K, 1M)")
	rootCmd.Flags().String("max-size", "", "skip files larger than this")
	rootCmd.Flags().Bool("by-date", false, "sort into date folders instead of categories")
	rootCmd.Flags().String("date-format", "", "date folder layout (YYYY/MM, YYYY/Month, YYYY-MM-DD, YYYY/MM/DD)")
	rootCmd.Flags().String("date-type", "", "which date to use (modified, created)")
	rootCmd.Flags().Bool("combine-with-type", false, "nest date folders inside category folders")
	rootCmd.Flags().Bool("no-manifest", false, "skip recording the run for undo")

	_ = viper.BindPFlag("dry_run", rootCmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("interactive", rootCmd.Flags().Lookup("interactive"))
	_ = viper.BindPFlag("recursive", rootCmd.Flags().Lookup("recursive"))
	_ = viper.BindPFlag("max_depth", rootCmd.Flags().Lookup("max-depth"))
	_ = viper.BindPFlag("min_size", rootCmd.Flags().Lookup("min-size"))
	_ = viper.BindPFlag("max_size", rootCmd.Flags().Lookup("max-size"))
	_ = viper.BindPFlag("by_date", rootCmd.Flags().Lookup("by-date"))
	_ = viper.BindPFlag("date.format", rootCmd.Flags().Lookup("date-format"))
	_ = viper.BindPFlag("date.type", rootCmd.Flags().Lookup("date-type"))
	_ = viper.BindPFlag("combine_with_type", rootCmd.Flags().Lookup("combine-with-type"))
	_ = viper.BindPFlag("no_manifest", rootCmd.Flags().Lookup("no-manifest"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "tidy"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "tidy"))
		}
	}

	viper.SetEnvPrefix("TIDY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initLogging configures the logging system from config and flags.
// Failures fall back to console-only logging rather than aborting.
func initLogging(cfg *config.Config) {
	level := cfg.Logging.Level
	consoleLevel := ""
	if getVerbose() {
		level = "debug"
		consoleLevel = "debug"
	}
	if getQuiet() {
		consoleLevel = "error"
	}

	var maxSize int64
	if cfg.Logging.Rotation.MaxSize != "" {
		if n, err := types.ParseSize(cfg.Logging.Rotation.MaxSize); err == nil {
			maxSize = n
		}
	}

	err := logging.Init(logging.Config{
		Level: level,
		Path:  cfg.Logging.Path,
		Rotation: logging.RotationConfig{
			MaxSize:    maxSize,
			MaxAge:     cfg.Logging.Rotation.MaxAge,
			MaxBackups: cfg.Logging.Rotation.MaxBackups,
			Daily:      cfg.Logging.Rotation.Daily,
		},
		Components:   cfg.Logging.Components,
		ConsoleLevel: consoleLevel,
	})
	if err != nil {
		printError("logging setup failed: %v", err)
	}
}

// renderReport formats a report with the selected formatter and prints
// it to stdout.
func renderReport(r *output.Report) error {
	format := viper.GetString("output")
	if format == "" {
		format = "pretty"
	}

	formatter, err := output.Get(format)
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(output.Available(), ", "))
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, r); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if !getQuiet() || format != "pretty" {
		fmt.Print(buf.String())
	}
	return nil
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
