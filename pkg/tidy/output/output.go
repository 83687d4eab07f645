// Package output provides formatters for displaying organize, undo,
// and history results in various output formats (pretty, plain, json,
// yaml).
//
// The package uses a registry pattern to allow registration of multiple
// formatter implementations that can be selected at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, report); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Action identifies what kind of run a Report describes.
type Action string

const (
	// ActionOrganize is a completed organize run.
	ActionOrganize Action = "organize"

	// ActionDryRun is an organize preview that moved nothing.
	ActionDryRun Action = "dry-run"

	// ActionUndo is a reversed organize run.
	ActionUndo Action = "undo"

	// ActionHistory is a listing of recorded runs.
	ActionHistory Action = "history"
)

// MoveInfo describes a single move, performed or planned.
type MoveInfo struct {
	// Source is the original file path.
	Source string `json:"source" yaml:"source"`

	// Destination is the path the file was (or would be) moved to.
	Destination string `json:"destination" yaml:"destination"`

	// Category is the destination category name.
	Category string `json:"category" yaml:"category"`
}

// SkipInfo describes a file that was left alone, with the reason.
type SkipInfo struct {
	// Path is the file that was skipped.
	Path string `json:"path" yaml:"path"`

	// Reason explains why the file was skipped.
	Reason string `json:"reason" yaml:"reason"`
}

// RunInfo summarizes a recorded run for history listings.
type RunInfo struct {
	// ID is the manifest identifier.
	ID string `json:"id" yaml:"id"`

	// Timestamp is when the run completed.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// SourceDir is the directory that was organized.
	SourceDir string `json:"source_dir" yaml:"source_dir"`

	// FilesMoved is the number of files the run moved.
	FilesMoved int `json:"files_moved" yaml:"files_moved"`
}

// Report contains the complete output data for formatting. Fields that
// do not apply to the report's Action are left at their zero values.
type Report struct {
	// Action identifies the kind of run being reported.
	Action Action `json:"action" yaml:"action"`

	// Source is the directory the run operated on.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Moves holds the moves performed, or planned for a dry run.
	Moves []MoveInfo `json:"moves,omitempty" yaml:"moves,omitempty"`

	// Skipped is the number of moves declined interactively.
	Skipped int `json:"skipped" yaml:"skipped"`

	// SkippedBySize is the number of files excluded by size filters.
	SkippedBySize int `json:"skipped_by_size" yaml:"skipped_by_size"`

	// Errors holds per-file error messages that did not stop the run.
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Restored is the number of files an undo put back.
	Restored int `json:"restored" yaml:"restored"`

	// SkippedRestores holds undo moves that could not be reversed.
	SkippedRestores []SkipInfo `json:"skipped_restores,omitempty" yaml:"skipped_restores,omitempty"`

	// ManifestID is the recorded manifest, when one was written or undone.
	ManifestID string `json:"manifest_id,omitempty" yaml:"manifest_id,omitempty"`

	// ManifestDeleted is true when an undo removed its manifest.
	ManifestDeleted bool `json:"manifest_deleted" yaml:"manifest_deleted"`

	// Runs holds recorded runs for history listings.
	Runs []RunInfo `json:"runs,omitempty" yaml:"runs,omitempty"`

	// Duration is the total time taken.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Aborted is true when the user quit partway through.
	Aborted bool `json:"aborted" yaml:"aborted"`
}

// CategoryCount pairs a category with the number of files moved into it.
type CategoryCount struct {
	Category string
	Count    int
}

// CategoryCounts returns per-category move counts sorted by count
// descending, then name.
func (r *Report) CategoryCounts() []CategoryCount {
	counts := make(map[string]int)
	for _, m := range r.Moves {
		counts[m.Category]++
	}

	result := make([]CategoryCount, 0, len(counts))
	for cat, n := range counts {
		result = append(result, CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Category < result[j].Category
	})
	return result
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	// It returns an error if formatting fails.
	Format(w *bytes.Buffer, r *Report) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry.
// It will replace any existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
// It returns an error if the formatter is not found.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
