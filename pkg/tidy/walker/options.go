// Package walker enumerates candidate files for the tidy file organizer.
// It walks a root directory using fastwalk, pruning hidden and excluded
// directories, enforcing an optional recursion depth limit, and applying
// size filters. Unreadable directories are collected as warnings rather
// than aborting the walk.
package walker

import "github.com/jamesainslie/tidy/pkg/tidy/config"

// Options configures a walk.
type Options struct {
	// Root is the directory whose files are organized.
	Root string

	// Recursive enables descent into subdirectories. When false only
	// direct children of Root are considered.
	Recursive bool

	// MaxDepth bounds how many directory levels below Root are entered
	// when Recursive is set. Direct children of Root have depth 0.
	// Negative means unlimited.
	MaxDepth int

	// MinSize excludes files strictly smaller than this many bytes.
	// Zero disables the lower bound.
	MinSize int64

	// MaxSize excludes files strictly larger than this many bytes.
	// Zero disables the upper bound.
	MaxSize int64

	// ExcludeDirs contains directory names pruned from traversal
	// (version control, caches, and similar).
	ExcludeDirs []string

	// CategoryDirs contains the category directory names this run could
	// create. Matching directories at the root are pruned so a previous
	// run's output is not rescanned.
	CategoryDirs []string
}

// DefaultOptions returns options for a non-recursive walk with the
// standard exclusion set.
func DefaultOptions(root string) Options {
	return Options{
		Root:        root,
		MaxDepth:    -1,
		ExcludeDirs: config.DefaultExcludedDirs,
	}
}
