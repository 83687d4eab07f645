package walker

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charlievieth/fastwalk"
	"github.com/jamesainslie/tidy/pkg/tidy/logging"
	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

// Result aggregates the outcome of one walk.
type Result struct {
	// Candidates are the files eligible for organization, in traversal
	// order. Ordering is not guaranteed to be stable across platforms.
	Candidates []types.FileCandidate

	// Errors are the paths that could not be read, with their errors.
	Errors []types.WalkError

	// SkippedBySize counts files excluded by the size filters.
	SkippedBySize int
}

// Walker enumerates candidate files under a root directory.
// A Walker is re-invokable: each call to Walk starts a fresh pass.
type Walker struct {
	opts     Options
	excluded map[string]bool
	category map[string]bool
	logger   *logging.Logger
}

// New creates a Walker with the given options.
func New(opts Options) *Walker {
	w := &Walker{
		opts:     opts,
		excluded: make(map[string]bool, len(opts.ExcludeDirs)),
		category: make(map[string]bool, len(opts.CategoryDirs)),
		logger:   logging.Get("walker"),
	}
	for _, name := range opts.ExcludeDirs {
		w.excluded[name] = true
	}
	for _, name := range opts.CategoryDirs {
		w.category[name] = true
	}
	return w
}

// Walk enumerates the files under the root. The root must exist and be a
// directory; that failure is fatal. Unreadable subdirectories are logged,
// collected in the result, and skipped.
func (w *Walker) Walk(ctx context.Context) (*Result, error) {
	root, err := w.validateRoot()
	if err != nil {
		return nil, err
	}

	res := &Result{}

	conf := fastwalk.Config{
		Follow:     false,
		NumWorkers: 1, // single-pass, deterministic traversal
		Sort:       fastwalk.SortLexical,
	}

	walkErr := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			w.logger.Warn("skipping unreadable path", "path", path, "error", err)
			res.Errors = append(res.Errors, types.WalkError{Path: path, Err: err})
			return nil
		}

		if path == root {
			return nil
		}

		depth := w.depth(root, path)

		if d.IsDir() {
			return w.handleDir(d.Name(), depth)
		}

		// Symlinks are never organized; moving one changes what it
		// points at relative to its location.
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || w.excluded[d.Name()] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			w.logger.Warn("skipping unreadable file", "path", path, "error", err)
			res.Errors = append(res.Errors, types.WalkError{Path: path, Err: err})
			return nil
		}

		c := types.FileCandidate{
			Path:       path,
			Ext:        filepath.Ext(path),
			Size:       info.Size(),
			Depth:      depth,
			ModTime:    info.ModTime(),
			CreateTime: getCreateTime(info),
		}

		if (w.opts.MinSize > 0 && c.Size < w.opts.MinSize) ||
			(w.opts.MaxSize > 0 && c.Size > w.opts.MaxSize) {
			w.logger.Debug("skipping by size", "path", path, "size", c.HumanSize())
			res.SkippedBySize++
			return nil
		}

		res.Candidates = append(res.Candidates, c)
		return nil
	})

	if walkErr != nil {
		return nil, walkErr
	}
	return res, nil
}

// handleDir decides whether to descend into a directory.
// A directory at depth d contains files at depth d+1.
func (w *Walker) handleDir(name string, depth int) error {
	if strings.HasPrefix(name, ".") || w.excluded[name] {
		return filepath.SkipDir
	}
	// Category directories at the root are this tool's own output;
	// rescanning them would re-classify files already in place.
	if depth == 0 && w.category[name] {
		return filepath.SkipDir
	}
	if !w.opts.Recursive {
		return filepath.SkipDir
	}
	if w.opts.MaxDepth >= 0 && depth >= w.opts.MaxDepth {
		return filepath.SkipDir
	}
	return nil
}

// depth returns the depth of path relative to root, where direct children
// of root have depth 0.
func (w *Walker) depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator))
}

// validateRoot resolves the root path to absolute and verifies it is an
// existing directory.
func (w *Walker) validateRoot() (string, error) {
	root, err := filepath.Abs(w.opts.Root)
	if err != nil {
		return "", fmt.Errorf("resolving root %q: %w", w.opts.Root, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("scan root %q: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("scan root %q: %w", root, os.ErrInvalid)
	}

	return root, nil
}
