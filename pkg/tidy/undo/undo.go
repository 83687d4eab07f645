// Package undo reverses recorded organize runs by replaying manifest
// moves backwards. Files that have moved or been replaced since the run
// are skipped rather than overwritten.
package undo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jamesainslie/tidy/pkg/tidy/fsops"
	"github.com/jamesainslie/tidy/pkg/tidy/logging"
	"github.com/jamesainslie/tidy/pkg/tidy/manifest"
)

// Skip reasons reported in Result.Skipped.
const (
	ReasonDestinationMissing = "destination no longer exists"
	ReasonSourceOccupied     = "original location is occupied"
)

// Skip records a move that could not be reversed.
type Skip struct {
	Move   manifest.Move
	Reason string
}

// Result summarizes an undo run. ManifestDeleted is true only when
// every move was restored and the manifest file was removed.
type Result struct {
	Run             *manifest.Run
	Restored        int
	Skipped         []Skip
	ManifestDeleted bool
}

// Undoer reverses organize runs recorded in a manifest store.
type Undoer struct {
	store  *manifest.Store
	logger *logging.Logger
}

// New creates an Undoer backed by the given store.
func New(store *manifest.Store) *Undoer {
	return &Undoer{
		store:  store,
		logger: logging.Get("undo"),
	}
}

// Undo reverses the run identified by id, or the most recent run when
// id is empty. Moves are reversed in the opposite order they were made.
// The manifest is deleted only if every move was restored, so a partial
// undo can be retried later.
func (u *Undoer) Undo(ctx context.Context, id string) (*Result, error) {
	run, err := u.selectRun(id)
	if err != nil {
		return nil, err
	}

	res := &Result{Run: run}
	logger := u.logger.With("manifest", run.ID)

	for i := len(run.Moves) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		move := run.Moves[i]
		if skip := u.restore(logger, move); skip != nil {
			res.Skipped = append(res.Skipped, *skip)
			continue
		}
		res.Restored++
	}

	u.removeEmptyCategoryDirs(run)

	if res.Restored == len(run.Moves) {
		if err := u.store.Delete(run.ID); err != nil && !errors.Is(err, manifest.ErrNotFound) {
			return res, fmt.Errorf("removing manifest: %w", err)
		}
		res.ManifestDeleted = true
	} else {
		logger.Warn("manifest kept for retry",
			"restored", res.Restored, "skipped", len(res.Skipped))
	}

	return res, nil
}

// selectRun resolves an undo target, defaulting to the latest run.
func (u *Undoer) selectRun(id string) (*manifest.Run, error) {
	if id == "" {
		return u.store.Latest()
	}
	return u.store.Get(id)
}

// restore moves a single file back. A nil return means the file was
// restored; otherwise the Skip explains why it was left alone.
func (u *Undoer) restore(logger *logging.Logger, move manifest.Move) *Skip {
	if !fsops.Exists(move.Destination) {
		logger.Warn("skipping restore", "path", move.Destination, "reason", ReasonDestinationMissing)
		return &Skip{Move: move, Reason: ReasonDestinationMissing}
	}
	if fsops.Exists(move.Source) {
		logger.Warn("skipping restore", "path", move.Source, "reason", ReasonSourceOccupied)
		return &Skip{Move: move, Reason: ReasonSourceOccupied}
	}

	if err := fsops.EnsureDir(filepath.Dir(move.Source)); err != nil {
		logger.Error("restore failed", "path", move.Source, "error", err)
		return &Skip{Move: move, Reason: err.Error()}
	}
	if err := fsops.MoveFile(move.Destination, move.Source); err != nil {
		logger.Error("restore failed", "path", move.Destination, "error", err)
		return &Skip{Move: move, Reason: err.Error()}
	}

	logger.Info("restored", "source", move.Destination, "destination", move.Source)
	return nil
}

// removeEmptyCategoryDirs prunes emptied category directories between
// each move's destination and the run's source directory. The source
// directory itself is never removed.
func (u *Undoer) removeEmptyCategoryDirs(run *manifest.Run) {
	seen := make(map[string]bool)
	for _, move := range run.Moves {
		dir := filepath.Dir(move.Destination)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		fsops.RemoveEmptyDirs(dir, run.SourceDir)
	}
}
