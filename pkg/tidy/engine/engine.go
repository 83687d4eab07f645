// Package engine executes move plans against the filesystem. It handles
// dry runs, interactive confirmation, and destination collisions that
// appear between planning and execution.
package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jamesainslie/tidy/pkg/tidy/fsops"
	"github.com/jamesainslie/tidy/pkg/tidy/logging"
	"github.com/jamesainslie/tidy/pkg/tidy/manifest"
	"github.com/jamesainslie/tidy/pkg/tidy/planner"
	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

// ErrAborted is returned when the user quits an interactive run.
// Moves completed before the abort are still reported in the Result.
var ErrAborted = errors.New("aborted by user")

// Options controls execution behavior.
type Options struct {
	// DryRun plans destinations without touching the filesystem.
	DryRun bool
	// Confirmer, when non-nil, is consulted before each move.
	Confirmer Confirmer
}

// MoveError records a move that failed at execution time.
type MoveError struct {
	Plan types.MovePlan
	Err  error
}

// Error implements the error interface.
func (e MoveError) Error() string {
	return fmt.Sprintf("moving %s: %v", e.Plan.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e MoveError) Unwrap() error {
	return e.Err
}

// Result summarizes an execution run. Moves holds completed moves with
// their final destinations; Planned holds the would-be moves of a dry
// run. Failed moves are excluded from Moves.
type Result struct {
	Moves   []manifest.Move
	Planned []types.MovePlan
	Skipped int
	Errors  []MoveError
}

// Engine plans and executes moves for a batch of candidates.
type Engine struct {
	planner *planner.Planner
	opts    Options
	logger  *logging.Logger
}

// New creates an Engine using the given planner.
func New(p *planner.Planner, opts Options) *Engine {
	return &Engine{
		planner: p,
		opts:    opts,
		logger:  logging.Get("engine"),
	}
}

// Execute plans and performs a move for each candidate in order.
// Individual move failures are collected and do not stop the run.
// When the confirmer answers quit, Execute returns ErrAborted along
// with the partial Result.
func (e *Engine) Execute(ctx context.Context, candidates []types.FileCandidate) (*Result, error) {
	res := &Result{}
	interactive := e.opts.Confirmer != nil

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		plan := e.planner.Plan(c)

		if interactive {
			decision, err := e.confirm(c, &plan)
			if err != nil {
				return res, err
			}
			switch decision {
			case DecisionNo:
				e.planner.Release(plan)
				res.Skipped++
				continue
			case DecisionAll:
				interactive = false
			case DecisionQuit:
				e.planner.Release(plan)
				return res, ErrAborted
			}
		}

		if e.opts.DryRun {
			e.logger.Debug("dry run", "source", plan.Source, "destination", plan.Destination)
			res.Planned = append(res.Planned, plan)
			continue
		}

		dst, err := e.move(plan)
		if err != nil {
			e.logger.Error("move failed", "source", plan.Source, "error", err)
			res.Errors = append(res.Errors, MoveError{Plan: plan, Err: err})
			continue
		}

		e.logger.Info("moved", "source", plan.Source, "destination", dst, "category", plan.Category)
		res.Moves = append(res.Moves, manifest.Move{
			Source:      plan.Source,
			Destination: dst,
			Category:    plan.Category,
		})
	}

	return res, nil
}

// confirm consults the confirmer, re-planning under a new category as
// many times as the user asks for one.
func (e *Engine) confirm(c types.FileCandidate, plan *types.MovePlan) (Decision, error) {
	for {
		decision, category, err := e.opts.Confirmer.Confirm(*plan)
		if err != nil {
			e.planner.Release(*plan)
			return DecisionQuit, fmt.Errorf("confirming move: %w", err)
		}
		if decision != DecisionChange {
			return decision, nil
		}

		e.planner.Release(*plan)
		*plan = e.planner.PlanAs(c, category)
	}
}

// move performs a single move, creating the category directory and
// re-checking the destination in case a file appeared there since
// planning.
func (e *Engine) move(plan types.MovePlan) (string, error) {
	if err := fsops.EnsureDir(filepath.Dir(plan.Destination)); err != nil {
		return "", fmt.Errorf("creating category directory: %w", err)
	}

	dst := plan.Destination
	if fsops.Exists(dst) {
		dst = fsops.UniquePath(dst, nil)
		e.logger.Warn("destination taken, renaming", "planned", plan.Destination, "actual", dst)
	}

	if err := fsops.MoveFile(plan.Source, dst); err != nil {
		return "", err
	}
	return dst, nil
}
