// Package planner computes collision-free move plans for candidate files.
//
// A Planner is built once per organize run. For each candidate it resolves
// a category (by extension, by date, or both), computes the destination
// under root/<category>/, and resolves name collisions with a numeric
// suffix. Destinations claimed by earlier plans in the same run are
// remembered so two candidates never plan onto the same path, even before
// anything has moved.
package planner

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/jamesainslie/tidy/pkg/tidy/category"
	"github.com/jamesainslie/tidy/pkg/tidy/config"
	"github.com/jamesainslie/tidy/pkg/tidy/fsops"
	"github.com/jamesainslie/tidy/pkg/tidy/logging"
	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

// DateType selects which file timestamp date-based categories derive from.
type DateType string

// Supported date types.
const (
	DateModified DateType = "modified"
	DateCreated  DateType = "created"
)

// Options configures the planner beyond plain type-based organization.
type Options struct {
	// ByDate groups files under a date-derived path instead of a type
	// category.
	ByDate bool

	// DateFormat is one of the user-facing format names (e.g.,
	// "YYYY/Month"). Unknown names fall back to the default format.
	DateFormat string

	// DateType selects modification or creation time.
	DateType DateType

	// CombineWithType nests the type category under the date path
	// (e.g., 2024/January/Images). Only meaningful with ByDate.
	CombineWithType bool
}

// Planner computes move plans for one organize run.
type Planner struct {
	root    string
	table   *category.Table
	opts    Options
	claimed map[string]bool
	logger  *logging.Logger
}

// New creates a Planner for the given scan root and category table.
func New(root string, table *category.Table, opts Options) *Planner {
	return &Planner{
		root:    root,
		table:   table,
		opts:    opts,
		claimed: make(map[string]bool),
		logger:  logging.Get("organizer"),
	}
}

// Plan computes the move plan for a candidate. The returned destination
// is unused both on disk and among destinations of earlier plans in this
// run. Plan has no side effects beyond claiming the destination.
func (p *Planner) Plan(c types.FileCandidate) types.MovePlan {
	return p.PlanAs(c, p.categoryFor(c))
}

// PlanAs computes a plan with an explicit category, bypassing resolution.
// The interactive confirmer uses this for per-file category overrides.
func (p *Planner) PlanAs(c types.FileCandidate, cat string) types.MovePlan {
	dest := filepath.Join(p.root, cat, filepath.Base(c.Path))
	dest = fsops.UniquePath(dest, p.claimed)
	p.claimed[dest] = true

	return types.MovePlan{
		Source:      c.Path,
		Destination: dest,
		Category:    cat,
	}
}

// Release drops the claim on a plan's destination. The engine calls this
// when a plan is skipped or re-planned so the path becomes available to
// later candidates.
func (p *Planner) Release(plan types.MovePlan) {
	delete(p.claimed, plan.Destination)
}

// Resolve returns the category a candidate would be filed under without
// claiming a destination.
func (p *Planner) Resolve(c types.FileCandidate) string {
	return p.categoryFor(c)
}

func (p *Planner) categoryFor(c types.FileCandidate) string {
	if !p.opts.ByDate {
		return p.table.Resolve(c.Ext)
	}

	dateCat := p.dateCategory(c)
	if p.opts.CombineWithType {
		return filepath.Join(dateCat, p.table.Resolve(c.Ext))
	}
	return dateCat
}

// dateCategory derives the date path for a candidate (e.g., "2024/January").
func (p *Planner) dateCategory(c types.FileCandidate) string {
	ts := c.ModTime
	if p.opts.DateType == DateCreated && !c.CreateTime.IsZero() {
		ts = c.CreateTime
	}
	if ts.IsZero() {
		ts = time.Now()
	}

	format := p.opts.DateFormat
	if format == "" {
		format = config.DefaultDateFormat
	}
	layout, ok := config.DateFormats[format]
	if !ok {
		layout = config.DateFormats[config.DefaultDateFormat]
		p.logger.Warn("unknown date format, using default",
			"format", format, "default", config.DefaultDateFormat)
	}

	return filepath.FromSlash(ts.Format(layout))
}

// Validate checks the planner options.
func (o Options) Validate() error {
	if o.ByDate {
		if _, ok := config.DateFormats[o.DateFormat]; o.DateFormat != "" && !ok {
			return fmt.Errorf("unknown date format %q", o.DateFormat)
		}
		switch o.DateType {
		case "", DateModified, DateCreated:
		default:
			return fmt.Errorf("unknown date type %q", o.DateType)
		}
	}
	return nil
}
