// Package category maps file extensions to category names.
//
// A Table is built once per run from the configured category map and is
// immutable afterwards. Lookups are case-insensitive and fall back to a
// configured default category for unknown or missing extensions.
package category

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidTable indicates that the configured category table is malformed.
var ErrInvalidTable = errors.New("invalid category table")

// Collision records an extension that was assigned to more than one
// category during table construction. The later category (in sorted
// category order) wins; collisions are reported so callers can warn.
type Collision struct {
	Ext    string
	Loser  string
	Winner string
}

// Table resolves file extensions to category names.
type Table struct {
	extToCategory   map[string]string
	defaultCategory string
	categories      []string
}

// NewTable builds a resolver from a category name to extension-list map
// and a default category for unmatched extensions.
//
// Extensions are lower-cased before insertion so lookups are
// case-insensitive. If the same extension appears under two categories,
// the assignment from the lexically later category wins; the returned
// collisions let the caller log the overwrites. Construction fails if the
// default category is empty, a category name is empty or contains a path
// separator, or an extension does not start with a dot.
func NewTable(categories map[string][]string, defaultCategory string) (*Table, []Collision, error) {
	if defaultCategory == "" {
		return nil, nil, fmt.Errorf("%w: default category is empty", ErrInvalidTable)
	}

	names := make([]string, 0, len(categories))
	for name := range categories {
		if name == "" {
			return nil, nil, fmt.Errorf("%w: empty category name", ErrInvalidTable)
		}
		if strings.ContainsAny(name, `/\`) {
			return nil, nil, fmt.Errorf("%w: category name %q contains a path separator", ErrInvalidTable, name)
		}
		names = append(names, name)
	}

	// Sort so duplicate-extension resolution does not depend on map
	// iteration order.
	sort.Strings(names)

	t := &Table{
		extToCategory:   make(map[string]string),
		defaultCategory: defaultCategory,
		categories:      names,
	}

	var collisions []Collision
	for _, name := range names {
		for _, ext := range categories[name] {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" || !strings.HasPrefix(ext, ".") {
				return nil, nil, fmt.Errorf("%w: extension %q in category %q must start with a dot", ErrInvalidTable, ext, name)
			}
			if prev, ok := t.extToCategory[ext]; ok && prev != name {
				collisions = append(collisions, Collision{Ext: ext, Loser: prev, Winner: name})
			}
			t.extToCategory[ext] = name
		}
	}

	return t, collisions, nil
}

// Resolve returns the category for the given extension. The extension is
// lower-cased before lookup; unmatched or empty extensions resolve to the
// default category.
func (t *Table) Resolve(ext string) string {
	if ext == "" {
		return t.defaultCategory
	}
	if cat, ok := t.extToCategory[strings.ToLower(ext)]; ok {
		return cat
	}
	return t.defaultCategory
}

// Default returns the configured default category.
func (t *Table) Default() string {
	return t.defaultCategory
}

// Categories returns all configured category names in sorted order,
// including the default category. These names double as the directory
// names the walker must not descend into at the scan root.
func (t *Table) Categories() []string {
	out := make([]string, 0, len(t.categories)+1)
	out = append(out, t.categories...)
	for _, name := range out {
		if name == t.defaultCategory {
			return out
		}
	}
	return append(out, t.defaultCategory)
}
