// Package manifest persists organize runs so they can be undone.
package manifest

import "time"

// Move records one executed file move.
type Move struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Category    string `json:"category"`
}

// Run is the durable record of one organize operation. A run is written
// once, atomically, at the end of a non-dry run with at least one
// successful move. It is never mutated afterwards: undo either deletes it
// wholesale or leaves it untouched.
type Run struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	SourceDir  string    `json:"source_dir"`
	Recursive  bool      `json:"recursive"`
	MaxDepth   *int      `json:"max_depth"`
	FilesMoved int       `json:"files_moved"`
	Moves      []Move    `json:"moves"`
}
