// Package types provides core data types for the tidy file organizer.
// It includes the file candidate and move plan structures shared by the
// walker, planner, and execution engine, along with utility functions
// for parsing and formatting file sizes.
package types

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// FileCandidate describes a file discovered by the walker and considered
// for organization. Candidates are ephemeral: they are produced during a
// single walk, consumed by the planner, and never persisted.
type FileCandidate struct {
	// Path is the absolute path to the file.
	Path string `json:"path"`

	// Ext is the file extension including the dot (e.g., ".jpg").
	// Empty for files without an extension.
	Ext string `json:"ext"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// Depth is the directory depth relative to the walk root.
	// Direct children of the root have depth 0.
	Depth int `json:"depth"`

	// ModTime is the last modification time of the file.
	ModTime time.Time `json:"mod_time"`

	// CreateTime is the creation time of the file. On platforms without
	// a birth time it equals ModTime.
	CreateTime time.Time `json:"create_time,omitempty"`
}

// HumanSize returns the candidate's size formatted as a human-readable string.
func (c *FileCandidate) HumanSize() string {
	return FormatSize(c.Size)
}

// MovePlan is a computed move for a single file. The destination has
// already been resolved against both on-disk state and destinations
// claimed by earlier plans in the same batch, so it is collision-free at
// planning time. Plans exist only within one organize run.
type MovePlan struct {
	// Source is the absolute path of the file to move.
	Source string `json:"source"`

	// Destination is the absolute path the file will be moved to.
	// Its parent directory is root/<category>.
	Destination string `json:"destination"`

	// Category is the bucket the file was classified into.
	Category string `json:"category"`
}

// WalkError pairs a path with the error encountered while scanning it.
// Walk errors never abort a scan; they are collected and reported.
type WalkError struct {
	// Path is the file or directory path where the error occurred.
	Path string `json:"path"`

	// Err is the underlying error.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e WalkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e WalkError) Unwrap() error {
	return e.Err
}

// sizePattern matches size strings like "100M", "2G", "500K", "1.5GB", etc.
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size string and returns the size in
// bytes. Supported forms are plain bytes ("1024"), a byte suffix ("512B"),
// and K/M/G/T with optional B or iB ("100K", "50MB", "1.5GiB"). Decimal
// values are truncated to the nearest byte, and surrounding whitespace is
// ignored.
//
// Returns ErrInvalidSize if the format is not recognized and
// ErrNegativeSize for negative values.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}

	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	suffix := strings.ToUpper(matches[2])
	suffix = strings.TrimSuffix(suffix, "IB")
	suffix = strings.TrimSuffix(suffix, "B")

	var multiplier int64
	switch suffix {
	case "":
		multiplier = 1
	case "K":
		multiplier = KiB
	case "M":
		multiplier = MiB
	case "G":
		multiplier = GiB
	case "T":
		multiplier = TiB
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, suffix)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatSize converts a size in bytes to a human-readable string using
// binary (IEC) units for consistency with common filesystem tools.
func FormatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}
