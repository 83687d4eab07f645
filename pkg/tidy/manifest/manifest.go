package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound indicates that no manifest matches the given selector.
var ErrNotFound = errors.New("manifest not found")

// Store manages manifest files in a directory, one JSON file per run.
// Filenames embed the run timestamp, so lexical order is chronological.
type Store struct {
	dir string
}

// NewStore creates a Store backed by the given directory.
// The directory is not created until EnsureDir or Record is called.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("manifest directory cannot be empty")
	}
	return &Store{dir: dir}, nil
}

// Dir returns the manifest directory path.
func (s *Store) Dir() string {
	return s.dir
}

// EnsureDir creates the manifest directory if it does not exist.
func (s *Store) EnsureDir() error {
	return os.MkdirAll(s.dir, 0o755)
}

// Record persists a run and returns it with its assigned ID and
// timestamp. The write is atomic from the reader's perspective: the file
// appears fully written or not at all.
func (s *Store) Record(sourceDir string, recursive bool, maxDepth *int, moves []Move) (*Run, error) {
	if err := s.EnsureDir(); err != nil {
		return nil, fmt.Errorf("creating manifest directory: %w", err)
	}

	now := time.Now().UTC()
	run := &Run{
		ID:         generateID(now),
		Timestamp:  now,
		SourceDir:  sourceDir,
		Recursive:  recursive,
		MaxDepth:   maxDepth,
		FilesMoved: len(moves),
		Moves:      moves,
	}

	if err := s.writeRun(run); err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}

	return run, nil
}

// writeRun writes a run to a JSON file using a temp file and rename.
func (s *Store) writeRun(run *Run) error {
	path := filepath.Join(s.dir, run.ID+".json")

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling run: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// List returns all runs sorted by timestamp descending (newest first).
// If limit is 0 or negative, all runs are returned. A missing directory
// yields an empty list, not an error.
func (s *Store) List(limit int) ([]Run, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Run{}, nil
		}
		return nil, fmt.Errorf("reading manifest directory: %w", err)
	}

	var runs []Run
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}

		run, err := s.readRunFile(f.Name())
		if err != nil {
			// Unparseable files stay on disk for inspection.
			continue
		}
		runs = append(runs, *run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})

	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}

	if runs == nil {
		runs = []Run{}
	}

	return runs, nil
}

// Latest returns the most recent run, or ErrNotFound when none exist.
func (s *Store) Latest() (*Run, error) {
	runs, err := s.List(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNotFound
	}
	return &runs[0], nil
}

// Get retrieves a run by ID. The selector may also be the manifest
// filename, with or without the .json extension.
func (s *Store) Get(id string) (*Run, error) {
	if id == "" {
		return nil, errors.New("manifest ID cannot be empty")
	}

	name := strings.TrimSuffix(filepath.Base(id), ".json")

	run, err := s.readRunFile(name + ".json")
	if err == nil && run.ID == name {
		return run, nil
	}

	// Fall back to scanning in case the file was renamed.
	runs, err := s.List(0)
	if err != nil {
		return nil, err
	}
	for i := range runs {
		if runs[i].ID == name {
			return &runs[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Delete removes the manifest file for the given run ID.
func (s *Store) Delete(id string) error {
	name := strings.TrimSuffix(filepath.Base(id), ".json")
	path := filepath.Join(s.dir, name+".json")

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("deleting manifest: %w", err)
	}
	return nil
}

// readRunFile reads and parses a manifest from a JSON file.
func (s *Store) readRunFile(filename string) (*Run, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("unmarshaling run: %w", err)
	}

	return &run, nil
}

// Cleanup removes manifests older than retentionDays. Zero or negative
// retention disables cleanup.
func (s *Store) Cleanup(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	runs, err := s.List(0)
	if err != nil {
		return err
	}

	for _, run := range runs {
		if run.Timestamp.Before(cutoff) {
			if err := s.Delete(run.ID); err != nil {
				continue
			}
		}
	}

	return nil
}

// generateID creates an ID like "organize-2024-06-15T10-30-00-1a2b3c4d".
// The timestamp prefix makes IDs sort chronologically; the random suffix
// keeps runs within the same second unique.
func generateID(ts time.Time) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("organize-%s-%s", ts.Format("2006-01-02T15-04-05"), suffix)
}
