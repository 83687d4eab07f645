package undo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesainslie/tidy/pkg/tidy/manifest"
)

// organize simulates a prior run: files are placed at their category
// destinations and a manifest is recorded as if they had been moved
// from the root.
func organize(t *testing.T, store *manifest.Store, root string, placements map[string]string) *manifest.Run {
	t.Helper()

	var moves []manifest.Move
	for name, category := range placements {
		dst := filepath.Join(root, category, name)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(dst, []byte("content"), 0o644); err != nil {
			t.Fatal(err)
		}
		moves = append(moves, manifest.Move{
			Source:      filepath.Join(root, name),
			Destination: dst,
			Category:    category,
		})
	}

	run, err := store.Record(root, false, nil, moves)
	if err != nil {
		t.Fatal(err)
	}
	return run
}

func newTestUndoer(t *testing.T) (*Undoer, *manifest.Store) {
	t.Helper()
	store, err := manifest.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return New(store), store
}

func TestUndoLatest(t *testing.T) {
	t.Parallel()
	u, store := newTestUndoer(t)
	root := t.TempDir()

	run := organize(t, u.store, root, map[string]string{
		"photo.jpg": "Images",
		"notes.txt": "Documents",
	})

	res, err := u.Undo(context.Background(), "")
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}

	if res.Restored != 2 {
		t.Errorf("Restored = %d, want 2", res.Restored)
	}
	if len(res.Skipped) != 0 {
		t.Errorf("Skipped = %v, want none", res.Skipped)
	}
	if !res.ManifestDeleted {
		t.Error("ManifestDeleted = false, want true")
	}

	for _, name := range []string{"photo.jpg", "notes.txt"} {
		if _, err := os.Stat(filepath.Join(root, name)); err != nil {
			t.Errorf("%s not restored: %v", name, err)
		}
	}
	for _, dir := range []string{"Images", "Documents"} {
		if _, err := os.Stat(filepath.Join(root, dir)); !os.IsNotExist(err) {
			t.Errorf("empty category directory %s not removed", dir)
		}
	}
	if _, err := store.Get(run.ID); !errors.Is(err, manifest.ErrNotFound) {
		t.Error("manifest still present after complete undo")
	}
}

func TestUndoByID(t *testing.T) {
	t.Parallel()
	u, _ := newTestUndoer(t)

	oldRoot := t.TempDir()
	oldRun := organize(t, u.store, oldRoot, map[string]string{"a.txt": "Documents"})

	newRoot := t.TempDir()
	organize(t, u.store, newRoot, map[string]string{"b.txt": "Documents"})

	res, err := u.Undo(context.Background(), oldRun.ID)
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}

	if res.Run.ID != oldRun.ID {
		t.Errorf("undid run %s, want %s", res.Run.ID, oldRun.ID)
	}
	if _, err := os.Stat(filepath.Join(oldRoot, "a.txt")); err != nil {
		t.Errorf("a.txt not restored: %v", err)
	}
	// The newer run is untouched.
	if _, err := os.Stat(filepath.Join(newRoot, "Documents", "b.txt")); err != nil {
		t.Errorf("b.txt disturbed: %v", err)
	}
}

func TestUndoMissingDestination(t *testing.T) {
	t.Parallel()
	u, store := newTestUndoer(t)
	root := t.TempDir()

	run := organize(t, u.store, root, map[string]string{
		"photo.jpg": "Images",
		"notes.txt": "Documents",
	})

	// Simulate the user deleting one organized file.
	if err := os.Remove(filepath.Join(root, "Images", "photo.jpg")); err != nil {
		t.Fatal(err)
	}

	res, err := u.Undo(context.Background(), "")
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}

	if res.Restored != 1 {
		t.Errorf("Restored = %d, want 1", res.Restored)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != ReasonDestinationMissing {
		t.Errorf("Skipped = %v, want one destination-missing skip", res.Skipped)
	}
	if res.ManifestDeleted {
		t.Error("ManifestDeleted = true after partial undo")
	}
	if _, err := store.Get(run.ID); err != nil {
		t.Error("manifest removed after partial undo")
	}
}

func TestUndoOccupiedSource(t *testing.T) {
	t.Parallel()
	u, _ := newTestUndoer(t)
	root := t.TempDir()

	organize(t, u.store, root, map[string]string{"photo.jpg": "Images"})

	// A new file took the original spot.
	if err := os.WriteFile(filepath.Join(root, "photo.jpg"), []byte("newer"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := u.Undo(context.Background(), "")
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}

	if res.Restored != 0 {
		t.Errorf("Restored = %d, want 0", res.Restored)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != ReasonSourceOccupied {
		t.Errorf("Skipped = %v, want one source-occupied skip", res.Skipped)
	}

	data, err := os.ReadFile(filepath.Join(root, "photo.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "newer" {
		t.Error("occupying file was overwritten")
	}
	if _, err := os.Stat(filepath.Join(root, "Images", "photo.jpg")); err != nil {
		t.Error("organized file disturbed despite skip")
	}
}

func TestUndoNestedDateDirectories(t *testing.T) {
	t.Parallel()
	u, _ := newTestUndoer(t)
	root := t.TempDir()

	organize(t, u.store, root, map[string]string{
		"photo.jpg": filepath.Join("2024", "January"),
	})

	res, err := u.Undo(context.Background(), "")
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}

	if res.Restored != 1 {
		t.Errorf("Restored = %d, want 1", res.Restored)
	}
	// The whole emptied chain is pruned, but never the root itself.
	if _, err := os.Stat(filepath.Join(root, "2024")); !os.IsNotExist(err) {
		t.Error("emptied date directory chain not removed")
	}
	if _, err := os.Stat(root); err != nil {
		t.Error("root directory removed")
	}
}

func TestUndoKeepsNonEmptyCategoryDirs(t *testing.T) {
	t.Parallel()
	u, _ := newTestUndoer(t)
	root := t.TempDir()

	organize(t, u.store, root, map[string]string{"photo.jpg": "Images"})

	// An unrelated file lives in the category directory.
	if err := os.WriteFile(filepath.Join(root, "Images", "keep.png"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := u.Undo(context.Background(), ""); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "Images", "keep.png")); err != nil {
		t.Errorf("unrelated file lost: %v", err)
	}
}

func TestUndoNoManifests(t *testing.T) {
	t.Parallel()
	u, _ := newTestUndoer(t)

	if _, err := u.Undo(context.Background(), ""); !errors.Is(err, manifest.ErrNotFound) {
		t.Errorf("Undo() error = %v, want ErrNotFound", err)
	}
}

func TestUndoRetryAfterPartial(t *testing.T) {
	t.Parallel()
	u, _ := newTestUndoer(t)
	root := t.TempDir()

	run := organize(t, u.store, root, map[string]string{
		"photo.jpg": "Images",
		"notes.txt": "Documents",
	})

	// First undo: notes.txt original spot is occupied.
	blocker := filepath.Join(root, "notes.txt")
	if err := os.WriteFile(blocker, []byte("block"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := u.Undo(context.Background(), run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.Restored != 1 || res.ManifestDeleted {
		t.Fatalf("first undo: Restored = %d, ManifestDeleted = %v", res.Restored, res.ManifestDeleted)
	}

	// Clear the blocker and retry. The already-restored move is skipped
	// as destination-missing; the remaining one is restored.
	if err := os.Remove(blocker); err != nil {
		t.Fatal(err)
	}

	res, err = u.Undo(context.Background(), run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.Restored != 1 {
		t.Errorf("retry: Restored = %d, want 1", res.Restored)
	}
	if _, err := os.Stat(filepath.Join(root, "notes.txt")); err != nil {
		t.Errorf("notes.txt not restored on retry: %v", err)
	}
}
