package walker

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// makeTree creates files under root from a map of relative path to size.
func makeTree(t *testing.T, root string, files map[string]int) {
	t.Helper()
	for rel, size := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func candidateNames(res *Result, root string) []string {
	var names []string
	for _, c := range res.Candidates {
		rel, _ := filepath.Rel(root, c.Path)
		names = append(names, rel)
	}
	sort.Strings(names)
	return names
}

func TestWalkNonRecursive(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	makeTree(t, root, map[string]int{
		"a.txt":       1,
		"b.jpg":       1,
		"sub/c.pdf":   1,
		"sub/d/e.png": 1,
	})

	w := New(DefaultOptions(root))
	res, err := w.Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	got := candidateNames(res, root)
	want := []string{"a.txt", "b.jpg"}
	if len(got) != len(want) {
		t.Fatalf("candidates = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidates = %v, want %v", got, want)
			break
		}
	}
}

func TestWalkRecursive(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	makeTree(t, root, map[string]int{
		"a.txt":           1,
		"sub/b.jpg":       1,
		"sub/deep/c.pdf":  1,
		"other/d/e/f.png": 1,
	})

	opts := DefaultOptions(root)
	opts.Recursive = true
	res, err := New(opts).Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	if len(res.Candidates) != 4 {
		t.Errorf("len(Candidates) = %d, want 4: %v", len(res.Candidates), candidateNames(res, root))
	}
}

func TestWalkMaxDepth(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	makeTree(t, root, map[string]int{
		"depth0.txt":       1,
		"a/depth1.txt":     1,
		"a/b/depth2.txt":   1,
		"a/b/c/depth3.txt": 1,
	})

	opts := DefaultOptions(root)
	opts.Recursive = true
	opts.MaxDepth = 1
	res, err := New(opts).Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	got := candidateNames(res, root)
	want := []string{filepath.Join("a", "depth1.txt"), "depth0.txt"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("candidates = %v, want %v", got, want)
	}

	// Depth values reported relative to root.
	for _, c := range res.Candidates {
		if c.Depth > 1 {
			t.Errorf("candidate %s depth = %d, want <= 1", c.Path, c.Depth)
		}
	}
}

func TestWalkPrunesHiddenAndExcluded(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	makeTree(t, root, map[string]int{
		"visible.txt":           1,
		".hidden.txt":           1,
		".git/config":           1,
		"node_modules/pkg/x.js": 1,
		"src/ok.go":             1,
		"src/.cache/blob":       1,
	})

	opts := DefaultOptions(root)
	opts.Recursive = true
	res, err := New(opts).Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	got := candidateNames(res, root)
	want := []string{filepath.Join("src", "ok.go"), "visible.txt"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("candidates = %v, want %v", got, want)
	}
}

func TestWalkPrunesCategoryDirsAtRoot(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	makeTree(t, root, map[string]int{
		"fresh.jpg":          1,
		"Images/sorted.jpg":  1,
		"sub/Images/new.jpg": 1,
	})

	opts := DefaultOptions(root)
	opts.Recursive = true
	opts.CategoryDirs = []string{"Images", "Documents"}
	res, err := New(opts).Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	got := candidateNames(res, root)
	// Root-level Images is pruned; a nested Images dir is not a
	// destination of this run and stays eligible.
	want := []string{"fresh.jpg", filepath.Join("sub", "Images", "new.jpg")}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("candidates = %v, want %v", got, want)
	}
}

func TestWalkSizeFilters(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	makeTree(t, root, map[string]int{
		"tiny.txt":   10,
		"medium.txt": 100,
		"large.txt":  1000,
	})

	opts := DefaultOptions(root)
	opts.MinSize = 50
	opts.MaxSize = 500
	res, err := New(opts).Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	got := candidateNames(res, root)
	if len(got) != 1 || got[0] != "medium.txt" {
		t.Errorf("candidates = %v, want [medium.txt]", got)
	}
	if res.SkippedBySize != 2 {
		t.Errorf("SkippedBySize = %d, want 2", res.SkippedBySize)
	}
}

func TestWalkBoundarySizesIncluded(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	makeTree(t, root, map[string]int{"exact.txt": 100})

	opts := DefaultOptions(root)
	opts.MinSize = 100
	opts.MaxSize = 100
	res, err := New(opts).Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	// Exclusion is strict: only sizes strictly outside the bounds drop.
	if len(res.Candidates) != 1 {
		t.Errorf("len(Candidates) = %d, want 1", len(res.Candidates))
	}
}

func TestWalkMissingRoot(t *testing.T) {
	t.Parallel()
	w := New(DefaultOptions(filepath.Join(t.TempDir(), "absent")))

	if _, err := w.Walk(context.Background()); err == nil {
		t.Fatal("Walk() error = nil, want error for missing root")
	}
}

func TestWalkRootIsFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := New(DefaultOptions(file)).Walk(context.Background()); err == nil {
		t.Fatal("Walk() error = nil, want error for non-directory root")
	}
}

func TestWalkSkipsSymlinks(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	makeTree(t, root, map[string]int{"real.txt": 1})
	if err := os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	res, err := New(DefaultOptions(root)).Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	got := candidateNames(res, root)
	if len(got) != 1 || got[0] != "real.txt" {
		t.Errorf("candidates = %v, want [real.txt]", got)
	}
}

func TestWalkIsRestartable(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	makeTree(t, root, map[string]int{"a.txt": 1, "b.txt": 1})

	w := New(DefaultOptions(root))
	for i := 0; i < 2; i++ {
		res, err := w.Walk(context.Background())
		if err != nil {
			t.Fatalf("Walk() pass %d error = %v", i, err)
		}
		if len(res.Candidates) != 2 {
			t.Errorf("pass %d: len(Candidates) = %d, want 2", i, len(res.Candidates))
		}
	}
}
