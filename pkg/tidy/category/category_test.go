package category

import (
	"errors"
	"strings"
	"testing"
)

func testCategories() map[string][]string {
	return map[string][]string{
		"Images":    {".jpg", ".jpeg", ".png", ".gif"},
		"Documents": {".pdf", ".txt", ".docx"},
		"Code":      {".py", ".go", ".js"},
	}
}

func TestNewTable(t *testing.T) {
	t.Parallel()

	t.Run("builds table from valid config", func(t *testing.T) {
		t.Parallel()
		table, collisions, err := NewTable(testCategories(), "Other")
		if err != nil {
			t.Fatalf("NewTable() error = %v", err)
		}
		if len(collisions) != 0 {
			t.Errorf("collisions = %v, want none", collisions)
		}
		if table.Default() != "Other" {
			t.Errorf("Default() = %q, want Other", table.Default())
		}
	})

	t.Run("rejects empty default category", func(t *testing.T) {
		t.Parallel()
		_, _, err := NewTable(testCategories(), "")
		if !errors.Is(err, ErrInvalidTable) {
			t.Errorf("error = %v, want ErrInvalidTable", err)
		}
	})

	t.Run("rejects category name with separator", func(t *testing.T) {
		t.Parallel()
		cats := map[string][]string{"bad/name": {".x"}}
		_, _, err := NewTable(cats, "Other")
		if !errors.Is(err, ErrInvalidTable) {
			t.Errorf("error = %v, want ErrInvalidTable", err)
		}
	})

	t.Run("rejects extension without dot", func(t *testing.T) {
		t.Parallel()
		cats := map[string][]string{"Images": {"jpg"}}
		_, _, err := NewTable(cats, "Other")
		if !errors.Is(err, ErrInvalidTable) {
			t.Errorf("error = %v, want ErrInvalidTable", err)
		}
	})
}

func TestTableResolve(t *testing.T) {
	t.Parallel()

	table, _, err := NewTable(testCategories(), "Other")
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}

	tests := []struct {
		ext  string
		want string
	}{
		{".jpg", "Images"},
		{".pdf", "Documents"},
		{".go", "Code"},
		{".xyz", "Other"},
		{"", "Other"},
	}

	for _, tt := range tests {
		if got := table.Resolve(tt.ext); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestTableResolveCaseInsensitive(t *testing.T) {
	t.Parallel()

	table, _, err := NewTable(testCategories(), "Other")
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}

	for ext := range table.extToCategory {
		upper := strings.ToUpper(ext)
		if table.Resolve(ext) != table.Resolve(upper) {
			t.Errorf("Resolve(%q) != Resolve(%q)", ext, upper)
		}
	}
}

func TestTableDuplicateExtensionLastWins(t *testing.T) {
	t.Parallel()

	cats := map[string][]string{
		"Alpha": {".dat"},
		"Beta":  {".dat"},
	}

	table, collisions, err := NewTable(cats, "Other")
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}

	// Categories fold in sorted order, so Beta overwrites Alpha.
	if got := table.Resolve(".dat"); got != "Beta" {
		t.Errorf("Resolve(.dat) = %q, want Beta", got)
	}
	if len(collisions) != 1 {
		t.Fatalf("len(collisions) = %d, want 1", len(collisions))
	}
	if collisions[0].Loser != "Alpha" || collisions[0].Winner != "Beta" {
		t.Errorf("collision = %+v, want Alpha -> Beta", collisions[0])
	}
}

func TestTableCategories(t *testing.T) {
	t.Parallel()

	table, _, err := NewTable(testCategories(), "Other")
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}

	names := table.Categories()
	if len(names) != 4 {
		t.Fatalf("Categories() = %v, want 4 entries including default", names)
	}
	found := make(map[string]bool, len(names))
	for _, name := range names {
		found[name] = true
	}
	if !found["Other"] || !found["Images"] {
		t.Errorf("Categories() = %v, missing configured names", names)
	}
	if found["Nope"] {
		t.Errorf("Categories() = %v, contains unconfigured name", names)
	}
}
