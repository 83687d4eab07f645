// Package fsops provides the filesystem primitives shared by the
// execution and undo engines: directory creation, collision-free path
// selection, and a move that works across filesystem boundaries.
package fsops

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %q: %w", dir, err)
	}
	return nil
}

// Exists reports whether anything is present at path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// UniquePath returns path if nothing exists there, otherwise the first
// variant with a numeric suffix before the extension that is unused:
// file.txt -> file_1.txt -> file_2.txt. The taken set lets callers
// reserve paths that are not yet on disk (destinations claimed by earlier
// plans in the same batch); it may be nil.
func UniquePath(path string, taken map[string]bool) string {
	if !Exists(path) && !taken[path] {
		return path
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)

	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if !Exists(candidate) && !taken[candidate] {
			return candidate
		}
	}
}

// MoveFile moves a file from src to dst, preserving content and
// permissions. It first attempts a rename; when that fails (typically
// because src and dst are on different filesystems) it falls back to
// copying and removing the source.
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := copyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		// The copy succeeded; remove the partial state rather than
		// leave two live copies.
		_ = os.Remove(dst)
		return fmt.Errorf("removing source %q: %w", src, err)
	}
	return nil
}

// copyFile copies src to dst with the source's permission bits.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %q: %w", src, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %q: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("copying %q to %q: %w", src, dst, err)
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("closing %q: %w", dst, err)
	}
	return nil
}

// IsDirEmpty reports whether dir exists and contains no entries.
func IsDirEmpty(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) == 0
}

// RemoveEmptyDirs removes dir if it is empty, then walks up toward stop
// removing each now-empty parent. It never removes stop itself. Removal
// failures are silently ignored; the directories simply remain.
func RemoveEmptyDirs(dir, stop string) {
	for dir != stop && strings.HasPrefix(dir, stop) {
		if !IsDirEmpty(dir) {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}
