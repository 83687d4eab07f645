//go:build !darwin

package walker

import (
	"os"
	"time"
)

// getCreateTime returns the creation time of a file.
// Most platforms do not reliably expose a birth time, so date-based
// organization falls back to the modification time.
func getCreateTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
