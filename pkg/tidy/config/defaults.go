// Package config provides configuration management for the tidy file organizer.
package config

// Default configuration values for tidy.
const (
	// DefaultCategory is the bucket for files with unknown extensions.
	DefaultCategory = "Other"

	// DefaultRetentionDays is the default number of days to retain manifests.
	DefaultRetentionDays = 90

	// DefaultDateFormat is the folder layout used by date-based organization.
	DefaultDateFormat = "YYYY/Month"

	// DefaultDateType selects which file timestamp date folders derive from.
	DefaultDateType = "modified"

	// DefaultWatchDebounce is how long watch mode waits after the last
	// filesystem event before running an organize pass.
	DefaultWatchDebounce = "2s"
)

// DefaultCategories maps category names to the file extensions they claim.
func DefaultCategories() map[string][]string {
	return map[string][]string{
		"Images":      {".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp", ".ico", ".heic"},
		"Documents":   {".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt", ".xls", ".xlsx", ".ppt", ".pptx"},
		"Code":        {".py", ".js", ".ts", ".html", ".css", ".java", ".cpp", ".c", ".h", ".go", ".rs", ".rb"},
		"Archives":    {".zip", ".rar", ".7z", ".tar", ".gz", ".bz2"},
		"Videos":      {".mp4", ".mkv", ".avi", ".mov", ".wmv", ".flv", ".webm"},
		"Audio":       {".mp3", ".wav", ".flac", ".aac", ".ogg", ".wma", ".m4a"},
		"Data":        {".csv", ".json", ".xml", ".yaml", ".yml", ".sql", ".db"},
		"Executables": {".exe", ".msi", ".dmg", ".app", ".deb", ".rpm"},
	}
}

// DefaultExcludedDirs contains directory names pruned from traversal.
// These are version control, dependency, cache, and IDE directories that
// should never be reorganized.
var DefaultExcludedDirs = []string{
	".git", ".svn", ".hg",
	"__pycache__", ".pytest_cache",
	"node_modules", ".npm",
	".venv", "venv", "env",
	".idea", ".vscode",
}

// DateFormats maps the user-facing date format names to Go time layouts.
var DateFormats = map[string]string{
	"YYYY/MM":    "2006/01",
	"YYYY/Month": "2006/January",
	"YYYY-MM-DD": "2006-01-02",
	"YYYY/MM/DD": "2006/01/02",
}
