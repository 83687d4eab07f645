package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// ManifestConfig configures undo manifest storage.
type ManifestConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// DateConfig configures date-based organization.
type DateConfig struct {
	Format string `mapstructure:"format"`
	Type   string `mapstructure:"type"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce string `mapstructure:"debounce"`
}

// Config represents the application configuration.
type Config struct {
	Categories      map[string][]string `mapstructure:"categories"`
	DefaultCategory string              `mapstructure:"default_category"`
	ExcludeDirs     []string            `mapstructure:"exclude_dirs"`
	MinSize         string              `mapstructure:"min_size"`
	MaxSize         string              `mapstructure:"max_size"`
	Manifest        ManifestConfig      `mapstructure:"manifest"`
	Date            DateConfig          `mapstructure:"date"`
	Watch           WatchConfig         `mapstructure:"watch"`
	Logging         LoggingConfig       `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/tidy/config.yaml
//   - $HOME/.config/tidy/config.yaml
//
// Environment variables are prefixed with TIDY_ (e.g., TIDY_MIN_SIZE).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "tidy"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "tidy"))

	v.SetEnvPrefix("TIDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Viper folds map keys to lower case, and category names double as
	// directory names, so the table is read straight from the file.
	cfg.Categories = loadCategories(v.ConfigFileUsed())

	cfg.Manifest.Path, err = ExpandPath(cfg.Manifest.Path)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadCategories parses the categories table from the config file with
// key case preserved, falling back to the defaults.
func loadCategories(path string) map[string][]string {
	if path == "" {
		return DefaultCategories()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultCategories()
	}

	var raw struct {
		Categories map[string][]string `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil || len(raw.Categories) == 0 {
		return DefaultCategories()
	}

	return raw.Categories
}

// SetDefaults registers every default value on the given viper instance.
// The CLI shares these defaults with Load via flag binding.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("default_category", DefaultCategory)
	v.SetDefault("exclude_dirs", DefaultExcludedDirs)
	v.SetDefault("min_size", "")
	v.SetDefault("max_size", "")

	v.SetDefault("manifest.enabled", true)
	v.SetDefault("manifest.path", DefaultManifestDir())
	v.SetDefault("manifest.retention_days", DefaultRetentionDays)

	v.SetDefault("date.format", DefaultDateFormat)
	v.SetDefault("date.type", DefaultDateType)

	v.SetDefault("watch.debounce", DefaultWatchDebounce)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.daily", true)
	v.SetDefault("logging.components", map[string]string{
		"organizer": "info",
		"walker":    "info",
		"engine":    "info",
		"manifest":  "info",
		"undo":      "info",
		"watch":     "info",
	})
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "tidy"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "tidy"), nil
}

// DataDir returns $XDG_DATA_HOME/tidy/ for manifest storage.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "tidy")
}

// StateDir returns $XDG_STATE_HOME/tidy/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "tidy")
}

// DefaultManifestDir returns the default directory for manifest files.
func DefaultManifestDir() string {
	return filepath.Join(DataDir(), "manifests")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "tidy.log")
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns the config path; writing is skipped when a file already exists.
func WriteDefault() (string, error) {
	if err := EnsureConfigDir(); err != nil {
		return "", err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# Tidy File Organizer Configuration

# Category table: each category lists the extensions it claims.
# An extension assigned to two categories goes to the later one.
categories:
  Images: [.jpg, .jpeg, .png, .gif, .bmp, .svg, .webp, .ico, .heic]
  Documents: [.pdf, .doc, .docx, .txt, .rtf, .odt, .xls, .xlsx, .ppt, .pptx]
  Code: [.py, .js, .ts, .html, .css, .java, .cpp, .c, .h, .go, .rs, .rb]
  Archives: [.zip, .rar, .7z, .tar, .gz, .bz2]
  Videos: [.mp4, .mkv, .avi, .mov, .wmv, .flv, .webm]
  Audio: [.mp3, .wav, .flac, .aac, .ogg, .wma, .m4a]
  Data: [.csv, .json, .xml, .yaml, .yml, .sql, .db]
  Executables: [.exe, .msi, .dmg, .app, .deb, .rpm]

# Bucket for files with unrecognized extensions
default_category: %s

# Directory names pruned from traversal (version control, caches, IDEs)
exclude_dirs: [.git, .svn, .hg, __pycache__, .pytest_cache, node_modules, .npm, .venv, venv, env, .idea, .vscode]

# Size filters applied to every run (empty means no filter)
min_size: ""
max_size: ""

# Manifest settings for undo history
manifest:
  enabled: true
  path: %s
  retention_days: %d

# Date-based organization defaults
date:
  # One of: YYYY/MM, YYYY/Month, YYYY-MM-DD, YYYY/MM/DD
  format: %s
  # One of: modified, created
  type: %s

# Watch mode
watch:
  debounce: %s

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty disables file logging)
  path: ""
  rotation:
    max_size: 10MB
    max_age: 30       # days
    max_backups: 5
    daily: true
`, DefaultCategory, DefaultManifestDir(), DefaultRetentionDays,
		DefaultDateFormat, DefaultDateType, DefaultWatchDebounce)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("failed to write default config: %w", err)
	}

	return configPath, nil
}

// ExpandPath expands a leading ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}
