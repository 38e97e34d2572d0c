// Package config provides configuration types and defaults for deadlines.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zjrosen/deadlines/internal/calendar"
)

// Config holds all configuration options for deadlines.
type Config struct {
	DBPath  string        `mapstructure:"db_path"`
	Log     LogConfig     `mapstructure:"log"`
	Display DisplayConfig `mapstructure:"display"`
}

// LogConfig controls the rolling debug log.
type LogConfig struct {
	File       string `mapstructure:"file"` // empty disables logging
	Debug      bool   `mapstructure:"debug"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// DisplayConfig controls how task lists are printed.
type DisplayConfig struct {
	// DateFormat is a Go time layout used for deadlines in listings.
	DateFormat   string `mapstructure:"date_format"`
	ShowTags     bool   `mapstructure:"show_tags"`
	MaxNameWidth int    `mapstructure:"max_name_width"`
	Color        bool   `mapstructure:"color"`
}

// DefaultDir returns ~/.deadlines, falling back to the working directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".deadlines"
	}
	return filepath.Join(home, ".deadlines")
}

// DefaultConfigPath returns ~/.config/deadlines/config.yaml.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(DefaultDir(), "config.yaml")
	}
	return filepath.Join(dir, "deadlines", "config.yaml")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	dir := DefaultDir()
	return Config{
		DBPath: filepath.Join(dir, "deadlines.db"),
		Log: LogConfig{
			File:       filepath.Join(dir, "deadlines.log"),
			MaxSizeMB:  5,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Display: DisplayConfig{
			DateFormat:   "Mon 2006-01-02 15:04",
			ShowTags:     true,
			MaxNameWidth: 48,
			Color:        true,
		},
	}
}

// Validate checks configuration for errors.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("log: rotation limits must not be negative")
	}
	if c.Display.MaxNameWidth != 0 && c.Display.MaxNameWidth < 8 {
		return fmt.Errorf("display.max_name_width must be at least 8, got %d", c.Display.MaxNameWidth)
	}
	if c.Display.DateFormat != "" {
		if err := validateLayout(c.Display.DateFormat); err != nil {
			return fmt.Errorf("display.date_format: %w", err)
		}
	}
	return nil
}

// validateLayout rejects layouts that would print a constant string, which is
// what time.Format does with a layout containing no reference fields.
func validateLayout(layout string) error {
	sample := calendar.FromMillis(0)
	if sample.Format(layout) == calendar.NextDay(sample).Format(layout) {
		return fmt.Errorf("layout %q does not include the date", layout)
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Deadlines Configuration

# Path to the task database (default: ~/.deadlines/deadlines.db)
# db_path: /path/to/deadlines.db

# Debug log, rotated by size
log:
  # file: ~/.deadlines/deadlines.log   # empty string disables logging
  debug: false
  max_size_mb: 5
  max_backups: 3
  max_age_days: 28

# Task listings
display:
  date_format: "Mon 2006-01-02 15:04"   # Go time layout
  show_tags: true
  max_name_width: 48                    # longer names are truncated with …
  color: true

# Weeks always run Monday 00:00 to Sunday 23:59:59 and are not configurable.
#
# Due windows for 'deadlines list --due':
#   today, tomorrow, week, next-week, overdue, all
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
