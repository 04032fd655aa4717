// Package config loads persistent preferences from a TOML file under the
// user config directory, with CLAUDESWEEP_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full preferences document.
type Config struct {
	Scan     ScanConfig     `mapstructure:"scan"`
	Display  DisplayConfig  `mapstructure:"display"`
	Behavior BehaviorConfig `mapstructure:"behavior"`
}

// ScanConfig holds scan-related preferences.
type ScanConfig struct {
	// DefaultPaths are scanned when no --path is given; empty means the
	// home directory.
	DefaultPaths []string `mapstructure:"default_paths"`
	// ExcludePatterns are substrings that exclude matching paths.
	ExcludePatterns []string `mapstructure:"exclude_patterns"`
	// IncludeGlobal includes the marker directory in the home root.
	IncludeGlobal bool `mapstructure:"include_global"`
}

// DisplayConfig holds display preferences.
type DisplayConfig struct {
	ShowProjectType bool   `mapstructure:"show_project_type"`
	ShowFilterBar   bool   `mapstructure:"show_filter_bar"`
	DefaultSort     string `mapstructure:"default_sort"`
}

// BehaviorConfig holds deletion behavior preferences.
type BehaviorConfig struct {
	PermanentDelete bool `mapstructure:"permanent_delete"`
	ConfirmDelete   bool `mapstructure:"confirm_delete"`
}

// Default returns the built-in preferences.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			ShowProjectType: true,
			DefaultSort:     "size_desc",
		},
		Behavior: BehaviorConfig{
			ConfirmDelete: true,
		},
	}
}

// Dir is the configuration directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(base, "claudesweep"), nil
}

// Path is the configuration file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file, falling back to defaults when it is missing.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return Default(), err
	}
	return loadFrom(dir)
}

func loadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("CLAUDESWEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Default(), fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scan.default_paths", []string{})
	v.SetDefault("scan.exclude_patterns", []string{})
	v.SetDefault("scan.include_global", false)
	v.SetDefault("display.show_project_type", true)
	v.SetDefault("display.show_filter_bar", false)
	v.SetDefault("display.default_sort", "size_desc")
	v.SetDefault("behavior.permanent_delete", false)
	v.SetDefault("behavior.confirm_delete", true)
}

// InitDefault writes a commented default config file. Returns false when
// one already exists.
func InitDefault() (bool, error) {
	path, err := Path()
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(defaultContent(path)), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

func defaultContent(path string) string {
	return fmt.Sprintf(`# claudesweep configuration
# Location: %s

[scan]
# Default paths to scan (empty = home directory)
# default_paths = ["~/Projects", "~/Work"]

# Substring patterns to exclude from scanning
# exclude_patterns = ["node_modules", ".git"]

# Include the global ~/.claude directory in the scan
include_global = false

[display]
# Show the project type column
show_project_type = true

# Show the filter bar by default
show_filter_bar = false

# Default sort: "size_desc", "size_asc", "name_asc", "name_desc", "date_desc", "date_asc"
default_sort = "size_desc"

[behavior]
# Permanently delete instead of moving to trash
permanent_delete = false

# Ask for confirmation before deleting
confirm_delete = true
`, path)
}
