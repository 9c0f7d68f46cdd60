// Package config provides TOML-based configuration for refreshlist.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "refreshlist"

// Config is the top-level configuration.
type Config struct {
	Gesture GestureConfig `toml:"gesture"`
	Refresh RefreshConfig `toml:"refresh"`
	Feed    FeedConfig    `toml:"feed"`
	Log     LogConfig     `toml:"log"`
}

// GestureConfig sizes the pull gesture in terminal rows. The header height
// is measured from the rendered header and is not configurable.
type GestureConfig struct {
	Threshold    int `toml:"threshold"`
	PinnedOffset int `toml:"pinned_offset"`
}

// RefreshConfig controls the refresh task.
type RefreshConfig struct {
	Delay     Duration `toml:"delay"`
	BatchSize int      `toml:"batch_size"`
	// Timeout bounds how long the list may stay in the refreshing state.
	// Zero disables the bound.
	Timeout Duration `toml:"timeout"`
	Command string   `toml:"command"`
}

type FeedConfig struct {
	SeedCount int    `toml:"seed_count"`
	SeedFile  string `toml:"seed_file"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Duration is a refresh timing such as refresh.delay or refresh.timeout,
// written in the file as a Go duration string ("2s", "500ms").
type Duration struct {
	time.Duration
}

// UnmarshalText reads a duration string. An empty string is zero, which for
// refresh.timeout leaves refreshes unbounded. Negative values are rejected.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if parsed < 0 {
		return fmt.Errorf("negative duration %q not allowed", s)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Gesture: GestureConfig{
			Threshold:    2,
			PinnedOffset: 1,
		},
		Refresh: RefreshConfig{
			Delay:     Duration{2 * time.Second},
			BatchSize: 1,
		},
		Feed: FeedConfig{
			SeedCount: 10,
		},
		Log: LogConfig{
			Level: "info",
			File:  defaultLogFile(),
		},
	}
}

// Load reads configuration from path, or from the standard search paths
// when path is empty. Search order:
//  1. $XDG_CONFIG_HOME/refreshlist/config.toml
//  2. ~/.config/refreshlist/config.toml
//
// If no file exists, returns DefaultConfig() with environment overrides.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFromFile(path)
	}
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path. A missing
// file yields the defaults.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if err := applyEnvOverrides(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader decodes TOML over the defaults and applies environment
// overrides.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Gesture.Threshold < 0 {
		errs = append(errs, fmt.Errorf("gesture.threshold must not be negative, got %d", c.Gesture.Threshold))
	}
	if c.Gesture.PinnedOffset < 0 {
		errs = append(errs, fmt.Errorf("gesture.pinned_offset must not be negative, got %d", c.Gesture.PinnedOffset))
	}
	if c.Refresh.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("refresh.batch_size must be at least 1, got %d", c.Refresh.BatchSize))
	}
	if c.Feed.SeedCount < 0 {
		errs = append(errs, fmt.Errorf("feed.seed_count must not be negative, got %d", c.Feed.SeedCount))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	return errors.Join(errs...)
}

// applyEnvOverrides checks REFRESHLIST_* variables and overrides config values.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("REFRESHLIST_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("REFRESHLIST_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("REFRESHLIST_REFRESH_COMMAND"); v != "" {
		cfg.Refresh.Command = v
	}
	if v := os.Getenv("REFRESHLIST_SEED_FILE"); v != "" {
		cfg.Feed.SeedFile = v
	}
	if v := os.Getenv("REFRESHLIST_REFRESH_DELAY"); v != "" {
		if err := cfg.Refresh.Delay.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("REFRESHLIST_REFRESH_DELAY: %w", err)
		}
	}
	if v := os.Getenv("REFRESHLIST_REFRESH_TIMEOUT"); v != "" {
		if err := cfg.Refresh.Timeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("REFRESHLIST_REFRESH_TIMEOUT: %w", err)
		}
	}
	if v := os.Getenv("REFRESHLIST_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REFRESHLIST_THRESHOLD: %w", err)
		}
		cfg.Gesture.Threshold = n
	}
	return nil
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := os.Getenv("XDG_CONFIG_HOME")
	defaultXDG := filepath.Join(home, ".config")
	if xdg != "" && xdg != defaultXDG {
		paths = append(paths, filepath.Join(xdg, appName, "config.toml"))
	}
	return append(paths, filepath.Join(defaultXDG, appName, "config.toml"))
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, appName, appName+".log")
}
