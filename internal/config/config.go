// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"

	"github.com/artkeep/artkeep/internal/layout"
)

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Plex      PlexConfig      `toml:"plex"`
	Store     StoreConfig     `toml:"store"`
	Libraries LibrariesConfig `toml:"libraries"`
	Download  DownloadConfig  `toml:"download"`
	Schedule  ScheduleConfig  `toml:"schedule"`
}

type ServerConfig struct {
	LogLevel       string `toml:"log_level"`
	VerboseLogging bool   `toml:"verbose_logging"`
}

// PlexConfig points at the media server whose catalog is mirrored.
type PlexConfig struct {
	URL   string `toml:"url"`
	Token string `toml:"token"`
}

// StoreConfig describes the local asset store.
type StoreConfig struct {
	BaseDir string `toml:"base_dir"`
	// Layout is "assetfolders" or "flat".
	Layout       string `toml:"layout"`
	DatabasePath string `toml:"database_path"`
}

type LibrariesConfig struct {
	// Hidden library names are excluded from status views and sweeps.
	Hidden []string `toml:"hidden"`
}

// DownloadConfig selects how candidate artwork is chosen.
type DownloadConfig struct {
	// Policy is "random", "specific", or "mark_only".
	Policy   string `toml:"policy"`
	Provider string `toml:"provider"`
	// FallbackToAny widens a specific-provider request when the named
	// provider has no candidates. Explicit so the fallback is never silent.
	FallbackToAny bool `toml:"fallback_to_any"`
}

// ScheduleConfig drives the unattended download pass.
type ScheduleConfig struct {
	Enabled bool `toml:"enabled"`
	// Time is the local wall-clock trigger in 24h "15:04" form.
	Time string `toml:"time"`
	// Days are lowercase three-letter weekday names; empty means every day.
	Days []string `toml:"days"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Apply defaults
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	if cfg.Plex.URL == "" {
		cfg.Plex.URL = "http://localhost:32400"
	}
	if cfg.Store.Layout == "" {
		cfg.Store.Layout = "assetfolders"
	}
	if cfg.Store.DatabasePath == "" {
		cfg.Store.DatabasePath = "./data/artkeep.db"
	}
	if cfg.Download.Policy == "" {
		cfg.Download.Policy = "random"
	}
	if cfg.Schedule.Time == "" {
		cfg.Schedule.Time = "03:00"
	}

	return &cfg, nil
}

// Mode returns the parsed layout mode. Call Validate first; an invalid
// layout string is reported there.
func (c *Config) Mode() (layout.Mode, error) {
	return layout.ParseMode(c.Store.Layout)
}

// HiddenLibraries returns the hidden set keyed by library title.
func (c *Config) HiddenLibraries() map[string]bool {
	hidden := make(map[string]bool, len(c.Libraries.Hidden))
	for _, name := range c.Libraries.Hidden {
		hidden[name] = true
	}
	return hidden
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}
