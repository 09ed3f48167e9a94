package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/artkeep/artkeep/internal/layout"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validPolicies = map[string]bool{
	"random": true, "specific": true, "mark_only": true,
}

var validDays = map[string]bool{
	"mon": true, "tue": true, "wed": true, "thu": true,
	"fri": true, "sat": true, "sun": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	// Plex validation
	if c.Plex.URL == "" {
		errs = append(errs, "plex.url: required")
	} else if u, err := url.Parse(c.Plex.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("plex.url: not a valid URL: %q", c.Plex.URL))
	}
	if c.Plex.Token == "" {
		errs = append(errs, "plex.token: required")
	}

	// Store validation
	if c.Store.BaseDir == "" {
		errs = append(errs, "store.base_dir: required")
	} else if _, err := os.Stat(c.Store.BaseDir); os.IsNotExist(err) {
		errs = append(errs, fmt.Sprintf("store.base_dir: warning: directory %q does not exist", c.Store.BaseDir))
	}
	if _, err := layout.ParseMode(c.Store.Layout); err != nil {
		errs = append(errs, fmt.Sprintf("store.layout: must be assetfolders or flat; got %q", c.Store.Layout))
	}

	// Download validation
	if !validPolicies[c.Download.Policy] {
		errs = append(errs, fmt.Sprintf("download.policy: must be one of random, specific, mark_only; got %q", c.Download.Policy))
	}
	if c.Download.Policy == "specific" && c.Download.Provider == "" {
		errs = append(errs, "download.provider: required when policy is specific")
	}
	if c.Download.FallbackToAny && c.Download.Policy != "specific" {
		errs = append(errs, "download.fallback_to_any: only meaningful when policy is specific")
	}

	// Schedule validation
	if _, err := time.Parse("15:04", c.Schedule.Time); err != nil {
		errs = append(errs, fmt.Sprintf("schedule.time: must be 24h HH:MM; got %q", c.Schedule.Time))
	}
	for _, day := range c.Schedule.Days {
		if !validDays[day] {
			errs = append(errs, fmt.Sprintf("schedule.days: unknown day %q (use mon..sun)", day))
		}
	}

	return errs
}
