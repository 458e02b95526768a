package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	if c.Ingest.DuplicateThreshold < 0 || c.Ingest.DuplicateThreshold > 1 {
		errs = append(errs, fmt.Sprintf("ingest.duplicate_threshold: must be between 0 and 1, got %g", c.Ingest.DuplicateThreshold))
	}

	// The episode description template is filled with the episode title twice.
	if n := strings.Count(c.Ingest.EpisodeDescription, "%s"); n > 2 {
		errs = append(errs, fmt.Sprintf("ingest.episode_description: at most two %%s placeholders, got %d", n))
	}

	if c.Ingest.DefaultReleaseYear < 1900 || c.Ingest.DefaultReleaseYear > 2100 {
		errs = append(errs, fmt.Sprintf("ingest.default_release_year: implausible year %d", c.Ingest.DefaultReleaseYear))
	}

	return errs
}
