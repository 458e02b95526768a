// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	Covers   CoversConfig   `toml:"covers"`
	Embed    EmbedConfig    `toml:"embed"`
	Ingest   IngestConfig   `toml:"ingest"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Level string `toml:"level"`
	Dir   string `toml:"dir"`
}

type CoversConfig struct {
	Dir string `toml:"dir"`
}

// EmbedConfig points playback links at the external embed service.
type EmbedConfig struct {
	BaseURL string `toml:"base_url"`
}

type IngestConfig struct {
	DefaultReleaseYear int    `toml:"default_release_year"`
	EpisodeDescription string `toml:"episode_description"`
	// DuplicateThreshold is the Jaro-Winkler similarity above which a new
	// root title is reported as a possible duplicate of an existing one.
	DuplicateThreshold float64 `toml:"duplicate_threshold"`
}

// Load reads and parses the configuration file.
// Returns a *ConfigError when environment variables are unresolved or
// validation fails.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()

	cerr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cerr.HasErrors() {
		return nil, cerr
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Database.Path == "" {
		c.Database.Path = "./data/filmpress.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Dir == "" {
		c.Log.Dir = "./log"
	}
	if c.Covers.Dir == "" {
		c.Covers.Dir = "./covers"
	}
	if c.Embed.BaseURL == "" {
		c.Embed.BaseURL = "https://www.2embed.to"
	}
	if c.Ingest.DefaultReleaseYear == 0 {
		c.Ingest.DefaultReleaseYear = 2023
	}
	if c.Ingest.EpisodeDescription == "" {
		c.Ingest.EpisodeDescription = "%s. Watch %s online in HD quality."
	}
	if c.Ingest.DuplicateThreshold == 0 {
		c.Ingest.DuplicateThreshold = 0.95
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default}, and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*|:\?[^}]*)?\}`)

// substituteEnvVars replaces ${VAR} references with environment values.
// ${VAR:-default} falls back to the default when VAR is unset or empty;
// ${VAR:?message} and plain ${VAR} are reported in the missing list when
// unresolved, leaving the reference unchanged in the content.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		name, modifier := groups[1], groups[2]

		if value := os.Getenv(name); value != "" {
			return value
		}

		if strings.HasPrefix(modifier, ":-") {
			return modifier[2:]
		}
		missing = append(missing, name)
		return match
	})
	return result, missing
}
