package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Discover finds the config file using the standard search order.
// Search order:
//  1. FILMPRESS_CONFIG environment variable
//  2. ./config.toml (current directory)
//  3. $XDG_CONFIG_HOME/filmpress/config.toml
//  4. /etc/filmpress/config.toml
func Discover() (string, error) {
	if envPath := os.Getenv("FILMPRESS_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("FILMPRESS_CONFIG=%s: %w", envPath, err)
		}
		return envPath, nil
	}

	paths := []string{"./config.toml"}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			configHome = filepath.Join(home, ".config")
		}
	}
	if configHome != "" {
		paths = append(paths, filepath.Join(configHome, "filmpress", "config.toml"))
	}
	paths = append(paths, "/etc/filmpress/config.toml")

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched %v)", paths)
}
