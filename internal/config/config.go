// Package config reads the optional TOML config file. Everything in it is a
// default that flags and environment variables override.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const configFileName = "config.toml"

type Config struct {
	DefaultTeam string `toml:"default_team"`
	APIKey      string `toml:"api_key"`
}

func DefaultPath() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "lnr", configFileName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}

	return filepath.Join(home, ".config", "lnr", configFileName), nil
}

// Load reads the config at path. A missing file is not an error; a malformed
// one is, so a typo never silently drops settings.
func Load(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ResolveTeam returns the explicit team when given, otherwise the configured
// default. An empty result means no team is known.
func (c Config) ResolveTeam(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return c.DefaultTeam
}
