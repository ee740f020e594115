// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	LogLevel *string    `toml:"log-level"`
	Game     GameConfig `toml:"game"`
}

// GameConfig maps game-related settings.
type GameConfig struct {
	Story        *string `toml:"story"`
	AdvanceDelay *string `toml:"advance-delay"`
	PlainPunct   *bool   `toml:"plain-punct"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// ResolveLogLevel picks the log level: environment first, then file, then "info".
func (c FileConfig) ResolveLogLevel() string {
	if v := strings.TrimSpace(os.Getenv("TYPESYMPHONY_LOG_LEVEL")); v != "" {
		return v
	}
	if c.LogLevel != nil && *c.LogLevel != "" {
		return *c.LogLevel
	}
	return "info"
}
