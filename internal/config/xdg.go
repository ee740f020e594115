// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appDir = "typesymphony"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultDBPath returns the path for the SQLite database.
// TYPESYMPHONY_DB takes precedence over the XDG location.
func DefaultDBPath() string {
	if v := os.Getenv("TYPESYMPHONY_DB"); v != "" {
		return v
	}
	return filepath.Join(XDGDataHome(), appDir, "typesymphony.db")
}

// DefaultLogPath returns the log file used while the game screen is open.
func DefaultLogPath() string {
	return filepath.Join(XDGDataHome(), appDir, "typesymphony.log")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appDir, "config.toml")
}
