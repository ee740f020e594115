package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Game.Story != nil || cfg.LogLevel != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigDecodesGameSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `log-level = "debug"

[game]
story = "/tmp/story.toml"
advance-delay = "2s"
plain-punct = false
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Game.Story == nil || *cfg.Game.Story != "/tmp/story.toml" {
		t.Fatalf("unexpected story: %v", cfg.Game.Story)
	}
	if cfg.Game.AdvanceDelay == nil || *cfg.Game.AdvanceDelay != "2s" {
		t.Fatalf("unexpected advance delay: %v", cfg.Game.AdvanceDelay)
	}
	if cfg.Game.PlainPunct == nil || *cfg.Game.PlainPunct {
		t.Fatalf("expected plain-punct=false")
	}
	t.Setenv("TYPESYMPHONY_LOG_LEVEL", "")
	if got := cfg.ResolveLogLevel(); got != "debug" {
		t.Fatalf("expected debug log level, got %q", got)
	}
}

func TestResolveLogLevelPrefersEnv(t *testing.T) {
	level := "warn"
	cfg := FileConfig{LogLevel: &level}
	t.Setenv("TYPESYMPHONY_LOG_LEVEL", "error")
	if got := cfg.ResolveLogLevel(); got != "error" {
		t.Fatalf("expected env level, got %q", got)
	}
}

func TestDefaultDBPathOverride(t *testing.T) {
	t.Setenv("TYPESYMPHONY_DB", "/tmp/custom.db")
	if got := DefaultDBPath(); got != "/tmp/custom.db" {
		t.Fatalf("expected override path, got %q", got)
	}
}
