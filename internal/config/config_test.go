package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":8080" || cfg.DatabasePath != "ep-reader.db" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.MaxUploadSize != 50<<20 || cfg.LogLevel != "info" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	err := os.WriteFile(path, []byte("addr: \":9000\"\nlog_level: debug\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("EPREADER_ADDR", ":7000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("addr = %q, env should win over file", cfg.Addr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("logLevel = %q, want debug from file", cfg.LogLevel)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
