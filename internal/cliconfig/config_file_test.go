package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfig(t, `
listen_addr = ":4000"
objects_addr = "10.0.0.5:4001"
markers_addr = "10.0.0.5:4002"
size_threshold = 0.5
max_objects = 4
poll_interval = "250ms"
once = true
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}

	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, nil); err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}

	if cfg.ListenAddr != ":4000" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.ObjectsAddr != "10.0.0.5:4001" {
		t.Errorf("ObjectsAddr = %q", cfg.ObjectsAddr)
	}
	if cfg.SizeThreshold != 0.5 {
		t.Errorf("SizeThreshold = %v", cfg.SizeThreshold)
	}
	if cfg.MaxObjects != 4 {
		t.Errorf("MaxObjects = %d", cfg.MaxObjects)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
	if !cfg.Once {
		t.Error("Once = false, want true")
	}
}

func TestApplyFileConfigRespectsChangedFlags(t *testing.T) {
	fc := FileConfig{
		ListenAddr:    ":4000",
		SizeThreshold: 0.5,
	}

	cfg := DefaultConfig()
	cfg.ListenAddr = ":5000"
	cfg.SizeThreshold = 0.7
	changed := map[string]bool{"listen": true, "size-threshold": true}

	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}

	if cfg.ListenAddr != ":5000" {
		t.Errorf("ListenAddr = %q, flag value overridden by file", cfg.ListenAddr)
	}
	if cfg.SizeThreshold != 0.7 {
		t.Errorf("SizeThreshold = %v, flag value overridden by file", cfg.SizeThreshold)
	}
}

func TestLoadFileConfigBadDuration(t *testing.T) {
	path := writeConfig(t, `poll_interval = "soon"`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}

	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, nil); err == nil {
		t.Error("ApplyFileConfig accepted an unparseable duration")
	}
}

func TestLoadFileConfigBadTOML(t *testing.T) {
	path := writeConfig(t, `listen_addr = [`)
	if _, err := LoadFileConfig(path); err == nil {
		t.Error("LoadFileConfig accepted malformed TOML")
	}
}
