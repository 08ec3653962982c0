package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMatchesLifecycleAssumptions(t *testing.T) {
	cfg := Default()

	if cfg.OutputWidth != 1920 || cfg.OutputHeight != 1080 {
		t.Errorf("expected default 1920x1080 output, got %dx%d", cfg.OutputWidth, cfg.OutputHeight)
	}
	if cfg.SeatName != "seat0" {
		t.Errorf("expected default seat name seat0, got %q", cfg.SeatName)
	}
	if cfg.KeyboardLayout != "us" {
		t.Errorf("expected default keyboard layout us, got %q", cfg.KeyboardLayout)
	}
	if cfg.StartType != START_REPL {
		t.Errorf("expected default start type START_REPL, got %v", cfg.StartType)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := "seat_name = \"seat1\"\noutput_width = 1280\noutput_height = 720\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SeatName != "seat1" {
		t.Errorf("expected seat1, got %q", cfg.SeatName)
	}
	if cfg.OutputWidth != 1280 || cfg.OutputHeight != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.OutputWidth, cfg.OutputHeight)
	}
	// Fields absent from the file keep Default's values.
	if cfg.KeyboardLayout != "us" {
		t.Errorf("expected default keyboard layout to survive partial load, got %q", cfg.KeyboardLayout)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "seat_name: seat2\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SeatName != "seat2" {
		t.Errorf("expected seat2, got %q", cfg.SeatName)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Errorf("expected an error for a missing config file")
	}
}

func TestDumpRoundTrips(t *testing.T) {
	cfg := Default()
	out, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if out == "" {
		t.Errorf("expected non-empty dump")
	}

	path := filepath.Join(t.TempDir(), "dump.yaml")
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		t.Fatalf("writing dump: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back != cfg {
		t.Errorf("expected dumped config to load back unchanged, got %+v", back)
	}
}
