package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pipeline.Speed != 1.2 {
		t.Errorf("default speed = %v, want 1.2", cfg.Pipeline.Speed)
	}
	if cfg.Pipeline.DurationBudget != 40 {
		t.Errorf("default budget = %v, want 40", cfg.Pipeline.DurationBudget)
	}
	if cfg.Pipeline.BoomVolume != 0.7 {
		t.Errorf("default boom volume = %v, want 0.7", cfg.Pipeline.BoomVolume)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("PIPELINE_SPEED", "fast")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric PIPELINE_SPEED")
	}
}

func TestValidateRejectsUnknownBackends(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Voice.Backend = "espeak"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown voice backend")
	}
	cfg.Voice.Backend = "elevenlabs"
	cfg.Resynth.Backend = "sox"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown resynth backend")
	}
}

func TestProjectFileOverlay(t *testing.T) {
	dir := t.TempDir()
	content := "topic = \"deep sea facts\"\nspeed = 1.35\nprovider = \"openai\"\nboom_sfx = \"bass-drop\"\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	fc, err := LoadProjectFile(dir)
	if err != nil {
		t.Fatalf("LoadProjectFile: %v", err)
	}
	if fc == nil {
		t.Fatal("expected file config")
	}
	if fc.Topic != "deep sea facts" {
		t.Errorf("topic = %q", fc.Topic)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.ApplyFile(fc)
	if cfg.Pipeline.Speed != 1.35 {
		t.Errorf("speed = %v, want file override 1.35", cfg.Pipeline.Speed)
	}
	if cfg.Script.DefaultProvider != "openai" {
		t.Errorf("provider = %q, want openai", cfg.Script.DefaultProvider)
	}
	if cfg.Pipeline.BoomSFX != "bass-drop" {
		t.Errorf("boom sfx = %q, want bass-drop", cfg.Pipeline.BoomSFX)
	}
	// Unset file fields leave env defaults alone.
	if cfg.Pipeline.DurationBudget != 40 {
		t.Errorf("budget = %v, want untouched default", cfg.Pipeline.DurationBudget)
	}
}

func TestLoadProjectFileMissing(t *testing.T) {
	fc, err := LoadProjectFile(t.TempDir())
	if err != nil {
		t.Fatalf("LoadProjectFile: %v", err)
	}
	if fc != nil {
		t.Errorf("missing file should yield nil, got %+v", fc)
	}
}
