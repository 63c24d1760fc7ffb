package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load("", t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if s.SectionHeading != "Holos" {
		t.Errorf("SectionHeading = %q, want %q", s.SectionHeading, "Holos")
	}
	if s.TrackFolder != "Tracks" {
		t.Errorf("TrackFolder = %q, want %q", s.TrackFolder, "Tracks")
	}
	if s.TemplateFolder != "Templates" {
		t.Errorf("TemplateFolder = %q, want %q", s.TemplateFolder, "Templates")
	}
	if s.Blocks != 1 || s.Columns != 7 {
		t.Errorf("view = (%d, %d), want (1, 7)", s.Blocks, s.Columns)
	}
	if !s.WeekFormat || s.WeekStartOn != 0 {
		t.Errorf("week = (%v, %d), want (true, 0)", s.WeekFormat, s.WeekStartOn)
	}
	if s.Debounce() != 200*time.Millisecond {
		t.Errorf("Debounce() = %v, want 200ms", s.Debounce())
	}
	if s.RefreshInterval() != 5*time.Minute {
		t.Errorf("RefreshInterval() = %v, want 5m", s.RefreshInterval())
	}
	if s.LookaheadDays != 14 {
		t.Errorf("LookaheadDays = %d, want 14", s.LookaheadDays)
	}
}

func TestLoadFromVaultFile(t *testing.T) {
	vault := t.TempDir()
	cfg := "sectionHeading: Plan\nautosaveDebounceMs: 500\ncolumns: 5\n"
	if err := os.WriteFile(filepath.Join(vault, ".holos.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load("", vault)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.SectionHeading != "Plan" {
		t.Errorf("SectionHeading = %q, want %q", s.SectionHeading, "Plan")
	}
	if s.Debounce() != 500*time.Millisecond {
		t.Errorf("Debounce() = %v, want 500ms", s.Debounce())
	}
	if s.Columns != 5 {
		t.Errorf("Columns = %d, want 5", s.Columns)
	}
	if s.Vault != vault {
		t.Errorf("Vault = %q, want %q", s.Vault, vault)
	}
	// Unset keys keep their defaults.
	if s.TrackFolder != "Tracks" {
		t.Errorf("TrackFolder = %q, want default %q", s.TrackFolder, "Tracks")
	}
}

func TestLoadExplicitPathMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), ""); err == nil {
		t.Error("Load() with a missing explicit config = nil error, want failure")
	}
}
