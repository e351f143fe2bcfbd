package rconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingPathReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Errorf("Load(missing) = %+v, want default %+v", cfg, want)
	}
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want default", cfg)
	}
}

func TestLoadOverridesOnlySpecifiedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	if err := os.WriteFile(path, []byte("dark_mode: true\nviewport:\n  width: 1440\n"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.DarkMode {
		t.Error("DarkMode = false, want true from file override")
	}
	if cfg.Viewport.Width != 1440 {
		t.Errorf("Viewport.Width = %v, want 1440", cfg.Viewport.Width)
	}
	if cfg.Viewport.Height != Default().Viewport.Height {
		t.Errorf("Viewport.Height = %v, want default %v (unset in file)", cfg.Viewport.Height, Default().Viewport.Height)
	}
	if cfg.Fonts.FallbackFamily != Default().Fonts.FallbackFamily {
		t.Errorf("Fonts.FallbackFamily = %q, want default %q", cfg.Fonts.FallbackFamily, Default().Fonts.FallbackFamily)
	}
}
