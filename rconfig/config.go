// Package rconfig loads the YAML render configuration every gocko
// entry point accepts, the way the teacher's config.LoadConfiguration
// builds a Config from a template plus a user file: start from an
// in-memory default, then yaml.Unmarshal the user's file on top of it,
// so an omitted field keeps its default rather than zeroing out.
//
// The teacher additionally runs its defaults through github.com/rupor-
// github/gencfg (a templating/validation layer for its file-converter
// config). gencfg is not part of this module's dependency set, so
// rconfig does the "defaults first, then override" step directly with
// yaml.v3 against a struct whose zero value already carries sane
// defaults — the same shape gencfg produces, minus its Go-template
// expansion pass, which gocko's flat config has no use for.
package rconfig

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"gocko/rlog"
)

// RenderConfig is the top-level document a gocko-render invocation
// loads, covering the knobs spec §6 lists as render-core inputs that
// aren't per-call arguments: viewport size, dark-mode override, where
// to find fonts, and how verbose the shared logger should be.
type RenderConfig struct {
	Viewport ViewportConfig `yaml:"viewport"`
	DarkMode bool           `yaml:"dark_mode"`
	Fonts    FontsConfig    `yaml:"fonts"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// FontsConfig points at the font directory the text renderer loads
// glyphs from, plus a fallback family used when a requested family
// resolves to nothing on disk (spec §4.5's "measure-text fallback").
type FontsConfig struct {
	Directory      string `yaml:"directory"`
	FallbackFamily string `yaml:"fallback_family"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration gocko-render uses when no file is
// given: a 1024x768 viewport (matching gocko/cssom/values's own
// fallback ResolveContext), light mode, no font directory (callers
// fall back to whatever the injected TextRenderer does on its own),
// and a quiet logger.
func Default() RenderConfig {
	return RenderConfig{
		Viewport: ViewportConfig{Width: 1024, Height: 768},
		DarkMode: false,
		Fonts: FontsConfig{
			FallbackFamily: "sans-serif",
		},
		Logging: LoggingConfig{Level: "none"},
	}
}

// Load reads path, overriding Default()'s fields with whatever the
// file sets. A missing path is not an error: it returns Default()
// unchanged, so `gocko-render` works with zero configuration.
func Load(path string) (RenderConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("rconfig: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("rconfig: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Logger builds the shared zap.Logger this configuration's Logging
// section describes.
func (c RenderConfig) Logger() *zap.Logger {
	return rlog.New(rlog.Options{Level: rlog.Level(c.Logging.Level), Name: "gocko"})
}
