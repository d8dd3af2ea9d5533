// Package config loads and saves persistent list settings. Settings live in
// <profileDir>/vlist.toml; a legacy tui.json next to it still supplies the
// theme when no TOML file exists.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/miosa/osa-vlist/ui/virtual"
)

const (
	filename       = "vlist.toml"
	legacyFilename = "tui.json"
)

// Config holds persistent settings.
type Config struct {
	Theme string `toml:"theme"`

	// Items is the number of synthetic entries to generate.
	Items int    `toml:"items"`
	Seed  uint64 `toml:"seed"`

	// Repo, when set, lists that repository's commits instead.
	Repo string `toml:"repo"`

	Engine EngineConfig `toml:"engine"`
}

// EngineConfig mirrors the engine's tuning options.
type EngineConfig struct {
	ThrottleMs       int  `toml:"throttle_ms"`
	OnlyUpdateAtIdle bool `toml:"only_update_at_idle"`

	OverzealousInvalidation           bool `toml:"overzealous_invalidation"`
	ItemsOutsideViewportCanChangeSize bool `toml:"items_outside_viewport_can_change_size"`

	Placeholders        bool   `toml:"placeholders"`
	PlaceholderSize     int    `toml:"placeholder_size"`
	PlaceholderCategory string `toml:"placeholder_category"`
}

// legacy is the subset of the old tui.json still honoured.
type legacy struct {
	Theme string `json:"theme,omitempty"`
}

// Load reads <profileDir>/vlist.toml. When it is absent the legacy tui.json
// theme is applied to the defaults. A malformed TOML file returns the
// defaults together with the parse error.
func Load(profileDir string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(filepath.Join(profileDir, filename))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		loadLegacy(profileDir, &cfg)
		return cfg, nil
	case err != nil:
		return cfg, fmt.Errorf("config: read %s: %w", filename, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Defaults(), fmt.Errorf("config: parse %s: %w", filename, err)
	}
	return cfg, nil
}

func loadLegacy(profileDir string, cfg *Config) {
	data, err := os.ReadFile(filepath.Join(profileDir, legacyFilename))
	if err != nil {
		return
	}
	var l legacy
	if json.Unmarshal(data, &l) == nil && l.Theme != "" {
		cfg.Theme = l.Theme
	}
}

// Save writes cfg to <profileDir>/vlist.toml, creating the directory if needed.
func Save(profileDir string, cfg Config) error {
	if err := os.MkdirAll(profileDir, 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(filepath.Join(profileDir, filename), data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", filename, err)
	}
	return nil
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Theme: "dark",
		Items: 10000,
		Seed:  1,
		Engine: EngineConfig{
			ThrottleMs:      16,
			Placeholders:    true,
			PlaceholderSize: 1,
		},
	}
}

// Optimizations converts the engine settings.
func (c Config) Optimizations() virtual.Optimizations {
	return virtual.Optimizations{
		Throttle:         time.Duration(c.Engine.ThrottleMs) * time.Millisecond,
		OnlyUpdateAtIdle: c.Engine.OnlyUpdateAtIdle,
	}
}

// Deoptimizations converts the engine settings.
func (c Config) Deoptimizations() virtual.Deoptimizations {
	return virtual.Deoptimizations{
		OverzealousInvalidation:           c.Engine.OverzealousInvalidation,
		ItemsOutsideViewportCanChangeSize: c.Engine.ItemsOutsideViewportCanChangeSize,
	}
}

// Placeholders converts the placeholder settings. ok is false when
// placeholders are disabled or have no usable size.
func (c Config) Placeholders() (p virtual.Placeholders, ok bool) {
	e := c.Engine
	if !e.Placeholders || (e.PlaceholderSize <= 0 && e.PlaceholderCategory == "") {
		return virtual.Placeholders{}, false
	}
	return virtual.Placeholders{Size: e.PlaceholderSize, Category: e.PlaceholderCategory}, true
}

// ProfileDir returns ~/.osa, or ~/.osa/profiles/<profile> for a named profile.
func ProfileDir(profile string) string {
	home, _ := os.UserHomeDir()
	if profile == "" {
		return filepath.Join(home, ".osa")
	}
	return filepath.Join(home, ".osa", "profiles", profile)
}
