// Package config provides YAML-based engine configuration loading:
// view geometry, refresh rate and the glyph color theme.
package config

import (
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-charstage/internal/core"
)

// EngineConfig contains the settings shared by every game.
type EngineConfig struct {
	View      ViewConfig        `yaml:"view"`
	RefreshMS int               `yaml:"refresh_ms"`
	Theme     map[string]string `yaml:"theme"` // glyph -> color name
}

// ViewConfig places the scene region on the sink.
// A zero width or height means "the rest of the screen".
type ViewConfig struct {
	Width   uint16 `yaml:"width"`
	Height  uint16 `yaml:"height"`
	XOffset uint16 `yaml:"x_offset"`
	YOffset uint16 `yaml:"y_offset"`
}

// Refresh returns the tick interval, falling back to the default for
// non-positive values.
func (c EngineConfig) Refresh() time.Duration {
	if c.RefreshMS <= 0 {
		return core.DefaultConfig().Refresh
	}
	return time.Duration(c.RefreshMS) * time.Millisecond
}

// Runtime builds the per-game runtime config for a sink of the given size.
// The view is shrunk to fit the sink.
func (c EngineConfig) Runtime(screenW, screenH uint16) core.RuntimeConfig {
	rc := core.RuntimeConfig{
		ScreenW: screenW,
		ScreenH: screenH,
		ViewX:   min(c.View.XOffset, screenW),
		ViewY:   min(c.View.YOffset, screenH),
		Refresh: c.Refresh(),
	}

	rc.ViewW = screenW - rc.ViewX
	if c.View.Width != 0 && c.View.Width < rc.ViewW {
		rc.ViewW = c.View.Width
	}
	rc.ViewH = screenH - rc.ViewY
	if c.View.Height != 0 && c.View.Height < rc.ViewH {
		rc.ViewH = c.View.Height
	}
	return rc
}

// ThemeColors resolves the theme into glyph colors. Entries with a
// multi-character key or an unknown color name are skipped.
func (c EngineConfig) ThemeColors() map[rune]core.Color {
	colors := make(map[rune]core.Color, len(c.Theme))
	for glyph, name := range c.Theme {
		if utf8.RuneCountInString(glyph) != 1 {
			log.Warn("ignoring theme entry", "glyph", glyph, "reason", "not a single character")
			continue
		}
		color, ok := core.ParseColor(name)
		if !ok {
			log.Warn("ignoring theme entry", "glyph", glyph, "color", name, "reason", "unknown color")
			continue
		}
		r, _ := utf8.DecodeRuneInString(glyph)
		colors[r] = color
	}
	return colors
}
