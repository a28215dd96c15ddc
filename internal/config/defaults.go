package config

import (
	_ "embed"
)

//go:embed defaults/engine.yaml
var defaultEngineYAML []byte

// DefaultEngineConfig returns the built-in configuration: an 80x22 view
// under two HUD rows, refreshed every 125ms.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		View: ViewConfig{
			Width:   80,
			Height:  22,
			XOffset: 0,
			YOffset: 2,
		},
		RefreshMS: 125,
		Theme: map[string]string{
			"0": "gray",
			"#": "white",
			"*": "bright_yellow",
			"~": "blue",
			"+": "magenta",
			"^": "bright_green",
			"v": "bright_green",
			"<": "bright_green",
			">": "bright_green",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultEngineYAML
}
