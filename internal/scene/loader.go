package scene

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/wanderwall.yaml
var defaultWanderwallYAML []byte

// embedded maps scene names to their built-in documents.
var embedded = map[string][]byte{
	"wanderwall": defaultWanderwallYAML,
}

// Parse decodes a scene document.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("scene: cannot parse: %w", err)
	}
	return doc, nil
}

// Load finds and parses the named scene.
// Search order: customPath -> ~/.charstage/scenes/<name>.yaml ->
// ./scenes/<name>.yaml -> embedded default.
func Load(customPath, name string) (Document, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Document{}, fmt.Errorf("scene: cannot read %s: %w", customPath, err)
		}
		doc, err := Parse(data)
		if err != nil {
			return Document{}, fmt.Errorf("%s: %w", customPath, err)
		}
		return doc, nil
	}

	filename := name + ".yaml"
	for _, path := range []string{userScenePath(filename), filepath.Join("scenes", filename)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		doc, err := Parse(data)
		if err != nil {
			log.Warn("ignoring broken scene file", "path", path, "error", err)
			continue
		}
		log.Debug("loaded scene", "path", path)
		return doc, nil
	}

	return Default(name)
}

// Default returns the built-in scene with the given name.
func Default(name string) (Document, error) {
	data, ok := embedded[name]
	if !ok {
		return Document{}, fmt.Errorf("scene: no built-in scene %q", name)
	}
	return Parse(data)
}

// userScenePath returns the path to a user scene file, or empty if home is unavailable.
func userScenePath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".charstage", "scenes", filename)
}
