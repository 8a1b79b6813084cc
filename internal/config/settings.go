package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings holds tunables that are data rather than deployment config:
// the folder color palette offered by the UI and the candidate labels
// the auto-tagger may choose from. Both have classroom defaults and can
// be overridden from a YAML file (SETTINGS_FILE).
type Settings struct {
	FolderPalette []string `yaml:"folder_palette"`
	TagLabels     []string `yaml:"tag_labels"`
}

// DefaultSettings returns the built-in palette and classroom tag labels.
func DefaultSettings() *Settings {
	return &Settings{
		FolderPalette: []string{
			"blue", "green", "red", "yellow", "purple", "pink", "indigo", "gray",
		},
		TagLabels: []string{
			"homework", "assignment", "worksheet",
			"lesson", "study guide", "notes",
			"quiz", "test", "exam",
			"mathematics", "science", "history", "english",
			"project", "rubric", "syllabus",
		},
	}
}

// LoadSettings reads settings from path, falling back to defaults for
// any field the file leaves empty. An empty path returns the defaults.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	var loaded Settings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse settings file: %w", err)
	}

	if len(loaded.FolderPalette) > 0 {
		s.FolderPalette = loaded.FolderPalette
	}
	if len(loaded.TagLabels) > 0 {
		s.TagLabels = loaded.TagLabels
	}
	return s, nil
}

// ValidColor reports whether color is in the palette. The empty string
// is accepted as "no color".
func (s *Settings) ValidColor(color string) bool {
	if color == "" {
		return true
	}
	for _, c := range s.FolderPalette {
		if c == color {
			return true
		}
	}
	return false
}
