package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettings(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		s, err := LoadSettings("")
		if err != nil {
			t.Fatalf("LoadSettings failed: %v", err)
		}
		if len(s.FolderPalette) == 0 || len(s.TagLabels) == 0 {
			t.Error("defaults missing palette or labels")
		}
	})

	t.Run("file overrides only the fields it sets", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		data := "folder_palette:\n  - teal\n  - maroon\n"
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}

		s, err := LoadSettings(path)
		if err != nil {
			t.Fatalf("LoadSettings failed: %v", err)
		}
		if len(s.FolderPalette) != 2 || s.FolderPalette[0] != "teal" {
			t.Errorf("palette = %v, want [teal maroon]", s.FolderPalette)
		}
		if len(s.TagLabels) == 0 {
			t.Error("tag labels should fall back to defaults")
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := LoadSettings("/does/not/exist.yaml"); err == nil {
			t.Error("LoadSettings succeeded, want error")
		}
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("folder_palette: {"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadSettings(path); err == nil {
			t.Error("LoadSettings succeeded, want error")
		}
	})
}

func TestSettings_ValidColor(t *testing.T) {
	s := DefaultSettings()

	if !s.ValidColor("blue") {
		t.Error("palette color rejected")
	}
	if !s.ValidColor("") {
		t.Error("empty color should be accepted")
	}
	if s.ValidColor("chartreuse") {
		t.Error("non-palette color accepted")
	}
}
