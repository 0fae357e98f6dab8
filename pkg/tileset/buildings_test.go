package tileset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()

	if reg.Len() != 6 {
		t.Errorf("expected 6 templates, got %d", reg.Len())
	}

	tmpl, err := reg.Lookup("building_3x3")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if tmpl.Width != 3 || tmpl.Height != 3 {
		t.Errorf("building_3x3 footprint = %dx%d", tmpl.Width, tmpl.Height)
	}

	if _, err := reg.Lookup("castle"); !errors.Is(err, ErrUnknownTemplate) {
		t.Errorf("expected ErrUnknownTemplate, got %v", err)
	}

	keys := reg.Keys()
	if keys[0] != "building_1x1a" {
		t.Errorf("expected sorted keys, got %v", keys)
	}
}

func TestNewTemplatesRejectsBadFootprint(t *testing.T) {
	_, err := NewTemplates([]Template{{Key: "flat", Width: 0, Height: 2}})
	if !errors.Is(err, ErrInvalidTemplate) {
		t.Errorf("expected ErrInvalidTemplate, got %v", err)
	}

	_, err = NewTemplates([]Template{{Width: 1, Height: 1}})
	if !errors.Is(err, ErrInvalidTemplate) {
		t.Errorf("expected ErrInvalidTemplate for empty key, got %v", err)
	}
}

func TestLoadTemplates(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "buildings.yaml")

	content := `
buildings:
  - key: building_4x4
    width: 4
    height: 4
  - key: building_1x1a
    width: 2
    height: 1
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write templates: %v", err)
	}

	reg, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates failed: %v", err)
	}

	if reg.Len() != 7 {
		t.Errorf("expected 7 templates, got %d", reg.Len())
	}

	tmpl, err := reg.Lookup("building_4x4")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if tmpl.Width != 4 || tmpl.Height != 4 {
		t.Errorf("unexpected footprint %+v", tmpl)
	}

	// Overrides replace the bundled template
	tmpl, _ = reg.Lookup("building_1x1a")
	if tmpl.Width != 2 {
		t.Errorf("override not applied: %+v", tmpl)
	}
}

func TestLoadTemplatesMissingFile(t *testing.T) {
	if _, err := LoadTemplates(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
