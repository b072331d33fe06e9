package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckPresets(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"flat.yaml":       "generator: flat\nseed: 5\n",
		"nested/deep.yml": "live_policy: deferred\n",
		"broken.yaml":     "generator: amplified\n",
		"too_high.yaml":   "pregen_y: 99999999\n",
		"README.md":       "# presets\n",
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	kept, dropped, err := checkPresets(dir)
	if err != nil {
		t.Fatalf("checkPresets: %v", err)
	}
	if kept != 2 || dropped != 2 {
		t.Errorf("kept=%d dropped=%d, want 2 and 2", kept, dropped)
	}
	for _, name := range []string{"broken.yaml", "too_high.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("invalid preset %s should be removed", name)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "README.md")); err != nil {
		t.Error("non-YAML files should be left alone")
	}
}
