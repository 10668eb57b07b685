package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	d := Default()
	if d.MaxDepth != 4096 {
		t.Errorf("default MaxDepth = %d, want 4096", d.MaxDepth)
	}
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limits.yaml")
	if err := os.WriteFile(path, []byte("max_depth: 128\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	limits, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if limits.MaxDepth != 128 {
		t.Errorf("MaxDepth = %d, want 128", limits.MaxDepth)
	}
	if limits.RandSeed != Default().RandSeed {
		t.Errorf("RandSeed = %d, want unchanged default %d", limits.RandSeed, Default().RandSeed)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error loading a nonexistent config file")
	}
}
