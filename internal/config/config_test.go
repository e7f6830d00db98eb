package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Theme != "dark" {
		t.Errorf("Expected default theme, got %q", cfg.Theme)
	}
	if cfg.PaneSizes == nil || cfg.Panels == nil {
		t.Error("Expected maps initialized")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Update(func(c *Config) {
		c.Theme = "light"
		c.DefaultEditor = "zed"
		c.PaneSizes["sidebar"] = 32
		c.DiffExpansion["a.go"] = false
		c.Panels["w1"] = PanelFlags{Sidebar: true, BottomBar: true}
	})
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.GetTheme() != "light" {
		t.Errorf("Expected light theme, got %q", loaded.GetTheme())
	}
	if loaded.GetEditor() != "zed" {
		t.Errorf("Expected zed editor, got %q", loaded.GetEditor())
	}
	expansion, sizes, _ := loaded.Snapshot()
	if sizes["sidebar"] != 32 {
		t.Errorf("Expected sidebar size 32, got %d", sizes["sidebar"])
	}
	if v, ok := expansion["a.go"]; !ok || v {
		t.Errorf("Expected collapsed override for a.go, got %v/%v", v, ok)
	}
	if f, ok := loaded.PanelFlagsFor("w1"); !ok || !f.Sidebar || f.RightSidebar {
		t.Errorf("Expected persisted panel flags, got %+v/%v", f, ok)
	}
}

func TestSaveWithoutPath(t *testing.T) {
	cfg := New()
	if err := cfg.Save(); err == nil {
		t.Error("Expected error saving config with no path")
	}
}
