package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PrintQuote/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.Defaults.PlateCost = 15
	cfg.Theme = "dark"
	cfg.WastePercent = 3
	cfg.RecentQuotes = []string{"/tmp/a.pquote", "/tmp/b.pquote"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.Defaults.PlateCost != 15 {
		t.Errorf("expected PlateCost=15, got %f", loaded.Defaults.PlateCost)
	}
	if loaded.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", loaded.Theme)
	}
	if loaded.WastePercent != 3 {
		t.Errorf("expected WastePercent=3, got %f", loaded.WastePercent)
	}
	if len(loaded.RecentQuotes) != 2 {
		t.Errorf("expected 2 recent quotes, got %d", len(loaded.RecentQuotes))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.ServerAddr != ":8080" {
		t.Errorf("expected default server address, got %s", cfg.ServerAddr)
	}
}

func TestLoadAppConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"theme": "light"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.Theme != "light" {
		t.Errorf("expected Theme=light, got %s", cfg.Theme)
	}
	if cfg.MemoMaxEntries != 4096 {
		t.Errorf("expected default MemoMaxEntries, got %d", cfg.MemoMaxEntries)
	}
	if cfg.RecentQuotes == nil {
		t.Error("expected non-nil RecentQuotes")
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAppConfig(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "config.json")
	if err := SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file was not created: %v", err)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if filepath.Base(path) != "config.json" {
		t.Errorf("expected config.json, got %s", filepath.Base(path))
	}
	if filepath.Base(filepath.Dir(path)) != ".printquote" {
		t.Errorf("expected parent dir .printquote, got %s", filepath.Dir(path))
	}
}
