package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PrintQuote/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.Theme = "dark"
	cfg.Defaults.MakeReadyCost = 45

	inv := model.DefaultInventory()
	templates := model.NewTemplateStore()
	templates.Add(model.BuiltInTemplates()[1])

	if err := ExportAllData(path, cfg, inv, templates, []model.CutterProfile{customProfile()}); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}

	if backup.Version != BackupVersion {
		t.Errorf("expected version %s, got %s", BackupVersion, backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if backup.Config.Theme != "dark" || backup.Config.Defaults.MakeReadyCost != 45 {
		t.Errorf("unexpected config %+v", backup.Config)
	}
	if len(backup.Inventory.Papers) != len(inv.Papers) {
		t.Errorf("expected %d papers, got %d", len(inv.Papers), len(backup.Inventory.Papers))
	}
	if len(backup.Templates.Templates) != 1 {
		t.Errorf("expected 1 template, got %d", len(backup.Templates.Templates))
	}
	if len(backup.Profiles) != 1 || backup.Profiles[0].Name != "Schneider" {
		t.Errorf("unexpected profiles %+v", backup.Profiles)
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := os.WriteFile(path, []byte(`{"config": {}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportAllData(path); err == nil {
		t.Error("expected error for missing version")
	}
}

func TestImportAllDataNilSlices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := os.WriteFile(path, []byte(`{"version": "1.0.0"}`), 0644); err != nil {
		t.Fatal(err)
	}
	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Config.RecentQuotes == nil || backup.Templates.Templates == nil || backup.Profiles == nil {
		t.Error("expected non-nil slices")
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	if _, err := ImportAllData(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
