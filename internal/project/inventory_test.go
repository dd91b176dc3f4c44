package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PrintQuote/internal/model"
)

func TestDefaultInventoryPath(t *testing.T) {
	path, err := DefaultInventoryPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "inventory.json" {
		t.Errorf("expected filename inventory.json, got %s", filepath.Base(path))
	}
	if dir := filepath.Base(filepath.Dir(path)); dir != ".printquote" {
		t.Errorf("expected parent dir .printquote, got %s", dir)
	}
}

func TestSaveAndLoadInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_inventory.json")

	inv := model.Inventory{
		Papers: []model.PaperStock{
			model.NewPaperStock("Test Gloss", 150, 100, 70, 0.7),
		},
		Candidates: []model.SheetCandidate{
			model.NewSheetCandidate("70x100 Half", 100, 70, 50, 70, 2),
		},
	}

	if err := SaveInventory(path, inv); err != nil {
		t.Fatalf("SaveInventory failed: %v", err)
	}

	loaded, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}

	if len(loaded.Papers) != 1 || loaded.Papers[0].Name != "Test Gloss" {
		t.Errorf("unexpected papers %+v", loaded.Papers)
	}
	if len(loaded.Candidates) != 1 || loaded.Candidates[0].CutsPerParent != 2 {
		t.Errorf("unexpected candidates %+v", loaded.Candidates)
	}
}

func TestLoadInventoryMissingFileCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "inventory.json")

	inv, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(inv.Papers) != len(model.DefaultInventory().Papers) {
		t.Errorf("expected default papers, got %d", len(inv.Papers))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected default inventory to be saved: %v", err)
	}
}

func TestLoadInventoryFillsCandidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	if err := os.WriteFile(path, []byte(`{"papers": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	inv, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(inv.Candidates) != len(model.StandardCandidates()) {
		t.Errorf("expected standard candidates, got %d", len(inv.Candidates))
	}
}

func TestLoadInventoryInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	if err := os.WriteFile(path, []byte("[1,2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadInventory(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestImportInventoryMerges(t *testing.T) {
	existing := model.DefaultInventory()
	matt := existing.Papers[2]

	repriced := model.NewPaperStock(matt.Name, matt.GSM, 100, 70, 1.60)
	fresh := model.NewPaperStock("Kraft", 250, 100, 70, 0.95)
	imported := model.Inventory{
		Papers:     []model.PaperStock{repriced, fresh},
		Candidates: []model.SheetCandidate{existing.Candidates[0], model.NewSheetCandidate("SRA2", 64, 45, 64, 45, 1)},
	}

	data, err := json.Marshal(imported)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "import.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	merged, err := ImportInventory(path, existing)
	if err != nil {
		t.Fatalf("ImportInventory failed: %v", err)
	}

	if len(merged.Papers) != len(existing.Papers)+1 {
		t.Errorf("expected %d papers, got %d", len(existing.Papers)+1, len(merged.Papers))
	}
	p := merged.FindPaperByID(matt.ID)
	if p == nil || p.PricePerSheet != 1.60 {
		t.Errorf("expected existing paper to be repriced, got %+v", p)
	}
	if len(merged.Candidates) != len(existing.Candidates)+1 {
		t.Errorf("expected one new candidate, got %d", len(merged.Candidates)-len(existing.Candidates))
	}
	if existing.Papers[2].PricePerSheet != matt.PricePerSheet {
		t.Error("expected the existing inventory to be left untouched")
	}
}

func TestImportInventoryMissingFile(t *testing.T) {
	existing := model.DefaultInventory()
	got, err := ImportInventory(filepath.Join(t.TempDir(), "missing.json"), existing)
	if err == nil {
		t.Error("expected error for missing file")
	}
	if len(got.Papers) != len(existing.Papers) {
		t.Error("expected existing inventory to be returned on error")
	}
}
