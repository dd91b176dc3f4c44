package project

import (
	"strings"

	"github.com/piwi3910/PrintQuote/internal/model"
)

// DefaultInventoryPath returns ~/.printquote/inventory.json.
func DefaultInventoryPath() (string, error) {
	return dataFile("inventory.json")
}

func SaveInventory(path string, inv model.Inventory) error {
	return writeJSON(path, inv)
}

// LoadInventory reads the paper inventory at path. A missing file is
// created with DefaultInventory; an inventory without sheet sizes gets
// the standard catalog.
func LoadInventory(path string) (model.Inventory, error) {
	var inv model.Inventory
	found, err := readJSON(path, &inv)
	if err != nil {
		return model.Inventory{}, err
	}
	if !found {
		inv = model.DefaultInventory()
		return inv, SaveInventory(path, inv)
	}
	if len(inv.Candidates) == 0 {
		inv.Candidates = model.StandardCandidates()
	}
	return inv, nil
}

// LoadOrCreateInventory loads the inventory from the default path and
// returns that path for later saves.
func LoadOrCreateInventory() (model.Inventory, string, error) {
	path, err := DefaultInventoryPath()
	if err != nil {
		return model.DefaultInventory(), "", err
	}
	inv, err := LoadInventory(path)
	return inv, path, err
}

// ExportInventory writes the inventory to a file the user picked.
func ExportInventory(path string, inv model.Inventory) error {
	return writeJSON(path, inv)
}

// ImportInventory merges the inventory file at path into existing. On
// error existing is returned unchanged.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, error) {
	var imported model.Inventory
	if err := mustReadJSON(path, &imported); err != nil {
		return existing, err
	}
	return MergeInventory(existing, imported.Papers, imported.Candidates), nil
}

// MergeInventory folds papers and candidates into a copy of existing.
// Papers with the name and weight of an existing paper replace it;
// candidates whose ID or name is already present are skipped.
func MergeInventory(existing model.Inventory, papers []model.PaperStock, candidates []model.SheetCandidate) model.Inventory {
	merged := model.Inventory{
		Papers:     append([]model.PaperStock(nil), existing.Papers...),
		Candidates: append([]model.SheetCandidate(nil), existing.Candidates...),
	}

	for _, p := range papers {
		merged.UpsertPaper(p)
	}

	candidateIDs := make(map[string]bool, len(merged.Candidates))
	candidateNames := make(map[string]bool, len(merged.Candidates))
	for _, c := range merged.Candidates {
		candidateIDs[c.ID] = true
		candidateNames[strings.ToLower(c.Name)] = true
	}
	for _, c := range candidates {
		if candidateIDs[c.ID] || candidateNames[strings.ToLower(c.Name)] {
			continue
		}
		merged.Candidates = append(merged.Candidates, c)
		candidateIDs[c.ID] = true
		candidateNames[strings.ToLower(c.Name)] = true
	}
	return merged
}
