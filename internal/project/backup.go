package project

import (
	"fmt"
	"time"

	"github.com/piwi3910/PrintQuote/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string                `json:"version"`
	CreatedAt string                `json:"created_at"`
	Config    model.AppConfig       `json:"config"`
	Inventory model.Inventory       `json:"inventory"`
	Templates model.TemplateStore   `json:"templates"`
	Profiles  []model.CutterProfile `json:"profiles"`
}

// ExportAllData exports config, inventory, templates and custom cutter
// profiles to a single JSON file at the specified path.
func ExportAllData(exportPath string, config model.AppConfig, inv model.Inventory, templates model.TemplateStore, profiles []model.CutterProfile) error {
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Inventory: inv,
		Templates: templates,
		Profiles:  profiles,
	}
	if err := writeJSON(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported data.
func ImportAllData(importPath string) (BackupData, error) {
	var backup BackupData
	if err := mustReadJSON(importPath, &backup); err != nil {
		return BackupData{}, err
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Config.RecentQuotes == nil {
		backup.Config.RecentQuotes = []string{}
	}
	if backup.Templates.Templates == nil {
		backup.Templates.Templates = []model.ProductTemplate{}
	}
	if backup.Profiles == nil {
		backup.Profiles = []model.CutterProfile{}
	}
	return backup, nil
}
