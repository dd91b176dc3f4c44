package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/PrintQuote/internal/model"
)

func customProfile() model.CutterProfile {
	return model.CutterProfile{
		Name:          "Schneider",
		Description:   "Schneider Senator step list",
		Units:         "mm",
		StartCode:     []string{"BEGIN"},
		EndCode:       []string{"FINISH"},
		GaugeMove:     "POS %s",
		CutCommand:    "SCHNITT",
		TurnCommand:   "DREHEN",
		CommentPrefix: "//",
		DecimalPlaces: 1,
	}
}

func TestSaveAndLoadCustomProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")

	builtIn := model.CutterProfiles[0]
	if err := SaveCustomProfiles(path, []model.CutterProfile{customProfile(), builtIn}); err != nil {
		t.Fatalf("SaveCustomProfiles failed: %v", err)
	}

	loaded, err := LoadCustomProfiles(path)
	if err != nil {
		t.Fatalf("LoadCustomProfiles failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected built-in names to be dropped, got %d profiles", len(loaded))
	}
	if loaded[0].Name != "Schneider" || loaded[0].GaugeMove != "POS %s" {
		t.Errorf("unexpected profile %+v", loaded[0])
	}
}

func TestLoadCustomProfilesMissingFile(t *testing.T) {
	profiles, err := LoadCustomProfiles(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if profiles == nil || len(profiles) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", profiles)
	}
}

func TestLoadCustomProfilesInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCustomProfiles(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestExportAndImportProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schneider.json")

	if err := ExportProfile(path, customProfile()); err != nil {
		t.Fatalf("ExportProfile failed: %v", err)
	}
	p, err := ImportProfile(path)
	if err != nil {
		t.Fatalf("ImportProfile failed: %v", err)
	}
	if p.CutCommand != "SCHNITT" {
		t.Errorf("expected cut command SCHNITT, got %s", p.CutCommand)
	}
}

func TestImportProfileValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *model.CutterProfile)
		wantErr string
	}{
		{"no name", func(p *model.CutterProfile) { p.Name = "" }, "no name"},
		{"built-in name", func(p *model.CutterProfile) { p.Name = "Polar" }, "built-in"},
		{"no verb", func(p *model.CutterProfile) { p.GaugeMove = "POS" }, "%s"},
		{"no cut", func(p *model.CutterProfile) { p.CutCommand = "" }, "cut command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := customProfile()
			tt.mutate(&p)
			path := filepath.Join(t.TempDir(), "p.json")
			if err := ExportProfile(path, p); err != nil {
				t.Fatal(err)
			}
			_, err := ImportProfile(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultProfilesRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := SaveCustomProfilesToDefault([]model.CutterProfile{customProfile()}); err != nil {
		t.Fatalf("SaveCustomProfilesToDefault failed: %v", err)
	}
	loaded, err := LoadCustomProfilesFromDefault()
	if err != nil {
		t.Fatalf("LoadCustomProfilesFromDefault failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Errorf("expected 1 profile, got %d", len(loaded))
	}
}
