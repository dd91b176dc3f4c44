package model

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestAllProfilesIncludesBuiltInAndCustom(t *testing.T) {
	CustomProfiles = nil

	builtInCount := len(CutterProfiles)
	all := AllProfiles()
	if len(all) != builtInCount {
		t.Errorf("expected %d profiles with no custom, got %d", builtInCount, len(all))
	}

	CustomProfiles = []CutterProfile{{Name: "Shop Cutter", Description: "Test custom"}}
	defer func() { CustomProfiles = nil }()

	all = AllProfiles()
	if len(all) != builtInCount+1 {
		t.Errorf("expected %d profiles with 1 custom, got %d", builtInCount+1, len(all))
	}
	if got := GetProfile("Shop Cutter"); got.Description != "Test custom" {
		t.Errorf("expected custom profile to be found, got %q", got.Name)
	}
	if !IsBuiltInProfile("Polar") || IsBuiltInProfile("Shop Cutter") {
		t.Error("built-in detection is wrong")
	}
}

func TestGetProfileFallsBackToGeneric(t *testing.T) {
	if got := GetProfile("does not exist"); got.Name != "Generic" {
		t.Errorf("expected Generic fallback, got %q", got.Name)
	}
}

func TestAddCustomProfile(t *testing.T) {
	CustomProfiles = nil
	defer func() { CustomProfiles = nil }()

	if err := AddCustomProfile(CutterProfile{Name: "Shop", Description: "v1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := AddCustomProfile(CutterProfile{Name: "Shop", Description: "v2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(CustomProfiles) != 1 {
		t.Fatalf("expected 1 custom profile after update, got %d", len(CustomProfiles))
	}
	if CustomProfiles[0].Description != "v2" {
		t.Errorf("expected updated description, got %s", CustomProfiles[0].Description)
	}
	if err := AddCustomProfile(CutterProfile{Name: "Polar"}); err == nil {
		t.Error("expected error when adding profile with built-in name")
	}
	if err := AddCustomProfile(CutterProfile{}); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestRemoveCustomProfile(t *testing.T) {
	CustomProfiles = []CutterProfile{{Name: "ToRemove"}}
	defer func() { CustomProfiles = nil }()

	if err := RemoveCustomProfile("ToRemove"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(CustomProfiles) != 0 {
		t.Error("profile was not removed")
	}
	if err := RemoveCustomProfile("ToRemove"); err == nil {
		t.Error("expected error when removing a missing profile")
	}
	if err := RemoveCustomProfile("Generic"); err == nil {
		t.Error("expected error when removing built-in profile")
	}
}

func TestNewCustomProfileCopiesCode(t *testing.T) {
	p := NewCustomProfile("Mine")
	if p.Name != "Mine" || IsBuiltInProfile(p.Name) {
		t.Fatalf("unexpected profile %+v", p)
	}
	p.StartCode[0] = "CHANGED"
	if CutterProfiles[0].StartCode[0] == "CHANGED" {
		t.Error("custom profile shares start code with the built-in one")
	}
}

func TestParseMethod(t *testing.T) {
	tests := map[string]Method{
		"digital":   MethodDigital,
		" Digital ": MethodDigital,
		"d":         MethodDigital,
		"OFFSET":    MethodOffset,
		"litho":     MethodOffset,
	}
	for in, want := range tests {
		got, err := ParseMethod(in)
		if err != nil || got != want {
			t.Errorf("ParseMethod(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseMethod("inkjet"); err == nil {
		t.Error("expected error for unknown method")
	}
}

func TestNewProductDefaults(t *testing.T) {
	p := NewProduct("Card", 9, 5.5, 500, MethodDigital)
	if p.ID == "" {
		t.Error("expected non-empty ID")
	}
	if p.Sides != 1 || p.Colours != 4 || !p.AllowRotate {
		t.Errorf("unexpected defaults %+v", p)
	}
	if p.Piece() != (PieceSpec{Width: 9, Height: 5.5}) {
		t.Errorf("expected close size piece, got %+v", p.Piece())
	}
}

func TestProductPiecePrefersFlatSize(t *testing.T) {
	p := NewProduct("DL", 9.9, 21, 100, MethodOffset)
	p.FlatWidth = 29.7
	p.FlatHeight = 21
	if p.Piece() != (PieceSpec{Width: 29.7, Height: 21}) {
		t.Errorf("expected flat size, got %+v", p.Piece())
	}

	p.FlatHeight = 0
	if p.Piece() != (PieceSpec{Width: 9.9, Height: 21}) {
		t.Errorf("expected close size when flat is incomplete, got %+v", p.Piece())
	}
}

func validProduct() Product {
	p := NewProduct("Card", 9, 5.5, 500, MethodDigital)
	p.Papers = []Paper{{Name: "Coated Matt", GSM: 300}}
	return p
}

func TestValidateAcceptsValidProduct(t *testing.T) {
	if err := validProduct().Validate(); err != nil {
		t.Errorf("expected valid product, got %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Product)
		field  string
	}{
		{"zero quantity", func(p *Product) { p.Quantity = 0 }, "quantity"},
		{"three sides", func(p *Product) { p.Sides = 3 }, "sides"},
		{"no colours", func(p *Product) { p.Colours = 0 }, "colours"},
		{"bad method", func(p *Product) { p.Method = "screen" }, "method"},
		{"no papers", func(p *Product) { p.Papers = nil }, "papers"},
		{"NaN width", func(p *Product) { p.CloseWidth = math.NaN() }, "close_width"},
		{"infinite height", func(p *Product) { p.CloseHeight = math.Inf(1) }, "close_height"},
		{"negative width", func(p *Product) { p.CloseWidth = -1 }, "close_width"},
		{"zero height", func(p *Product) { p.CloseHeight = 0 }, "close_height"},
		{"half flat size", func(p *Product) { p.FlatWidth = 20 }, "flat_height"},
		{"negative price", func(p *Product) { p.Papers[0].PricePerSheet = -2 }, "papers[0].price_per_sheet"},
		{"infinite price", func(p *Product) { p.Papers[0].PricePerSheet = math.Inf(1) }, "papers[0].price_per_sheet"},
		{"negative infinite price", func(p *Product) { p.Papers[0].PricePerSheet = math.Inf(-1) }, "papers[0].price_per_sheet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct()
			tt.mutate(&p)

			err := p.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidProduct) {
				t.Errorf("expected ErrInvalidProduct, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected error to mention %q, got %v", tt.field, err)
			}
		})
	}
}

func TestValidateJoinsAllProblems(t *testing.T) {
	p := validProduct()
	p.Quantity = -5
	p.Colours = 0

	err := p.Validate()
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if !strings.Contains(err.Error(), "quantity") || !strings.Contains(err.Error(), "colours") {
		t.Errorf("expected both fields reported, got %v", err)
	}
}

func TestResolveJob(t *testing.T) {
	s := DefaultSettings()

	job, err := ResolveJob(validProduct(), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dj, ok := job.(DigitalJob)
	if !ok {
		t.Fatalf("expected DigitalJob, got %T", job)
	}
	if dj.Sheet != s.DigitalSheet {
		t.Errorf("expected digital sheet %+v, got %+v", s.DigitalSheet, dj.Sheet)
	}
	if dj.Quantity != 500 || dj.Piece.Width != 9 {
		t.Errorf("unexpected job fields %+v", dj)
	}

	p := validProduct()
	p.Method = MethodOffset
	job, err = ResolveJob(p, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.JobMethod() != MethodOffset {
		t.Errorf("expected offset job, got %s", job.JobMethod())
	}

	p.Quantity = 0
	if _, err := ResolveJob(p, s); !errors.Is(err, ErrInvalidProduct) {
		t.Errorf("expected ErrInvalidProduct, got %v", err)
	}
}

func TestQuoteResultTotals(t *testing.T) {
	q := QuoteResult{Results: []PerPaperResult{
		{Feasible: true, Total: 10},
		{Feasible: false, Total: 99},
		{Feasible: true, Total: 5.5},
	}}
	if q.Total() != 15.5 {
		t.Errorf("expected total 15.5, got %g", q.Total())
	}
	if len(q.Infeasible()) != 1 {
		t.Errorf("expected 1 infeasible result, got %d", len(q.Infeasible()))
	}
	if len(q.Feasible()) != 2 {
		t.Errorf("expected 2 feasible results, got %d", len(q.Feasible()))
	}
}

func TestOrientationString(t *testing.T) {
	if OrientationNormal.String() != "Normal" || OrientationRotated.String() != "Rotated" {
		t.Error("unexpected orientation names")
	}
}

func TestSheetCandidateLabel(t *testing.T) {
	c := NewSheetCandidate("70x100 Half", 100, 70, 70, 50, 2)
	if c.Label() != "70x100 Half (70x50 of 100x70)" {
		t.Errorf("unexpected label %q", c.Label())
	}
	if NewSheetCandidate("x", 1, 1, 1, 1, 0).CutsPerParent != 1 {
		t.Error("expected cuts below 1 to be clamped")
	}
}

func TestStandardCandidates(t *testing.T) {
	cands := StandardCandidates()
	if len(cands) != 12 {
		t.Fatalf("expected 12 candidates, got %d", len(cands))
	}
	for _, c := range cands {
		if c.Width*c.Height*float64(c.CutsPerParent) > c.ParentWidth*c.ParentHeight+1e-6 {
			t.Errorf("%s: cuts exceed the parent area", c.Name)
		}
	}
	if cands[0].Name != "70x100 Full" || cands[1].Width != 70 || cands[1].Height != 50 {
		t.Errorf("unexpected catalog order: %+v", cands[:2])
	}
}

func TestFindDigitalSheet(t *testing.T) {
	if FindDigitalSheet("SRA3").Width != 45 {
		t.Error("expected SRA3 to be 45 wide")
	}
	if FindDigitalSheet("nope").Name != DigitalSheets[0].Name {
		t.Error("expected fallback to the first digital sheet")
	}
}
