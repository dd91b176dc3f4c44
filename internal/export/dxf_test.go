package export

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/PrintQuote/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

func TestExportDXF_Layers(t *testing.T) {
	q := buildTestQuote()
	l := q.Result.Results[0].Layout
	path := filepath.Join(t.TempDir(), "imposition.dxf")

	if err := ExportDXF(path, l); err != nil {
		t.Fatalf("ExportDXF returned error: %v", err)
	}

	d, err := dxf.Open(path)
	if err != nil {
		t.Fatalf("failed to reopen DXF: %v", err)
	}

	lines := 0
	maxX := 0.0
	for _, e := range d.Entities() {
		if line, ok := e.(*entity.Line); ok {
			lines++
			if line.Start[0] > maxX {
				maxX = line.Start[0]
			}
		}
	}

	// Sheet and usable area, bleed and trim boxes per piece, plus cut lines
	wantMin := 4 + 4 + 8*l.ItemsPerSheet
	if lines < wantMin {
		t.Errorf("expected at least %d lines, got %d", wantMin, lines)
	}
	if maxX != l.SheetWidth*dxfScale {
		t.Errorf("expected sheet width %g mm, got %g", l.SheetWidth*dxfScale, maxX)
	}
}

func TestExportResultDXF_IncludesRemnantGrid(t *testing.T) {
	q := buildTestQuote()
	r := q.Result.Results[1]
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain.dxf")
	mixed := filepath.Join(dir, "mixed.dxf")
	if err := ExportDXF(plain, r.Layout); err != nil {
		t.Fatalf("ExportDXF returned error: %v", err)
	}
	if err := ExportResultDXF(mixed, r); err != nil {
		t.Fatalf("ExportResultDXF returned error: %v", err)
	}

	count := func(path string) int {
		d, err := dxf.Open(path)
		if err != nil {
			t.Fatalf("failed to reopen DXF: %v", err)
		}
		return len(d.Entities())
	}
	// Three extra pieces, each with a bleed and a trim box
	if got, want := count(mixed)-count(plain), 3*8; got != want {
		t.Errorf("expected %d more entities for the remnant grid, got %d", want, got)
	}
}

func TestExportResultDXF_Infeasible(t *testing.T) {
	r := buildTestQuote().Result.Results[2]
	if err := ExportResultDXF(filepath.Join(t.TempDir(), "x.dxf"), r); err == nil {
		t.Error("expected error for an infeasible result")
	}
}

func TestExportDXF_EmptyLayout(t *testing.T) {
	if err := ExportDXF(filepath.Join(t.TempDir(), "x.dxf"), model.LayoutResult{}); err == nil {
		t.Error("expected error for an empty layout")
	}
}
