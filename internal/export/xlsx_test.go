package export

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/PrintQuote/internal/engine"
	"github.com/piwi3910/PrintQuote/internal/model"
	"github.com/xuri/excelize/v2"
)

func buildTestComparisons() []CostComparison {
	s := model.DefaultSettings()
	order := model.OrderParams{
		Quantity:      5000,
		Sides:         2,
		Colours:       4,
		PricePerSheet: 1.45,
		Piece:         model.PieceSpec{Width: 9, Height: 5},
		Margins:       s.OffsetMargins,
		AllowRotate:   true,
	}
	rows := engine.SelectCheapest(order, model.StandardCandidates(), s)
	opts := engine.ChooseDigital(1000, model.PieceSpec{Width: 9, Height: 5}, 2, 4, model.PieceSpec{Width: 48, Height: 33}, true, 0.5, s)

	return []CostComparison{
		{Title: "Business Card / Coated Matt 300gsm", Rows: rows},
		{Title: "Postcard / Bristol Board 350gsm", Options: opts},
	}
}

func TestExportXLSX_Sheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.xlsx")
	if err := ExportXLSX(path, buildTestQuote(), buildTestComparisons()); err != nil {
		t.Fatalf("ExportXLSX returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != summarySheet || sheets[1] != comparisonSheet {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	rows, err := f.GetRows(summarySheet)
	if err != nil {
		t.Fatalf("failed to read summary: %v", err)
	}
	// Header, three results, total
	if len(rows) != 5 {
		t.Fatalf("expected 5 summary rows, got %d", len(rows))
	}
	if rows[1][0] != "Business Card" || rows[1][5] != "70x100 Quarter" {
		t.Errorf("unexpected first result row %v", rows[1])
	}
	if rows[3][11] != "piece 120x80 does not fit any catalog sheet" {
		t.Errorf("expected infeasible reason in status column, got %v", rows[3])
	}
	if rows[4][9] != "Quote total" || rows[4][10] == "" {
		t.Errorf("unexpected total row %v", rows[4])
	}

	cmp, err := f.GetRows(comparisonSheet)
	if err != nil {
		t.Fatalf("failed to read comparison: %v", err)
	}
	if cmp[0][0] != "Business Card / Coated Matt 300gsm" || cmp[1][0] != "Sheet" {
		t.Errorf("unexpected comparison header %v / %v", cmp[0], cmp[1])
	}
}

func TestExportXLSX_WithoutComparisons(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	if err := ExportXLSX(path, buildTestQuote(), nil); err != nil {
		t.Fatalf("ExportXLSX returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()
	if len(f.GetSheetList()) != 1 {
		t.Errorf("expected only the summary sheet, got %v", f.GetSheetList())
	}
}

func TestExportXLSX_NoResult(t *testing.T) {
	if err := ExportXLSX(filepath.Join(t.TempDir(), "x.xlsx"), model.NewQuote(), nil); err == nil {
		t.Error("expected error for a quote without results")
	}
}

func TestBuildComparisons(t *testing.T) {
	inv := model.DefaultInventory()
	est := engine.New(model.DefaultSettings(), inv.Candidates, inv.PriceLookup())

	card := model.NewProduct("Card", 9, 5, 5000, model.MethodOffset)
	card.Papers = []model.Paper{{Name: "Coated Matt", GSM: 300}, {Name: "Coated Gloss", GSM: 170}}
	got := BuildComparisons(est, card)
	if len(got) != 2 {
		t.Fatalf("expected one comparison per paper, got %d", len(got))
	}
	if got[0].Title != "Card / Coated Matt 300gsm" {
		t.Errorf("unexpected title %q", got[0].Title)
	}
	if len(got[0].Rows) == 0 || got[0].Options != nil {
		t.Errorf("offset comparison should hold cost rows only")
	}

	flyer := model.NewProduct("Flyer", 14.8, 21, 300, model.MethodDigital)
	flyer.Papers = []model.Paper{{Name: "Coated Gloss", GSM: 130}}
	got = BuildComparisons(est, flyer)
	if len(got) != 1 || len(got[0].Options) == 0 {
		t.Fatalf("expected digital options, got %+v", got)
	}
}
