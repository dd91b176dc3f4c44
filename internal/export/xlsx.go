package export

import (
	"fmt"

	"github.com/piwi3910/PrintQuote/internal/engine"
	"github.com/piwi3910/PrintQuote/internal/model"
	"github.com/xuri/excelize/v2"
)

// CostComparison is the full set of candidates considered for one paper:
// cost rows for offset, options for digital.
type CostComparison struct {
	Title   string
	Rows    []model.CostRow
	Options []model.DigitalOption
}

// BuildComparisons collects the candidate table of every paper of p.
// Papers the estimator rejects are left out.
func BuildComparisons(est *engine.Estimator, p model.Product) []CostComparison {
	var out []CostComparison
	for i, paper := range p.Papers {
		title := fmt.Sprintf("%s / %s %dgsm", p.Name, paper.Name, paper.GSM)
		if p.Method == model.MethodDigital {
			opts, err := est.DigitalOptions(p, i)
			if err != nil {
				continue
			}
			out = append(out, CostComparison{Title: title, Options: opts})
			continue
		}
		rows, err := est.OffsetRows(p, i)
		if err != nil {
			continue
		}
		out = append(out, CostComparison{Title: title, Rows: rows})
	}
	return out
}

const (
	summarySheet    = "Summary"
	comparisonSheet = "Comparison"
)

// ExportXLSX writes a workbook with a summary sheet of the quote results
// and a comparison sheet listing every candidate behind them.
func ExportXLSX(path string, quote model.Quote, comparisons []CostComparison) error {
	if quote.Result == nil || len(quote.Result.Results) == 0 {
		return fmt.Errorf("no results to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummary(f, quote, header); err != nil {
		return err
	}
	if len(comparisons) > 0 {
		if _, err := f.NewSheet(comparisonSheet); err != nil {
			return fmt.Errorf("failed to add comparison sheet: %w", err)
		}
		if err := writeComparisons(f, comparisons, header); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeSummary fills the summary sheet: one row per paper result and a
// total row.
func writeSummary(f *excelize.File, quote model.Quote, headerStyle int) error {
	headers := []interface{}{"Product", "Paper", "GSM", "Method", "Quantity", "Sheet", "Ups", "Sheets", "Price/Sheet", "Price Source", "Total", "Status"}
	if err := f.SetSheetRow(summarySheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	if err := f.SetCellStyle(summarySheet, "A1", "L1", headerStyle); err != nil {
		return fmt.Errorf("failed to style summary header: %w", err)
	}

	row := 2
	for _, r := range quote.Result.Results {
		status := "OK"
		if !r.Feasible {
			status = r.Reason
		}
		values := []interface{}{
			r.ProductName, r.PaperName, r.GSM, string(r.Method), r.Quantity,
			sheetLabel(r), r.Layout.ItemsPerSheet, r.RecommendedSheets,
			r.PricePerSheet, string(r.PriceSource), r.Total, status,
		}
		if r.Option != nil {
			values[6] = r.Option.Ups
		}
		if err := writeRow(f, summarySheet, row, values); err != nil {
			return err
		}
		row++
	}

	totalLabel, _ := excelize.CoordinatesToCellName(10, row)
	totalCell, _ := excelize.CoordinatesToCellName(11, row)
	if err := f.SetCellValue(summarySheet, totalLabel, "Quote total"); err != nil {
		return fmt.Errorf("failed to write total: %w", err)
	}
	if err := f.SetCellValue(summarySheet, totalCell, quote.Result.Total()); err != nil {
		return fmt.Errorf("failed to write total: %w", err)
	}
	if err := f.SetCellStyle(summarySheet, totalLabel, totalCell, headerStyle); err != nil {
		return fmt.Errorf("failed to style total: %w", err)
	}
	return f.SetColWidth(summarySheet, "A", "L", 16)
}

// writeComparisons lists every comparison under its own title row.
func writeComparisons(f *excelize.File, comparisons []CostComparison, headerStyle int) error {
	row := 1
	for _, c := range comparisons {
		if err := writeRow(f, comparisonSheet, row, []interface{}{c.Title}); err != nil {
			return err
		}
		titleCell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellStyle(comparisonSheet, titleCell, titleCell, headerStyle); err != nil {
			return fmt.Errorf("failed to style title: %w", err)
		}
		row++

		if len(c.Rows) > 0 {
			if err := writeRow(f, comparisonSheet, row, []interface{}{"Sheet", "Cuts", "Ups", "Sheets", "Parents", "Price/Sheet", "Paper", "Plates", "Plate Cost", "Make-ready", "Total"}); err != nil {
				return err
			}
			row++
			for _, cr := range c.Rows {
				values := []interface{}{
					cr.Candidate.Name, cr.Candidate.CutsPerParent, cr.ItemsPerSheet, cr.Sheets, cr.ParentSheets,
					cr.PricePerSheet, cr.PaperCost, cr.Plates, cr.PlateCost, cr.MakeReadyCost, cr.Total,
				}
				if err := writeRow(f, comparisonSheet, row, values); err != nil {
					return err
				}
				row++
			}
		}

		if len(c.Options) > 0 {
			if err := writeRow(f, comparisonSheet, row, []interface{}{"Option", "Ups", "Extra Ups", "Parents", "Per Parent", "Total"}); err != nil {
				return err
			}
			row++
			for _, o := range c.Options {
				values := []interface{}{o.Name, o.Ups, o.ExtraUps, o.ParentsNeeded, o.PerParentCost, o.Total}
				if err := writeRow(f, comparisonSheet, row, values); err != nil {
					return err
				}
				row++
			}
		}
		row++
	}
	return f.SetColWidth(comparisonSheet, "A", "K", 14)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}
