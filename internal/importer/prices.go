package importer

import (
	"fmt"
	"io"
	"strconv"

	"github.com/piwi3910/PrintQuote/internal/model"
)

// PriceImportResult holds the papers read from a price list along with any
// errors or warnings encountered during import.
type PriceImportResult struct {
	Papers   []model.PaperStock
	Errors   []string
	Warnings []string
}

var priceTable = tableLayout{
	aliases: map[string][]string{
		"name":     {"name", "paper", "paper name", "stock", "material", "description"},
		"gsm":      {"gsm", "weight", "grammage", "g/m2", "g/m²"},
		"price":    {"price", "price per sheet", "sheet price", "cost", "unit price"},
		"width":    {"width", "parent width", "w", "sheet width"},
		"height":   {"height", "parent height", "h", "sheet height"},
		"supplier": {"supplier", "vendor", "mill"},
	},
	positional: []string{"name", "gsm", "price", "width", "height", "supplier"},
	required:   []string{"name", "gsm", "price"},
}

// ImportPrices reads a paper price list from a CSV or Excel file, picked
// by extension.
func ImportPrices(path string) PriceImportResult {
	return importPrices(readFile(path))
}

// ImportPricesCSV reads a paper price list from a CSV file.
func ImportPricesCSV(path string) PriceImportResult {
	return importPrices(readCSVFile(path))
}

// ImportPricesExcel reads a paper price list from the first sheet of an
// Excel workbook.
func ImportPricesExcel(path string) PriceImportResult {
	return importPrices(readExcelFile(path))
}

// ImportPricesFromReader reads a paper price list from CSV data with a
// known delimiter.
func ImportPricesFromReader(r io.Reader, delimiter rune) PriceImportResult {
	return importPrices(readCSV(r, delimiter))
}

func importPrices(src rowSource) PriceImportResult {
	var result PriceImportResult
	result.Errors, result.Warnings = mapRows(src, priceTable, func(row []string, cols Columns, rowLabel string) (string, string) {
		paper, warning, err := parsePriceRow(row, cols, rowLabel)
		if err != "" {
			return err, ""
		}
		result.Papers = append(result.Papers, paper)
		return "", warning
	})
	if len(result.Papers) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No valid papers found")
	}
	return result
}

// parsePriceRow parses a single price row. Parent size defaults to
// 100 x 70 when the columns are absent or blank.
func parsePriceRow(row []string, cols Columns, rowLabel string) (model.PaperStock, string, string) {
	name := getCell(row, cols.Index("name"))
	if name == "" {
		return model.PaperStock{}, "", fmt.Sprintf("%s: missing paper name", rowLabel)
	}

	gsm, err := strconv.Atoi(getCell(row, cols.Index("gsm")))
	if err != nil || gsm <= 0 {
		return model.PaperStock{}, "", fmt.Sprintf("%s: invalid gsm %q", rowLabel, getCell(row, cols.Index("gsm")))
	}

	price, err := parseNumber(getCell(row, cols.Index("price")))
	if err != nil || price < 0 {
		return model.PaperStock{}, "", fmt.Sprintf("%s: invalid price %q", rowLabel, getCell(row, cols.Index("price")))
	}

	var warning string
	if price == 0 {
		warning = fmt.Sprintf("%s: %s %dgsm has no price and will use the fallback", rowLabel, name, gsm)
	}

	width, height := 100.0, 70.0
	if s := getCell(row, cols.Index("width")); s != "" {
		v, err := parseNumber(s)
		if err != nil || v <= 0 {
			return model.PaperStock{}, "", fmt.Sprintf("%s: invalid width %q", rowLabel, s)
		}
		width = v
	}
	if s := getCell(row, cols.Index("height")); s != "" {
		v, err := parseNumber(s)
		if err != nil || v <= 0 {
			return model.PaperStock{}, "", fmt.Sprintf("%s: invalid height %q", rowLabel, s)
		}
		height = v
	}

	paper := model.NewPaperStock(name, gsm, width, height, price)
	paper.Supplier = getCell(row, cols.Index("supplier"))
	return paper, warning, ""
}
