package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/piwi3910/PrintQuote/internal/model"
)

// ProductImportResult holds the products read from a product list along
// with any errors or warnings encountered during import.
type ProductImportResult struct {
	Products []model.Product
	Errors   []string
	Warnings []string
}

var productTable = tableLayout{
	aliases: map[string][]string{
		"name":        {"name", "product", "product name", "item", "job"},
		"quantity":    {"quantity", "qty", "count", "amount", "run"},
		"width":       {"width", "close width", "w", "finished width"},
		"height":      {"height", "close height", "h", "finished height"},
		"flat_width":  {"flat width", "open width", "flat w"},
		"flat_height": {"flat height", "open height", "flat h"},
		"sides":       {"sides", "printed sides"},
		"colours":     {"colours", "colors", "colour", "color", "inks"},
		"method":      {"method", "process", "press"},
		"paper":       {"paper", "stock", "material"},
		"gsm":         {"gsm", "weight", "grammage"},
		"price":       {"price", "price per sheet", "sheet price"},
		"rotate":      {"rotate", "allow rotate", "rotation"},
	},
	positional: []string{"name", "quantity", "width", "height", "method", "paper", "gsm"},
	required:   []string{"name", "quantity"},
}

// ImportProducts reads a product list from a CSV or Excel file, picked by
// extension.
func ImportProducts(path string) ProductImportResult {
	return importProducts(readFile(path))
}

// ImportProductsCSV reads a product list from a CSV file.
func ImportProductsCSV(path string) ProductImportResult {
	return importProducts(readCSVFile(path))
}

// ImportProductsExcel reads a product list from the first sheet of an
// Excel workbook.
func ImportProductsExcel(path string) ProductImportResult {
	return importProducts(readExcelFile(path))
}

// ImportProductsFromReader reads a product list from CSV data with a
// known delimiter.
func ImportProductsFromReader(r io.Reader, delimiter rune) ProductImportResult {
	return importProducts(readCSV(r, delimiter))
}

// importProducts groups consecutive and repeated rows with the same name
// into one product, each row contributing one candidate paper.
func importProducts(src rowSource) ProductImportResult {
	var result ProductImportResult
	byName := map[string]int{}

	result.Errors, result.Warnings = mapRows(src, productTable, func(row []string, cols Columns, rowLabel string) (string, string) {
		p, paper, warning, errMsg := parseProductRow(row, cols, rowLabel)
		if errMsg != "" {
			return errMsg, ""
		}

		key := strings.ToLower(p.Name)
		if idx, ok := byName[key]; ok {
			if paper != nil {
				result.Products[idx].Papers = append(result.Products[idx].Papers, *paper)
			}
			return "", warning
		}

		if paper != nil {
			p.Papers = append(p.Papers, *paper)
		}
		// Papers may arrive on later rows.
		check := p
		if len(check.Papers) == 0 {
			check.Papers = []model.Paper{{Name: "pending"}}
		}
		if err := check.Validate(); err != nil {
			return fmt.Sprintf("%s: %v", rowLabel, err), ""
		}
		byName[key] = len(result.Products)
		result.Products = append(result.Products, p)
		return "", warning
	})

	for _, p := range result.Products {
		if len(p.Papers) == 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s has no papers and will not be estimated", p.Name))
		}
	}
	if len(result.Products) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No valid products found")
	}
	return result
}

// parseProductRow parses a single product row. The returned paper is nil
// when the row names no paper.
func parseProductRow(row []string, cols Columns, rowLabel string) (model.Product, *model.Paper, string, string) {
	name := getCell(row, cols.Index("name"))
	if name == "" {
		return model.Product{}, nil, "", fmt.Sprintf("%s: missing product name", rowLabel)
	}

	qty, err := strconv.Atoi(getCell(row, cols.Index("quantity")))
	if err != nil || qty <= 0 {
		return model.Product{}, nil, "", fmt.Sprintf("%s: invalid quantity %q", rowLabel, getCell(row, cols.Index("quantity")))
	}

	dims := map[string]float64{}
	for _, role := range []string{"width", "height", "flat_width", "flat_height"} {
		s := getCell(row, cols.Index(role))
		if s == "" {
			continue
		}
		v, err := parseNumber(s)
		if err != nil || v <= 0 {
			return model.Product{}, nil, "", fmt.Sprintf("%s: invalid %s %q", rowLabel, strings.ReplaceAll(role, "_", " "), s)
		}
		dims[role] = v
	}

	method := model.MethodOffset
	var warning string
	if s := getCell(row, cols.Index("method")); s != "" {
		m, err := model.ParseMethod(s)
		if err != nil {
			warning = fmt.Sprintf("%s: unknown method %q, using offset", rowLabel, s)
		} else {
			method = m
		}
	}

	p := model.NewProduct(name, dims["width"], dims["height"], qty, method)
	p.FlatWidth = dims["flat_width"]
	p.FlatHeight = dims["flat_height"]

	if s := getCell(row, cols.Index("sides")); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return model.Product{}, nil, "", fmt.Sprintf("%s: invalid sides %q", rowLabel, s)
		}
		p.Sides = v
	}
	if s := getCell(row, cols.Index("colours")); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return model.Product{}, nil, "", fmt.Sprintf("%s: invalid colours %q", rowLabel, s)
		}
		p.Colours = v
	}
	if s := getCell(row, cols.Index("rotate")); s != "" {
		switch strings.ToLower(s) {
		case "no", "n", "false", "0":
			p.AllowRotate = false
		}
	}

	paperName := getCell(row, cols.Index("paper"))
	if paperName == "" {
		return p, nil, warning, ""
	}
	paper := &model.Paper{Name: paperName}
	if s := getCell(row, cols.Index("gsm")); s != "" {
		gsm, err := strconv.Atoi(s)
		if err != nil || gsm <= 0 {
			return model.Product{}, nil, "", fmt.Sprintf("%s: invalid gsm %q", rowLabel, s)
		}
		paper.GSM = gsm
	}
	if s := getCell(row, cols.Index("price")); s != "" {
		price, err := parseNumber(s)
		if err != nil || price < 0 {
			return model.Product{}, nil, "", fmt.Sprintf("%s: invalid price %q", rowLabel, s)
		}
		paper.PricePerSheet = price
	}
	return p, paper, warning, ""
}
