// Package importer provides CSV and Excel import of paper price lists and
// product lists, and DXF import of die lines. It supports automatic
// delimiter detection, flexible column mapping, and case-insensitive
// header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Columns maps semantic column roles to their indices in the data. A
// missing role has no entry.
type Columns map[string]int

// Index returns the column of a role, or -1.
func (c Columns) Index(role string) int {
	if i, ok := c[role]; ok {
		return i
	}
	return -1
}

// tableLayout describes one importable table: the aliases of each column
// role, the positional order used when no header is present, and the
// roles a header must contain.
type tableLayout struct {
	aliases    map[string][]string
	positional []string
	required   []string
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// detectColumns examines a header row and returns the column mapping.
// Matching is case-insensitive against the table aliases. When no cell
// matches, the positional mapping is returned with false.
func detectColumns(row []string, layout tableLayout) (Columns, bool) {
	cols := Columns{}
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range layout.aliases {
			if _, taken := cols[role]; taken {
				continue
			}
			for _, alias := range aliases {
				if normalized == alias {
					cols[role] = i
					break
				}
			}
		}
	}

	if len(cols) == 0 {
		positional := Columns{}
		for i, role := range layout.positional {
			positional[role] = i
		}
		return positional, false
	}
	return cols, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseNumber accepts a decimal comma as written by European spreadsheets.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return strconv.ParseFloat(s, 64)
}

// rowSource is the common result of reading a CSV or Excel file.
type rowSource struct {
	rows      [][]string
	rowPrefix string
	errors    []string
	warnings  []string
}

// readCSVFile reads all records of a CSV file, sniffing the delimiter.
func readCSVFile(path string) rowSource {
	src := rowSource{rowPrefix: "Line"}

	data, err := os.ReadFile(path)
	if err != nil {
		src.errors = append(src.errors, fmt.Sprintf("Cannot open file: %v", err))
		return src
	}
	if len(bytes.TrimSpace(data)) == 0 {
		src.errors = append(src.errors, "File is empty")
		return src
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		src.warnings = append(src.warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	read := readCSV(bytes.NewReader(data), delimiter)
	read.warnings = append(src.warnings, read.warnings...)
	return read
}

// readCSV reads all records from r with a known delimiter.
func readCSV(r io.Reader, delimiter rune) rowSource {
	src := rowSource{rowPrefix: "Line"}

	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		src.errors = append(src.errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return src
	}
	if len(records) == 0 {
		src.errors = append(src.errors, "File is empty")
		return src
	}
	src.rows = records
	return src
}

// readExcelFile reads the rows of the first sheet of a workbook.
func readExcelFile(path string) rowSource {
	src := rowSource{rowPrefix: "Row"}

	f, err := excelize.OpenFile(path)
	if err != nil {
		src.errors = append(src.errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return src
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		src.errors = append(src.errors, "Excel file has no sheets")
		return src
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		src.errors = append(src.errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return src
	}
	if len(rows) == 0 {
		src.errors = append(src.errors, "Sheet is empty")
		return src
	}
	src.rows = rows
	return src
}

// readFile picks the reader by file extension.
func readFile(path string) rowSource {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return readExcelFile(path)
	default:
		return readCSVFile(path)
	}
}

// mapRows detects the header and calls parse for every non-empty data
// row. parse returns an error message, or a warning, or neither.
func mapRows(src rowSource, layout tableLayout, parse func(row []string, cols Columns, rowLabel string) (errMsg, warning string)) (errs, warnings []string) {
	errs = src.errors
	warnings = src.warnings
	if len(src.rows) == 0 {
		if len(errs) == 0 {
			errs = append(errs, "No data rows found")
		}
		return errs, warnings
	}

	cols, hasHeader := detectColumns(src.rows[0], layout)
	startRow := 0
	if hasHeader {
		startRow = 1
		warnings = append(warnings, "Detected header row, skipping")

		var missing []string
		for _, role := range layout.required {
			if cols.Index(role) == -1 {
				missing = append(missing, role)
			}
		}
		if len(missing) > 0 {
			errs = append(errs, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return errs, warnings
		}
	} else if len(src.rows[0]) >= 3 {
		// An unrecognized header: the second positional column should be numeric
		if _, err := parseNumber(src.rows[0][1]); err != nil {
			startRow = 1
			warnings = append(warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(src.rows); i++ {
		row := src.rows[i]
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", src.rowPrefix, i+1)
		errMsg, warning := parse(row, cols, rowLabel)
		if errMsg != "" {
			errs = append(errs, errMsg)
			continue
		}
		if warning != "" {
			warnings = append(warnings, warning)
		}
	}
	return errs, warnings
}
