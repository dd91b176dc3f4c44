package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PrintQuote/internal/model"
)

// parseNumber accepts a decimal comma as well as a point.
func parseNumber(text string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(text), ",", "."), 64)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// floatEntry returns an entry bound to val. changed runs after every
// edit that parses.
func floatEntry(val *float64, changed func()) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(formatNumber(*val))
	e.OnChanged = func(text string) {
		if v, err := parseNumber(text); err == nil {
			*val = v
			if changed != nil {
				changed()
			}
		}
	}
	return e
}

func intEntry(val *int, changed func()) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.Itoa(*val))
	e.OnChanged = func(text string) {
		if v, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
			*val = v
			if changed != nil {
				changed()
			}
		}
	}
	return e
}

func boldLabel(text string) *widget.Label {
	return widget.NewLabelWithStyle(text, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
}

func headerRow(titles ...string) []fyne.CanvasObject {
	out := make([]fyne.CanvasObject, len(titles))
	for i, t := range titles {
		out[i] = boldLabel(t)
	}
	return out
}

// parsePapers reads one paper per line as "name, gsm" with an optional
// third price column. Blank lines are skipped.
func parsePapers(text string) ([]model.Paper, error) {
	var papers []model.Paper
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ";")
		if len(fields) == 1 {
			fields = strings.Split(line, ",")
		}
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("line %d: expected name, gsm and an optional price", i+1)
		}
		name := strings.TrimSpace(fields[0])
		if name == "" {
			return nil, fmt.Errorf("line %d: paper name is empty", i+1)
		}
		gsm, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil || gsm <= 0 {
			return nil, fmt.Errorf("line %d: invalid gsm %q", i+1, strings.TrimSpace(fields[1]))
		}
		p := model.Paper{Name: name, GSM: gsm}
		if len(fields) == 3 && strings.TrimSpace(fields[2]) != "" {
			price, err := parseNumber(fields[2])
			if err != nil || price < 0 {
				return nil, fmt.Errorf("line %d: invalid price %q", i+1, strings.TrimSpace(fields[2]))
			}
			p.PricePerSheet = price
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// formatPapers is the inverse of parsePapers.
func formatPapers(papers []model.Paper) string {
	lines := make([]string, len(papers))
	for i, p := range papers {
		lines[i] = fmt.Sprintf("%s, %d", p.Name, p.GSM)
		if p.PricePerSheet > 0 {
			lines[i] += ", " + formatNumber(p.PricePerSheet)
		}
	}
	return strings.Join(lines, "\n")
}

// overrideFromInput turns the entered sheets and price typed for a result
// into an override. Values equal to the computed ones, or left blank, are
// not overridden.
func overrideFromInput(r model.PerPaperResult, sheetsText, priceText string) (model.Override, error) {
	var o model.Override
	if s := strings.TrimSpace(sheetsText); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return o, fmt.Errorf("entered sheets must be a whole number, got %q", s)
		}
		if n != r.RecommendedSheets {
			o.EnteredSheets = &n
		}
	}
	if s := strings.TrimSpace(priceText); s != "" {
		p, err := parseNumber(s)
		if err != nil || p < 0 {
			return o, fmt.Errorf("price per sheet must be a positive number, got %q", s)
		}
		if math.Abs(p-r.PricePerSheet) > 1e-9 {
			o.PricePerSheet = &p
		}
	}
	return o, nil
}
