package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/piwi3910/PrintQuote/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("117")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	totalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))
)

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	return t.String()
}

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
}

func printTable(w io.Writer, headers []string, rows [][]string) {
	fmt.Fprintln(w, renderTable(headers, rows))
}

func printMessages(w io.Writer, errs, warnings []string) {
	for _, e := range errs {
		fmt.Fprintln(w, errorStyle.Render("error: "+e))
	}
	for _, msg := range warnings {
		fmt.Fprintln(w, warnStyle.Render("warning: "+msg))
	}
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func size(w, h float64) string {
	return fmt.Sprintf("%gx%g", w, h)
}

// parseSize reads "WxH" in centimetres.
func parseSize(s string) (model.PieceSpec, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return model.PieceSpec{}, fmt.Errorf("size %q is not WIDTHxHEIGHT", s)
	}
	width, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil {
		return model.PieceSpec{}, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	height, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil {
		return model.PieceSpec{}, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	if width <= 0 || height <= 0 {
		return model.PieceSpec{}, fmt.Errorf("size %q must be positive", s)
	}
	return model.PieceSpec{Width: width, Height: height}, nil
}

func sheetName(r model.PerPaperResult) string {
	if r.Candidate != nil {
		return r.Candidate.Name
	}
	if r.Option != nil {
		return fmt.Sprintf("%s %s", size(r.Layout.SheetWidth, r.Layout.SheetHeight), r.Option.Name)
	}
	return size(r.Layout.SheetWidth, r.Layout.SheetHeight)
}

func ups(r model.PerPaperResult) int {
	if r.Option != nil {
		return r.Option.Ups
	}
	return r.Layout.ItemsPerSheet
}

// renderResults prints one row per paper result with the overrides merged.
func renderResults(w io.Writer, q model.Quote) {
	res := q.Result
	fields := model.MergeOverrides(res.Results, model.OverridesFromList(q.Overrides))

	rows := make([][]string, 0, len(res.Results))
	for i, r := range res.Results {
		if !r.Feasible {
			rows = append(rows, []string{
				r.ProductName, fmt.Sprintf("%s %dgsm", r.PaperName, r.GSM), string(r.Method),
				"-", "-", "-", "-", "-", r.Reason,
			})
			continue
		}
		entered := strconv.Itoa(fields[i].EnteredSheets)
		if fields[i].Edited {
			entered += "*"
		}
		rows = append(rows, []string{
			r.ProductName,
			fmt.Sprintf("%s %dgsm", r.PaperName, r.GSM),
			string(r.Method),
			sheetName(r),
			strconv.Itoa(ups(r)),
			strconv.Itoa(r.RecommendedSheets),
			entered,
			money(fields[i].PricePerSheet),
			money(r.Total),
		})
	}

	printTitle(w, q.Name)
	printTable(w, []string{"Product", "Paper", "Method", "Sheet", "Ups", "Sheets", "Entered", "Price", "Total"}, rows)
	for _, e := range res.Errors {
		fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("error: %s", e.Message)))
	}
	fmt.Fprintln(w, totalStyle.Render("Quote total: "+money(res.Total())))
}

func renderLayout(w io.Writer, l model.LayoutResult) {
	rows := [][]string{
		{"Sheet", size(l.SheetWidth, l.SheetHeight)},
		{"Usable area", size(l.UsableWidth, l.UsableHeight)},
		{"Piece with bleed", size(l.PieceWidth, l.PieceHeight)},
		{"Grid", fmt.Sprintf("%d x %d", l.ItemsPerRow, l.ItemsPerCol)},
		{"Ups", strconv.Itoa(l.ItemsPerSheet)},
		{"Orientation", l.Orientation.String()},
		{"Efficiency", fmt.Sprintf("%.1f%%", l.Efficiency())},
	}
	printTable(w, []string{"Layout", "Value"}, rows)

	rems := model.Remnants(l)
	if len(rems) == 0 {
		return
	}
	remRows := make([][]string, 0, len(rems))
	for _, r := range rems {
		remRows = append(remRows, []string{string(r.Side), size(r.Width, r.Height), fmt.Sprintf("%.1f", r.Area())})
	}
	printTable(w, []string{"Remnant", "Size", "Area"}, remRows)
}

func renderCostRows(w io.Writer, title string, rows []model.CostRow) {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Candidate.Name,
			size(r.Candidate.Width, r.Candidate.Height),
			strconv.Itoa(r.ItemsPerSheet),
			strconv.Itoa(r.Sheets),
			strconv.Itoa(r.ParentSheets),
			money(r.PaperCost),
			money(r.PlateCost),
			money(r.Total),
		})
	}
	printTitle(w, title)
	printTable(w, []string{"Sheet", "Size", "Ups", "Sheets", "Parents", "Paper", "Plates", "Total"}, out)
}

func renderDigitalOptions(w io.Writer, title string, opts []model.DigitalOption) {
	out := make([][]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, []string{
			o.Name,
			strconv.Itoa(o.Ups),
			strconv.Itoa(o.ExtraUps),
			strconv.Itoa(o.ParentsNeeded),
			money(o.PerParentCost),
			money(o.Total),
		})
	}
	printTitle(w, title)
	printTable(w, []string{"Option", "Ups", "Extra", "Sheets", "Per sheet", "Total"}, out)
}
