package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PrintQuote/internal/cutplan"
	"github.com/piwi3910/PrintQuote/internal/engine"
	"github.com/piwi3910/PrintQuote/internal/model"
	"github.com/piwi3910/PrintQuote/internal/ui/widgets"
)

// resultRow pairs a result with the form values shown for it.
type resultRow struct {
	Result model.PerPaperResult
	Fields model.PaperFields
}

// resultRows merges the current overrides into the results. Overrides of
// products no longer in the quote are kept but not shown.
func resultRows(res *model.QuoteResult, ov model.Overrides) []resultRow {
	if res == nil {
		return nil
	}
	fields := model.MergeOverrides(res.Results, ov)
	rows := make([]resultRow, len(res.Results))
	for i, r := range res.Results {
		rows[i] = resultRow{Result: r, Fields: fields[i]}
	}
	return rows
}

// sheetLabel names the press sheet of a result.
func sheetLabel(r model.PerPaperResult) string {
	switch {
	case r.Candidate != nil:
		return r.Candidate.Name
	case r.Option != nil:
		return r.Option.Name
	default:
		return fmt.Sprintf("%gx%g", r.Layout.SheetWidth, r.Layout.SheetHeight)
	}
}

// paperOrder works out the parent sheets to buy for a result, using the
// entered sheet count and price when present.
func paperOrder(r model.PerPaperResult, f model.PaperFields, wastePercent float64) model.PaperPurchase {
	cuts := 1
	if r.Candidate != nil {
		cuts = r.Candidate.CutsPerParent
	}
	return model.CalculatePaperPurchase(f.EnteredSheets, cuts, wastePercent, f.PricePerSheet*float64(cuts))
}

func upsOf(r model.PerPaperResult) int {
	if r.Option != nil {
		return r.Option.Ups
	}
	return r.Layout.ItemsPerSheet
}

func (a *App) buildResultsPanel() fyne.CanvasObject {
	a.resultContainer = container.NewStack(
		widget.NewLabel("No results yet. Add products, then click Estimate."),
	)
	return a.resultContainer
}

func (a *App) refreshResults() {
	if a.resultContainer == nil {
		return
	}
	a.resultContainer.RemoveAll()
	if a.quote.Result == nil {
		a.resultContainer.Add(widget.NewLabel("No results yet. Add products, then click Estimate."))
		a.resultContainer.Refresh()
		return
	}

	inner := container.NewAppTabs(
		container.NewTabItem("Costs", a.buildCostTable()),
		container.NewTabItem("Imposition", widgets.RenderResults(a.quote.Result)),
	)
	a.resultContainer.Add(inner)
	a.resultContainer.Refresh()
}

const costColumns = 11

func (a *App) buildCostTable() fyne.CanvasObject {
	rows := resultRows(a.quote.Result, a.overrides)
	list := container.NewVBox(
		container.NewGridWithColumns(costColumns,
			headerRow("Product", "Paper", "Method", "Sheet", "Ups", "Recommended", "Entered", "Price", "Total", "Source", "")...),
		widget.NewSeparator(),
	)

	for _, row := range rows {
		list.Add(a.buildCostRow(row))
	}

	for _, e := range a.quote.Result.Errors {
		msg := widget.NewLabel(fmt.Sprintf("Product %s: %s", e.ProductID, e.Message))
		msg.Importance = widget.WarningImportance
		list.Add(msg)
	}

	a.totalLabel = boldLabel("")
	a.updateTotal()
	return container.NewBorder(nil, a.totalLabel, nil, nil, container.NewVScroll(list))
}

func (a *App) buildCostRow(row resultRow) fyne.CanvasObject {
	r := row.Result
	if !r.Feasible {
		reason := widget.NewLabel(r.Reason)
		reason.Importance = widget.DangerImportance
		return container.NewGridWithColumns(costColumns,
			widget.NewLabel(r.ProductName),
			widget.NewLabel(fmt.Sprintf("%s %d", r.PaperName, r.GSM)),
			widget.NewLabel(string(r.Method)),
			reason,
		)
	}

	sheets := widget.NewEntry()
	sheets.SetText(strconv.Itoa(row.Fields.EnteredSheets))
	price := widget.NewEntry()
	price.SetText(formatNumber(row.Fields.PricePerSheet))

	key := r.Key()
	label := fmt.Sprintf("Edit %s / %s", r.ProductName, r.PaperName)
	apply := func(string) {
		o, err := overrideFromInput(r, sheets.Text, price.Text)
		if err != nil {
			return
		}
		a.recordOnce(label)
		a.overrides = a.overrides.With(key, o)
		a.updateTotal()
	}
	sheets.OnChanged = apply
	price.OnChanged = apply

	actions := container.NewHBox(
		newIconButtonWithTooltip(theme.VisibilityIcon(), "Show imposition", func() { a.showImposition(r) }),
		newIconButtonWithTooltip(theme.ContentCutIcon(), "Cut program", func() { a.showCutPreview(r) }),
		newIconButtonWithTooltip(theme.ViewRefreshIcon(), "Reset to recommendation", func() {
			a.record("Reset " + r.ProductName)
			a.overrides = a.overrides.With(key, model.Override{})
			a.refreshResults()
		}),
	)

	return container.NewGridWithColumns(costColumns,
		widget.NewLabel(r.ProductName),
		widget.NewLabel(fmt.Sprintf("%s %d", r.PaperName, r.GSM)),
		widget.NewLabel(string(r.Method)),
		widget.NewLabel(sheetLabel(r)),
		widget.NewLabel(strconv.Itoa(upsOf(r))),
		widget.NewLabel(strconv.Itoa(r.RecommendedSheets)),
		sheets,
		price,
		widget.NewLabel(fmt.Sprintf("%.2f", r.Total)),
		widget.NewLabel(string(r.PriceSource)),
		actions,
	)
}

// updateTotal shows the quote total and how many rows were edited.
func (a *App) updateTotal() {
	if a.totalLabel == nil || a.quote.Result == nil {
		return
	}
	edited := 0
	for _, f := range model.MergeOverrides(a.quote.Result.Results, a.overrides) {
		if f.Edited {
			edited++
		}
	}
	text := fmt.Sprintf("Quote total: %.2f", a.quote.Result.Total())
	if edited > 0 {
		text += fmt.Sprintf("  (%d papers with entered values)", edited)
	}
	a.totalLabel.SetText(text)
}

func (a *App) showImposition(r model.PerPaperResult) {
	var extra *model.LayoutResult
	if r.Option != nil {
		extra = r.Option.Extra
	}
	remnants := model.Remnants(r.Layout)
	fields := model.MergeOverrides([]model.PerPaperResult{r}, a.overrides)[0]
	order := paperOrder(r, fields, a.config.WastePercent)
	info := widget.NewLabel(fmt.Sprintf("%s\nRemnant area: %.1f cm2 in %d strips\nOrder: %d parent sheets (%d press sheets + %g%% waste), %.2f",
		widgets.ResultHeader(r), model.TotalRemnantArea(remnants), len(remnants),
		order.ParentSheets, order.PressSheets, order.WastePercent, order.EstimatedCost))

	content := container.NewBorder(info, nil, nil, nil,
		container.NewCenter(widgets.NewImpositionCanvas(r.Layout, extra, 700, 450)))
	d := dialog.NewCustom("Imposition", "Close", content, a.window)
	d.Resize(fyne.NewSize(760, 560))
	d.Show()
}

func (a *App) showCutPreview(r model.PerPaperResult) {
	gen := cutplan.New(a.config.DefaultCutterProfile)
	program := gen.GenerateResult(r)
	obj, err := widgets.RenderCutPreview(r, program, gen.Profile())
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	w := fyne.CurrentApp().NewWindow(fmt.Sprintf("Cut Program: %s / %s", r.ProductName, r.PaperName))
	w.SetContent(obj)
	w.Resize(fyne.NewSize(1100, 560))
	w.Show()
}

// ─── Scenarios ───

func (a *App) showCompareDialog() {
	if len(a.quote.Products) == 0 {
		dialog.ShowInformation("Nothing to compare", "Add at least one product first.", a.window)
		return
	}
	names := make([]string, len(a.quote.Products))
	for i, p := range a.quote.Products {
		names[i] = p.Name
	}

	table := container.NewVBox()
	show := func(idx int) {
		table.RemoveAll()
		p := a.quote.Products[idx]
		scenarios := engine.BuildDefaultScenarios(a.quote.Settings, p)
		results := engine.CompareScenarios(scenarios, a.inventory.Candidates, a.inventory.PriceLookup(), a.memo)

		table.Add(container.NewGridWithColumns(5, headerRow("Scenario", "Total", "Sheets", "Papers", "Note")...))
		table.Add(widget.NewSeparator())
		for _, c := range results {
			note := ""
			switch {
			case c.Err != nil:
				note = c.Err.Error()
			case c.InfeasibleCount > 0:
				note = fmt.Sprintf("%d infeasible", c.InfeasibleCount)
			}
			table.Add(container.NewGridWithColumns(5,
				widget.NewLabel(c.Scenario.Name),
				widget.NewLabel(fmt.Sprintf("%.2f", c.Total)),
				widget.NewLabel(strconv.Itoa(c.Sheets)),
				widget.NewLabel(strconv.Itoa(c.FeasiblePapers)),
				widget.NewLabel(note),
			))
		}
		table.Refresh()
	}

	productSelect := widget.NewSelect(names, nil)
	productSelect.OnChanged = func(string) {
		if i := productSelect.SelectedIndex(); i >= 0 {
			show(i)
		}
	}
	productSelect.SetSelectedIndex(0)

	content := container.NewBorder(productSelect, nil, nil, nil, container.NewVScroll(table))
	d := dialog.NewCustom("Compare Scenarios", "Close", content, a.window)
	d.Resize(fyne.NewSize(700, 400))
	d.Show()
}
