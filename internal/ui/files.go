package ui

import (
	"fmt"
	"os"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/piwi3910/PrintQuote/internal/cutplan"
	"github.com/piwi3910/PrintQuote/internal/export"
	"github.com/piwi3910/PrintQuote/internal/importer"
	"github.com/piwi3910/PrintQuote/internal/model"
	"github.com/piwi3910/PrintQuote/internal/project"
)

// showImportMessages reports import errors and logs warnings. It returns
// a note about skipped rows for the success message.
func (a *App) showImportMessages(errs, warnings []string) string {
	for _, w := range warnings {
		a.log.Warn("import warning", zap.String("warning", w))
	}
	if len(errs) == 0 {
		return ""
	}
	dialog.ShowError(fmt.Errorf("errors encountered during import:\n\n%s", strings.Join(errs, "\n")), a.window)
	return fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped.", len(errs))
}

// openFile shows a file picker limited to the given extensions.
func (a *App) openFile(exts []string, onPicked func(path string)) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		onPicked(reader.URI().Path())
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter(exts))
	d.Show()
}

// saveFile shows a save picker and runs write with the chosen path.
func (a *App) saveFile(name string, write func(path string) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := write(path); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.log.Info("exported", zap.String("path", path))
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(name)
	d.Show()
}

// ─── Imports ───

func (a *App) importProducts() {
	a.openFile([]string{".csv", ".xlsx"}, func(path string) {
		res := importer.ImportProducts(path)
		note := a.showImportMessages(res.Errors, res.Warnings)
		if len(res.Products) == 0 {
			return
		}
		a.record("Import Products")
		a.quote.Products = append(a.quote.Products, res.Products...)
		a.refreshProductsList()
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("Imported %d products.%s", len(res.Products), note), a.window)
	})
}

// importPrices merges a price list into the inventory. onDone runs after
// a successful merge.
func (a *App) importPrices(onDone func()) {
	a.openFile([]string{".csv", ".xlsx"}, func(path string) {
		res := importer.ImportPrices(path)
		note := a.showImportMessages(res.Errors, res.Warnings)
		if len(res.Papers) == 0 {
			return
		}
		a.inventory = project.MergeInventory(a.inventory, res.Papers, nil)
		a.saveInventory()
		if onDone != nil {
			onDone()
		}
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("Merged %d papers, the inventory now holds %d.%s", len(res.Papers), len(a.inventory.Papers), note), a.window)
	})
}

func (a *App) importDieLine() {
	a.openFile([]string{".dxf"}, func(path string) {
		res := importer.ImportDieLine(path, "mm")
		a.showImportMessages(res.Errors, res.Warnings)
		if len(res.Errors) > 0 {
			return
		}
		msg := fmt.Sprintf("Die line is %gx%g cm with %d closed outlines.\n\nAdd a product of this size?",
			res.Piece.Width, res.Piece.Height, res.Outlines)
		dialog.ShowConfirm("Die Line", msg, func(ok bool) {
			if !ok {
				return
			}
			p := model.NewProduct("Die-cut product", res.Piece.Width, res.Piece.Height, 1000, model.MethodOffset)
			a.showProductDialog("Add Product", "Add", p, func(p model.Product) {
				a.record("Add Product")
				a.quote.Products = append(a.quote.Products, p)
				a.refreshProductsList()
			})
		}, a.window)
	})
}

// ─── Exports ───

// requireResult reports whether the quote has results to export.
func (a *App) requireResult() bool {
	if a.quote.Result == nil || len(a.quote.Result.Results) == 0 {
		dialog.ShowInformation("No results", "Run the estimate before exporting.", a.window)
		return false
	}
	return true
}

func (a *App) exportPDF() {
	if !a.requireResult() {
		return
	}
	q := a.currentQuote()
	a.saveFile(q.Name+".pdf", func(path string) error {
		return export.ExportPDF(path, q, q.Settings)
	})
}

func (a *App) exportXLSX() {
	if !a.requireResult() {
		return
	}
	q := a.currentQuote()
	est := a.estimator()
	a.saveFile(q.Name+".xlsx", func(path string) error {
		var comparisons []export.CostComparison
		for _, p := range q.Products {
			comparisons = append(comparisons, export.BuildComparisons(est, p)...)
		}
		return export.ExportXLSX(path, q, comparisons)
	})
}

func (a *App) exportTickets() {
	if !a.requireResult() {
		return
	}
	q := a.currentQuote()
	a.saveFile(q.Name+"-tickets.pdf", func(path string) error {
		return export.ExportTickets(path, q)
	})
}

func (a *App) exportDXF() {
	if !a.requireResult() {
		return
	}
	var feasible []model.PerPaperResult
	var labels []string
	for _, r := range a.quote.Result.Results {
		if r.Feasible {
			feasible = append(feasible, r)
			labels = append(labels, fmt.Sprintf("%s / %s %d", r.ProductName, r.PaperName, r.GSM))
		}
	}
	if len(feasible) == 0 {
		dialog.ShowInformation("No results", "No feasible result to export.", a.window)
		return
	}

	choose := func(idx int) {
		a.saveFile(fmt.Sprintf("%s-%d.dxf", a.quote.Name, idx+1), func(path string) error {
			return export.ExportResultDXF(path, feasible[idx])
		})
	}
	if len(feasible) == 1 {
		choose(0)
		return
	}
	selectResult(a.window, "Export DXF", labels, choose)
}

func (a *App) exportCutPrograms() {
	if !a.requireResult() {
		return
	}
	gen := cutplan.New(a.config.DefaultCutterProfile)
	programs := gen.GenerateAll(a.quote.Result.Results)
	if len(programs) == 0 {
		dialog.ShowInformation("No results", "No feasible result to cut.", a.window)
		return
	}
	a.saveFile(a.quote.Name+"-cuts.txt", func(path string) error {
		if err := os.WriteFile(path, []byte(strings.Join(programs, "\n")), 0644); err != nil {
			return fmt.Errorf("failed to write cut programs: %w", err)
		}
		return nil
	})
}

// selectResult asks which of several results to use.
func selectResult(w fyne.Window, title string, labels []string, onChosen func(idx int)) {
	sel := widget.NewSelect(labels, nil)
	sel.SetSelectedIndex(0)
	dialog.ShowForm(title, "Next", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Result", sel)},
		func(ok bool) {
			if ok && sel.SelectedIndex() >= 0 {
				onChosen(sel.SelectedIndex())
			}
		}, w)
}
