package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PrintQuote/internal/model"
	"github.com/piwi3910/PrintQuote/internal/project"
)

// ─── Paper Inventory Dialog ───

func (a *App) showInventoryDialog() {
	paperList := container.NewVBox()
	sheetList := container.NewVBox()
	var refresh func()

	refresh = func() {
		a.fillPaperList(paperList, refresh)
		a.fillSheetList(sheetList, refresh)
	}
	refresh()

	papersTab := container.NewBorder(
		container.NewHBox(
			widget.NewButtonWithIcon("Add Paper", theme.ContentAddIcon(), func() {
				a.showPaperDialog("Add Paper", model.NewPaperStock("", 0, 100, 70, 0), func(p model.PaperStock) {
					a.inventory.Papers = append(a.inventory.Papers, p)
					a.saveInventory()
					refresh()
				})
			}),
			layout.NewSpacer(),
			widget.NewButtonWithIcon("Import Price List...", theme.UploadIcon(), func() {
				a.importPrices(refresh)
			}),
		),
		nil, nil, nil,
		container.NewVScroll(paperList),
	)

	sheetsTab := container.NewBorder(
		container.NewHBox(
			widget.NewButtonWithIcon("Add Sheet Size", theme.ContentAddIcon(), func() {
				a.showCandidateDialog("Add Sheet Size", model.NewSheetCandidate("", 100, 70, 50, 35, 4), func(c model.SheetCandidate) {
					a.inventory.Candidates = append(a.inventory.Candidates, c)
					a.saveInventory()
					refresh()
				})
			}),
			layout.NewSpacer(),
			widget.NewButtonWithIcon("Restore Standard Sizes", theme.ViewRefreshIcon(), func() {
				dialog.ShowConfirm("Restore Standard Sizes",
					"Replace the sheet sizes with the standard catalog?",
					func(ok bool) {
						if !ok {
							return
						}
						a.inventory.Candidates = model.StandardCandidates()
						a.saveInventory()
						refresh()
					}, a.window)
			}),
		),
		nil, nil, nil,
		container.NewVScroll(sheetList),
	)

	tabs := container.NewAppTabs(
		container.NewTabItem("Papers", papersTab),
		container.NewTabItem("Sheet Sizes", sheetsTab),
	)

	toolbar := container.NewHBox(
		layout.NewSpacer(),
		widget.NewButtonWithIcon("Import...", theme.FolderOpenIcon(), func() {
			a.importInventory(refresh)
		}),
		widget.NewButtonWithIcon("Export...", theme.DocumentSaveIcon(), a.exportInventory),
	)

	d := dialog.NewCustom("Paper Inventory", "Close", container.NewBorder(nil, toolbar, nil, nil, tabs), a.window)
	d.Resize(fyne.NewSize(820, 540))
	d.Show()
}

func (a *App) fillPaperList(list *fyne.Container, refresh func()) {
	list.RemoveAll()
	if len(a.inventory.Papers) == 0 {
		list.Add(widget.NewLabel("No papers defined. Papers without a price use the fallback price."))
		return
	}

	list.Add(container.NewGridWithColumns(7, headerRow("Paper", "GSM", "Parent (cm)", "Price/Sheet", "Supplier", "", "")...))
	list.Add(widget.NewSeparator())

	for i := range a.inventory.Papers {
		idx := i
		p := a.inventory.Papers[idx]
		price := "-"
		if p.PricePerSheet > 0 {
			price = fmt.Sprintf("%.2f", p.PricePerSheet)
		}
		list.Add(container.NewGridWithColumns(7,
			widget.NewLabel(p.Name),
			widget.NewLabel(strconv.Itoa(p.GSM)),
			widget.NewLabel(fmt.Sprintf("%gx%g", p.ParentWidth, p.ParentHeight)),
			widget.NewLabel(price),
			widget.NewLabel(p.Supplier),
			widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
				a.showPaperDialog("Edit Paper", a.inventory.Papers[idx], func(p model.PaperStock) {
					a.inventory.Papers[idx] = p
					a.saveInventory()
					refresh()
				})
			}),
			widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
				a.inventory.Papers = append(a.inventory.Papers[:idx], a.inventory.Papers[idx+1:]...)
				a.saveInventory()
				refresh()
			}),
		))
	}
}

func (a *App) fillSheetList(list *fyne.Container, refresh func()) {
	list.RemoveAll()
	if len(a.inventory.Candidates) == 0 {
		list.Add(widget.NewLabel("No sheet sizes defined. Offset products cannot be estimated."))
		return
	}

	list.Add(container.NewGridWithColumns(6, headerRow("Name", "Sheet (cm)", "Parent (cm)", "Cuts", "", "")...))
	list.Add(widget.NewSeparator())

	for i := range a.inventory.Candidates {
		idx := i
		c := a.inventory.Candidates[idx]
		list.Add(container.NewGridWithColumns(6,
			widget.NewLabel(c.Name),
			widget.NewLabel(fmt.Sprintf("%gx%g", c.Width, c.Height)),
			widget.NewLabel(fmt.Sprintf("%gx%g", c.ParentWidth, c.ParentHeight)),
			widget.NewLabel(strconv.Itoa(c.CutsPerParent)),
			widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
				a.showCandidateDialog("Edit Sheet Size", a.inventory.Candidates[idx], func(c model.SheetCandidate) {
					a.inventory.Candidates[idx] = c
					a.saveInventory()
					refresh()
				})
			}),
			widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
				a.inventory.Candidates = append(a.inventory.Candidates[:idx], a.inventory.Candidates[idx+1:]...)
				a.saveInventory()
				refresh()
			}),
		))
	}
}

func (a *App) showPaperDialog(title string, p model.PaperStock, onSave func(model.PaperStock)) {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(p.Name)
	nameEntry.SetPlaceHolder("e.g. Coated Matt")

	gsmEntry := widget.NewEntry()
	if p.GSM > 0 {
		gsmEntry.SetText(strconv.Itoa(p.GSM))
	}
	widthEntry := widget.NewEntry()
	widthEntry.SetText(formatNumber(p.ParentWidth))
	heightEntry := widget.NewEntry()
	heightEntry.SetText(formatNumber(p.ParentHeight))
	priceEntry := widget.NewEntry()
	priceEntry.SetText(formatNumber(p.PricePerSheet))
	priceEntry.SetPlaceHolder("0 means unpriced")
	supplierEntry := widget.NewEntry()
	supplierEntry.SetText(p.Supplier)

	form := dialog.NewForm(title, "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("GSM", gsmEntry),
			widget.NewFormItem("Parent Width (cm)", widthEntry),
			widget.NewFormItem("Parent Height (cm)", heightEntry),
			widget.NewFormItem("Price per Parent Sheet", priceEntry),
			widget.NewFormItem("Supplier", supplierEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			gsm, _ := strconv.Atoi(strings.TrimSpace(gsmEntry.Text))
			w, _ := parseNumber(widthEntry.Text)
			h, _ := parseNumber(heightEntry.Text)
			price, _ := parseNumber(priceEntry.Text)
			if strings.TrimSpace(nameEntry.Text) == "" || gsm <= 0 || w <= 0 || h <= 0 || price < 0 {
				dialog.ShowError(fmt.Errorf("name, gsm and parent size are required, price must not be negative"), a.window)
				return
			}
			p.Name = strings.TrimSpace(nameEntry.Text)
			p.GSM = gsm
			p.ParentWidth, p.ParentHeight = w, h
			p.PricePerSheet = price
			p.Supplier = strings.TrimSpace(supplierEntry.Text)
			onSave(p)
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 380))
	form.Show()
}

func (a *App) showCandidateDialog(title string, c model.SheetCandidate, onSave func(model.SheetCandidate)) {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(c.Name)
	widthEntry := widget.NewEntry()
	widthEntry.SetText(formatNumber(c.Width))
	heightEntry := widget.NewEntry()
	heightEntry.SetText(formatNumber(c.Height))
	parentWEntry := widget.NewEntry()
	parentWEntry.SetText(formatNumber(c.ParentWidth))
	parentHEntry := widget.NewEntry()
	parentHEntry.SetText(formatNumber(c.ParentHeight))
	cutsEntry := widget.NewEntry()
	cutsEntry.SetText(strconv.Itoa(c.CutsPerParent))

	form := dialog.NewForm(title, "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Sheet Width (cm)", widthEntry),
			widget.NewFormItem("Sheet Height (cm)", heightEntry),
			widget.NewFormItem("Parent Width (cm)", parentWEntry),
			widget.NewFormItem("Parent Height (cm)", parentHEntry),
			widget.NewFormItem("Sheets per Parent", cutsEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			w, _ := parseNumber(widthEntry.Text)
			h, _ := parseNumber(heightEntry.Text)
			pw, _ := parseNumber(parentWEntry.Text)
			ph, _ := parseNumber(parentHEntry.Text)
			cuts, _ := strconv.Atoi(strings.TrimSpace(cutsEntry.Text))
			if w <= 0 || h <= 0 || pw <= 0 || ph <= 0 || cuts < 1 {
				dialog.ShowError(fmt.Errorf("sizes must be > 0 and at least one sheet per parent"), a.window)
				return
			}
			c.Name = strings.TrimSpace(nameEntry.Text)
			c.Width, c.Height = w, h
			c.ParentWidth, c.ParentHeight = pw, ph
			c.CutsPerParent = cuts
			onSave(c)
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 380))
	form.Show()
}

// ─── Import / Export ───

func (a *App) importInventory(onDone func()) {
	a.openFile([]string{".json"}, func(path string) {
		merged, err := project.ImportInventory(path, a.inventory)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.inventory = merged
		a.saveInventory()
		onDone()
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("Inventory now contains %d papers and %d sheet sizes.",
				len(a.inventory.Papers), len(a.inventory.Candidates)),
			a.window)
	})
}

func (a *App) exportInventory() {
	a.saveFile("inventory.json", func(path string) error {
		return project.ExportInventory(path, a.inventory)
	})
}

// saveInventory persists the inventory. Cached layouts stay valid but
// cached product estimates may carry old prices, so the memo is reset.
func (a *App) saveInventory() {
	if a.memo != nil {
		a.memo.Reset()
	}
	if a.inventoryPath == "" {
		return
	}
	if err := project.SaveInventory(a.inventoryPath, a.inventory); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save inventory: %w", err), a.window)
	}
}
