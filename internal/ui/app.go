// Package ui implements the PrintQuote desktop estimator.
package ui

import (
	"context"
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/piwi3910/PrintQuote/internal/engine"
	"github.com/piwi3910/PrintQuote/internal/logging"
	"github.com/piwi3910/PrintQuote/internal/model"
	"github.com/piwi3910/PrintQuote/internal/project"
)

// Tab order in Build.
const (
	tabProducts = iota
	tabSettings
	tabResults
)

// App holds all application state and UI references.
type App struct {
	window    fyne.Window
	quote     model.Quote
	overrides model.Overrides
	quotePath string

	config        model.AppConfig
	configPath    string
	inventory     model.Inventory
	inventoryPath string
	templates     model.TemplateStore

	history *History
	memo    *engine.Memo
	log     *zap.Logger

	tabs              *container.AppTabs
	productsContainer *fyne.Container
	settingsContainer *fyne.Container
	resultContainer   *fyne.Container
	totalLabel        *widget.Label
}

// NewApp loads the saved configuration, inventory, templates and cutter
// profiles. Files that cannot be read are replaced by defaults and
// logged.
func NewApp(window fyne.Window, log *zap.Logger) *App {
	a := &App{
		window:     window,
		history:    NewHistory(),
		log:        logging.OrNop(log),
		configPath: project.DefaultConfigPath(),
	}

	cfg, err := project.LoadAppConfig(a.configPath)
	if err != nil {
		a.log.Warn("failed to load config, using defaults", zap.Error(err))
		cfg = model.DefaultAppConfig()
	}
	a.config = cfg
	a.resetMemo()

	inv, path, err := project.LoadOrCreateInventory()
	if err != nil {
		a.log.Warn("failed to load inventory, using defaults", zap.Error(err))
	}
	a.inventory, a.inventoryPath = inv, path

	templates, err := project.LoadDefaultTemplates()
	if err != nil {
		a.log.Warn("failed to load templates", zap.Error(err))
	}
	a.templates = templates

	profiles, err := project.LoadCustomProfilesFromDefault()
	if err != nil {
		a.log.Warn("failed to load cutter profiles", zap.Error(err))
	}
	model.CustomProfiles = profiles

	a.newQuote()
	return a
}

// Theme returns the theme chosen in the preferences.
func (a *App) Theme() fyne.Theme {
	return ThemeForName(a.config.Theme)
}

func (a *App) resetMemo() {
	a.memo = nil
	if a.config.MemoMaxEntries > 0 {
		a.memo = engine.NewMemo(a.config.MemoMaxEntries)
	}
}

func (a *App) newQuote() {
	a.quote = model.NewQuote()
	a.config.ApplyToSettings(&a.quote.Settings)
	a.overrides = model.Overrides{}
	a.quotePath = ""
	a.history.Clear()
}

// SetupMenus creates the native menu bar. It is called again whenever
// the recent quotes or the undo state change.
func (a *App) SetupMenus() {
	recent := fyne.NewMenuItem("Open Recent", nil)
	var recentItems []*fyne.MenuItem
	for _, path := range a.config.RecentQuotes {
		p := path
		recentItems = append(recentItems, fyne.NewMenuItem(filepath.Base(p), func() {
			a.openQuote(p)
		}))
	}
	if len(recentItems) == 0 {
		none := fyne.NewMenuItem("No recent quotes", nil)
		none.Disabled = true
		recentItems = append(recentItems, none)
	}
	recent.ChildMenu = fyne.NewMenu("", recentItems...)

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Quote", func() {
			a.newQuote()
			a.refreshAll()
		}),
		fyne.NewMenuItem("Open Quote...", a.loadQuoteDialog),
		recent,
		fyne.NewMenuItem("Save Quote...", a.saveQuoteDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Products...", a.importProducts),
		fyne.NewMenuItem("Import Price List...", func() { a.importPrices(nil) }),
		fyne.NewMenuItem("Import Die Line...", a.importDieLine),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF...", a.exportPDF),
		fyne.NewMenuItem("Export Excel...", a.exportXLSX),
		fyne.NewMenuItem("Export Job Tickets...", a.exportTickets),
		fyne.NewMenuItem("Export DXF...", a.exportDXF),
		fyne.NewMenuItem("Export Cut Programs...", a.exportCutPrograms),
	)

	undo := fyne.NewMenuItem("Undo", a.undo)
	if label := a.history.UndoLabel(); label != "" {
		undo.Label = "Undo " + label
	}
	undo.Disabled = !a.history.CanUndo()
	redo := fyne.NewMenuItem("Redo", a.redo)
	redo.Disabled = !a.history.CanRedo()

	editMenu := fyne.NewMenu("Edit",
		undo,
		redo,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear All Products", func() {
			a.record("Clear Products")
			a.quote.Products = nil
			a.refreshProductsList()
		}),
		fyne.NewMenuItem("Clear Entered Values", func() {
			a.record("Clear Entered Values")
			a.overrides = model.Overrides{}
			a.refreshResults()
		}),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Estimate", a.runEstimate),
		fyne.NewMenuItem("Compare Scenarios...", a.showCompareDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Paper Inventory...", a.showInventoryDialog),
		fyne.NewMenuItem("Product Templates...", a.showTemplatesDialog),
		fyne.NewMenuItem("Cutter Profiles...", a.showProfileManager),
		fyne.NewMenuItem("Advanced Settings...", a.showAdvancedSettingsDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences...", a.showPreferencesDialog),
		fyne.NewMenuItem("Backup and Restore...", a.showBackupDialog),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))
}

// SetupShortcuts binds undo, redo, save and estimate to the keyboard.
func (a *App) SetupShortcuts() {
	c := a.window.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.undo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift},
		func(fyne.Shortcut) { a.redo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.saveQuoteDialog() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyReturn, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.runEstimate() })
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About PrintQuote",
		"PrintQuote: print-shop layout and cost estimator\n\n"+
			"Lays products out on press sheets, picks the cheapest\n"+
			"offset or digital configuration and prices the paper.",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.tabs = container.NewAppTabs(
		container.NewTabItemWithIcon("Products", theme.ListIcon(), a.buildProductsPanel()),
		container.NewTabItemWithIcon("Settings", theme.SettingsIcon(), a.buildSettingsPanel()),
		container.NewTabItemWithIcon("Results", theme.DocumentIcon(), a.buildResultsPanel()),
	)
	a.tabs.SetTabLocation(container.TabLocationTop)

	toolbar := container.NewHBox(
		newIconButtonWithTooltip(theme.FolderOpenIcon(), "Open quote", a.loadQuoteDialog),
		newIconButtonWithTooltip(theme.DocumentSaveIcon(), "Save quote", a.saveQuoteDialog),
		widget.NewSeparator(),
		newIconButtonWithTooltip(theme.ContentUndoIcon(), "Undo", a.undo),
		newIconButtonWithTooltip(theme.ContentRedoIcon(), "Redo", a.redo),
		widget.NewSeparator(),
		newIconButtonWithTooltip(theme.StorageIcon(), "Paper inventory", a.showInventoryDialog),
		layout.NewSpacer(),
		widget.NewButtonWithIcon("Estimate", theme.MediaPlayIcon(), a.runEstimate),
	)

	a.updateTitle()
	return container.NewBorder(toolbar, nil, nil, nil, a.tabs)
}

func (a *App) updateTitle() {
	a.window.SetTitle(fmt.Sprintf("PrintQuote - %s", a.quote.Name))
}

// refreshAll redraws every panel after the quote was replaced.
func (a *App) refreshAll() {
	a.refreshProductsList()
	a.refreshSettingsPanel()
	a.refreshResults()
	a.updateTitle()
	a.SetupMenus()
}

// ─── History ───

func (a *App) snapshot(label string) Snapshot {
	return MakeSnapshot(a.quote.Products, a.overrides, a.quote.Settings, label)
}

// record saves the state before a change labelled label.
func (a *App) record(label string) {
	a.history.Push(a.snapshot(label))
	a.SetupMenus()
}

// recordOnce is record for edits made keystroke by keystroke: repeated
// edits with the same label undo together.
func (a *App) recordOnce(label string) {
	if a.history.UndoLabel() == label {
		return
	}
	a.record(label)
}

func (a *App) restore(s Snapshot) {
	a.quote.Products = s.Products
	a.quote.Settings = s.Settings
	a.overrides = s.Overrides
	if a.overrides == nil {
		a.overrides = model.Overrides{}
	}
	a.refreshAll()
}

func (a *App) undo() {
	label := a.history.UndoLabel()
	s, ok := a.history.Undo(a.snapshot(label))
	if !ok {
		return
	}
	a.restore(s)
}

func (a *App) redo() {
	s, ok := a.history.Redo(a.snapshot(a.history.UndoLabel()))
	if !ok {
		return
	}
	a.restore(s)
}

// ─── Settings Panel ───

func (a *App) buildSettingsPanel() fyne.CanvasObject {
	a.settingsContainer = container.NewVBox()
	a.refreshSettingsPanel()
	return container.NewVScroll(a.settingsContainer)
}

func (a *App) refreshSettingsPanel() {
	if a.settingsContainer == nil {
		return
	}
	a.settingsContainer.RemoveAll()

	s := &a.quote.Settings
	changed := func() { a.recordOnce("Edit Settings") }
	// The snapshot has to hold the value from before the keystroke, so
	// entries edit a copy and commit after recording.
	bindFloat := func(val *float64) *widget.Entry {
		v := *val
		return floatEntry(&v, func() {
			changed()
			*val = v
		})
	}
	bindInt := func(val *int) *widget.Entry {
		v := *val
		return intEntry(&v, func() {
			changed()
			*val = v
		})
	}

	nameEntry := widget.NewEntry()
	nameEntry.SetText(a.quote.Name)
	nameEntry.OnChanged = func(text string) {
		a.quote.Name = text
		a.updateTitle()
	}
	clientEntry := widget.NewEntry()
	clientEntry.SetText(a.quote.Client)
	clientEntry.OnChanged = func(text string) { a.quote.Client = text }

	quoteSection := widget.NewCard("Quote", "", container.NewGridWithColumns(2,
		widget.NewLabel("Name"), nameEntry,
		widget.NewLabel("Client"), clientEntry,
	))

	offsetSection := widget.NewCard("Offset Press", "All sizes in cm", container.NewGridWithColumns(2,
		widget.NewLabel("Gripper"), bindFloat(&s.OffsetMargins.Gripper),
		widget.NewLabel("Edge"), bindFloat(&s.OffsetMargins.Edge),
		widget.NewLabel("Gap"), bindFloat(&s.OffsetMargins.Gap),
		widget.NewLabel("Bleed"), bindFloat(&s.OffsetMargins.Bleed),
		widget.NewLabel("Plate Cost"), bindFloat(&s.PlateCost),
		widget.NewLabel("Make-Ready Cost"), bindFloat(&s.MakeReadyCost),
	))

	names := make([]string, len(model.DigitalSheets))
	for i, d := range model.DigitalSheets {
		names[i] = d.Name
	}
	sheetSelect := widget.NewSelect(names, func(selected string) {
		a.record("Change Digital Sheet")
		s.DigitalSheet = model.FindDigitalSheet(selected).Piece()
	})
	for _, d := range model.DigitalSheets {
		if d.Piece() == s.DigitalSheet {
			sheetSelect.Selected = d.Name
		}
	}
	sheetSelect.PlaceHolder = fmt.Sprintf("Custom %gx%g", s.DigitalSheet.Width, s.DigitalSheet.Height)

	digitalSection := widget.NewCard("Digital Press", "", container.NewGridWithColumns(2,
		widget.NewLabel("Sheet"), sheetSelect,
		widget.NewLabel("Edge"), bindFloat(&s.DigitalMargins.Edge),
		widget.NewLabel("Gap"), bindFloat(&s.DigitalMargins.Gap),
		widget.NewLabel("Bleed"), bindFloat(&s.DigitalMargins.Bleed),
		widget.NewLabel("Click Cost (up to threshold)"), bindFloat(&s.ClickCostMono),
		widget.NewLabel("Click Cost (colour)"), bindFloat(&s.ClickCostColour),
		widget.NewLabel("Colour Threshold"), bindInt(&s.ColourTierThreshold),
	))

	buttons := container.NewHBox(
		widget.NewButtonWithIcon("Advanced...", theme.SettingsIcon(), a.showAdvancedSettingsDialog),
		layout.NewSpacer(),
		widget.NewButtonWithIcon("Reset to Defaults", theme.ViewRefreshIcon(), func() {
			a.record("Reset Settings")
			a.config.ApplyToSettings(&a.quote.Settings)
			a.refreshSettingsPanel()
		}),
	)

	a.settingsContainer.Add(quoteSection)
	a.settingsContainer.Add(offsetSection)
	a.settingsContainer.Add(digitalSection)
	a.settingsContainer.Add(buttons)
	a.settingsContainer.Refresh()
}

// ─── Estimate ───

func (a *App) estimator() *engine.Estimator {
	return engine.New(a.quote.Settings, a.inventory.Candidates, a.inventory.PriceLookup()).
		WithMemo(a.memo).
		WithLogger(a.log)
}

// runEstimate computes the quote off the UI goroutine. Overrides are
// untouched; the results panel merges them into the new results.
func (a *App) runEstimate() {
	if len(a.quote.Products) == 0 {
		dialog.ShowInformation("Nothing to estimate", "Add at least one product first.", a.window)
		return
	}

	est := a.estimator()
	products := copyProducts(a.quote.Products)

	progress := dialog.NewCustomWithoutButtons("Estimating", widget.NewProgressBarInfinite(), a.window)
	progress.Show()

	go func() {
		res, err := est.Estimate(context.Background(), products)
		fyne.Do(func() {
			progress.Hide()
			if err != nil {
				dialog.ShowError(fmt.Errorf("failed to estimate: %w", err), a.window)
				return
			}
			a.quote.Result = &res
			a.refreshResults()
			a.tabs.SelectIndex(tabResults)
		})
	}()
}

// ─── Quote Files ───

// currentQuote returns the quote as it would be saved.
func (a *App) currentQuote() model.Quote {
	q := a.quote
	q.Products = copyProducts(a.quote.Products)
	q.Overrides = a.overrides.List()
	return q
}

func (a *App) saveQuoteDialog() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path, err := project.SaveQuote(writer.URI().Path(), a.currentQuote())
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.quotePath = path
		a.rememberQuote(path)
	}, a.window)
	name := a.quote.Name + project.QuoteExtension
	if a.quotePath != "" {
		name = filepath.Base(a.quotePath)
	}
	d.SetFileName(name)
	d.Show()
}

func (a *App) loadQuoteDialog() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.openQuote(reader.URI().Path())
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{project.QuoteExtension, ".yaml", ".yml", ".json"}))
	d.Show()
}

// openQuote loads a saved quote or a job file.
func (a *App) openQuote(path string) {
	var (
		q   model.Quote
		err error
	)
	if filepath.Ext(path) == project.QuoteExtension {
		q, err = project.LoadQuote(path)
	} else {
		q, err = project.LoadJobFile(path)
	}
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}

	a.quote = q
	a.overrides = model.OverridesFromList(q.Overrides)
	a.quotePath = path
	a.history.Clear()
	a.rememberQuote(path)
	a.refreshAll()
	a.log.Info("quote opened", zap.String("path", path), zap.Int("products", len(q.Products)))
}

func (a *App) rememberQuote(path string) {
	a.config.AddRecentQuote(path)
	if err := a.saveConfig(); err != nil {
		a.log.Warn("failed to save recent quotes", zap.Error(err))
	}
	a.updateTitle()
	a.SetupMenus()
}
