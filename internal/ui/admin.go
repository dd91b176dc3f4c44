package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/piwi3910/PrintQuote/internal/model"
	"github.com/piwi3910/PrintQuote/internal/project"
)

// saveConfig writes the preferences to the config file.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(a.configPath, a.config)
}

// showPreferencesDialog edits a copy of the configuration and applies it
// on save.
func (a *App) showPreferencesDialog() {
	cfg := a.config

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	profileSelect := widget.NewSelect(model.GetProfileNames(), func(selected string) {
		cfg.DefaultCutterProfile = selected
	})
	profileSelect.SetSelected(cfg.DefaultCutterProfile)

	sheetNames := make([]string, len(model.DigitalSheets))
	for i, d := range model.DigitalSheets {
		sheetNames[i] = d.Name
	}
	sheetSelect := widget.NewSelect(sheetNames, func(selected string) {
		cfg.DefaultDigitalSheet = selected
	})
	sheetSelect.SetSelected(cfg.DefaultDigitalSheet)

	addrEntry := widget.NewEntry()
	addrEntry.SetText(cfg.ServerAddr)
	addrEntry.OnChanged = func(text string) { cfg.ServerAddr = text }

	useCurrent := widget.NewCheck("Use the current quote settings as defaults", nil)

	items := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Default Cutter Profile", profileSelect),
		widget.NewFormItem("Default Digital Sheet", sheetSelect),
		widget.NewFormItem("Server Address", addrEntry),
		widget.NewFormItem("Paper Waste (%)", floatEntry(&cfg.WastePercent, nil)),
		widget.NewFormItem("Cache Entries (0=off)", intEntry(&cfg.MemoMaxEntries, nil)),
		widget.NewFormItem("", useCurrent),
	}

	d := dialog.NewForm("Preferences", "Save", "Cancel", items,
		func(ok bool) {
			if !ok {
				return
			}
			if cfg.WastePercent < 0 || cfg.MemoMaxEntries < 0 {
				dialog.ShowError(fmt.Errorf("waste and cache entries must not be negative"), a.window)
				return
			}
			if useCurrent.Checked {
				cfg.Defaults = a.quote.Settings
			}
			memoChanged := cfg.MemoMaxEntries != a.config.MemoMaxEntries
			a.config = cfg
			if memoChanged {
				a.resetMemo()
			}
			fyne.CurrentApp().Settings().SetTheme(a.Theme())
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save preferences: %w", err), a.window)
				return
			}
			a.log.Info("preferences saved", zap.String("theme", cfg.Theme), zap.Int("memo_entries", cfg.MemoMaxEntries))
		},
		a.window,
	)
	d.Resize(fyne.NewSize(480, 440))
	d.Show()
}

// showBackupDialog exports or restores every stored file in one archive.
func (a *App) showBackupDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		a.saveFile("printquote-backup.json", func(path string) error {
			return project.ExportAllData(path, a.config, a.inventory, a.templates, model.CustomProfiles)
		})
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing replaces your preferences, paper inventory, templates and cutter profiles.\n\nContinue?",
			func(ok bool) {
				if !ok {
					return
				}
				a.openFile([]string{".json"}, a.restoreBackup)
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export preferences, paper inventory, templates and cutter profiles\nto a backup file, or restore them from one."),
		widget.NewSeparator(),
		exportBtn,
		importBtn,
	)
	dialog.ShowCustom("Backup and Restore", "Close", content, a.window)
}

func (a *App) restoreBackup(path string) {
	backup, err := project.ImportAllData(path)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}

	a.config = backup.Config
	a.inventory = backup.Inventory
	a.templates = backup.Templates
	model.CustomProfiles = backup.Profiles
	a.resetMemo()

	var failed []error
	if err := a.saveConfig(); err != nil {
		failed = append(failed, err)
	}
	if a.inventoryPath != "" {
		if err := project.SaveInventory(a.inventoryPath, a.inventory); err != nil {
			failed = append(failed, err)
		}
	}
	if err := project.SaveDefaultTemplates(a.templates); err != nil {
		failed = append(failed, err)
	}
	if err := project.SaveCustomProfilesToDefault(model.CustomProfiles); err != nil {
		failed = append(failed, err)
	}
	if len(failed) > 0 {
		dialog.ShowError(fmt.Errorf("backup restored but not all files were saved: %v", failed), a.window)
	}

	fyne.CurrentApp().Settings().SetTheme(a.Theme())
	a.SetupMenus()
	a.log.Info("backup restored", zap.String("path", path), zap.String("created_at", backup.CreatedAt))
	dialog.ShowInformation("Import Complete",
		fmt.Sprintf("Data restored from the backup created at %s.", backup.CreatedAt), a.window)
}
