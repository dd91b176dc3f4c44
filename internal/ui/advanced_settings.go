package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PrintQuote/internal/model"
)

// checkAdvancedSettings rejects values the estimator cannot work with.
func checkAdvancedSettings(s model.Settings) error {
	switch {
	case s.FallbackPricePerSheet < 0:
		return fmt.Errorf("fallback price must not be negative")
	case s.MaxPressWidth < 0 || s.MaxPressHeight < 0:
		return fmt.Errorf("press limits must not be negative")
	case s.OffsetMargins.Gripper < 0 || s.DigitalMargins.Gripper < 0:
		return fmt.Errorf("grippers must not be negative")
	case s.DigitalSheet.Width <= 0 || s.DigitalSheet.Height <= 0:
		return fmt.Errorf("digital sheet size must be > 0")
	}
	return nil
}

// showAdvancedSettingsDialog edits the settings that are not on the
// settings tab. Changes apply as one undo step on confirm.
func (a *App) showAdvancedSettingsDialog() {
	s := a.quote.Settings
	profile := a.config.DefaultCutterProfile

	pricingSection := widget.NewCard("Pricing",
		"Used when neither the paper nor the inventory has a price",
		container.NewGridWithColumns(2,
			widget.NewLabel("Fallback Price per Sheet"), floatEntry(&s.FallbackPricePerSheet, nil),
		))

	pressSection := widget.NewCard("Offset Press Limits",
		"Largest sheet the press accepts in cm (0 = no limit)",
		container.NewGridWithColumns(2,
			widget.NewLabel("Max Sheet Width"), floatEntry(&s.MaxPressWidth, nil),
			widget.NewLabel("Max Sheet Height"), floatEntry(&s.MaxPressHeight, nil),
		))

	gripperSection := widget.NewCard("Grippers", "Unprintable leading edge in cm",
		container.NewGridWithColumns(2,
			widget.NewLabel("Offset Gripper"), floatEntry(&s.OffsetMargins.Gripper, nil),
			widget.NewLabel("Digital Gripper"), floatEntry(&s.DigitalMargins.Gripper, nil),
		))

	digitalSection := widget.NewCard("Custom Digital Sheet", "Overrides the sheet picked on the settings tab",
		container.NewGridWithColumns(2,
			widget.NewLabel("Width"), floatEntry(&s.DigitalSheet.Width, nil),
			widget.NewLabel("Height"), floatEntry(&s.DigitalSheet.Height, nil),
		))

	profileSelect := widget.NewSelect(model.GetProfileNames(), func(selected string) {
		profile = selected
	})
	profileSelect.SetSelected(profile)

	manageBtn := widget.NewButtonWithIcon("Manage Profiles", theme.SettingsIcon(), a.showProfileManager)

	cutterSection := widget.NewCard("Guillotine Cutter", "Profile used for cut programs",
		container.NewGridWithColumns(2,
			widget.NewLabel("Active Profile"), container.NewBorder(nil, nil, nil, manageBtn, profileSelect),
		))

	content := container.NewVScroll(container.NewVBox(
		pricingSection,
		pressSection,
		gripperSection,
		digitalSection,
		cutterSection,
	))

	d := dialog.NewCustomConfirm("Advanced Settings", "Apply", "Cancel", content, func(ok bool) {
		if !ok {
			return
		}
		if err := checkAdvancedSettings(s); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.record("Advanced Settings")
		a.quote.Settings = s
		if profile != a.config.DefaultCutterProfile {
			a.config.DefaultCutterProfile = profile
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save cutter profile: %w", err), a.window)
			}
		}
		a.refreshSettingsPanel()
	}, a.window)
	d.Resize(fyne.NewSize(560, 600))
	d.Show()
}
