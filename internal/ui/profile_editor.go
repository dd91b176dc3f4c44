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

	"github.com/piwi3910/PrintQuote/internal/cutplan"
	"github.com/piwi3910/PrintQuote/internal/engine"
	"github.com/piwi3910/PrintQuote/internal/model"
	"github.com/piwi3910/PrintQuote/internal/project"
)

// sampleProgram renders the program of an A5 job on an A3 sheet so the user
// can see the dialect of a profile.
func sampleProgram(p model.CutterProfile) string {
	l := engine.Layout(29.7, 42, 21, 14.8, 0, 0.5, 0.5, 0.3)
	return cutplan.NewWithProfile(p).Generate(l, "Sample")
}

// showProfileManager lists the cutter profiles. Built-in profiles are
// read-only and can be duplicated; custom ones can be edited, deleted,
// imported and exported.
func (a *App) showProfileManager() {
	w := fyne.CurrentApp().NewWindow("Cutter Profiles")
	w.Resize(fyne.NewSize(760, 520))

	profiles := model.AllProfiles()
	selectedIdx := -1
	detail := container.NewVBox(widget.NewLabel("Select a profile to view details."))

	list := widget.NewList(
		func() int { return len(profiles) },
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewIcon(theme.DocumentIcon()),
				widget.NewLabel("Profile Name"),
				layout.NewSpacer(),
				widget.NewLabel("(built-in)"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			box := obj.(*fyne.Container)
			p := profiles[id]
			box.Objects[1].(*widget.Label).SetText(p.Name)
			tag := "(custom)"
			if model.IsBuiltInProfile(p.Name) {
				tag = "(built-in)"
			}
			box.Objects[3].(*widget.Label).SetText(tag)
		},
	)

	reload := func() {
		profiles = model.AllProfiles()
		selectedIdx = -1
		list.UnselectAll()
		list.Refresh()
		detail.RemoveAll()
		detail.Add(widget.NewLabel("Select a profile to view details."))
		detail.Refresh()
	}

	list.OnSelected = func(id widget.ListItemID) {
		selectedIdx = id
		a.showProfileDetail(detail, profiles[id], w, reload)
	}

	selected := func(action string) (model.CutterProfile, bool) {
		if selectedIdx < 0 || selectedIdx >= len(profiles) {
			dialog.ShowInformation("No Selection", "Select a profile to "+action+".", w)
			return model.CutterProfile{}, false
		}
		return profiles[selectedIdx], true
	}

	newBtn := widget.NewButtonWithIcon("New", theme.ContentAddIcon(), func() {
		a.askProfileName(w, "New Profile", "", func(name string) {
			a.storeProfile(w, model.NewCustomProfile(name), "", reload)
		})
	})

	duplicateBtn := widget.NewButtonWithIcon("Duplicate", theme.ContentCopyIcon(), func() {
		src, ok := selected("duplicate")
		if !ok {
			return
		}
		a.askProfileName(w, "Duplicate Profile", src.Name+" (Copy)", func(name string) {
			dup := src
			dup.Name = name
			dup.Description = "Copy of " + src.Name
			dup.StartCode = append([]string(nil), src.StartCode...)
			dup.EndCode = append([]string(nil), src.EndCode...)
			a.storeProfile(w, dup, "", reload)
		})
	})

	importBtn := widget.NewButtonWithIcon("Import", theme.FolderOpenIcon(), func() {
		dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			defer reader.Close()
			p, err := project.ImportProfile(reader.URI().Path())
			if err != nil {
				dialog.ShowError(fmt.Errorf("failed to import profile: %w", err), w)
				return
			}
			a.storeProfile(w, p, "", reload)
		}, w)
	})

	exportBtn := widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), func() {
		p, ok := selected("export")
		if !ok {
			return
		}
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			if err := project.ExportProfile(writer.URI().Path(), p); err != nil {
				dialog.ShowError(fmt.Errorf("failed to export profile: %w", err), w)
			}
		}, w)
		d.SetFileName(strings.ReplaceAll(strings.ToLower(p.Name), " ", "_") + "_profile.json")
		d.Show()
	})

	deleteBtn := widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		p, ok := selected("delete")
		if !ok {
			return
		}
		dialog.ShowConfirm("Delete Profile", fmt.Sprintf("Delete custom profile %q?", p.Name), func(ok bool) {
			if !ok {
				return
			}
			if err := model.RemoveCustomProfile(p.Name); err != nil {
				dialog.ShowError(err, w)
				return
			}
			a.persistCustomProfiles(w)
			reload()
		}, w)
	})

	toolbar := container.NewHBox(newBtn, duplicateBtn, importBtn, exportBtn, deleteBtn)
	listPanel := container.NewBorder(boldLabel("Profiles"), toolbar, nil, nil, list)
	detailPanel := container.NewBorder(boldLabel("Profile Details"), nil, nil, nil, container.NewVScroll(detail))

	split := container.NewHSplit(listPanel, detailPanel)
	split.SetOffset(0.4)
	w.SetContent(split)
	w.Show()
}

func (a *App) showProfileDetail(c *fyne.Container, p model.CutterProfile, w fyne.Window, onChanged func()) {
	c.RemoveAll()

	if model.IsBuiltInProfile(p.Name) {
		c.Add(widget.NewLabel("Built-in profiles are read-only. Duplicate to customize."))
	} else {
		c.Add(widget.NewButtonWithIcon("Edit Profile", theme.DocumentCreateIcon(), func() {
			a.showEditProfileDialog(p, w, onChanged)
		}))
	}

	preview := widget.NewMultiLineEntry()
	preview.SetText(sampleProgram(p))
	preview.SetMinRowsVisible(10)
	preview.Disable()

	c.Add(container.NewVBox(
		boldLabel(p.Name),
		widget.NewLabel(p.Description),
		widget.NewSeparator(),
		container.NewGridWithColumns(2,
			boldLabel("Units:"), widget.NewLabel(p.Units),
			boldLabel("Decimal Places:"), widget.NewLabel(strconv.Itoa(p.DecimalPlaces)),
			boldLabel("Gauge Move:"), widget.NewLabel(p.GaugeMove),
			boldLabel("Cut:"), widget.NewLabel(p.CutCommand),
			boldLabel("Turn:"), widget.NewLabel(p.TurnCommand),
			boldLabel("Comments:"), widget.NewLabel(fmt.Sprintf("%q ... %q", p.CommentPrefix, p.CommentSuffix)),
		),
		widget.NewSeparator(),
		boldLabel("Sample Program"),
		preview,
	))
	c.Refresh()
}

func (a *App) askProfileName(w fyne.Window, title, initial string, onName func(string)) {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(initial)
	nameEntry.SetPlaceHolder("My Cutter")

	form := dialog.NewForm(title, "Create", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Profile Name", nameEntry)},
		func(ok bool) {
			if !ok {
				return
			}
			name := strings.TrimSpace(nameEntry.Text)
			if name == "" {
				dialog.ShowError(fmt.Errorf("profile name cannot be empty"), w)
				return
			}
			onName(name)
		}, w)
	form.Resize(fyne.NewSize(400, 150))
	form.Show()
}

// storeProfile adds or replaces p. A non-empty oldName that differs from
// p.Name is removed first so renames do not leave a copy behind.
func (a *App) storeProfile(w fyne.Window, p model.CutterProfile, oldName string, onDone func()) {
	if oldName != "" && oldName != p.Name {
		_ = model.RemoveCustomProfile(oldName)
	}
	if err := model.AddCustomProfile(p); err != nil {
		dialog.ShowError(err, w)
		return
	}
	a.persistCustomProfiles(w)
	onDone()
}

// profileFromForm builds a profile from the edit form fields.
func profileFromForm(name, desc, units, decimals, gauge, cut, turn, prefix, suffix, start, end string) (model.CutterProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.CutterProfile{}, fmt.Errorf("profile name cannot be empty")
	}
	places, err := strconv.Atoi(strings.TrimSpace(decimals))
	if err != nil || places < 0 || places > 6 {
		return model.CutterProfile{}, fmt.Errorf("decimal places must be a number between 0 and 6")
	}
	if strings.Count(gauge, "%s") != 1 {
		return model.CutterProfile{}, fmt.Errorf("gauge move must contain %%s exactly once")
	}
	if strings.TrimSpace(cut) == "" {
		return model.CutterProfile{}, fmt.Errorf("cut command cannot be empty")
	}
	return model.CutterProfile{
		Name:          name,
		Description:   strings.TrimSpace(desc),
		Units:         units,
		StartCode:     splitLines(start),
		EndCode:       splitLines(end),
		GaugeMove:     gauge,
		CutCommand:    strings.TrimSpace(cut),
		TurnCommand:   strings.TrimSpace(turn),
		CommentPrefix: prefix,
		CommentSuffix: suffix,
		DecimalPlaces: places,
	}, nil
}

func (a *App) showEditProfileDialog(p model.CutterProfile, w fyne.Window, onSaved func()) {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(p.Name)
	descEntry := widget.NewEntry()
	descEntry.SetText(p.Description)
	unitsSelect := widget.NewSelect([]string{"mm", "cm", "in"}, nil)
	unitsSelect.SetSelected(p.Units)
	decimalEntry := widget.NewEntry()
	decimalEntry.SetText(strconv.Itoa(p.DecimalPlaces))
	gaugeEntry := widget.NewEntry()
	gaugeEntry.SetText(p.GaugeMove)
	cutEntry := widget.NewEntry()
	cutEntry.SetText(p.CutCommand)
	turnEntry := widget.NewEntry()
	turnEntry.SetText(p.TurnCommand)
	prefixEntry := widget.NewEntry()
	prefixEntry.SetText(p.CommentPrefix)
	suffixEntry := widget.NewEntry()
	suffixEntry.SetText(p.CommentSuffix)
	startEntry := widget.NewMultiLineEntry()
	startEntry.SetText(strings.Join(p.StartCode, "\n"))
	startEntry.SetMinRowsVisible(4)
	endEntry := widget.NewMultiLineEntry()
	endEntry.SetText(strings.Join(p.EndCode, "\n"))
	endEntry.SetMinRowsVisible(4)

	build := func() (model.CutterProfile, error) {
		return profileFromForm(nameEntry.Text, descEntry.Text, unitsSelect.Selected, decimalEntry.Text,
			gaugeEntry.Text, cutEntry.Text, turnEntry.Text, prefixEntry.Text, suffixEntry.Text,
			startEntry.Text, endEntry.Text)
	}

	preview := widget.NewMultiLineEntry()
	preview.Disable()
	preview.SetMinRowsVisible(10)
	updatePreview := func() {
		updated, err := build()
		if err != nil {
			preview.SetText(err.Error())
			return
		}
		preview.SetText(sampleProgram(updated))
	}
	updatePreview()

	tabs := container.NewAppTabs(
		container.NewTabItem("General", container.NewGridWithColumns(2,
			widget.NewLabel("Name"), nameEntry,
			widget.NewLabel("Description"), descEntry,
			widget.NewLabel("Units"), unitsSelect,
			widget.NewLabel("Decimal Places"), decimalEntry,
		)),
		container.NewTabItem("Commands", container.NewGridWithColumns(2,
			widget.NewLabel("Gauge Move (%s = distance)"), gaugeEntry,
			widget.NewLabel("Cut"), cutEntry,
			widget.NewLabel("Turn Stack"), turnEntry,
			widget.NewLabel("Comment Prefix"), prefixEntry,
			widget.NewLabel("Comment Suffix"), suffixEntry,
		)),
		container.NewTabItem("Start/End Code", container.NewVBox(
			boldLabel("Start Code (one command per line)"),
			startEntry,
			widget.NewSeparator(),
			boldLabel("End Code (one command per line)"),
			endEntry,
		)),
		container.NewTabItem("Preview", container.NewVBox(
			widget.NewButtonWithIcon("Refresh Preview", theme.ViewRefreshIcon(), updatePreview),
			preview,
		)),
	)

	editWindow := fyne.CurrentApp().NewWindow("Edit Profile: " + p.Name)
	saveBtn := widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() {
		updated, err := build()
		if err != nil {
			dialog.ShowError(err, editWindow)
			return
		}
		a.storeProfile(editWindow, updated, p.Name, func() {
			onSaved()
			editWindow.Close()
		})
	})
	saveBtn.Importance = widget.HighImportance

	editWindow.SetContent(container.NewBorder(nil, container.NewHBox(layout.NewSpacer(), saveBtn), nil, nil, tabs))
	editWindow.Resize(fyne.NewSize(600, 500))
	editWindow.Show()
}

func (a *App) persistCustomProfiles(w fyne.Window) {
	if err := project.SaveCustomProfilesToDefault(model.CustomProfiles); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save profiles: %w", err), w)
	}
}

// splitLines splits a multiline string into trimmed non-empty lines.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
