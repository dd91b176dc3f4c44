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
	"go.uber.org/zap"

	"github.com/piwi3910/PrintQuote/internal/model"
	"github.com/piwi3910/PrintQuote/internal/project"
)

func (a *App) buildProductsPanel() fyne.CanvasObject {
	a.productsContainer = container.NewVBox()
	a.refreshProductsList()

	addBtn := widget.NewButtonWithIcon("Add Product", theme.ContentAddIcon(), func() {
		p := model.NewProduct(fmt.Sprintf("Product %d", len(a.quote.Products)+1), 0, 0, 1000, model.MethodOffset)
		a.showProductDialog("Add Product", "Add", p, func(p model.Product) {
			a.record("Add Product")
			a.quote.Products = append(a.quote.Products, p)
			a.refreshProductsList()
		})
	})
	templateBtn := widget.NewButtonWithIcon("From Template", theme.ContentCopyIcon(), a.showAddFromTemplateDialog)

	return container.NewBorder(
		container.NewHBox(
			boldLabel("Products"),
			layout.NewSpacer(),
			templateBtn,
			addBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.productsContainer),
	)
}

func describeSize(p model.Product) string {
	piece := p.Piece()
	s := fmt.Sprintf("%gx%g", piece.Width, piece.Height)
	if p.FlatWidth > 0 && p.FlatHeight > 0 && p.CloseWidth > 0 && p.CloseHeight > 0 {
		s += fmt.Sprintf(" (closed %gx%g)", p.CloseWidth, p.CloseHeight)
	}
	return s
}

func describePapers(papers []model.Paper) string {
	names := make([]string, len(papers))
	for i, p := range papers {
		names[i] = fmt.Sprintf("%s %d", p.Name, p.GSM)
	}
	return strings.Join(names, ", ")
}

func (a *App) refreshProductsList() {
	if a.productsContainer == nil {
		return
	}
	a.productsContainer.RemoveAll()

	if len(a.quote.Products) == 0 {
		a.productsContainer.Add(widget.NewLabel("No products added yet. Click 'Add Product' to begin."))
		return
	}

	a.productsContainer.Add(container.NewGridWithColumns(8,
		headerRow("Name", "Size (cm)", "Qty", "Print", "Method", "Papers", "", "")...,
	))
	a.productsContainer.Add(widget.NewSeparator())

	for i := range a.quote.Products {
		idx := i
		p := a.quote.Products[idx]
		a.productsContainer.Add(container.NewGridWithColumns(8,
			widget.NewLabel(p.Name),
			widget.NewLabel(describeSize(p)),
			widget.NewLabel(strconv.Itoa(p.Quantity)),
			widget.NewLabel(fmt.Sprintf("%d/%d", p.Colours, p.Sides)),
			widget.NewLabel(string(p.Method)),
			widget.NewLabel(describePapers(p.Papers)),
			widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
				a.showProductDialog("Edit Product", "Save", a.quote.Products[idx], func(p model.Product) {
					a.record("Edit Product")
					a.quote.Products[idx] = p
					a.refreshProductsList()
				})
			}),
			widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
				a.record("Delete Product")
				a.quote.Products = append(a.quote.Products[:idx], a.quote.Products[idx+1:]...)
				a.refreshProductsList()
			}),
		))
	}
}

// showProductDialog edits a copy of p and hands it to onSave when the
// form is confirmed.
func (a *App) showProductDialog(title, confirm string, p model.Product, onSave func(model.Product)) {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(p.Name)

	qtyEntry := widget.NewEntry()
	qtyEntry.SetText(strconv.Itoa(p.Quantity))

	dim := func(v float64) *widget.Entry {
		e := widget.NewEntry()
		if v > 0 {
			e.SetText(formatNumber(v))
		}
		e.SetPlaceHolder("cm")
		return e
	}
	closeW, closeH := dim(p.CloseWidth), dim(p.CloseHeight)
	flatW, flatH := dim(p.FlatWidth), dim(p.FlatHeight)

	sidesSelect := widget.NewRadioGroup([]string{"1", "2"}, nil)
	sidesSelect.Horizontal = true
	sidesSelect.Selected = strconv.Itoa(max(p.Sides, 1))

	coloursEntry := widget.NewEntry()
	coloursEntry.SetText(strconv.Itoa(p.Colours))

	methodSelect := widget.NewSelect([]string{"Offset", "Digital"}, nil)
	methodSelect.Selected = "Offset"
	if p.Method == model.MethodDigital {
		methodSelect.Selected = "Digital"
	}

	rotateCheck := widget.NewCheck("Allow rotation", nil)
	rotateCheck.Checked = p.AllowRotate

	papersEntry := widget.NewMultiLineEntry()
	papersEntry.SetText(formatPapers(p.Papers))
	papersEntry.SetPlaceHolder("Coated Matt, 300\nBristol Board, 350, 1.90")
	papersEntry.SetMinRowsVisible(4)

	known := widget.NewLabel("Inventory: " + strings.Join(a.inventory.PaperNames(), ", "))
	known.Wrapping = fyne.TextWrapWord

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Quantity", qtyEntry),
			widget.NewFormItem("Closed Width", closeW),
			widget.NewFormItem("Closed Height", closeH),
			widget.NewFormItem("Flat Width", flatW),
			widget.NewFormItem("Flat Height", flatH),
			widget.NewFormItem("Sides", sidesSelect),
			widget.NewFormItem("Colours", coloursEntry),
			widget.NewFormItem("Method", methodSelect),
			widget.NewFormItem("", rotateCheck),
			widget.NewFormItem("Papers", papersEntry),
			widget.NewFormItem("", known),
		},
		func(ok bool) {
			if !ok {
				return
			}
			out, err := productFromForm(p, productForm{
				name:    nameEntry.Text,
				qty:     qtyEntry.Text,
				closeW:  closeW.Text,
				closeH:  closeH.Text,
				flatW:   flatW.Text,
				flatH:   flatH.Text,
				sides:   sidesSelect.Selected,
				colours: coloursEntry.Text,
				method:  methodSelect.Selected,
				rotate:  rotateCheck.Checked,
				papers:  papersEntry.Text,
			})
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			onSave(out)
		},
		a.window,
	)
	form.Resize(fyne.NewSize(480, 640))
	form.Show()
}

// productForm holds the raw text of the product dialog.
type productForm struct {
	name, qty                    string
	closeW, closeH, flatW, flatH string
	sides, colours, method       string
	rotate                       bool
	papers                       string
}

// productFromForm applies the form text to base. Blank sizes are zero so
// a product may carry only a flat or only a closed size.
func productFromForm(base model.Product, f productForm) (model.Product, error) {
	p := base
	p.Name = strings.TrimSpace(f.name)
	if p.Name == "" {
		return p, fmt.Errorf("name is required")
	}

	qty, err := strconv.Atoi(strings.TrimSpace(f.qty))
	if err != nil || qty <= 0 {
		return p, fmt.Errorf("quantity must be a positive whole number")
	}
	p.Quantity = qty

	size := func(text string) (float64, error) {
		if strings.TrimSpace(text) == "" {
			return 0, nil
		}
		v, err := parseNumber(text)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid size %q", text)
		}
		return v, nil
	}
	for _, d := range []struct {
		text string
		dst  *float64
	}{
		{f.closeW, &p.CloseWidth},
		{f.closeH, &p.CloseHeight},
		{f.flatW, &p.FlatWidth},
		{f.flatH, &p.FlatHeight},
	} {
		if *d.dst, err = size(d.text); err != nil {
			return p, err
		}
	}
	piece := p.Piece()
	if piece.Width <= 0 || piece.Height <= 0 {
		return p, fmt.Errorf("enter a closed or a flat size")
	}

	p.Sides, _ = strconv.Atoi(f.sides)
	if p.Sides != 2 {
		p.Sides = 1
	}
	colours, err := strconv.Atoi(strings.TrimSpace(f.colours))
	if err != nil || colours < 1 {
		return p, fmt.Errorf("colours must be at least 1")
	}
	p.Colours = colours

	if p.Method, err = model.ParseMethod(f.method); err != nil {
		return p, err
	}
	p.AllowRotate = f.rotate

	if p.Papers, err = parsePapers(f.papers); err != nil {
		return p, err
	}
	if len(p.Papers) == 0 {
		return p, fmt.Errorf("add at least one paper")
	}
	return p, nil
}

// ─── Templates ───

func (a *App) showAddFromTemplateDialog() {
	names := a.templates.Names()
	if len(names) == 0 {
		dialog.ShowInformation("No templates", "Save a product as a template first.", a.window)
		return
	}
	templateSelect := widget.NewSelect(names, nil)
	templateSelect.Selected = names[0]
	qtyEntry := widget.NewEntry()
	qtyEntry.SetPlaceHolder("Template quantity")

	dialog.ShowForm("Add from Template", "Add", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Template", templateSelect),
			widget.NewFormItem("Quantity", qtyEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			t := a.templates.FindByName(templateSelect.Selected)
			if t == nil {
				return
			}
			qty, _ := strconv.Atoi(strings.TrimSpace(qtyEntry.Text))
			a.record("Add Product")
			a.quote.Products = append(a.quote.Products, t.ToProduct(qty))
			a.refreshProductsList()
		},
		a.window,
	)
}

func (a *App) showTemplatesDialog() {
	list := container.NewVBox()
	var refresh func()
	refresh = func() {
		list.RemoveAll()
		if len(a.templates.Templates) == 0 {
			list.Add(widget.NewLabel("No templates saved."))
			return
		}
		list.Add(container.NewGridWithColumns(4, headerRow("Name", "Description", "Size (cm)", "")...))
		list.Add(widget.NewSeparator())
		for _, t := range a.templates.Templates {
			id := t.ID
			list.Add(container.NewGridWithColumns(4,
				widget.NewLabel(t.Name),
				widget.NewLabel(t.Description),
				widget.NewLabel(describeSize(t.Product)),
				widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
					a.templates.Remove(id)
					a.saveTemplates()
					refresh()
				}),
			))
		}
	}
	refresh()

	productNames := make([]string, len(a.quote.Products))
	for i, p := range a.quote.Products {
		productNames[i] = p.Name
	}
	saveBtn := widget.NewButtonWithIcon("Save Product as Template", theme.ContentAddIcon(), func() {
		if len(productNames) == 0 {
			dialog.ShowInformation("No products", "Add a product to save it as a template.", a.window)
			return
		}
		productSelect := widget.NewSelect(productNames, nil)
		productSelect.Selected = productNames[0]
		nameEntry := widget.NewEntry()
		descEntry := widget.NewEntry()
		dialog.ShowForm("Save Template", "Save", "Cancel",
			[]*widget.FormItem{
				widget.NewFormItem("Product", productSelect),
				widget.NewFormItem("Template Name", nameEntry),
				widget.NewFormItem("Description", descEntry),
			},
			func(ok bool) {
				if !ok {
					return
				}
				idx := productSelect.SelectedIndex()
				if idx < 0 {
					return
				}
				name := strings.TrimSpace(nameEntry.Text)
				if name == "" {
					name = a.quote.Products[idx].Name
				}
				a.templates.Add(model.NewProductTemplate(name, descEntry.Text, a.quote.Products[idx]))
				a.saveTemplates()
				refresh()
			},
			a.window,
		)
	})

	content := container.NewBorder(container.NewHBox(layout.NewSpacer(), saveBtn), nil, nil, nil, container.NewVScroll(list))
	d := dialog.NewCustom("Product Templates", "Close", content, a.window)
	d.Resize(fyne.NewSize(650, 450))
	d.Show()
}

func (a *App) saveTemplates() {
	if err := project.SaveDefaultTemplates(a.templates); err != nil {
		a.log.Warn("failed to save templates", zap.Error(err))
		dialog.ShowError(fmt.Errorf("failed to save templates: %w", err), a.window)
	}
}
