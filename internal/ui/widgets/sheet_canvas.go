package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PrintQuote/internal/model"
)

var (
	sheetColor   = color.NRGBA{R: 250, G: 250, B: 245, A: 255}
	borderColor  = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	gripperColor = color.NRGBA{R: 255, G: 50, B: 50, A: 90}
	bleedColor   = color.NRGBA{R: 255, G: 235, B: 59, A: 160}
	trimColor    = color.NRGBA{R: 33, G: 150, B: 243, A: 200}
	extraColor   = color.NRGBA{R: 255, G: 152, B: 0, A: 200}
	usableStroke = color.NRGBA{R: 0, G: 188, B: 212, A: 255}
)

// Rect is an axis-aligned rectangle in sheet centimetres, measured from
// the top left corner.
type Rect struct {
	X, Y, W, H float64
}

// PieceRects returns the bleed box of every piece of a layout grid.
func PieceRects(l model.LayoutResult) []Rect {
	rects := make([]Rect, 0, l.ItemsPerSheet)
	for row := 0; row < l.ItemsPerCol; row++ {
		for col := 0; col < l.ItemsPerRow; col++ {
			rects = append(rects, Rect{
				X: l.OffsetX + float64(col)*(l.PieceWidth+l.Gap),
				Y: l.OffsetY + float64(row)*(l.PieceHeight+l.Gap),
				W: l.PieceWidth,
				H: l.PieceHeight,
			})
		}
	}
	return rects
}

// TrimRect returns the finished piece inside a bleed box.
func TrimRect(r Rect, bleed float64) Rect {
	return Rect{X: r.X + bleed, Y: r.Y + bleed, W: r.W - 2*bleed, H: r.H - 2*bleed}
}

// FitScale returns the scale that fits a w x h sheet inside maxW x maxH.
func FitScale(w, h float64, maxW, maxH float32) float32 {
	if w <= 0 || h <= 0 {
		return 1
	}
	scale := maxW / float32(w)
	if s := maxH / float32(h); s < scale {
		scale = s
	}
	return scale
}

// ImpositionCanvas draws the pieces of a layout on their sheet. A mixed
// digital option passes the remnant grid as extra.
type ImpositionCanvas struct {
	widget.BaseWidget
	layout    model.LayoutResult
	extra     *model.LayoutResult
	maxWidth  float32
	maxHeight float32
}

func NewImpositionCanvas(l model.LayoutResult, extra *model.LayoutResult, maxW, maxH float32) *ImpositionCanvas {
	ic := &ImpositionCanvas{
		layout:    l,
		extra:     extra,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	ic.ExtendBaseWidget(ic)
	return ic
}

// SetLayout replaces the drawn layout.
func (ic *ImpositionCanvas) SetLayout(l model.LayoutResult, extra *model.LayoutResult) {
	ic.layout = l
	ic.extra = extra
	ic.Refresh()
}

func (ic *ImpositionCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &impositionRenderer{ic: ic}
	r.rebuild()
	return r
}

type impositionRenderer struct {
	ic      *ImpositionCanvas
	objects []fyne.CanvasObject
}

func (r *impositionRenderer) scale() float32 {
	l := r.ic.layout
	return FitScale(l.SheetWidth, l.SheetHeight, r.ic.maxWidth, r.ic.maxHeight)
}

func (r *impositionRenderer) rebuild() {
	r.objects = nil
	l := r.ic.layout
	if l.SheetWidth <= 0 || l.SheetHeight <= 0 {
		return
	}
	scale := r.scale()

	r.addRect(Rect{W: l.SheetWidth, H: l.SheetHeight}, scale, sheetColor, borderColor, 2)

	// Gripper and edge allowance on the grip side
	if l.OffsetX > 0 {
		r.addRect(Rect{W: l.OffsetX, H: l.SheetHeight}, scale, gripperColor, color.Transparent, 0)
	}
	r.addRect(Rect{X: l.OffsetX, Y: l.OffsetY, W: l.UsableWidth, H: l.UsableHeight}, scale, color.Transparent, usableStroke, 1)

	r.addGrid(l, scale, trimColor)
	if x := r.ic.extra; x != nil {
		r.addGrid(*x, scale, extraColor)
	}
}

func (r *impositionRenderer) addGrid(l model.LayoutResult, scale float32, fill color.Color) {
	for _, box := range PieceRects(l) {
		if l.Bleed > 0 {
			r.addRect(box, scale, bleedColor, color.Transparent, 0)
		}
		trim := TrimRect(box, l.Bleed)
		r.addRect(trim, scale, fill, color.Black, 1)
	}

	// Label the first piece when it is big enough to read
	rects := PieceRects(l)
	if len(rects) == 0 {
		return
	}
	first := TrimRect(rects[0], l.Bleed)
	if float32(first.W)*scale > 36 && float32(first.H)*scale > 14 {
		label := canvas.NewText(fmt.Sprintf("%gx%g", first.W, first.H), color.Black)
		label.TextSize = 9
		label.Move(fyne.NewPos(float32(first.X)*scale+3, float32(first.Y)*scale+2))
		r.objects = append(r.objects, label)
	}
}

func (r *impositionRenderer) addRect(rc Rect, scale float32, fill, stroke color.Color, strokeWidth float32) {
	rect := canvas.NewRectangle(fill)
	rect.StrokeColor = stroke
	rect.StrokeWidth = strokeWidth
	rect.Resize(fyne.NewSize(float32(rc.W)*scale, float32(rc.H)*scale))
	rect.Move(fyne.NewPos(float32(rc.X)*scale, float32(rc.Y)*scale))
	r.objects = append(r.objects, rect)
}

func (r *impositionRenderer) Layout(size fyne.Size)        {}
func (r *impositionRenderer) Refresh()                     { r.rebuild() }
func (r *impositionRenderer) Destroy()                     {}
func (r *impositionRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *impositionRenderer) MinSize() fyne.Size {
	l := r.ic.layout
	scale := r.scale()
	return fyne.NewSize(float32(l.SheetWidth)*scale, float32(l.SheetHeight)*scale)
}

// ResultHeader returns the caption shown above a result's imposition.
func ResultHeader(r model.PerPaperResult) string {
	sheet := fmt.Sprintf("%gx%g", r.Layout.SheetWidth, r.Layout.SheetHeight)
	if r.Candidate != nil {
		sheet = r.Candidate.Label()
	} else if r.Option != nil {
		sheet = r.Option.Name
	}
	ups := r.Layout.ItemsPerSheet
	if r.Option != nil {
		ups = r.Option.Ups
	}
	return fmt.Sprintf("%s / %s %dgsm: %s, %d up, %d sheets, %.1f%% efficiency",
		r.ProductName, r.PaperName, r.GSM, sheet, ups, r.RecommendedSheets, r.Layout.Efficiency())
}

// RenderResults creates a scrollable list of every result's imposition.
func RenderResults(res *model.QuoteResult) fyne.CanvasObject {
	if res == nil || len(res.Results) == 0 {
		return widget.NewLabel("No results yet. Add products, then click Estimate.")
	}

	var items []fyne.CanvasObject
	for _, r := range res.Results {
		if !r.Feasible {
			warning := widget.NewLabel(fmt.Sprintf("%s / %s %dgsm: %s", r.ProductName, r.PaperName, r.GSM, r.Reason))
			warning.Importance = widget.DangerImportance
			items = append(items, warning, widget.NewSeparator())
			continue
		}
		header := widget.NewLabel(ResultHeader(r))
		header.TextStyle = fyne.TextStyle{Bold: true}

		var extra *model.LayoutResult
		if r.Option != nil {
			extra = r.Option.Extra
		}
		items = append(items, header, NewImpositionCanvas(r.Layout, extra, 600, 400), widget.NewSeparator())
	}

	for _, e := range res.Errors {
		msg := widget.NewLabel(fmt.Sprintf("Product %s: %s", e.ProductID, e.Message))
		msg.Importance = widget.WarningImportance
		items = append(items, msg)
	}

	summary := widget.NewLabel(fmt.Sprintf("Quote total: %.2f", res.Total()))
	summary.TextStyle = fyne.TextStyle{Bold: true}
	items = append(items, summary)

	return container.NewVScroll(container.NewVBox(items...))
}
