package widgets

import (
	"fmt"
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PrintQuote/internal/cutplan"
	"github.com/piwi3910/PrintQuote/internal/model"
)

var (
	colorFirstPass  = color.NRGBA{R: 255, G: 60, B: 60, A: 220}  // Cuts before the turn
	colorSecondPass = color.NRGBA{R: 30, G: 120, B: 255, A: 230} // Cuts after the turn
	colorPieceFaint = color.NRGBA{R: 200, G: 220, B: 255, A: 120}
)

// previewMargin leaves room for the cut order numbers around the sheet.
const previewMargin = 16

// Segment is one blade stroke drawn across the sheet, in centimetres.
type Segment struct {
	X1, Y1, X2, Y2 float64
	Phase          int
	Order          int // 1-based position in the program
}

// CutSegments turns cuts into strokes across a sheetW x sheetH sheet.
// Even phases cut across the width as vertical strokes; odd phases run
// after a turn and are drawn horizontally.
func CutSegments(cuts []cutplan.Cut, sheetW, sheetH float64) []Segment {
	segs := make([]Segment, 0, len(cuts))
	for i, c := range cuts {
		s := Segment{Phase: c.Phase, Order: i + 1}
		if c.Phase%2 == 0 {
			s.X1, s.Y1, s.X2, s.Y2 = c.Position, 0, c.Position, sheetH
		} else {
			s.X1, s.Y1, s.X2, s.Y2 = 0, c.Position, sheetW, c.Position
		}
		segs = append(segs, s)
	}
	return segs
}

// CutPreview renders the blade strokes of a cutter program over the
// layout they were generated for.
type CutPreview struct {
	widget.BaseWidget
	layout    model.LayoutResult
	segments  []Segment
	maxWidth  float32
	maxHeight float32
}

func NewCutPreview(l model.LayoutResult, cuts []cutplan.Cut, maxW, maxH float32) *CutPreview {
	cp := &CutPreview{
		layout:    l,
		segments:  CutSegments(cuts, l.SheetWidth, l.SheetHeight),
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	cp.ExtendBaseWidget(cp)
	return cp
}

func (cp *CutPreview) CreateRenderer() fyne.WidgetRenderer {
	r := &cutPreviewRenderer{cp: cp}
	r.rebuild()
	return r
}

type cutPreviewRenderer struct {
	cp      *CutPreview
	objects []fyne.CanvasObject
}

func (r *cutPreviewRenderer) scale() float32 {
	l := r.cp.layout
	return FitScale(l.SheetWidth, l.SheetHeight, r.cp.maxWidth-2*previewMargin, r.cp.maxHeight-2*previewMargin)
}

func (r *cutPreviewRenderer) rebuild() {
	r.objects = nil
	l := r.cp.layout
	if l.SheetWidth <= 0 || l.SheetHeight <= 0 {
		return
	}
	scale := r.scale()
	pos := func(x, y float64) fyne.Position {
		return fyne.NewPos(float32(x)*scale+previewMargin, float32(y)*scale+previewMargin)
	}

	bg := canvas.NewRectangle(sheetColor)
	bg.StrokeColor = borderColor
	bg.StrokeWidth = 2
	bg.Resize(fyne.NewSize(float32(l.SheetWidth)*scale, float32(l.SheetHeight)*scale))
	bg.Move(pos(0, 0))
	r.objects = append(r.objects, bg)

	for _, box := range PieceRects(l) {
		trim := TrimRect(box, l.Bleed)
		rect := canvas.NewRectangle(colorPieceFaint)
		rect.Resize(fyne.NewSize(float32(trim.W)*scale, float32(trim.H)*scale))
		rect.Move(pos(trim.X, trim.Y))
		r.objects = append(r.objects, rect)
	}

	for _, s := range r.cp.segments {
		col := colorFirstPass
		if s.Phase%2 == 1 {
			col = colorSecondPass
		}
		line := canvas.NewLine(col)
		line.StrokeWidth = 1.5
		line.Position1 = pos(s.X1, s.Y1)
		line.Position2 = pos(s.X2, s.Y2)
		r.objects = append(r.objects, line)

		num := canvas.NewText(strconv.Itoa(s.Order), col)
		num.TextSize = 8
		if s.Phase%2 == 0 {
			num.Move(fyne.NewPos(line.Position1.X-3, 2))
		} else {
			num.Move(fyne.NewPos(2, line.Position1.Y-5))
		}
		r.objects = append(r.objects, num)
	}
}

func (r *cutPreviewRenderer) Layout(size fyne.Size)        {}
func (r *cutPreviewRenderer) Refresh()                     { r.rebuild() }
func (r *cutPreviewRenderer) Destroy()                     {}
func (r *cutPreviewRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *cutPreviewRenderer) MinSize() fyne.Size {
	l := r.cp.layout
	if l.SheetWidth <= 0 || l.SheetHeight <= 0 {
		return fyne.NewSize(100, 100)
	}
	scale := r.scale()
	return fyne.NewSize(float32(l.SheetWidth)*scale+2*previewMargin, float32(l.SheetHeight)*scale+2*previewMargin)
}

// RenderCutPreview parses a generated program and draws it over the
// result's layout, with the program text alongside.
func RenderCutPreview(r model.PerPaperResult, program string, profile model.CutterProfile) (fyne.CanvasObject, error) {
	steps, err := cutplan.Parse(program, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to read cut program: %w", err)
	}
	cuts := cutplan.Positions(steps, profile, r.Layout.SheetWidth, r.Layout.SheetHeight)
	preview := NewCutPreview(r.Layout, cuts, 700, 450)

	text := widget.NewMultiLineEntry()
	text.SetText(program)
	text.TextStyle = fyne.TextStyle{Monospace: true}
	text.Disable()

	caption := widget.NewLabel(fmt.Sprintf("%d cuts, %s profile", len(cuts), profile.Name))
	split := container.NewHSplit(container.NewBorder(caption, nil, nil, nil, preview), text)
	split.Offset = 0.65
	return split, nil
}
