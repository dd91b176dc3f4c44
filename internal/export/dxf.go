package export

import (
	"fmt"

	"github.com/piwi3910/PrintQuote/internal/cutplan"
	"github.com/piwi3910/PrintQuote/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"
)

// DXF layer names.
const (
	LayerSheet  = "SHEET"
	LayerUsable = "USABLE"
	LayerBleed  = "BLEED"
	LayerTrim   = "TRIM"
	LayerCuts   = "CUTS"
)

// dxfScale converts sheet centimetres to drawing millimetres.
const dxfScale = 10.0

// ExportDXF writes an imposition drawing in millimetres: the sheet
// outline, usable area, bleed and trim boxes and the guillotine cut
// lines, each on its own layer. The origin is the bottom-left corner of
// the sheet with the gripper edge on the left.
func ExportDXF(path string, l model.LayoutResult) error {
	return writeDXF(path, l, nil)
}

// ExportResultDXF writes the imposition of a paper result, including the
// remnant grid of a mixed digital option.
func ExportResultDXF(path string, r model.PerPaperResult) error {
	if !r.Feasible {
		return fmt.Errorf("%s on %s is not feasible: %s", r.ProductName, r.PaperName, r.Reason)
	}
	var extra *model.LayoutResult
	if r.Option != nil {
		extra = r.Option.Extra
	}
	return writeDXF(path, r.Layout, extra)
}

func writeDXF(path string, l model.LayoutResult, extra *model.LayoutResult) error {
	if !l.Feasible() {
		return fmt.Errorf("layout has no pieces to export")
	}

	d := dxf.NewDrawing()
	layers := []struct {
		name string
		cl   color.ColorNumber
		lt   *table.LineType
	}{
		{LayerSheet, color.White, table.LT_CONTINUOUS},
		{LayerUsable, color.Cyan, table.LT_HIDDEN},
		{LayerBleed, color.Yellow, table.LT_CONTINUOUS},
		{LayerTrim, color.Red, table.LT_CONTINUOUS},
		{LayerCuts, color.Green, table.LT_HIDDEN},
	}
	for _, layer := range layers {
		if _, err := d.AddLayer(layer.name, layer.cl, layer.lt, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", layer.name, err)
		}
	}

	sheetH := l.SheetHeight
	box := func(r rect) error {
		return drawRect(d, r, sheetH)
	}

	if err := d.ChangeLayer(LayerSheet); err != nil {
		return err
	}
	if err := box(rect{W: l.SheetWidth, H: l.SheetHeight}); err != nil {
		return err
	}

	if err := d.ChangeLayer(LayerUsable); err != nil {
		return err
	}
	if err := box(rect{X: l.OffsetX, Y: l.OffsetY, W: l.UsableWidth, H: l.UsableHeight}); err != nil {
		return err
	}

	grids := []model.LayoutResult{l}
	if extra != nil && extra.Feasible() {
		grids = append(grids, *extra)
	}
	for _, g := range grids {
		for _, b := range pieceRects(g) {
			if g.Bleed > 0 {
				if err := d.ChangeLayer(LayerBleed); err != nil {
					return err
				}
				if err := box(b); err != nil {
					return err
				}
			}
			if err := d.ChangeLayer(LayerTrim); err != nil {
				return err
			}
			if err := box(trimRect(b, g.Bleed)); err != nil {
				return err
			}
		}
	}

	if err := d.ChangeLayer(LayerCuts); err != nil {
		return err
	}
	for _, c := range cutplan.New("").Plan(l) {
		var err error
		if c.Phase == 0 {
			err = drawLine(d, c.Position, 0, c.Position, l.SheetHeight, sheetH)
		} else {
			err = drawLine(d, 0, c.Position, l.SheetWidth, c.Position, sheetH)
		}
		if err != nil {
			return err
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// drawLine draws a line given in sheet coordinates, flipping y so the
// top sheet edge is at the top of the drawing.
func drawLine(d *drawing.Drawing, x1, y1, x2, y2, sheetH float64) error {
	_, err := d.Line(x1*dxfScale, (sheetH-y1)*dxfScale, 0, x2*dxfScale, (sheetH-y2)*dxfScale, 0)
	if err != nil {
		return fmt.Errorf("failed to draw line: %w", err)
	}
	return nil
}

func drawRect(d *drawing.Drawing, r rect, sheetH float64) error {
	corners := [][2]float64{{r.X, r.Y}, {r.X + r.W, r.Y}, {r.X + r.W, r.Y + r.H}, {r.X, r.Y + r.H}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if err := drawLine(d, a[0], a[1], b[0], b[1], sheetH); err != nil {
			return err
		}
	}
	return nil
}
