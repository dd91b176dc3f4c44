// Package export provides functionality for exporting quotes and
// impositions to various file formats.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/PrintQuote/internal/model"
)

// pieceColor represents an RGB fill color for imposed pieces.
type pieceColor struct {
	R, G, B int
}

// Pieces of the main grid and the remnant grid use these fills, matching
// the UI sheet canvas widget.
var (
	mainGridColor  = pieceColor{R: 33, G: 150, B: 243}
	extraGridColor = pieceColor{R: 255, G: 152, B: 0}
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// rect is an axis-aligned rectangle in sheet centimetres.
type rect struct {
	X, Y, W, H float64
}

// pieceRects returns the bleed box of every piece in a layout grid.
func pieceRects(l model.LayoutResult) []rect {
	rects := make([]rect, 0, l.ItemsPerSheet)
	for row := 0; row < l.ItemsPerCol; row++ {
		for col := 0; col < l.ItemsPerRow; col++ {
			rects = append(rects, rect{
				X: l.OffsetX + float64(col)*(l.PieceWidth+l.Gap),
				Y: l.OffsetY + float64(row)*(l.PieceHeight+l.Gap),
				W: l.PieceWidth,
				H: l.PieceHeight,
			})
		}
	}
	return rects
}

// trimRect returns the finished size inside a bleed box.
func trimRect(r rect, bleed float64) rect {
	return rect{X: r.X + bleed, Y: r.Y + bleed, W: r.W - 2*bleed, H: r.H - 2*bleed}
}

// ExportPDF generates a PDF document for a quote. Each feasible paper
// result is rendered on its own page with an imposition diagram, followed
// by a summary page with the cost table and any infeasible results.
func ExportPDF(path string, quote model.Quote, settings model.Settings) error {
	if quote.Result == nil || len(quote.Result.Results) == 0 {
		return fmt.Errorf("no results to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	page := 0
	for _, r := range quote.Result.Results {
		if !r.Feasible {
			continue
		}
		page++
		pdf.AddPage()
		renderImpositionPage(pdf, r, page)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, quote, settings)

	return pdf.OutputFileAndClose(path)
}

// renderImpositionPage draws one paper result on the current PDF page.
func renderImpositionPage(pdf *fpdf.Fpdf, r model.PerPaperResult, pageNum int) {
	l := r.Layout

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%d. %s on %s %dgsm (%s)", pageNum, r.ProductName, r.PaperName, r.GSM, r.Method)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, resultStats(r), "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scale := math.Min(drawWidth/l.SheetWidth, drawHeight/l.SheetHeight)
	canvasW := l.SheetWidth * scale
	canvasH := l.SheetHeight * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Sheet
	pdf.SetFillColor(250, 250, 245)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	drawGripper(pdf, l, scale, offsetX, offsetY)

	// Usable area
	pdf.SetDrawColor(150, 150, 150)
	pdf.SetLineWidth(0.2)
	pdf.SetDashPattern([]float64{1, 1}, 0)
	pdf.Rect(offsetX+l.OffsetX*scale, offsetY+l.OffsetY*scale, l.UsableWidth*scale, l.UsableHeight*scale, "D")
	pdf.SetDashPattern([]float64{}, 0)

	drawGrid(pdf, l, mainGridColor, scale, offsetX, offsetY)
	if r.Option != nil && r.Option.Extra != nil {
		drawGrid(pdf, *r.Option.Extra, extraGridColor, scale, offsetX, offsetY)
	}

	drawDimensionAnnotations(pdf, l, scale, offsetX, offsetY, canvasW, canvasH)
	drawRemnantLegend(pdf, l, offsetY+canvasH+6)
}

// resultStats is the one-line summary printed under a page title.
func resultStats(r model.PerPaperResult) string {
	l := r.Layout
	stats := fmt.Sprintf("Sheet: %.1f x %.1f cm | Ups: %d (%d x %d %s) | Sheets: %d | Efficiency: %.1f%% | Total: %.2f",
		l.SheetWidth, l.SheetHeight, l.ItemsPerSheet, l.ItemsPerRow, l.ItemsPerCol, l.Orientation,
		r.RecommendedSheets, l.Efficiency(), r.Total)
	if r.Option != nil && r.Option.ExtraUps > 0 {
		stats += fmt.Sprintf(" | %s, +%d ups", r.Option.Name, r.Option.ExtraUps)
	}
	return stats
}

// drawGripper shades the gripper margin along the grip edge.
func drawGripper(pdf *fpdf.Fpdf, l model.LayoutResult, scale, offsetX, offsetY float64) {
	if l.OffsetX <= 0 {
		return
	}
	zw := l.OffsetX * scale
	zh := l.SheetHeight * scale

	pdf.SetFillColor(255, 220, 220)
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.Rect(offsetX, offsetY, zw, zh, "FD")
	drawHatchPattern(pdf, offsetX, offsetY, zw, zh)
	pdf.SetTextColor(0, 0, 0)
}

// drawGrid draws the bleed box and trim box of every piece in l.
func drawGrid(pdf *fpdf.Fpdf, l model.LayoutResult, col pieceColor, scale, offsetX, offsetY float64) {
	for _, b := range pieceRects(l) {
		px := offsetX + b.X*scale
		py := offsetY + b.Y*scale

		// Bleed
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetAlpha(0.35, "Normal")
		pdf.Rect(px, py, b.W*scale, b.H*scale, "F")
		pdf.SetAlpha(1, "Normal")

		// Trim
		t := trimRect(b, l.Bleed)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(offsetX+t.X*scale, offsetY+t.Y*scale, t.W*scale, t.H*scale, "D")
	}
}

// drawHatchPattern strokes 45 degree lines across a rectangle, clipped
// to its edges.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	const spacing = 4.0
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)
	for d := spacing; d < w+h; d += spacing {
		pdf.Line(x+math.Max(0, d-h), y+math.Min(h, d), x+math.Min(w, d), y+math.Max(0, d-w))
	}
}

// drawDimensionAnnotations labels the sheet width below the canvas and
// the height, rotated, to its left.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, l model.LayoutResult, scale, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)
	defer pdf.SetTextColor(0, 0, 0)

	centred := func(label string, cx, y float64) {
		w := pdf.GetStringWidth(label)
		pdf.SetXY(cx-w/2, y)
		pdf.CellFormat(w, 4, label, "", 0, "C", false, 0, "")
	}

	centred(fmt.Sprintf("%.1f cm", l.SheetWidth), offsetX+canvasW/2, offsetY+canvasH+1)

	midY := offsetY + canvasH/2
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, midY)
	centred(fmt.Sprintf("%.1f cm", l.SheetHeight), offsetX-3, midY-2)
	pdf.TransformEnd()
}

// drawRemnantLegend lists the offcut strips left by the layout.
func drawRemnantLegend(pdf *fpdf.Fpdf, l model.LayoutResult, startY float64) {
	remnants := model.Remnants(l)
	if len(remnants) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Remnants:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	for _, rem := range remnants {
		label := fmt.Sprintf("%s %.1f x %.1f cm", rem.Side, rem.Width, rem.Height)
		w := pdf.GetStringWidth(label) + 4
		pdf.SetXY(xPos, startY)
		pdf.CellFormat(w, 4, label, "", 0, "L", false, 0, "")
		xPos += w + 2
	}
}

// summaryColumns are the cost table columns of the summary page.
var summaryColumns = []struct {
	title string
	width float64
}{
	{"Product", 50}, {"Paper", 55}, {"Method", 20}, {"Sheet", 45},
	{"Ups", 20}, {"Sheets", 25}, {"Per Sheet", 25}, {"Total", 27},
}

// heading prints a bold line at y and returns the y below it.
func heading(pdf *fpdf.Fpdf, y, size float64, text string) float64 {
	pdf.SetFont("Helvetica", "B", size)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(200, size*0.6, text, "", 0, "L", false, 0, "")
	return y + size*0.75
}

// tableRow prints one bordered, filled row of the cost table.
func tableRow(pdf *fpdf.Fpdf, y float64, cells []string) {
	x := marginLeft
	for i, c := range cells {
		w := summaryColumns[i].width
		pdf.SetXY(x, y)
		pdf.CellFormat(w, 6, c, "1", 0, "C", true, 0, "")
		x += w
	}
}

func costRow(r model.PerPaperResult) []string {
	return []string{
		r.ProductName,
		fmt.Sprintf("%s %dgsm", r.PaperName, r.GSM),
		string(r.Method),
		sheetLabel(r),
		fmt.Sprintf("%d", r.Layout.ItemsPerSheet),
		fmt.Sprintf("%d", r.RecommendedSheets),
		fmt.Sprintf("%.3f", r.PricePerSheet),
		fmt.Sprintf("%.2f", r.Total),
	}
}

// renderSummaryPage prints the cost table, the infeasible papers and the
// settings the quote was computed with.
func renderSummaryPage(pdf *fpdf.Fpdf, quote model.Quote, settings model.Settings) {
	contentW := pageWidth - marginLeft - marginRight

	title := "Quote Summary"
	if quote.Name != "" {
		title += ": " + quote.Name
	}
	heading(pdf, marginTop, 16, title)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	if quote.Client != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(100, 6, "Client: "+quote.Client, "", 0, "L", false, 0, "")
		y += 8
	}

	y = heading(pdf, y, 12, "Cost Breakdown")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	titles := make([]string, len(summaryColumns))
	for i, c := range summaryColumns {
		titles[i] = c.title
	}
	tableRow(pdf, y, titles)
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, r := range quote.Result.Feasible() {
		shade := 255
		if i%2 == 0 {
			shade = 245
		}
		pdf.SetFillColor(shade, shade, shade)
		tableRow(pdf, y, costRow(r))
		y += 6
	}

	totalW := summaryColumns[len(summaryColumns)-1].width
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginLeft, y+2)
	pdf.CellFormat(tableWidth()-totalW, 6, "Quote total", "", 0, "R", false, 0, "")
	pdf.CellFormat(totalW, 6, fmt.Sprintf("%.2f", quote.Result.Total()), "", 0, "C", false, 0, "")
	y += 10

	if infeasible := quote.Result.Infeasible(); len(infeasible) > 0 {
		pdf.SetTextColor(200, 0, 0)
		y = heading(pdf, y+4, 11, "WARNING: Infeasible Papers")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 9)
		for _, r := range infeasible {
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(250, 5, fmt.Sprintf("- %s on %s %dgsm: %s", r.ProductName, r.PaperName, r.GSM, r.Reason), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	y = heading(pdf, y+6, 12, "Settings")
	pdf.SetFont("Helvetica", "", 9)
	for _, kv := range [][2]string{
		{"Offset margins", formatMargins(settings.OffsetMargins)},
		{"Digital margins", formatMargins(settings.DigitalMargins)},
		{"Digital sheet", fmt.Sprintf("%.1f x %.1f cm", settings.DigitalSheet.Width, settings.DigitalSheet.Height)},
		{"Plate / make-ready", fmt.Sprintf("%.2f / %.2f", settings.PlateCost, settings.MakeReadyCost)},
		{"Click mono / colour", fmt.Sprintf("%.3f / %.3f", settings.ClickCostMono, settings.ClickCostColour)},
	} {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, kv[0]+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(100, 5, kv[1], "", 0, "L", false, 0, "")
		y += 5
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(contentW, 4, "Generated by PrintQuote - Print Layout and Cost Estimator", "", 0, "C", false, 0, "")
}

// sheetLabel names the press sheet of a result.
func sheetLabel(r model.PerPaperResult) string {
	if r.Candidate != nil {
		return r.Candidate.Name
	}
	return fmt.Sprintf("%.0fx%.0f", r.Layout.SheetWidth, r.Layout.SheetHeight)
}

func formatMargins(m model.Margins) string {
	return fmt.Sprintf("gripper %.1f, edge %.1f, gap %.1f, bleed %.1f cm", m.Gripper, m.Edge, m.Gap, m.Bleed)
}

func tableWidth() float64 {
	var w float64
	for _, c := range summaryColumns {
		w += c.width
	}
	return w
}
