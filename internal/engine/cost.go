package engine

import (
	"sort"

	"github.com/piwi3910/PrintQuote/internal/model"
)

// LayoutFunc computes a layout. The estimator swaps in a memoized one.
type LayoutFunc func(sheet, piece model.PieceSpec, m model.Margins, allowRotate bool) model.LayoutResult

// SelectCheapest prices the order on every candidate sheet and returns the
// feasible rows sorted by total, cheapest first. Candidates where nothing
// fits, or that exceed the press maximum, are left out. Rows with equal
// totals keep their catalog order. The result is empty, never nil, when
// no candidate works.
func SelectCheapest(order model.OrderParams, candidates []model.SheetCandidate, s model.Settings) []model.CostRow {
	return selectCheapest(order, candidates, s, LayoutWith)
}

func selectCheapest(order model.OrderParams, candidates []model.SheetCandidate, s model.Settings, layout LayoutFunc) []model.CostRow {
	rows := make([]model.CostRow, 0, len(candidates))
	for _, c := range candidates {
		if !fitsPress(c, s) {
			continue
		}
		sheet := model.PieceSpec{Width: c.Width, Height: c.Height}
		l := layout(sheet, order.Piece, order.Margins, order.AllowRotate)
		if !l.Feasible() {
			continue
		}
		rows = append(rows, priceRow(order, c, l, s))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total < rows[j].Total
	})
	return rows
}

// priceRow applies the offset cost formula to one feasible layout.
func priceRow(order model.OrderParams, c model.SheetCandidate, l model.LayoutResult, s model.Settings) model.CostRow {
	cuts := c.CutsPerParent
	if cuts < 1 {
		cuts = 1
	}
	sheets, _ := model.RecommendedSheets(order.Quantity, l.ItemsPerSheet)
	pricePerSheet := order.PricePerSheet / float64(cuts)
	plates := PlateCount(order.Colours, order.Sides)

	row := model.CostRow{
		Candidate:     c,
		Layout:        l,
		ItemsPerSheet: l.ItemsPerSheet,
		Sheets:        sheets,
		ParentSheets:  model.ParentSheets(sheets, cuts),
		PricePerSheet: pricePerSheet,
		PaperCost:     float64(sheets) * pricePerSheet,
		Plates:        plates,
		PlateCost:     float64(plates) * s.PlateCost,
		MakeReadyCost: s.MakeReadyCost,
	}
	row.Total = row.PaperCost + row.PlateCost + row.MakeReadyCost
	return row
}

// PlateCount is one plate per colour per printed side.
func PlateCount(colours, sides int) int {
	if colours < 0 || sides < 0 {
		return 0
	}
	return colours * sides
}

// fitsPress reports whether the candidate can be fed to the press in
// either direction.
func fitsPress(c model.SheetCandidate, s model.Settings) bool {
	if s.MaxPressWidth <= 0 || s.MaxPressHeight <= 0 {
		return true
	}
	fits := func(w, h float64) bool {
		return w <= s.MaxPressWidth+fitEpsilon && h <= s.MaxPressHeight+fitEpsilon
	}
	return fits(c.Width, c.Height) || fits(c.Height, c.Width)
}

// CheapestRow returns the first row, which SelectCheapest guarantees is a
// minimum.
func CheapestRow(rows []model.CostRow) (model.CostRow, bool) {
	if len(rows) == 0 {
		return model.CostRow{}, false
	}
	return rows[0], true
}
