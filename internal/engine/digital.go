package engine

import (
	"github.com/piwi3910/PrintQuote/internal/model"
)

// defaultColourTierThreshold applies when settings leave the tier unset.
const defaultColourTierThreshold = 3

// ClickCost returns the per-side click charge of one digital sheet. Jobs
// with up to ColourTierThreshold colours bill at the mono rate, anything
// above at the colour rate.
func ClickCost(colours int, s model.Settings) float64 {
	threshold := s.ColourTierThreshold
	if threshold <= 0 {
		threshold = defaultColourTierThreshold
	}
	if colours <= threshold {
		return s.ClickCostMono
	}
	return s.ClickCostColour
}

// PerParentCost is the cost of printing one digital sheet: the paper plus
// one click per printed side.
func PerParentCost(pricePerSheet float64, sides, colours int, s model.Settings) float64 {
	return pricePerSheet + ClickCost(colours, s)*float64(sides)
}

// ChooseDigital enumerates grid configurations for a digital job on one
// fixed sheet and prices each. The plain normal grid is always tried;
// with allowRotate the rotated grid and the mixed grids that fill a
// remnant strip with the other orientation are tried too. Options with a
// total of zero or less are dropped.
func ChooseDigital(qty int, piece model.PieceSpec, sides, colours int, sheet model.PieceSpec, allowRotate bool, pricePerSheet float64, s model.Settings) []model.DigitalOption {
	return chooseDigital(qty, piece, sides, colours, sheet, allowRotate, pricePerSheet, s, layoutOriented)
}

type orientedLayoutFunc func(sheet, piece model.PieceSpec, m model.Margins, o model.Orientation) model.LayoutResult

func chooseDigital(qty int, piece model.PieceSpec, sides, colours int, sheet model.PieceSpec, allowRotate bool, pricePerSheet float64, s model.Settings, layout orientedLayoutFunc) []model.DigitalOption {
	m := s.DigitalMargins
	perParent := PerParentCost(pricePerSheet, sides, colours, s)

	normal := layout(sheet, piece, m, model.OrientationNormal)
	candidates := []model.DigitalOption{{Name: "Normal", Layout: normal}}

	if allowRotate {
		rotated := layout(sheet, piece, m, model.OrientationRotated)
		candidates = append(candidates, model.DigitalOption{Name: "Rotated", Layout: rotated})

		for _, base := range []model.LayoutResult{normal, rotated} {
			if !base.Feasible() {
				continue
			}
			for _, side := range []model.RemnantSide{model.RemnantRight, model.RemnantBottom} {
				extra, ok := fillStrip(base, side)
				if !ok {
					continue
				}
				candidates = append(candidates, model.DigitalOption{
					Name:     base.Orientation.String() + " + " + extra.Orientation.String() + " " + string(side),
					Layout:   base,
					ExtraUps: extra.ItemsPerSheet,
					Extra:    &extra,
				})
			}
		}
	}

	opts := make([]model.DigitalOption, 0, len(candidates))
	for _, o := range candidates {
		o.Ups = o.Layout.ItemsPerSheet + o.ExtraUps
		parents, ok := model.RecommendedSheets(qty, o.Ups)
		if !ok {
			continue
		}
		o.ParentsNeeded = parents
		o.PerParentCost = perParent
		o.Total = float64(parents) * perParent
		if o.Total <= 0 {
			continue
		}
		opts = append(opts, o)
	}
	return opts
}

// fillStrip lays the piece, turned the other way, into the remnant strip
// on the given side of the base grid. The bottom strip takes the full
// usable width since the right strip is left empty in that option.
func fillStrip(base model.LayoutResult, side model.RemnantSide) (model.LayoutResult, bool) {
	var strip model.Remnant
	found := false
	for _, r := range model.Remnants(base) {
		if r.Side == side {
			strip = r
			found = true
		}
	}
	if !found {
		return model.LayoutResult{}, false
	}
	if side == model.RemnantBottom {
		strip.Width = base.UsableWidth
	}

	other := model.OrientationRotated
	if base.Orientation == model.OrientationRotated {
		other = model.OrientationNormal
	}
	extra := model.LayoutResult{
		Orientation:  other,
		SheetWidth:   base.SheetWidth,
		SheetHeight:  base.SheetHeight,
		UsableWidth:  strip.Width,
		UsableHeight: strip.Height,
		OffsetX:      strip.X,
		OffsetY:      strip.Y,
		PieceWidth:   base.PieceHeight,
		PieceHeight:  base.PieceWidth,
		Gap:          base.Gap,
		Bleed:        base.Bleed,
	}
	cols := fitCount(extra.UsableWidth, extra.PieceWidth, extra.Gap)
	rows := fitCount(extra.UsableHeight, extra.PieceHeight, extra.Gap)
	if cols == 0 || rows == 0 {
		return model.LayoutResult{}, false
	}
	extra.ItemsPerRow = cols
	extra.ItemsPerCol = rows
	extra.ItemsPerSheet = cols * rows
	return extra, true
}

// PickCheapestDigital returns the first option with the lowest total.
func PickCheapestDigital(opts []model.DigitalOption) (model.DigitalOption, bool) {
	if len(opts) == 0 {
		return model.DigitalOption{}, false
	}
	best := opts[0]
	for _, o := range opts[1:] {
		if o.Total < best.Total {
			best = o
		}
	}
	return best, true
}
