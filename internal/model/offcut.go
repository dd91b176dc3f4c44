package model

import "sort"

// RemnantSide names the strip of the sheet a remnant comes from.
type RemnantSide string

const (
	RemnantRight  RemnantSide = "right"
	RemnantBottom RemnantSide = "bottom"
	RemnantSheet  RemnantSide = "sheet" // Nothing laid; the whole usable area
)

// minRemnant drops slivers left over by float rounding.
const minRemnant = 1e-9

// Remnant is an unused rectangle of the usable area left after layout.
type Remnant struct {
	Side   RemnantSide `json:"side"`
	X      float64     `json:"x"` // From the left sheet edge
	Y      float64     `json:"y"` // From the top sheet edge
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
}

// Area returns the area of the remnant.
func (r Remnant) Area() float64 {
	return r.Width * r.Height
}

// Remnants returns the strips of the usable area not covered by the
// layout grid: the full-height strip right of the grid and the strip
// below it, bounded by the grid width so the two never overlap. A gap is
// kept between the grid and each strip. Results are sorted by area,
// largest first.
func Remnants(l LayoutResult) []Remnant {
	if l.UsableWidth <= 0 || l.UsableHeight <= 0 {
		return nil
	}
	if !l.Feasible() {
		return []Remnant{{
			Side:   RemnantSheet,
			X:      l.OffsetX,
			Y:      l.OffsetY,
			Width:  l.UsableWidth,
			Height: l.UsableHeight,
		}}
	}

	usedW := l.UsedWidth()
	usedH := l.UsedHeight()

	var out []Remnant

	rightW := l.UsableWidth - usedW - l.Gap
	if rightW > minRemnant {
		out = append(out, Remnant{
			Side:   RemnantRight,
			X:      l.OffsetX + usedW + l.Gap,
			Y:      l.OffsetY,
			Width:  rightW,
			Height: l.UsableHeight,
		})
	}

	bottomH := l.UsableHeight - usedH - l.Gap
	if bottomH > minRemnant {
		out = append(out, Remnant{
			Side:   RemnantBottom,
			X:      l.OffsetX,
			Y:      l.OffsetY + usedH + l.Gap,
			Width:  usedW,
			Height: bottomH,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Area() > out[j].Area()
	})
	return out
}

// TotalRemnantArea returns the combined area of the remnants.
func TotalRemnantArea(rs []Remnant) float64 {
	var total float64
	for _, r := range rs {
		total += r.Area()
	}
	return total
}
