package engine

import (
	"math"

	"github.com/piwi3910/PrintQuote/internal/model"
)

// fitEpsilon absorbs float noise so that an exact fit such as 3 pieces of
// 33.3333 on a 100 sheet is not floored to 2.
const fitEpsilon = 1e-9

// Layout computes how many pieces fit on a press sheet. The gripper is
// consumed from the sheet width only; the edge margin applies to all four
// sides. Each piece is inflated by bleed on every side. Both orientations
// are tried and the larger count wins, ties favouring the normal one.
// When nothing fits the result has ItemsPerSheet 0 and normal orientation.
func Layout(pressW, pressH, pieceW, pieceH, gripper, edge, gap, bleed float64) model.LayoutResult {
	return LayoutWith(
		model.PieceSpec{Width: pressW, Height: pressH},
		model.PieceSpec{Width: pieceW, Height: pieceH},
		model.Margins{Gripper: gripper, Edge: edge, Gap: gap, Bleed: bleed},
		true,
	)
}

// LayoutWith is Layout over model types. With allowRotate false only the
// normal orientation is tried.
func LayoutWith(sheet, piece model.PieceSpec, m model.Margins, allowRotate bool) model.LayoutResult {
	return bestOrientation(layoutOriented)(sheet, piece, m, allowRotate)
}

// bestOrientation builds a LayoutFunc that picks the better of the two
// orientations computed by oriented.
func bestOrientation(oriented orientedLayoutFunc) LayoutFunc {
	return func(sheet, piece model.PieceSpec, m model.Margins, allowRotate bool) model.LayoutResult {
		normal := oriented(sheet, piece, m, model.OrientationNormal)
		if !allowRotate {
			return normal
		}
		rotated := oriented(sheet, piece, m, model.OrientationRotated)
		if rotated.ItemsPerSheet > normal.ItemsPerSheet {
			return rotated
		}
		return normal
	}
}

// layoutOriented lays the piece in one fixed orientation.
func layoutOriented(sheet, piece model.PieceSpec, m model.Margins, o model.Orientation) model.LayoutResult {
	if o == model.OrientationRotated {
		piece = piece.Rotated()
	}
	gap := nonNegative(m.Gap)
	bleed := nonNegative(m.Bleed)

	res := model.LayoutResult{
		Orientation:  o,
		SheetWidth:   sheet.Width,
		SheetHeight:  sheet.Height,
		UsableWidth:  sheet.Width - 2*m.Edge - m.Gripper,
		UsableHeight: sheet.Height - 2*m.Edge,
		OffsetX:      m.Edge + m.Gripper,
		OffsetY:      m.Edge,
		PieceWidth:   piece.Width + 2*bleed,
		PieceHeight:  piece.Height + 2*bleed,
		Gap:          gap,
		Bleed:        bleed,
	}

	cols := fitCount(res.UsableWidth, res.PieceWidth, gap)
	rows := fitCount(res.UsableHeight, res.PieceHeight, gap)
	if cols == 0 || rows == 0 {
		return res
	}
	res.ItemsPerRow = cols
	res.ItemsPerCol = rows
	res.ItemsPerSheet = cols * rows
	return res
}

// fitCount returns floor((usable+gap)/(piece+gap)), or 0 when the input is
// degenerate.
func fitCount(usable, piece, gap float64) int {
	if !finite(usable) || !finite(piece) || !finite(gap) {
		return 0
	}
	if piece <= 0 || usable+fitEpsilon < piece {
		return 0
	}
	n := math.Floor((usable+gap)/(piece+gap) + fitEpsilon)
	if n < 1 {
		return 0
	}
	return int(n)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
