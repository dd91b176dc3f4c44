package engine

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/piwi3910/PrintQuote/internal/model"
)

func drawMargins(t *rapid.T) model.Margins {
	return model.Margins{
		Gripper: rapid.Float64Range(0, 2).Draw(t, "gripper"),
		Edge:    rapid.Float64Range(0, 1).Draw(t, "edge"),
		Gap:     rapid.Float64Range(0, 1).Draw(t, "gap"),
		Bleed:   rapid.Float64Range(0, 0.5).Draw(t, "bleed"),
	}
}

func TestLayoutProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sheet := model.PieceSpec{
			Width:  rapid.Float64Range(1, 120).Draw(t, "sheetW"),
			Height: rapid.Float64Range(1, 120).Draw(t, "sheetH"),
		}
		piece := model.PieceSpec{
			Width:  rapid.Float64Range(0.5, 60).Draw(t, "pieceW"),
			Height: rapid.Float64Range(0.5, 60).Draw(t, "pieceH"),
		}
		m := drawMargins(t)
		rotate := rapid.Bool().Draw(t, "rotate")

		l := LayoutWith(sheet, piece, m, rotate)

		if l.ItemsPerSheet < 0 {
			t.Fatalf("negative ups %d", l.ItemsPerSheet)
		}
		if l.Feasible() {
			if l.ItemsPerRow < 1 || l.ItemsPerCol < 1 {
				t.Fatalf("feasible layout with %d cols and %d rows", l.ItemsPerRow, l.ItemsPerCol)
			}
			if l.ItemsPerSheet != l.ItemsPerRow*l.ItemsPerCol {
				t.Fatalf("ups %d != %d x %d", l.ItemsPerSheet, l.ItemsPerRow, l.ItemsPerCol)
			}
			if l.UsedWidth() > l.UsableWidth+1e-6 || l.UsedHeight() > l.UsableHeight+1e-6 {
				t.Fatalf("grid %gx%g overflows usable %gx%g", l.UsedWidth(), l.UsedHeight(), l.UsableWidth, l.UsableHeight)
			}
		} else if l.Orientation != model.OrientationNormal {
			t.Fatalf("infeasible layout reported %s orientation", l.Orientation)
		}

		if again := LayoutWith(sheet, piece, m, rotate); again != l {
			t.Fatalf("layout not idempotent: %+v vs %+v", l, again)
		}

		if rotate {
			if normal := LayoutWith(sheet, piece, m, false); normal.ItemsPerSheet > l.ItemsPerSheet {
				t.Fatalf("rotation allowed gave %d, normal alone %d", l.ItemsPerSheet, normal.ItemsPerSheet)
			}
		}
	})
}

func TestLayoutOversizedProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := rapid.Float64Range(1, 100).Draw(t, "sheetW")
		h := rapid.Float64Range(1, 100).Draw(t, "sheetH")
		longest := w
		if h > longest {
			longest = h
		}
		side := longest + rapid.Float64Range(0.1, 50).Draw(t, "excess")

		l := Layout(w, h, side, side, 0, 0, 0, 0)
		if l.ItemsPerSheet != 0 {
			t.Fatalf("piece %g on %gx%g gave %d ups", side, w, h, l.ItemsPerSheet)
		}
	})
}

func TestSelectCheapestProperties(t *testing.T) {
	cands := model.StandardCandidates()
	s := model.DefaultSettings()

	rapid.Check(t, func(t *rapid.T) {
		order := model.OrderParams{
			Quantity:      rapid.IntRange(1, 50000).Draw(t, "qty"),
			Sides:         rapid.IntRange(1, 2).Draw(t, "sides"),
			Colours:       rapid.IntRange(1, 6).Draw(t, "colours"),
			PricePerSheet: rapid.Float64Range(0.01, 5).Draw(t, "price"),
			Piece: model.PieceSpec{
				Width:  rapid.Float64Range(1, 110).Draw(t, "pieceW"),
				Height: rapid.Float64Range(1, 110).Draw(t, "pieceH"),
			},
			Margins:     drawMargins(t),
			AllowRotate: rapid.Bool().Draw(t, "rotate"),
		}

		rows := SelectCheapest(order, cands, s)
		for i, r := range rows {
			if r.ItemsPerSheet <= 0 {
				t.Fatalf("row %d has %d ups", i, r.ItemsPerSheet)
			}
			if r.Sheets*r.ItemsPerSheet < order.Quantity {
				t.Fatalf("row %d: %d sheets of %d ups short of %d", i, r.Sheets, r.ItemsPerSheet, order.Quantity)
			}
			if rows[0].Total > r.Total {
				t.Fatalf("first row %g more than row %d %g", rows[0].Total, i, r.Total)
			}
		}
	})
}

func TestDigitalTierProperty(t *testing.T) {
	s := model.DefaultSettings()

	rapid.Check(t, func(t *rapid.T) {
		price := rapid.Float64Range(0, 3).Draw(t, "price")
		sides := rapid.IntRange(1, 2).Draw(t, "sides")

		one := PerParentCost(price, sides, 1, s)
		three := PerParentCost(price, sides, 3, s)
		four := PerParentCost(price, sides, 4, s)
		if one != three {
			t.Fatalf("1 colour %g != 3 colours %g", one, three)
		}
		if four <= three {
			t.Fatalf("4 colours %g not above 3 colours %g", four, three)
		}
	})
}
