package engine

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/PrintQuote/internal/model"
)

func TestLayout_BusinessCardOnFullSheet(t *testing.T) {
	l := Layout(100, 70, 9, 5.5, 0.9, 0, 0.5, 0.3)

	assert.Greater(t, l.ItemsPerSheet, 80, "a standard business card layout should exceed 80 ups")
	assert.Equal(t, 90, l.ItemsPerSheet)
	assert.Equal(t, 9, l.ItemsPerRow)
	assert.Equal(t, 10, l.ItemsPerCol)
	// Both orientations give 90, the tie goes to normal.
	assert.Equal(t, model.OrientationNormal, l.Orientation)
}

func TestLayout_FullResult(t *testing.T) {
	got := Layout(100, 70, 9, 5.5, 0.9, 0.5, 0.5, 0.3)

	want := model.LayoutResult{
		ItemsPerRow:   9,
		ItemsPerCol:   10,
		ItemsPerSheet: 90,
		Orientation:   model.OrientationNormal,
		SheetWidth:    100,
		SheetHeight:   70,
		UsableWidth:   98.1,
		UsableHeight:  69,
		OffsetX:       1.4,
		OffsetY:       0.5,
		PieceWidth:    9.6,
		PieceHeight:   6.1,
		Gap:           0.5,
		Bleed:         0.3,
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Layout() mismatch (-want +got):\n%s", diff)
	}
}

func TestLayout_OversizedPiece(t *testing.T) {
	l := Layout(30, 20, 40, 50, 0, 0, 0, 0)

	assert.Equal(t, 0, l.ItemsPerSheet)
	assert.Equal(t, 0, l.ItemsPerRow)
	assert.Equal(t, 0, l.ItemsPerCol)
	assert.Equal(t, model.OrientationNormal, l.Orientation)
	assert.False(t, l.Feasible())
}

func TestLayout_RotationWins(t *testing.T) {
	l := Layout(100, 30, 10, 40, 0, 0, 0, 0)

	assert.Equal(t, model.OrientationRotated, l.Orientation)
	assert.Equal(t, 2, l.ItemsPerRow)
	assert.Equal(t, 3, l.ItemsPerCol)
	assert.Equal(t, 6, l.ItemsPerSheet)
	assert.Equal(t, 40.0, l.PieceWidth)
	assert.Equal(t, 10.0, l.PieceHeight)
}

func TestLayoutWith_NoRotation(t *testing.T) {
	l := LayoutWith(model.PieceSpec{Width: 100, Height: 30}, model.PieceSpec{Width: 10, Height: 40}, model.Margins{}, false)
	assert.Equal(t, 0, l.ItemsPerSheet)
}

func TestLayout_ExactFitSurvivesFloatNoise(t *testing.T) {
	// 0.3 / 0.1 is 2.9999999999999996 in float64.
	l := Layout(0.3, 0.1, 0.1, 0.1, 0, 0, 0, 0)
	assert.Equal(t, 3, l.ItemsPerSheet)
}

func TestLayout_GapOnlyBetweenPieces(t *testing.T) {
	// 3 pieces of 10 with 2 gaps of 1 need exactly 32.
	l := Layout(32, 10, 10, 10, 0, 0, 1, 0)
	assert.Equal(t, 3, l.ItemsPerRow)
	assert.Equal(t, 1, l.ItemsPerCol)
	assert.InDelta(t, 32.0, l.UsedWidth(), 1e-9)
}

func TestLayout_DegenerateInputs(t *testing.T) {
	tests := []struct {
		name string
		l    model.LayoutResult
	}{
		{"negative usable area", Layout(1, 1, 0.5, 0.5, 5, 5, 0, 0)},
		{"zero sheet", Layout(0, 0, 1, 1, 0, 0, 0, 0)},
		{"zero piece", Layout(100, 70, 0, 0, 0, 0, 0, 0)},
		{"negative piece", Layout(100, 70, -5, -5, 0, 0, 0, 0)},
		{"NaN sheet", Layout(math.NaN(), 70, 5, 5, 0, 0, 0, 0)},
		{"infinite piece", Layout(100, 70, math.Inf(1), 5, 0, 0, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 0, tt.l.ItemsPerSheet)
			assert.Equal(t, model.OrientationNormal, tt.l.Orientation)
		})
	}
}

func TestLayout_NegativeGapAndBleedIgnored(t *testing.T) {
	withNegative := Layout(100, 70, 10, 10, 0, 0, -1, -1)
	plain := Layout(100, 70, 10, 10, 0, 0, 0, 0)
	assert.Equal(t, plain.ItemsPerSheet, withNegative.ItemsPerSheet)
}

func TestLayout_Idempotent(t *testing.T) {
	a := Layout(64, 45, 14.8, 21, 1, 0.5, 0.5, 0.3)
	b := Layout(64, 45, 14.8, 21, 1, 0.5, 0.5, 0.3)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Layout() not idempotent (-first +second):\n%s", diff)
	}
}
