package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PrintQuote/internal/model"
)

var (
	businessCard = model.PieceSpec{Width: 9, Height: 5.5}
	sheet33x48   = model.PieceSpec{Width: 48, Height: 33}
)

func TestClickCost_Tiers(t *testing.T) {
	s := model.DefaultSettings()

	assert.Equal(t, s.ClickCostMono, ClickCost(1, s))
	assert.Equal(t, s.ClickCostMono, ClickCost(2, s))
	assert.Equal(t, s.ClickCostMono, ClickCost(3, s))
	assert.Equal(t, s.ClickCostColour, ClickCost(4, s))
	assert.Equal(t, s.ClickCostColour, ClickCost(6, s))
}

func TestClickCost_UnsetThresholdUsesDefault(t *testing.T) {
	s := model.DefaultSettings()
	s.ColourTierThreshold = 0
	assert.Equal(t, s.ClickCostMono, ClickCost(3, s))
	assert.Equal(t, s.ClickCostColour, ClickCost(4, s))
}

func TestPerParentCost_OneAndThreeColoursPriceAlike(t *testing.T) {
	s := model.DefaultSettings()

	one := PerParentCost(0.5, 2, 1, s)
	three := PerParentCost(0.5, 2, 3, s)
	four := PerParentCost(0.5, 2, 4, s)

	assert.Equal(t, one, three)
	assert.Greater(t, four, three)
	assert.InDelta(t, 0.58, three, 1e-9)
	assert.InDelta(t, 0.86, four, 1e-9)
}

func TestChooseDigital_BusinessCard(t *testing.T) {
	s := model.DefaultSettings()

	opts := ChooseDigital(1000, businessCard, 2, 4, sheet33x48, true, 0.5, s)
	require.Len(t, opts, 3)

	assert.Equal(t, "Normal", opts[0].Name)
	assert.Equal(t, 20, opts[0].Ups)
	assert.Nil(t, opts[0].Extra)

	assert.Equal(t, "Rotated", opts[1].Name)
	assert.Equal(t, 21, opts[1].Ups)

	mixed := opts[2]
	assert.Equal(t, "Normal + Rotated right", mixed.Name)
	assert.Equal(t, 20, mixed.Layout.ItemsPerSheet)
	assert.Equal(t, 3, mixed.ExtraUps)
	assert.Equal(t, 23, mixed.Ups)
	require.NotNil(t, mixed.Extra)
	assert.Equal(t, model.OrientationRotated, mixed.Extra.Orientation)
	assert.Equal(t, 1, mixed.Extra.ItemsPerRow)
	assert.Equal(t, 3, mixed.Extra.ItemsPerCol)

	best, ok := PickCheapestDigital(opts)
	require.True(t, ok)
	assert.Equal(t, mixed.Name, best.Name)
	assert.Equal(t, 44, best.ParentsNeeded)
	assert.InDelta(t, 0.86, best.PerParentCost, 1e-9)
	assert.InDelta(t, 44*0.86, best.Total, 1e-9)
}

func TestChooseDigital_NoRotation(t *testing.T) {
	opts := ChooseDigital(1000, businessCard, 1, 1, sheet33x48, false, 0.5, model.DefaultSettings())
	require.Len(t, opts, 1)
	assert.Equal(t, "Normal", opts[0].Name)
	assert.Equal(t, 50, opts[0].ParentsNeeded)
}

func TestChooseDigital_DoesNotFit(t *testing.T) {
	opts := ChooseDigital(10, model.PieceSpec{Width: 60, Height: 60}, 1, 4, sheet33x48, true, 0.5, model.DefaultSettings())
	assert.Empty(t, opts)

	_, ok := PickCheapestDigital(opts)
	assert.False(t, ok)
}

func TestChooseDigital_ZeroTotalsFiltered(t *testing.T) {
	s := model.DefaultSettings()
	s.ClickCostMono = 0
	s.ClickCostColour = 0

	opts := ChooseDigital(100, businessCard, 1, 4, sheet33x48, true, 0, s)
	assert.Empty(t, opts)
}

func TestChooseDigital_TierDoesNotChangeLayout(t *testing.T) {
	s := model.DefaultSettings()

	mono := ChooseDigital(500, businessCard, 1, 3, sheet33x48, true, 0.3, s)
	colour := ChooseDigital(500, businessCard, 1, 4, sheet33x48, true, 0.3, s)
	require.Equal(t, len(mono), len(colour))
	for i := range mono {
		assert.Equal(t, mono[i].Ups, colour[i].Ups)
		assert.Less(t, mono[i].Total, colour[i].Total)
	}
}

func TestPickCheapestDigital_FirstMinimumWins(t *testing.T) {
	opts := []model.DigitalOption{
		{Name: "a", Total: 12},
		{Name: "b", Total: 10},
		{Name: "c", Total: 10},
		{Name: "d", Total: 11},
	}

	best, ok := PickCheapestDigital(opts)
	require.True(t, ok)
	assert.Equal(t, "b", best.Name)
}
