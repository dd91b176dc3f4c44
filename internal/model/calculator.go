package model

import "math"

// RecommendedSheets returns ceil(quantity / itemsPerSheet). The boolean is
// false when the layout is infeasible or the quantity is not positive.
func RecommendedSheets(quantity, itemsPerSheet int) (int, bool) {
	if itemsPerSheet <= 0 || quantity <= 0 {
		return 0, false
	}
	return (quantity + itemsPerSheet - 1) / itemsPerSheet, true
}

// ParentSheets returns how many parent sheets yield the given number of
// press sheets when each parent is cut into cutsPerParent pieces.
func ParentSheets(pressSheets, cutsPerParent int) int {
	if pressSheets <= 0 {
		return 0
	}
	if cutsPerParent < 1 {
		cutsPerParent = 1
	}
	return (pressSheets + cutsPerParent - 1) / cutsPerParent
}

// PaperPurchase holds the paper ordering figures for one result.
type PaperPurchase struct {
	PressSheets int `json:"press_sheets"`
	// Spoilage allowance, e.g. 5 for 5%.
	WastePercent    float64 `json:"waste_percent"`
	SheetsWithWaste int     `json:"sheets_with_waste"`
	ParentSheets    int     `json:"parent_sheets"`
	PricePerParent  float64 `json:"price_per_parent"`
	EstimatedCost   float64 `json:"estimated_cost"`
	CutsPerParent   int     `json:"cuts_per_parent"`
}

// CalculatePaperPurchase computes how much paper to order for a number of
// press sheets, adding a spoilage allowance.
func CalculatePaperPurchase(pressSheets, cutsPerParent int, wastePercent, pricePerParent float64) PaperPurchase {
	if cutsPerParent < 1 {
		cutsPerParent = 1
	}
	if pressSheets <= 0 {
		return PaperPurchase{WastePercent: wastePercent, PricePerParent: pricePerParent, CutsPerParent: cutsPerParent}
	}

	wasteFactor := 1.0 + (wastePercent / 100.0)
	// The epsilon keeps 200 * 1.05 from rounding up to 211.
	withWaste := int(math.Ceil(float64(pressSheets)*wasteFactor - 1e-9))
	if withWaste < pressSheets {
		withWaste = pressSheets
	}
	parents := ParentSheets(withWaste, cutsPerParent)

	return PaperPurchase{
		PressSheets:     pressSheets,
		WastePercent:    wastePercent,
		SheetsWithWaste: withWaste,
		ParentSheets:    parents,
		PricePerParent:  pricePerParent,
		EstimatedCost:   float64(parents) * pricePerParent,
		CutsPerParent:   cutsPerParent,
	}
}
