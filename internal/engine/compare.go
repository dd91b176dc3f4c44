package engine

import (
	"fmt"

	"github.com/piwi3910/PrintQuote/internal/model"
)

// ComparisonScenario defines a named product and settings pair to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.Settings
	Product  model.Product
}

// ComparisonResult holds the estimate and summary figures for a single
// scenario.
type ComparisonResult struct {
	Scenario        ComparisonScenario
	Results         []model.PerPaperResult
	Total           float64
	Sheets          int
	FeasiblePapers  int
	InfeasibleCount int
	Err             error
}

// CompareScenarios estimates each scenario and returns the results in
// scenario order. A scenario whose product is invalid carries the error
// in Err and no results.
func CompareScenarios(scenarios []ComparisonScenario, candidates []model.SheetCandidate, lookup model.PriceLookup, memo *Memo) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		est := New(scenario.Settings, candidates, lookup).WithMemo(memo)
		rs, err := est.EstimateProduct(scenario.Product)

		cr := ComparisonResult{Scenario: scenario, Results: rs, Err: err}
		for _, r := range rs {
			if !r.Feasible {
				cr.InfeasibleCount++
				continue
			}
			cr.FeasiblePapers++
			cr.Total += r.Total
			cr.Sheets += r.RecommendedSheets
		}
		results = append(results, cr)
	}

	return results
}

// CompareMethods runs the product once as digital and once as offset with
// the estimator's settings.
func (e *Estimator) CompareMethods(p model.Product) []ComparisonResult {
	digital := p
	digital.Method = model.MethodDigital
	offset := p
	offset.Method = model.MethodOffset

	return CompareScenarios([]ComparisonScenario{
		{Name: "Digital", Settings: e.Settings, Product: digital},
		{Name: "Offset", Settings: e.Settings, Product: offset},
	}, e.Candidates, e.lookup, e.memo)
}

// BuildDefaultScenarios generates what-if alternatives around a product:
// the other printing method, no bleed, and the rotation setting flipped.
func BuildDefaultScenarios(base model.Settings, p model.Product) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
			Product:  p,
		},
	}

	// Scenario: Try the other method
	alt := p
	if p.Method == model.MethodDigital {
		alt.Method = model.MethodOffset
		scenarios = append(scenarios, ComparisonScenario{Name: "Offset", Settings: base, Product: alt})
	} else {
		alt.Method = model.MethodDigital
		scenarios = append(scenarios, ComparisonScenario{Name: "Digital", Settings: base, Product: alt})
	}

	// Scenario: No bleed
	margins := base.OffsetMargins
	if p.Method == model.MethodDigital {
		margins = base.DigitalMargins
	}
	if margins.Bleed > 0 {
		noBleed := base
		noBleed.OffsetMargins.Bleed = 0
		noBleed.DigitalMargins.Bleed = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("No Bleed (was %.1fcm)", margins.Bleed),
			Settings: noBleed,
			Product:  p,
		})
	}

	// Scenario: Flip rotation
	flipped := p
	flipped.AllowRotate = !p.AllowRotate
	name := "No Rotation"
	if flipped.AllowRotate {
		name = "Allow Rotation"
	}
	scenarios = append(scenarios, ComparisonScenario{Name: name, Settings: base, Product: flipped})

	return scenarios
}
