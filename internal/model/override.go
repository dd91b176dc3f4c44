package model

import "sort"

// PaperKey identifies one paper of one product.
type PaperKey struct {
	ProductID  string `json:"product_id"`
	PaperIndex int    `json:"paper_index"`
}

// Override holds the values an operator typed over the computed defaults.
// Nil fields are not overridden.
type Override struct {
	EnteredSheets *int     `json:"entered_sheets,omitempty"`
	PricePerSheet *float64 `json:"price_per_sheet,omitempty"`
}

// IsZero reports whether the override changes nothing.
func (o Override) IsZero() bool {
	return o.EnteredSheets == nil && o.PricePerSheet == nil
}

// Overrides maps paper keys to operator edits.
type Overrides map[PaperKey]Override

// OverrideAt is the serialisable form of one Overrides entry.
type OverrideAt struct {
	Key      PaperKey `json:"key"`
	Override Override `json:"override"`
}

// With returns a copy of the overrides with k set to o. A zero override
// removes the key.
func (ov Overrides) With(k PaperKey, o Override) Overrides {
	out := make(Overrides, len(ov)+1)
	for key, v := range ov {
		out[key] = v
	}
	if o.IsZero() {
		delete(out, k)
	} else {
		out[k] = o
	}
	return out
}

// List flattens the overrides for storage, ordered by product ID and
// then paper index so a quote always saves the same way.
func (ov Overrides) List() []OverrideAt {
	out := make([]OverrideAt, 0, len(ov))
	for k, o := range ov {
		out = append(out, OverrideAt{Key: k, Override: o})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		return a.PaperIndex < b.PaperIndex
	})
	return out
}

// OverridesFromList rebuilds the map form.
func OverridesFromList(list []OverrideAt) Overrides {
	out := make(Overrides, len(list))
	for _, e := range list {
		if !e.Override.IsZero() {
			out[e.Key] = e.Override
		}
	}
	return out
}

// PaperFields are the form values shown for one paper.
type PaperFields struct {
	Key               PaperKey `json:"key"`
	RecommendedSheets int      `json:"recommended_sheets"`
	EnteredSheets     int      `json:"entered_sheets"`
	PricePerSheet     float64  `json:"price_per_sheet"`
	Edited            bool     `json:"edited"`
	Feasible          bool     `json:"feasible"`
}

// MergeOverrides combines computed results with operator overrides. The
// recommendation is always the computed value; entered sheets and price
// keep the operator's value when one exists.
func MergeOverrides(results []PerPaperResult, ov Overrides) []PaperFields {
	out := make([]PaperFields, 0, len(results))
	for _, r := range results {
		f := PaperFields{
			Key:               r.Key(),
			RecommendedSheets: r.RecommendedSheets,
			EnteredSheets:     r.RecommendedSheets,
			PricePerSheet:     r.PricePerSheet,
			Feasible:          r.Feasible,
		}
		if o, ok := ov[f.Key]; ok {
			if o.EnteredSheets != nil {
				f.EnteredSheets = *o.EnteredSheets
				f.Edited = true
			}
			if o.PricePerSheet != nil {
				f.PricePerSheet = *o.PricePerSheet
				f.Edited = true
			}
		}
		out = append(out, f)
	}
	return out
}
