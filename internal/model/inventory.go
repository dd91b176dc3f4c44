package model

import (
	"strings"

	"github.com/google/uuid"
)

// PaperStock is a paper the shop buys, priced per parent sheet.
type PaperStock struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	GSM           int     `json:"gsm"`
	ParentWidth   float64 `json:"parent_width"`
	ParentHeight  float64 `json:"parent_height"`
	PricePerSheet float64 `json:"price_per_sheet"`
	Supplier      string  `json:"supplier,omitempty"`
}

// NewPaperStock creates a PaperStock with a generated ID.
func NewPaperStock(name string, gsm int, parentW, parentH, price float64) PaperStock {
	return PaperStock{
		ID:            uuid.New().String()[:8],
		Name:          name,
		GSM:           gsm,
		ParentWidth:   parentW,
		ParentHeight:  parentH,
		PricePerSheet: price,
	}
}

// Inventory holds the shop's paper price list and sheet candidates.
type Inventory struct {
	Papers     []PaperStock     `json:"papers"`
	Candidates []SheetCandidate `json:"candidates"`
}

// DefaultInventory returns an inventory populated with common papers and
// the standard cut-size catalog.
func DefaultInventory() Inventory {
	return Inventory{
		Papers: []PaperStock{
			NewPaperStock("Coated Gloss", 130, 100, 70, 0.62),
			NewPaperStock("Coated Gloss", 170, 100, 70, 0.81),
			NewPaperStock("Coated Matt", 300, 100, 70, 1.45),
			NewPaperStock("Offset Uncoated", 80, 100, 70, 0.34),
			NewPaperStock("Offset Uncoated", 120, 90, 64, 0.41),
			NewPaperStock("Bristol Board", 350, 100, 70, 1.90),
		},
		Candidates: StandardCandidates(),
	}
}

// PriceLookup resolves the price per parent sheet of a paper. ok is false
// when the catalog has no price for it.
type PriceLookup func(paperName string, gsm int) (price float64, ok bool)

// PriceLookup returns a lookup over the inventory papers. Names match
// case-insensitively; papers with a zero price are treated as unpriced.
func (inv *Inventory) PriceLookup() PriceLookup {
	index := make(map[paperIndexKey]float64, len(inv.Papers))
	for _, p := range inv.Papers {
		k := paperIndexKey{name: normalizePaperName(p.Name), gsm: p.GSM}
		if _, seen := index[k]; !seen && p.PricePerSheet > 0 {
			index[k] = p.PricePerSheet
		}
	}
	return func(name string, gsm int) (float64, bool) {
		price, ok := index[paperIndexKey{name: normalizePaperName(name), gsm: gsm}]
		return price, ok
	}
}

type paperIndexKey struct {
	name string
	gsm  int
}

func normalizePaperName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// FindPaperByID returns a pointer to the paper with the given ID, or nil.
func (inv *Inventory) FindPaperByID(id string) *PaperStock {
	for i := range inv.Papers {
		if inv.Papers[i].ID == id {
			return &inv.Papers[i]
		}
	}
	return nil
}

// FindCandidateByID returns a pointer to the candidate with the given ID, or nil.
func (inv *Inventory) FindCandidateByID(id string) *SheetCandidate {
	for i := range inv.Candidates {
		if inv.Candidates[i].ID == id {
			return &inv.Candidates[i]
		}
	}
	return nil
}

// PaperNames returns the distinct paper names for UI dropdowns.
func (inv *Inventory) PaperNames() []string {
	seen := make(map[string]bool, len(inv.Papers))
	var names []string
	for _, p := range inv.Papers {
		if !seen[p.Name] {
			seen[p.Name] = true
			names = append(names, p.Name)
		}
	}
	return names
}

// GSMsFor returns the weights stocked for a paper name.
func (inv *Inventory) GSMsFor(name string) []int {
	var out []int
	for _, p := range inv.Papers {
		if normalizePaperName(p.Name) == normalizePaperName(name) {
			out = append(out, p.GSM)
		}
	}
	return out
}

// UpsertPaper replaces the paper with the same name and weight or appends it.
func (inv *Inventory) UpsertPaper(p PaperStock) {
	for i := range inv.Papers {
		if normalizePaperName(inv.Papers[i].Name) == normalizePaperName(p.Name) && inv.Papers[i].GSM == p.GSM {
			p.ID = inv.Papers[i].ID
			inv.Papers[i] = p
			return
		}
	}
	if p.ID == "" {
		p.ID = uuid.New().String()[:8]
	}
	inv.Papers = append(inv.Papers, p)
}
