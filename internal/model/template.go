package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductTemplate is a reusable product preset: size, method, print
// configuration and default papers, without a quantity-specific estimate.
type ProductTemplate struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	Product     Product `json:"product"`
}

// NewProductTemplate creates a template from the given product. The
// product's papers are copied so later edits do not leak into it.
func NewProductTemplate(name, description string, p Product) ProductTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	p.Papers = copyPapers(p.Papers)
	return ProductTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Product:     p,
	}
}

// ToProduct creates a new product from this template with a fresh ID and
// the given quantity (the template quantity when qty is not positive).
func (t ProductTemplate) ToProduct(qty int) Product {
	p := t.Product
	p.ID = uuid.New().String()[:8]
	p.Papers = copyPapers(t.Product.Papers)
	if qty > 0 {
		p.Quantity = qty
	}
	return p
}

// BuiltInTemplates returns the presets offered for new products.
func BuiltInTemplates() []ProductTemplate {
	card := NewProduct("Business Card", 9, 5.5, 1000, MethodDigital)
	card.Sides = 2
	card.Papers = []Paper{{Name: "Coated Matt", GSM: 300}}

	a4 := NewProduct("A4 Flyer", 21, 29.7, 5000, MethodOffset)
	a4.Papers = []Paper{{Name: "Coated Gloss", GSM: 130}}

	a5 := NewProduct("A5 Flyer", 14.8, 21, 5000, MethodOffset)
	a5.Sides = 2
	a5.Papers = []Paper{{Name: "Coated Gloss", GSM: 170}}

	dl := NewProduct("DL Leaflet", 9.9, 21, 2000, MethodOffset)
	dl.FlatWidth = 29.7
	dl.FlatHeight = 21
	dl.Sides = 2
	dl.Papers = []Paper{{Name: "Coated Gloss", GSM: 130}}

	poster := NewProduct("A3 Poster", 29.7, 42, 100, MethodDigital)
	poster.Papers = []Paper{{Name: "Coated Gloss", GSM: 170}}

	return []ProductTemplate{
		NewProductTemplate("Business Card", "9 x 5.5 cm, double sided", card),
		NewProductTemplate("A4 Flyer", "Single sided flyer", a4),
		NewProductTemplate("A5 Flyer", "Double sided flyer", a5),
		NewProductTemplate("DL Leaflet", "A4 tri-fold to DL", dl),
		NewProductTemplate("A3 Poster", "Short run poster", poster),
	}
}

// TemplateStore holds a collection of product templates.
type TemplateStore struct {
	Templates []ProductTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []ProductTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t ProductTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *ProductTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns a list of template names for UI dropdowns.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *ProductTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

func copyPapers(papers []Paper) []Paper {
	if papers == nil {
		return []Paper{}
	}
	cp := make([]Paper, len(papers))
	copy(cp, papers)
	return cp
}
