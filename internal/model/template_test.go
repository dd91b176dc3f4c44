package model

import (
	"testing"
)

func TestNewProductTemplate(t *testing.T) {
	p := NewProduct("Flyer", 14.8, 21, 1000, MethodOffset)
	p.Papers = []Paper{{Name: "Coated Gloss", GSM: 130}}

	tmpl := NewProductTemplate("A5 Flyer", "Standard flyer", p)

	if tmpl.Name != "A5 Flyer" {
		t.Errorf("expected name 'A5 Flyer', got %q", tmpl.Name)
	}
	if tmpl.ID == "" {
		t.Error("expected non-empty ID")
	}
	if tmpl.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}

	p.Papers[0].GSM = 999
	if tmpl.Product.Papers[0].GSM != 130 {
		t.Error("template papers should be a copy")
	}
}

func TestProductTemplate_ToProduct(t *testing.T) {
	p := NewProduct("Card", 9, 5.5, 250, MethodDigital)
	p.Papers = []Paper{{Name: "Coated Matt", GSM: 300}}
	tmpl := NewProductTemplate("Card", "", p)

	a := tmpl.ToProduct(1000)
	b := tmpl.ToProduct(0)

	if a.ID == tmpl.Product.ID || a.ID == b.ID {
		t.Error("expected fresh product IDs")
	}
	if a.Quantity != 1000 {
		t.Errorf("expected quantity 1000, got %d", a.Quantity)
	}
	if b.Quantity != 250 {
		t.Errorf("expected template quantity 250, got %d", b.Quantity)
	}
	a.Papers[0].Name = "changed"
	if tmpl.Product.Papers[0].Name != "Coated Matt" {
		t.Error("product papers should not alias the template")
	}
}

func TestBuiltInTemplatesAreValid(t *testing.T) {
	for _, tmpl := range BuiltInTemplates() {
		if err := tmpl.ToProduct(0).Validate(); err != nil {
			t.Errorf("template %s is invalid: %v", tmpl.Name, err)
		}
	}
}

func TestTemplateStore(t *testing.T) {
	store := NewTemplateStore()
	if len(store.Templates) != 0 {
		t.Fatal("expected empty store")
	}

	t1 := NewProductTemplate("A", "", NewProduct("A", 1, 1, 1, MethodDigital))
	t2 := NewProductTemplate("B", "", NewProduct("B", 1, 1, 1, MethodOffset))
	store.Add(t1)
	store.Add(t2)

	if got := store.FindByID(t2.ID); got == nil || got.Name != "B" {
		t.Error("expected to find B by ID")
	}
	if got := store.FindByName("A"); got == nil || got.ID != t1.ID {
		t.Error("expected to find A by name")
	}
	names := store.Names()
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Errorf("unexpected names %v", names)
	}

	if !store.Remove(t1.ID) {
		t.Error("expected remove to succeed")
	}
	if store.Remove(t1.ID) {
		t.Error("expected second remove to fail")
	}
	if store.FindByName("A") != nil {
		t.Error("expected A to be gone")
	}
}
