package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// PrintQuoteTheme wraps the default Fyne theme with compact sizing for
// the dense estimate tables.
type PrintQuoteTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	system  bool // Follow the variant requested by the OS
}

// NewPrintQuoteTheme returns a theme that follows the system variant.
func NewPrintQuoteTheme() *PrintQuoteTheme {
	return &PrintQuoteTheme{base: theme.DefaultTheme(), system: true}
}

// ThemeForName maps the config theme name ("light", "dark" or "system")
// to a theme.
func ThemeForName(name string) *PrintQuoteTheme {
	t := NewPrintQuoteTheme()
	switch name {
	case "light":
		t.SetVariant(theme.VariantLight)
	case "dark":
		t.SetVariant(theme.VariantDark)
	}
	return t
}

// SetVariant pins the theme to a light or dark variant.
func (t *PrintQuoteTheme) SetVariant(variant fyne.ThemeVariant) {
	t.variant = variant
	t.system = false
}

func (t *PrintQuoteTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.system {
		return t.base.Color(name, variant)
	}
	return t.base.Color(name, t.variant)
}

func (t *PrintQuoteTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *PrintQuoteTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizes for text and padding.
func (t *PrintQuoteTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
