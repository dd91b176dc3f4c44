package model

// parentFamily is a parent sheet size and the cut sizes taken from it.
type parentFamily struct {
	name          string
	width, height float64
}

// Standard parent sheets stocked by merchants (cm).
var standardParents = []parentFamily{
	{name: "70x100", width: 100, height: 70},
	{name: "64x90", width: 90, height: 64},
}

// StandardCandidates returns the fixed cut-size catalog: every standard
// parent as full, half, third, quarter, sixth and eighth sheets, in that
// order. Order matters: the cost selector keeps it on equal totals.
func StandardCandidates() []SheetCandidate {
	var out []SheetCandidate
	for _, p := range standardParents {
		long, short := p.width, p.height
		out = append(out,
			NewSheetCandidate(p.name+" Full", long, short, long, short, 1),
			NewSheetCandidate(p.name+" Half", long, short, short, long/2, 2),
			NewSheetCandidate(p.name+" Third", long, short, short, long/3, 3),
			NewSheetCandidate(p.name+" Quarter", long, short, long/2, short/2, 4),
			NewSheetCandidate(p.name+" Sixth", long, short, short/2, long/3, 6),
			NewSheetCandidate(p.name+" Eighth", long, short, short/2, long/4, 8),
		)
	}
	return out
}

// DigitalSheet is a sheet size accepted by a digital press.
type DigitalSheet struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Piece returns the sheet as a PieceSpec.
func (d DigitalSheet) Piece() PieceSpec {
	return PieceSpec{Width: d.Width, Height: d.Height}
}

// DigitalSheets lists the digital press sheet sizes offered in forms.
var DigitalSheets = []DigitalSheet{
	{Name: "33x48", Width: 48, Height: 33},
	{Name: "SRA3", Width: 45, Height: 32},
	{Name: "A3", Width: 42, Height: 29.7},
}

// FindDigitalSheet returns the named digital sheet, or the first one.
func FindDigitalSheet(name string) DigitalSheet {
	for _, d := range DigitalSheets {
		if d.Name == name {
			return d
		}
	}
	return DigitalSheets[0]
}
