// Package cutplan turns sheet layouts into guillotine cutter programs.
package cutplan

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/piwi3910/PrintQuote/internal/model"
)

// CutKind tells the operator what a cut removes.
type CutKind int

const (
	CutTrim  CutKind = iota // Outermost trim line on an axis; removes the sheet margin
	CutSplit                // Interior trim line between pieces
)

func (k CutKind) String() string {
	if k == CutTrim {
		return "trim"
	}
	return "split"
}

// Cut is one blade stroke.
type Cut struct {
	Phase    int     // 0 before the stack is turned, 1 after
	Position float64 // Trim line from the sheet origin (cm)
	Gauge    float64 // Back gauge distance in profile units
	Kind     CutKind
}

// Generator produces cutter programs from laid-out sheets.
type Generator struct {
	profile model.CutterProfile
}

func New(profileName string) *Generator {
	return &Generator{profile: model.GetProfile(profileName)}
}

// NewWithProfile uses an explicit profile instead of a name lookup.
func NewWithProfile(p model.CutterProfile) *Generator {
	return &Generator{profile: p}
}

// Profile returns the profile in use.
func (g *Generator) Profile() model.CutterProfile {
	return g.profile
}

// Plan returns the cuts for a layout: first the lines across the sheet
// width, then, after turning the stack, the lines across its height.
// Each phase runs front to back, so gauge distances decrease. An
// infeasible layout yields no cuts.
func (g *Generator) Plan(l model.LayoutResult) []Cut {
	if !l.Feasible() {
		return nil
	}
	var cuts []Cut
	xs := trimLines(l.OffsetX, l.ItemsPerRow, l.PieceWidth, l.Gap, l.Bleed)
	cuts = append(cuts, g.phase(0, xs, l.SheetWidth)...)
	ys := trimLines(l.OffsetY, l.ItemsPerCol, l.PieceHeight, l.Gap, l.Bleed)
	cuts = append(cuts, g.phase(1, ys, l.SheetHeight)...)
	return cuts
}

func (g *Generator) phase(phase int, lines []float64, length float64) []Cut {
	cuts := make([]Cut, 0, len(lines))
	for i, pos := range lines {
		kind := CutSplit
		if i == 0 || i == len(lines)-1 {
			kind = CutTrim
		}
		cuts = append(cuts, Cut{
			Phase:    phase,
			Position: pos,
			Gauge:    g.toUnits(length - pos),
			Kind:     kind,
		})
	}
	return cuts
}

// trimLines returns the sorted, de-duplicated artwork edges of a row of
// n pieces whose footprint (including bleed) is size, starting at offset.
func trimLines(offset float64, n int, size, gap, bleed float64) []float64 {
	var lines []float64
	for i := 0; i < n; i++ {
		start := offset + float64(i)*(size+gap) + bleed
		end := start + size - 2*bleed
		lines = append(lines, start, end)
	}
	sort.Float64s(lines)

	out := lines[:0]
	for _, v := range lines {
		if len(out) > 0 && math.Abs(out[len(out)-1]-v) < 1e-6 {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Generate produces the program text for a layout.
func (g *Generator) Generate(l model.LayoutResult, title string) string {
	var b strings.Builder
	p := g.profile

	b.WriteString(g.comment(fmt.Sprintf("PrintQuote cut program: %s", title)))
	b.WriteString(g.comment(fmt.Sprintf("Sheet: %.1f x %.1f cm, %d ups (%d x %d, %s)",
		l.SheetWidth, l.SheetHeight, l.ItemsPerSheet, l.ItemsPerRow, l.ItemsPerCol, l.Orientation)))
	b.WriteString(g.comment(fmt.Sprintf("Profile: %s, units %s", p.Name, p.Units)))
	b.WriteString("\n")

	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}

	cuts := g.Plan(l)
	if len(cuts) == 0 {
		b.WriteString(g.comment("WARNING: nothing fits on this sheet, no cuts"))
	}
	phase := 0
	for i, c := range cuts {
		if c.Phase != phase {
			phase = c.Phase
			b.WriteString(g.comment("Turn stack 90 degrees"))
			b.WriteString(p.TurnCommand + "\n")
		}
		b.WriteString(g.comment(fmt.Sprintf("Cut %d: %s at %.2f cm", i+1, c.Kind, c.Position)))
		b.WriteString(fmt.Sprintf(p.GaugeMove, g.format(c.Gauge)) + "\n")
		b.WriteString(p.CutCommand + "\n")
	}

	b.WriteString("\n")
	for _, code := range p.EndCode {
		b.WriteString(code + "\n")
	}
	return b.String()
}

// GenerateResult produces the program for one estimate result. Digital
// options with a remnant grid get the remnant noted, since it needs its
// own pass after the main grid.
func (g *Generator) GenerateResult(r model.PerPaperResult) string {
	title := fmt.Sprintf("%s / %s %dgsm", r.ProductName, r.PaperName, r.GSM)
	code := g.Generate(r.Layout, title)
	if r.Option != nil && r.Option.Extra != nil {
		x := r.Option.Extra
		code += g.comment(fmt.Sprintf("Remnant grid: %d x %d %s at %.2f, %.2f cm; cut separately",
			x.ItemsPerRow, x.ItemsPerCol, x.Orientation, x.OffsetX, x.OffsetY))
	}
	return code
}

// GenerateAll produces one program per feasible result.
func (g *Generator) GenerateAll(results []model.PerPaperResult) []string {
	var codes []string
	for _, r := range results {
		if r.Feasible {
			codes = append(codes, g.GenerateResult(r))
		}
	}
	return codes
}

// toUnits converts centimetres to the profile's units.
func (g *Generator) toUnits(cm float64) float64 {
	switch g.profile.Units {
	case "mm":
		return cm * 10
	case "in":
		return cm / 2.54
	default:
		return cm
	}
}

func (g *Generator) format(v float64) string {
	return formatFixed(v, g.profile.DecimalPlaces)
}

func (g *Generator) comment(text string) string {
	return g.profile.CommentPrefix + " " + text + g.profile.CommentSuffix + "\n"
}

func formatFixed(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return fmt.Sprintf("%.*f", decimals, v)
}
