package importer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/piwi3910/PrintQuote/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// point is a 2D drawing coordinate in file units.
type point struct {
	X, Y float64
}

// outline is a closed polygon in file units.
type outline []point

// segment represents a line segment between two 2D points, used for
// chaining disconnected LINE entities into closed outlines.
type segment struct {
	start point
	end   point
}

// DieLineResult holds the piece size read from a die-line drawing along
// with any errors or warnings encountered during import.
type DieLineResult struct {
	Piece    model.PieceSpec
	Outlines int     // Closed shapes found
	Area     float64 // Area of the die line in cm²
	Errors   []string
	Warnings []string
}

// unitScale returns the factor that converts drawing units to cm.
func unitScale(units string) (float64, bool) {
	switch strings.ToLower(strings.TrimSpace(units)) {
	case "", "mm":
		return 0.1, true
	case "cm":
		return 1, true
	case "in", "inch":
		return 2.54, true
	case "pt":
		return 2.54 / 72, true
	}
	return 0, false
}

// ImportDieLine reads a DXF die line and returns the bounding box of its
// largest closed outline as the piece size. Each closed shape is an
// LWPOLYLINE, CIRCLE, or chain of connected LINEs and ARCs. Inner shapes
// such as holes and fold marks do not change the size.
func ImportDieLine(path, units string) DieLineResult {
	result := DieLineResult{}

	scale, ok := unitScale(units)
	if !ok {
		result.Errors = append(result.Errors, fmt.Sprintf("Unknown drawing units %q", units))
		return result
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines []outline
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			o := lwPolylineToOutline(e)
			if len(o) >= 3 {
				outlines = append(outlines, o)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			outlines = append(outlines, circleToOutline(e, 64))

		case *entity.Arc:
			pts := arcToPoints(e, 32)
			if len(pts) >= 2 {
				segments = append(segments, pointsToSegments(pts)...)
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: point{X: e.Start[0], Y: e.Start[1]},
				end:   point{X: e.End[0], Y: e.End[1]},
			})

		default:
			// Text, dimensions and hatches carry no cut geometry
		}
	}

	outlines = append(outlines, chainSegments(segments, 0.01)...)
	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	sort.SliceStable(outlines, func(i, j int) bool {
		return outlineArea(outlines[i]) > outlineArea(outlines[j])
	})
	result.Outlines = len(outlines)

	minPt, maxPt := outlines[0].boundingBox()
	width := (maxPt.X - minPt.X) * scale
	height := (maxPt.Y - minPt.Y) * scale
	if width < 0.01 || height < 0.01 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Die line is degenerate (%.2f x %.2f cm)", width, height))
		return result
	}

	result.Piece = model.PieceSpec{Width: round2(width), Height: round2(height)}
	result.Area = outlineArea(outlines[0]) * scale * scale
	if len(outlines) > 1 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Used the largest of %d closed shapes", len(outlines)))
	}
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// boundingBox returns the minimum and maximum corners of the outline.
func (o outline) boundingBox() (minPt, maxPt point) {
	if len(o) == 0 {
		return point{}, point{}
	}
	minPt, maxPt = o[0], o[0]
	for _, p := range o[1:] {
		minPt = point{math.Min(minPt.X, p.X), math.Min(minPt.Y, p.Y)}
		maxPt = point{math.Max(maxPt.X, p.X), math.Max(maxPt.Y, p.Y)}
	}
	return minPt, maxPt
}

// sweep samples n+1 points on the circle (cx, cy, r) from angle from to
// angle to, both in radians.
func sweep(cx, cy, r, from, to float64, n int) []point {
	pts := make([]point, n+1)
	step := (to - from) / float64(n)
	for i := range pts {
		a := from + step*float64(i)
		pts[i] = point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return pts
}

// lwPolylineToOutline flattens an LWPOLYLINE. A vertex with a bulge is
// followed by the arc to the next vertex.
func lwPolylineToOutline(lw *entity.LwPolyline) outline {
	var o outline
	n := len(lw.Vertices)
	for i, v := range lw.Vertices {
		cur := point{X: v[0], Y: v[1]}
		if i >= len(lw.Bulges) || math.Abs(lw.Bulges[i]) < 1e-9 {
			o = append(o, cur)
			continue
		}
		w := lw.Vertices[(i+1)%n]
		arc := bulgeArcPoints(cur, point{X: w[0], Y: w[1]}, lw.Bulges[i], 32)
		o = append(o, arc[:len(arc)-1]...)
	}
	return o
}

// bulgeArcPoints samples the arc from p1 to p2 described by a DXF bulge,
// the tangent of a quarter of the included angle. Positive bulges turn
// counter-clockwise.
func bulgeArcPoints(p1, p2 point, bulge float64, n int) outline {
	chord := math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
	if chord < 1e-9 {
		return outline{p1, p2}
	}
	included := 4 * math.Atan(bulge)
	r := chord / (2 * math.Sin(math.Abs(included)/2))

	// Distance from the chord midpoint to the centre, signed toward the
	// left of p1->p2 for counter-clockwise arcs.
	h := r * math.Cos(included/2)
	if bulge < 0 {
		h = -h
	}
	ux, uy := (p2.X-p1.X)/chord, (p2.Y-p1.Y)/chord
	cx := (p1.X+p2.X)/2 - uy*h
	cy := (p1.Y+p2.Y)/2 + ux*h

	start := math.Atan2(p1.Y-cy, p1.X-cx)
	pts := sweep(cx, cy, r, start, start+included, n)
	pts[n] = p2
	return pts
}

// circleToOutline approximates a circle as a regular n-gon.
func circleToOutline(c *entity.Circle, n int) outline {
	pts := sweep(c.Center[0], c.Center[1], c.Radius, 0, 2*math.Pi, n)
	return pts[:n]
}

// arcToPoints samples an ARC counter-clockwise from its start angle to
// its end angle, given in degrees.
func arcToPoints(a *entity.Arc, n int) []point {
	from := a.Angle[0] * math.Pi / 180
	to := a.Angle[1] * math.Pi / 180
	if to <= from {
		to += 2 * math.Pi
	}
	return sweep(a.Circle.Center[0], a.Circle.Center[1], a.Circle.Radius, from, to, n)
}

func pointsToSegments(pts []point) []segment {
	segs := make([]segment, 0, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		segs = append(segs, segment{start: pts[i-1], end: pts[i]})
	}
	return segs
}

// chainSegments joins segments whose endpoints lie within tol of each
// other. Only chains that close on themselves become outlines.
func chainSegments(segs []segment, tol float64) []outline {
	used := make([]bool, len(segs))
	var outlines []outline

	// next finds an unused segment touching p and returns its far end.
	next := func(p point) (point, bool) {
		for i, s := range segs {
			switch {
			case used[i]:
			case pointsClose(p, s.start, tol):
				used[i] = true
				return s.end, true
			case pointsClose(p, s.end, tol):
				used[i] = true
				return s.start, true
			}
		}
		return point{}, false
	}

	for i, s := range segs {
		if used[i] {
			continue
		}
		used[i] = true
		chain := []point{s.start, s.end}
		for {
			p, ok := next(chain[len(chain)-1])
			if !ok {
				break
			}
			chain = append(chain, p)
		}
		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tol) {
			outlines = append(outlines, outline(chain[:len(chain)-1]))
		}
	}
	return outlines
}

func pointsClose(a, b point, tol float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tol
}

// outlineArea is the shoelace area of o, always positive.
func outlineArea(o outline) float64 {
	if len(o) < 3 {
		return 0
	}
	var twice float64
	prev := o[len(o)-1]
	for _, p := range o {
		twice += prev.X*p.Y - p.X*prev.Y
		prev = p
	}
	return math.Abs(twice) / 2
}
