package cutplan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/piwi3910/PrintQuote/internal/model"
)

// Step is one parsed blade stroke.
type Step struct {
	Line  int     // 1-based source line of the cut command
	Phase int     // Number of turns before this cut
	Gauge float64 // Back gauge distance in profile units
}

// Parse reads a program written in the given profile's dialect back into
// steps. Comments, start and end codes are skipped. A cut before any
// gauge move, or a gauge value that is not a number, is an error.
func Parse(code string, p model.CutterProfile) ([]Step, error) {
	prefix, suffix, _ := strings.Cut(p.GaugeMove, "%s")
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	suffix = strings.ToUpper(strings.TrimSpace(suffix))
	cutCmd := strings.ToUpper(strings.TrimSpace(p.CutCommand))
	turnCmd := strings.ToUpper(strings.TrimSpace(p.TurnCommand))

	var steps []Step
	phase := 0
	gauge := 0.0
	haveGauge := false

	for i, raw := range strings.Split(code, "\n") {
		line := strings.ToUpper(strings.TrimSpace(stripComment(raw, p)))
		if line == "" {
			continue
		}

		switch {
		case line == turnCmd:
			phase++
		case line == cutCmd:
			if !haveGauge {
				return nil, fmt.Errorf("line %d: cut before any gauge move", i+1)
			}
			steps = append(steps, Step{Line: i + 1, Phase: phase, Gauge: gauge})
		case prefix != "" && strings.HasPrefix(line, prefix) && strings.HasSuffix(line, suffix):
			num := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, prefix), suffix))
			v, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid gauge value %q: %w", i+1, num, err)
			}
			gauge = v
			haveGauge = true
		}
	}

	return steps, nil
}

// stripComment removes a trailing comment in the profile's style.
func stripComment(line string, p model.CutterProfile) string {
	if p.CommentPrefix == "" {
		return line
	}
	idx := strings.Index(line, p.CommentPrefix)
	if idx < 0 {
		return line
	}
	if p.CommentSuffix != "" {
		if end := strings.Index(line[idx:], p.CommentSuffix); end >= 0 {
			return line[:idx] + line[idx+end+len(p.CommentSuffix):]
		}
	}
	return line[:idx]
}

// ToCentimetres converts a gauge value in the profile's units back to cm.
func ToCentimetres(v float64, p model.CutterProfile) float64 {
	switch p.Units {
	case "mm":
		return v / 10
	case "in":
		return v * 2.54
	default:
		return v
	}
}

// Positions converts parsed steps back to trim line positions from the
// sheet origin, given the sheet size the program was generated for.
func Positions(steps []Step, p model.CutterProfile, sheetW, sheetH float64) []Cut {
	cuts := make([]Cut, 0, len(steps))
	for _, s := range steps {
		length := sheetW
		if s.Phase%2 == 1 {
			length = sheetH
		}
		cuts = append(cuts, Cut{
			Phase:    s.Phase,
			Position: length - ToCentimetres(s.Gauge, p),
			Gauge:    s.Gauge,
		})
	}
	return cuts
}
