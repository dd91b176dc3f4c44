package cutplan

import (
	"math"
	"testing"

	"github.com/piwi3910/PrintQuote/internal/model"
)

func TestParse_Empty(t *testing.T) {
	steps, err := Parse("", model.GetProfile("Generic"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(steps) != 0 {
		t.Errorf("expected 0 steps for empty input, got %d", len(steps))
	}
}

func TestParse_CommentsOnly(t *testing.T) {
	code := "; a comment\n; GAUGE 100\n"
	steps, err := Parse(code, model.GetProfile("Generic"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(steps) != 0 {
		t.Errorf("expected commented gauge moves to be ignored, got %d steps", len(steps))
	}
}

func TestParse_RoundTripAllProfiles(t *testing.T) {
	l := newTestLayout()
	for _, p := range model.CutterProfiles {
		t.Run(p.Name, func(t *testing.T) {
			gen := NewWithProfile(p)
			planned := gen.Plan(l)

			steps, err := Parse(gen.Generate(l, "round trip"), p)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(steps) != len(planned) {
				t.Fatalf("expected %d steps, got %d", len(planned), len(steps))
			}

			back := Positions(steps, p, l.SheetWidth, l.SheetHeight)
			for i := range planned {
				if back[i].Phase != planned[i].Phase {
					t.Errorf("step %d: expected phase %d, got %d", i, planned[i].Phase, back[i].Phase)
				}
				if math.Abs(back[i].Position-planned[i].Position) > 0.01 {
					t.Errorf("step %d: expected position %.2f, got %.2f", i, planned[i].Position, back[i].Position)
				}
			}
		})
	}
}

func TestParse_CutBeforeGauge(t *testing.T) {
	if _, err := Parse("PROGRAM\nCUT\n", model.GetProfile("Generic")); err == nil {
		t.Error("expected error for a cut without a gauge position")
	}
}

func TestParse_BadGaugeValue(t *testing.T) {
	if _, err := Parse("GAUGE abc\nCUT\n", model.GetProfile("Generic")); err == nil {
		t.Error("expected error for a non-numeric gauge value")
	}
}

func TestParse_LineNumbers(t *testing.T) {
	steps, err := Parse("PROGRAM\nGAUGE 10\n\nCUT\n", model.GetProfile("Generic"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(steps) != 1 || steps[0].Line != 4 || steps[0].Gauge != 10 {
		t.Errorf("unexpected steps %+v", steps)
	}
}

func TestToCentimetres(t *testing.T) {
	if ToCentimetres(100, model.CutterProfile{Units: "mm"}) != 10 {
		t.Error("mm conversion wrong")
	}
	if math.Abs(ToCentimetres(1, model.CutterProfile{Units: "in"})-2.54) > 1e-9 {
		t.Error("inch conversion wrong")
	}
	if ToCentimetres(7, model.CutterProfile{Units: "cm"}) != 7 {
		t.Error("cm conversion wrong")
	}
}
