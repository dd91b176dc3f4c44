package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidProduct is wrapped by every product validation failure.
var ErrInvalidProduct = errors.New("invalid product")

// ValidationError describes one rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e ValidationError) Unwrap() error {
	return ErrInvalidProduct
}

// Job is a product resolved for one printing method. Only DigitalJob and
// OffsetJob implement it.
type Job interface {
	JobMethod() Method
	job()
}

// jobBase carries the fields shared by both variants.
type jobBase struct {
	Piece       PieceSpec
	Quantity    int
	Sides       int
	Colours     int
	AllowRotate bool
}

// DigitalJob is printed on one fixed digital press sheet.
type DigitalJob struct {
	jobBase
	Sheet PieceSpec
}

func (DigitalJob) JobMethod() Method { return MethodDigital }
func (DigitalJob) job()              {}

// OffsetJob is printed on a cut size chosen from the sheet catalog.
type OffsetJob struct {
	jobBase
}

func (OffsetJob) JobMethod() Method { return MethodOffset }
func (OffsetJob) job()              {}

// Piece returns the size used for layout: the flat (open) size when both
// flat dimensions are set, otherwise the close size.
func (p Product) Piece() PieceSpec {
	if p.FlatWidth > 0 && p.FlatHeight > 0 {
		return PieceSpec{Width: p.FlatWidth, Height: p.FlatHeight}
	}
	return PieceSpec{Width: p.CloseWidth, Height: p.CloseHeight}
}

// Validate rejects malformed numeric input. The returned error joins one
// ValidationError per problem.
func (p Product) Validate() error {
	var errs []error
	reject := func(field, reason string) {
		errs = append(errs, ValidationError{Field: field, Reason: reason})
	}

	checkDim := func(field string, v float64, required bool) {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			reject(field, "must be a finite number")
		case v < 0:
			reject(field, "must not be negative")
		case required && v == 0:
			reject(field, "is required")
		}
	}

	hasFlat := p.FlatWidth != 0 || p.FlatHeight != 0
	checkDim("flat_width", p.FlatWidth, hasFlat)
	checkDim("flat_height", p.FlatHeight, hasFlat)
	checkDim("close_width", p.CloseWidth, !hasFlat)
	checkDim("close_height", p.CloseHeight, !hasFlat)

	if p.Quantity < 1 {
		reject("quantity", "must be at least 1")
	}
	if p.Sides != 1 && p.Sides != 2 {
		reject("sides", "must be 1 or 2")
	}
	if p.Colours < 1 {
		reject("colours", "must be at least 1")
	}
	if p.Method != MethodDigital && p.Method != MethodOffset {
		reject("method", fmt.Sprintf("unknown method %q", p.Method))
	}
	if len(p.Papers) == 0 {
		reject("papers", "at least one paper is required")
	}
	for i, paper := range p.Papers {
		if math.IsNaN(paper.PricePerSheet) || math.IsInf(paper.PricePerSheet, 0) || paper.PricePerSheet < 0 {
			reject(fmt.Sprintf("papers[%d].price_per_sheet", i), "must be a finite, non-negative number")
		}
	}

	return errors.Join(errs...)
}

// ResolveJob validates the product and returns the job variant for its
// printing method.
func ResolveJob(p Product, s Settings) (Job, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	base := jobBase{
		Piece:       p.Piece(),
		Quantity:    p.Quantity,
		Sides:       p.Sides,
		Colours:     p.Colours,
		AllowRotate: p.AllowRotate,
	}
	if p.Method == MethodDigital {
		return DigitalJob{jobBase: base, Sheet: s.DigitalSheet}, nil
	}
	return OffsetJob{jobBase: base}, nil
}
