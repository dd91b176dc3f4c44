// Package model holds the data types shared by the estimator, exporters,
// persistence and user interfaces. All dimensions are in centimetres.
package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Orientation describes how a piece is laid on a sheet.
type Orientation int

const (
	OrientationNormal  Orientation = iota // Piece width runs along the sheet width
	OrientationRotated                    // Piece turned 90 degrees
)

func (o Orientation) String() string {
	if o == OrientationRotated {
		return "Rotated"
	}
	return "Normal"
}

// Method is the printing method of a product.
type Method string

const (
	MethodDigital Method = "digital"
	MethodOffset  Method = "offset"
)

// ParseMethod accepts the method names used in forms and import files.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "digital", "d", "dig":
		return MethodDigital, nil
	case "offset", "o", "litho":
		return MethodOffset, nil
	default:
		return "", fmt.Errorf("unknown printing method %q", s)
	}
}

// PieceSpec is one finished printed item.
type PieceSpec struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Rotated returns the piece turned 90 degrees.
func (p PieceSpec) Rotated() PieceSpec {
	return PieceSpec{Width: p.Height, Height: p.Width}
}

// Margins are the non-printable allowances applied when laying out a sheet.
type Margins struct {
	Gripper float64 `json:"gripper" yaml:"gripper"` // Consumed from the grip edge only
	Edge    float64 `json:"edge" yaml:"edge"`       // Applied on every edge
	Gap     float64 `json:"gap" yaml:"gap"`         // Between adjacent pieces
	Bleed   float64 `json:"bleed" yaml:"bleed"`     // Added around each piece
}

// SheetCandidate is a press sheet cut from a parent sheet of the catalog.
type SheetCandidate struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	ParentWidth   float64 `json:"parent_width"`
	ParentHeight  float64 `json:"parent_height"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	CutsPerParent int     `json:"cuts_per_parent"`
}

func NewSheetCandidate(name string, parentW, parentH, w, h float64, cuts int) SheetCandidate {
	if cuts < 1 {
		cuts = 1
	}
	return SheetCandidate{
		ID:            uuid.New().String()[:8],
		Name:          name,
		ParentWidth:   parentW,
		ParentHeight:  parentH,
		Width:         w,
		Height:        h,
		CutsPerParent: cuts,
	}
}

// Label returns a short human readable description of the candidate.
func (c SheetCandidate) Label() string {
	return fmt.Sprintf("%s (%gx%g of %gx%g)", c.Name, c.Width, c.Height, c.ParentWidth, c.ParentHeight)
}

// LayoutResult is the grid of pieces that fits on one sheet.
type LayoutResult struct {
	ItemsPerRow   int         `json:"items_per_row"` // Columns
	ItemsPerCol   int         `json:"items_per_col"` // Rows
	ItemsPerSheet int         `json:"items_per_sheet"`
	Orientation   Orientation `json:"orientation"`

	SheetWidth   float64 `json:"sheet_width"`
	SheetHeight  float64 `json:"sheet_height"`
	UsableWidth  float64 `json:"usable_width"`
	UsableHeight float64 `json:"usable_height"`
	OffsetX      float64 `json:"offset_x"` // Left edge of the usable area (edge + gripper)
	OffsetY      float64 `json:"offset_y"` // Top edge of the usable area

	// Piece footprint as laid, including bleed and orientation.
	PieceWidth  float64 `json:"piece_width"`
	PieceHeight float64 `json:"piece_height"`
	Gap         float64 `json:"gap"`
	Bleed       float64 `json:"bleed"`
}

// Feasible reports whether at least one piece fits.
func (l LayoutResult) Feasible() bool {
	return l.ItemsPerSheet > 0
}

// UsedWidth returns the width occupied by the grid.
func (l LayoutResult) UsedWidth() float64 {
	if l.ItemsPerRow == 0 {
		return 0
	}
	return float64(l.ItemsPerRow)*l.PieceWidth + float64(l.ItemsPerRow-1)*l.Gap
}

// UsedHeight returns the height occupied by the grid.
func (l LayoutResult) UsedHeight() float64 {
	if l.ItemsPerCol == 0 {
		return 0
	}
	return float64(l.ItemsPerCol)*l.PieceHeight + float64(l.ItemsPerCol-1)*l.Gap
}

// Efficiency returns the percentage of the sheet covered by pieces.
func (l LayoutResult) Efficiency() float64 {
	area := l.SheetWidth * l.SheetHeight
	if area <= 0 {
		return 0
	}
	used := float64(l.ItemsPerSheet) * l.PieceWidth * l.PieceHeight
	return used / area * 100.0
}

// OrderParams are the order quantities priced by the cost selector.
type OrderParams struct {
	Quantity      int       `json:"quantity"`
	Sides         int       `json:"sides"`
	Colours       int       `json:"colours"`
	PricePerSheet float64   `json:"price_per_sheet"` // Per parent sheet
	Piece         PieceSpec `json:"piece"`
	Margins       Margins   `json:"margins"`
	AllowRotate   bool      `json:"allow_rotate"`
}

// CostRow is the priced outcome of printing an order on one candidate.
type CostRow struct {
	Candidate     SheetCandidate `json:"candidate"`
	Layout        LayoutResult   `json:"layout"`
	ItemsPerSheet int            `json:"items_per_sheet"`
	Sheets        int            `json:"sheets"`        // Press sheets
	ParentSheets  int            `json:"parent_sheets"` // Parent sheets to buy
	PricePerSheet float64        `json:"price_per_sheet"`
	PaperCost     float64        `json:"paper_cost"`
	Plates        int            `json:"plates"`
	PlateCost     float64        `json:"plate_cost"`
	MakeReadyCost float64        `json:"make_ready_cost"`
	Total         float64        `json:"total"`
}

// DigitalOption is one evaluated digital sheet configuration.
type DigitalOption struct {
	Name     string       `json:"name"`
	Layout   LayoutResult `json:"layout"`
	ExtraUps int          `json:"extra_ups"` // Pieces placed in the remnant strip
	// Grid laid in the remnant, positioned by its OffsetX/OffsetY. Nil
	// for single-orientation options.
	Extra         *LayoutResult `json:"extra,omitempty"`
	Ups           int           `json:"ups"`
	ParentsNeeded int           `json:"parents_needed"`
	PerParentCost float64       `json:"per_parent_cost"`
	Total         float64       `json:"total"`
}

// PriceSource records where the price per sheet of a result came from.
type PriceSource string

const (
	PriceExplicit PriceSource = "explicit"
	PriceCatalog  PriceSource = "catalog"
	PriceFallback PriceSource = "fallback"
)

// PerPaperResult is the estimate for one paper of one product.
type PerPaperResult struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	PaperIndex  int    `json:"paper_index"`
	PaperName   string `json:"paper_name"`
	GSM         int    `json:"gsm"`
	Method      Method `json:"method"`
	Quantity    int    `json:"quantity"`

	Feasible bool   `json:"feasible"`
	Reason   string `json:"reason,omitempty"`

	Layout    LayoutResult    `json:"layout"`
	Candidate *SheetCandidate `json:"candidate,omitempty"` // Offset only
	Option    *DigitalOption  `json:"option,omitempty"`    // Digital only

	RecommendedSheets int         `json:"recommended_sheets"`
	PricePerSheet     float64     `json:"price_per_sheet"`
	PriceSource       PriceSource `json:"price_source"`
	Total             float64     `json:"total"`
}

// Key returns the overlay key of this result.
func (r PerPaperResult) Key() PaperKey {
	return PaperKey{ProductID: r.ProductID, PaperIndex: r.PaperIndex}
}

// Paper is one paper choice of a product.
type Paper struct {
	Name          string  `json:"name" yaml:"name"`
	GSM           int     `json:"gsm" yaml:"gsm"`
	PricePerSheet float64 `json:"price_per_sheet,omitempty" yaml:"price_per_sheet,omitempty"` // 0 means look up
}

// Product is a quote line as entered in a form. Fields are loosely typed;
// ResolveJob turns it into a Job before any arithmetic runs.
type Product struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Quantity    int     `json:"quantity" yaml:"quantity"`
	Sides       int     `json:"sides" yaml:"sides"`
	Colours     int     `json:"colours" yaml:"colours"`
	Method      Method  `json:"method" yaml:"method"`
	FlatWidth   float64 `json:"flat_width,omitempty" yaml:"flat_width,omitempty"`
	FlatHeight  float64 `json:"flat_height,omitempty" yaml:"flat_height,omitempty"`
	CloseWidth  float64 `json:"close_width,omitempty" yaml:"close_width,omitempty"`
	CloseHeight float64 `json:"close_height,omitempty" yaml:"close_height,omitempty"`
	AllowRotate bool    `json:"allow_rotate" yaml:"allow_rotate"`
	Papers      []Paper `json:"papers" yaml:"papers"`
}

func NewProduct(name string, w, h float64, qty int, method Method) Product {
	return Product{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Quantity:    qty,
		Sides:       1,
		Colours:     4,
		Method:      method,
		CloseWidth:  w,
		CloseHeight: h,
		AllowRotate: true,
	}
}

// Settings holds the estimator constants. Defaults are chosen to match
// a typical small offset and digital shop.
type Settings struct {
	OffsetMargins  Margins   `json:"offset_margins" yaml:"offset_margins"`
	DigitalMargins Margins   `json:"digital_margins" yaml:"digital_margins"`
	DigitalSheet   PieceSpec `json:"digital_sheet" yaml:"digital_sheet"`

	PlateCost     float64 `json:"plate_cost" yaml:"plate_cost"`           // Per plate
	MakeReadyCost float64 `json:"make_ready_cost" yaml:"make_ready_cost"` // Per job

	// Click charges per printed side of one digital sheet. Colour counts up
	// to ColourTierThreshold bill at the mono rate, above it at the colour rate.
	ClickCostMono       float64 `json:"click_cost_mono" yaml:"click_cost_mono"`
	ClickCostColour     float64 `json:"click_cost_colour" yaml:"click_cost_colour"`
	ColourTierThreshold int     `json:"colour_tier_threshold" yaml:"colour_tier_threshold"`

	// Used when neither the paper nor the catalog has a price.
	FallbackPricePerSheet float64 `json:"fallback_price_per_sheet" yaml:"fallback_price_per_sheet"`

	// Largest sheet the offset press accepts; 0 disables the check.
	MaxPressWidth  float64 `json:"max_press_width" yaml:"max_press_width"`
	MaxPressHeight float64 `json:"max_press_height" yaml:"max_press_height"`
}

// DefaultFallbackPricePerSheet is the documented price used when a paper
// has no price anywhere.
const DefaultFallbackPricePerSheet = 1.0

func DefaultSettings() Settings {
	return Settings{
		OffsetMargins:         Margins{Gripper: 1.0, Edge: 0.5, Gap: 0.5, Bleed: 0.3},
		DigitalMargins:        Margins{Gripper: 0, Edge: 0.5, Gap: 0.3, Bleed: 0.3},
		DigitalSheet:          PieceSpec{Width: 48, Height: 33},
		PlateCost:             12.0,
		MakeReadyCost:         30.0,
		ClickCostMono:         0.04,
		ClickCostColour:       0.18,
		ColourTierThreshold:   3,
		FallbackPricePerSheet: DefaultFallbackPricePerSheet,
		MaxPressWidth:         102,
		MaxPressHeight:        72,
	}
}

// QuoteResult holds the estimate for every paper of every product.
type QuoteResult struct {
	Results []PerPaperResult `json:"results"`
	Errors  []ProductError   `json:"errors,omitempty"`
}

// ProductError is a validation failure of one product.
type ProductError struct {
	ProductID string `json:"product_id"`
	Message   string `json:"message"`
}

// Total returns the sum of all feasible result totals.
func (q QuoteResult) Total() float64 {
	var total float64
	for _, r := range q.Results {
		if r.Feasible {
			total += r.Total
		}
	}
	return total
}

// Feasible returns the results that have a layout.
func (q QuoteResult) Feasible() []PerPaperResult {
	var out []PerPaperResult
	for _, r := range q.Results {
		if r.Feasible {
			out = append(out, r)
		}
	}
	return out
}

// Infeasible returns the results that could not be laid out.
func (q QuoteResult) Infeasible() []PerPaperResult {
	var out []PerPaperResult
	for _, r := range q.Results {
		if !r.Feasible {
			out = append(out, r)
		}
	}
	return out
}

// Quote ties products and settings together for save/load.
type Quote struct {
	Name      string       `json:"name"`
	Client    string       `json:"client,omitempty"`
	Products  []Product    `json:"products"`
	Settings  Settings     `json:"settings"`
	Overrides []OverrideAt `json:"overrides,omitempty"`
	Result    *QuoteResult `json:"result,omitempty"`
}

func NewQuote() Quote {
	return Quote{
		Name:     "Untitled",
		Products: []Product{},
		Settings: DefaultSettings(),
	}
}
