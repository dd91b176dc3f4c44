package engine

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/PrintQuote/internal/model"
)

// Estimator runs the per product, per paper pipeline: resolve the piece,
// resolve the price, then either the digital chooser or the offset cost
// selector. It holds no state between calls apart from the optional memo.
type Estimator struct {
	Settings   model.Settings
	Candidates []model.SheetCandidate

	lookup model.PriceLookup
	memo   *Memo
	log    *zap.Logger
}

// New creates an estimator. lookup may be nil when no catalog prices exist.
func New(settings model.Settings, candidates []model.SheetCandidate, lookup model.PriceLookup) *Estimator {
	return &Estimator{
		Settings:   settings,
		Candidates: candidates,
		lookup:     lookup,
		log:        zap.NewNop(),
	}
}

// WithMemo shares a memo between estimates.
func (e *Estimator) WithMemo(m *Memo) *Estimator {
	e.memo = m
	return e
}

// WithLogger sets the logger used for per-product diagnostics.
func (e *Estimator) WithLogger(l *zap.Logger) *Estimator {
	if l == nil {
		l = zap.NewNop()
	}
	e.log = l
	return e
}

// Memo returns the shared memo, or nil.
func (e *Estimator) Memo() *Memo {
	return e.memo
}

type resolvedPrice struct {
	Price  float64           `json:"price"`
	Source model.PriceSource `json:"source"`
}

// ResolvePrice picks the price per sheet of a paper: the paper's own price,
// then the catalog lookup, then the fallback constant.
func (e *Estimator) ResolvePrice(paper model.Paper) (float64, model.PriceSource) {
	if paper.PricePerSheet > 0 {
		return paper.PricePerSheet, model.PriceExplicit
	}
	if e.lookup != nil {
		if price, ok := e.lookup(paper.Name, paper.GSM); ok && price > 0 {
			return price, model.PriceCatalog
		}
	}
	fallback := e.Settings.FallbackPricePerSheet
	if fallback <= 0 {
		fallback = model.DefaultFallbackPricePerSheet
	}
	return fallback, model.PriceFallback
}

// EstimateProduct returns one result per paper of the product. Invalid
// products return an error wrapping model.ErrInvalidProduct; a piece that
// does not fit is reported as an infeasible result, not an error.
func (e *Estimator) EstimateProduct(p model.Product) ([]model.PerPaperResult, error) {
	job, err := model.ResolveJob(p, e.Settings)
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", p.Name, err)
	}

	prices := make([]resolvedPrice, len(p.Papers))
	for i, paper := range p.Papers {
		price, src := e.ResolvePrice(paper)
		prices[i] = resolvedPrice{Price: price, Source: src}
	}

	compute := func() ([]model.PerPaperResult, error) {
		return e.estimateJob(p, job, prices), nil
	}
	key := productKey(p, prices, e.Settings, e.Candidates)
	if key == "" {
		return compute()
	}
	return e.memo.Product(key, compute)
}

func (e *Estimator) estimateJob(p model.Product, job model.Job, prices []resolvedPrice) []model.PerPaperResult {
	results := make([]model.PerPaperResult, 0, len(p.Papers))
	for i, paper := range p.Papers {
		r := model.PerPaperResult{
			ProductID:     p.ID,
			ProductName:   p.Name,
			PaperIndex:    i,
			PaperName:     paper.Name,
			GSM:           paper.GSM,
			Method:        job.JobMethod(),
			Quantity:      p.Quantity,
			PricePerSheet: prices[i].Price,
			PriceSource:   prices[i].Source,
		}

		switch j := job.(type) {
		case model.DigitalJob:
			e.estimateDigital(j, prices[i].Price, &r)
		case model.OffsetJob:
			e.estimateOffset(j, prices[i].Price, &r)
		}

		if !r.Feasible {
			e.log.Debug("paper infeasible",
				zap.String("product", p.Name),
				zap.String("paper", paper.Name),
				zap.String("reason", r.Reason))
		}
		results = append(results, r)
	}
	return results
}

func (e *Estimator) estimateDigital(j model.DigitalJob, price float64, r *model.PerPaperResult) {
	opts := chooseDigital(j.Quantity, j.Piece, j.Sides, j.Colours, j.Sheet, j.AllowRotate, price, e.Settings, e.memo.oriented)
	best, ok := PickCheapestDigital(opts)
	if !ok {
		r.Layout = e.memo.Layout(j.Sheet, j.Piece, e.Settings.DigitalMargins, j.AllowRotate)
		r.Reason = fmt.Sprintf("piece %gx%g does not fit the %gx%g digital sheet",
			j.Piece.Width, j.Piece.Height, j.Sheet.Width, j.Sheet.Height)
		if r.Layout.Feasible() {
			r.Reason = "no digital option has a positive cost"
		}
		return
	}

	r.Feasible = true
	r.Layout = best.Layout
	r.Option = &best
	r.RecommendedSheets = best.ParentsNeeded
	r.Total = best.Total
}

func (e *Estimator) estimateOffset(j model.OffsetJob, price float64, r *model.PerPaperResult) {
	order := model.OrderParams{
		Quantity:      j.Quantity,
		Sides:         j.Sides,
		Colours:       j.Colours,
		PricePerSheet: price,
		Piece:         j.Piece,
		Margins:       e.Settings.OffsetMargins,
		AllowRotate:   j.AllowRotate,
	}
	rows := selectCheapest(order, e.Candidates, e.Settings, e.memo.Layout)
	best, ok := CheapestRow(rows)
	if !ok {
		r.Reason = fmt.Sprintf("piece %gx%g does not fit any catalog sheet", j.Piece.Width, j.Piece.Height)
		return
	}

	cand := best.Candidate
	r.Feasible = true
	r.Layout = best.Layout
	r.Candidate = &cand
	r.RecommendedSheets = best.Sheets
	r.PricePerSheet = best.PricePerSheet
	r.Total = best.Total
}

// OffsetRows exposes every priced candidate of an offset product paper,
// for comparison tables.
func (e *Estimator) OffsetRows(p model.Product, paperIndex int) ([]model.CostRow, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("product %q: %w", p.Name, err)
	}
	if paperIndex < 0 || paperIndex >= len(p.Papers) {
		return nil, fmt.Errorf("product %q has no paper %d", p.Name, paperIndex)
	}
	price, _ := e.ResolvePrice(p.Papers[paperIndex])
	order := model.OrderParams{
		Quantity:      p.Quantity,
		Sides:         p.Sides,
		Colours:       p.Colours,
		PricePerSheet: price,
		Piece:         p.Piece(),
		Margins:       e.Settings.OffsetMargins,
		AllowRotate:   p.AllowRotate,
	}
	return selectCheapest(order, e.Candidates, e.Settings, e.memo.Layout), nil
}

// DigitalOptions exposes every priced digital option of a product paper.
func (e *Estimator) DigitalOptions(p model.Product, paperIndex int) ([]model.DigitalOption, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("product %q: %w", p.Name, err)
	}
	if paperIndex < 0 || paperIndex >= len(p.Papers) {
		return nil, fmt.Errorf("product %q has no paper %d", p.Name, paperIndex)
	}
	price, _ := e.ResolvePrice(p.Papers[paperIndex])
	return chooseDigital(p.Quantity, p.Piece(), p.Sides, p.Colours, e.Settings.DigitalSheet,
		p.AllowRotate, price, e.Settings, e.memo.oriented), nil
}

// Estimate runs every product and collects the results in product order.
// Validation failures are reported per product in QuoteResult.Errors and
// do not stop the others. The only returned error is the context's.
func (e *Estimator) Estimate(ctx context.Context, products []model.Product) (model.QuoteResult, error) {
	perProduct := make([][]model.PerPaperResult, len(products))
	perError := make([]error, len(products))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range products {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			perProduct[i], perError[i] = e.EstimateProduct(products[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.QuoteResult{}, err
	}

	var out model.QuoteResult
	for i, p := range products {
		if perError[i] != nil {
			e.log.Warn("product rejected", zap.String("product", p.Name), zap.Error(perError[i]))
			out.Errors = append(out.Errors, model.ProductError{ProductID: p.ID, Message: perError[i].Error()})
			continue
		}
		out.Results = append(out.Results, perProduct[i]...)
	}
	e.log.Debug("estimate complete",
		zap.Int("products", len(products)),
		zap.Int("results", len(out.Results)),
		zap.Int("errors", len(out.Errors)))
	return out, nil
}
