package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/piwi3910/PrintQuote/internal/model"
)

// DefaultMemoEntries bounds each memo table when no size is configured.
const DefaultMemoEntries = 4096

// Memo caches layout and product results across estimates. Identical
// concurrent product computations are collapsed into one. Each table is
// cleared once it reaches its bound. A nil *Memo computes everything
// directly.
type Memo struct {
	maxEntries int

	mu       sync.Mutex
	layouts  map[layoutKey]model.LayoutResult
	products map[string][]model.PerPaperResult
	stats    MemoStats

	group singleflight.Group
}

// MemoStats counts lookups for diagnostics.
type MemoStats struct {
	LayoutHits    int `json:"layout_hits"`
	LayoutMisses  int `json:"layout_misses"`
	ProductHits   int `json:"product_hits"`
	ProductMisses int `json:"product_misses"`
}

type layoutKey struct {
	sheet       model.PieceSpec
	piece       model.PieceSpec
	margins     model.Margins
	orientation model.Orientation
}

// NewMemo creates a memo holding at most maxEntries per table. A
// non-positive size uses DefaultMemoEntries.
func NewMemo(maxEntries int) *Memo {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoEntries
	}
	return &Memo{
		maxEntries: maxEntries,
		layouts:    make(map[layoutKey]model.LayoutResult),
		products:   make(map[string][]model.PerPaperResult),
	}
}

// oriented is the memoized form of layoutOriented.
func (m *Memo) oriented(sheet, piece model.PieceSpec, margins model.Margins, o model.Orientation) model.LayoutResult {
	if m == nil {
		return layoutOriented(sheet, piece, margins, o)
	}
	k := layoutKey{sheet: sheet, piece: piece, margins: margins, orientation: o}

	m.mu.Lock()
	if l, ok := m.layouts[k]; ok {
		m.stats.LayoutHits++
		m.mu.Unlock()
		return l
	}
	m.stats.LayoutMisses++
	m.mu.Unlock()

	l := layoutOriented(sheet, piece, margins, o)

	m.mu.Lock()
	if len(m.layouts) >= m.maxEntries {
		m.layouts = make(map[layoutKey]model.LayoutResult)
	}
	m.layouts[k] = l
	m.mu.Unlock()
	return l
}

// Layout is the memoized LayoutWith.
func (m *Memo) Layout(sheet, piece model.PieceSpec, margins model.Margins, allowRotate bool) model.LayoutResult {
	return bestOrientation(m.oriented)(sheet, piece, margins, allowRotate)
}

// Product returns the cached results for key or runs compute once for all
// concurrent callers asking for the same key. Errors are not cached.
func (m *Memo) Product(key string, compute func() ([]model.PerPaperResult, error)) ([]model.PerPaperResult, error) {
	if m == nil {
		return compute()
	}

	m.mu.Lock()
	if rs, ok := m.products[key]; ok {
		m.stats.ProductHits++
		m.mu.Unlock()
		return copyResults(rs), nil
	}
	m.stats.ProductMisses++
	m.mu.Unlock()

	v, err, _ := m.group.Do(key, func() (interface{}, error) {
		rs, err := compute()
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		if len(m.products) >= m.maxEntries {
			m.products = make(map[string][]model.PerPaperResult)
		}
		m.products[key] = rs
		m.mu.Unlock()
		return rs, nil
	})
	if err != nil {
		return nil, err
	}
	return copyResults(v.([]model.PerPaperResult)), nil
}

// Stats returns a snapshot of the lookup counters.
func (m *Memo) Stats() MemoStats {
	if m == nil {
		return MemoStats{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Len returns the number of cached layouts and products.
func (m *Memo) Len() (layouts, products int) {
	if m == nil {
		return 0, 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.layouts), len(m.products)
}

// Reset drops every cached entry.
func (m *Memo) Reset() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.layouts = make(map[layoutKey]model.LayoutResult)
	m.products = make(map[string][]model.PerPaperResult)
	m.stats = MemoStats{}
	m.mu.Unlock()
}

// productKeyInput is everything a product estimate depends on.
type productKeyInput struct {
	Product    model.Product          `json:"product"`
	Prices     []resolvedPrice        `json:"prices"`
	Settings   model.Settings         `json:"settings"`
	Candidates []model.SheetCandidate `json:"candidates"`
}

// productKey hashes a product together with its resolved paper prices,
// the settings and the candidate catalog. Candidate IDs are ignored so
// equal catalogs loaded twice share entries.
func productKey(p model.Product, prices []resolvedPrice, s model.Settings, candidates []model.SheetCandidate) string {
	cands := make([]model.SheetCandidate, len(candidates))
	for i, c := range candidates {
		c.ID = ""
		cands[i] = c
	}
	data, err := json.Marshal(productKeyInput{Product: p, Prices: prices, Settings: s, Candidates: cands})
	if err != nil {
		// NaN or Inf inputs; such products fail validation before this.
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func copyResults(rs []model.PerPaperResult) []model.PerPaperResult {
	out := make([]model.PerPaperResult, len(rs))
	copy(out, rs)
	return out
}
