package engine

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PrintQuote/internal/model"
)

func TestMemo_LayoutMatchesDirect(t *testing.T) {
	memo := NewMemo(10)
	sheet := model.PieceSpec{Width: 100, Height: 70}
	piece := model.PieceSpec{Width: 9, Height: 5.5}
	m := model.Margins{Gripper: 0.9, Gap: 0.5, Bleed: 0.3}

	direct := LayoutWith(sheet, piece, m, true)
	first := memo.Layout(sheet, piece, m, true)
	second := memo.Layout(sheet, piece, m, true)

	assert.Equal(t, direct, first)
	assert.Equal(t, direct, second)

	stats := memo.Stats()
	assert.Equal(t, 2, stats.LayoutMisses, "one miss per orientation")
	assert.Equal(t, 2, stats.LayoutHits)
}

func TestMemo_NilComputesDirectly(t *testing.T) {
	var memo *Memo
	sheet := model.PieceSpec{Width: 48, Height: 33}
	piece := model.PieceSpec{Width: 9, Height: 5.5}

	assert.Equal(t, LayoutWith(sheet, piece, model.Margins{}, true), memo.Layout(sheet, piece, model.Margins{}, true))

	calls := 0
	_, err := memo.Product("k", func() ([]model.PerPaperResult, error) {
		calls++
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, MemoStats{}, memo.Stats())
}

func TestMemo_BoundClearsTable(t *testing.T) {
	memo := NewMemo(2)
	sheet := model.PieceSpec{Width: 100, Height: 70}

	for i := 1; i <= 3; i++ {
		memo.Layout(sheet, model.PieceSpec{Width: float64(i), Height: 1}, model.Margins{}, false)
	}

	layouts, _ := memo.Len()
	assert.LessOrEqual(t, layouts, 2)
}

func TestMemo_ProductErrorsNotCached(t *testing.T) {
	memo := NewMemo(10)
	boom := errors.New("boom")

	calls := 0
	compute := func() ([]model.PerPaperResult, error) {
		calls++
		return nil, boom
	}

	_, err := memo.Product("k", compute)
	assert.ErrorIs(t, err, boom)
	_, err = memo.Product("k", compute)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)

	_, products := memo.Len()
	assert.Equal(t, 0, products)
}

func TestMemo_ProductReturnsCopies(t *testing.T) {
	memo := NewMemo(10)
	compute := func() ([]model.PerPaperResult, error) {
		return []model.PerPaperResult{{ProductName: "a"}}, nil
	}

	first, err := memo.Product("k", compute)
	require.NoError(t, err)
	first[0].ProductName = "mutated"

	second, err := memo.Product("k", compute)
	require.NoError(t, err)
	assert.Equal(t, "a", second[0].ProductName)
}

func TestMemo_ConcurrentProduct(t *testing.T) {
	memo := NewMemo(10)
	var calls atomic.Int32
	compute := func() ([]model.PerPaperResult, error) {
		calls.Add(1)
		return []model.PerPaperResult{{ProductName: "card", Total: 42}}, nil
	}

	var wg sync.WaitGroup
	results := make([][]model.PerPaperResult, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rs, err := memo.Product("same", compute)
			assert.NoError(t, err)
			results[i] = rs
		}(i)
	}
	wg.Wait()

	for _, rs := range results {
		require.Len(t, rs, 1)
		assert.Equal(t, 42.0, rs[0].Total)
	}
	assert.GreaterOrEqual(t, calls.Load(), int32(1))

	// Once settled every lookup is a hit.
	before := calls.Load()
	_, err := memo.Product("same", compute)
	require.NoError(t, err)
	assert.Equal(t, before, calls.Load())
}

func TestMemo_Reset(t *testing.T) {
	memo := NewMemo(10)
	memo.Layout(model.PieceSpec{Width: 10, Height: 10}, model.PieceSpec{Width: 1, Height: 1}, model.Margins{}, true)
	memo.Reset()

	layouts, products := memo.Len()
	assert.Zero(t, layouts)
	assert.Zero(t, products)
	assert.Equal(t, MemoStats{}, memo.Stats())
}

func TestProductKey_SensitiveToInputs(t *testing.T) {
	s := model.DefaultSettings()
	cands := model.StandardCandidates()
	p := cardProduct()
	prices := []resolvedPrice{{Price: 0.5, Source: model.PriceExplicit}}

	base := productKey(p, prices, s, cands)
	assert.NotEmpty(t, base)
	assert.Equal(t, base, productKey(p, prices, s, model.StandardCandidates()), "candidate IDs are ignored")

	changed := p
	changed.Quantity++
	assert.NotEqual(t, base, productKey(changed, prices, s, cands))

	s2 := s
	s2.PlateCost++
	assert.NotEqual(t, base, productKey(p, prices, s2, cands))

	assert.NotEqual(t, base, productKey(p, []resolvedPrice{{Price: 0.6, Source: model.PriceExplicit}}, s, cands))
}
