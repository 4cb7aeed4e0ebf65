package ingest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/verdin/denom/internal/core"
	"github.com/verdin/denom/internal/metrics"
	"github.com/verdin/denom/internal/series"
)

// countingTickerSource records how many network fetches actually happen.
type countingTickerSource struct {
	calls atomic.Int64
	fail  bool
}

func (c *countingTickerSource) Name() string { return "counting" }

func (c *countingTickerSource) FetchTicker(ctx context.Context, symbol string) (*series.Series, error) {
	c.calls.Add(1)
	if c.fail {
		return nil, errors.New("boom")
	}
	return series.NewBounded("ticker:"+symbol, []core.Observation{
		{Date: day(2015, 1, 1), Price: 100},
	}), nil
}

func TestTicker_FetchedAtMostOnce(t *testing.T) {
	src := &countingTickerSource{}
	r := NewRegistry(nil)
	r.SetTickerSource(src)

	first, err := r.Ticker(context.Background(), "VTI")
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Ticker(context.Background(), "VTI")
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Error("repeated requests should return the cached series")
	}
	if got := src.calls.Load(); got != 1 {
		t.Errorf("fetch calls = %d, want 1", got)
	}

	// A different symbol triggers its own fetch.
	if _, err := r.Ticker(context.Background(), "GLD"); err != nil {
		t.Fatal(err)
	}
	if got := src.calls.Load(); got != 2 {
		t.Errorf("fetch calls = %d, want 2", got)
	}
}

func TestTicker_ErrorsAreCachedToo(t *testing.T) {
	src := &countingTickerSource{fail: true}
	r := NewRegistry(nil)
	r.SetTickerSource(src)

	_, err1 := r.Ticker(context.Background(), "VTI")
	_, err2 := r.Ticker(context.Background(), "VTI")

	if !errors.Is(err1, core.ErrSourceFailed) || !errors.Is(err2, core.ErrSourceFailed) {
		t.Errorf("errors = %v, %v", err1, err2)
	}
	if got := src.calls.Load(); got != 1 {
		t.Errorf("failed fetch should not be retried, calls = %d", got)
	}
}

func TestTicker_ConcurrentRequestsSingleFetch(t *testing.T) {
	src := &countingTickerSource{}
	r := NewRegistry(nil)
	r.SetTickerSource(src)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Ticker(context.Background(), "VTI")
		}()
	}
	wg.Wait()

	if got := src.calls.Load(); got != 1 {
		t.Errorf("fetch calls = %d, want 1", got)
	}
}

func TestTicker_NoSourceConfigured(t *testing.T) {
	r := NewRegistry(nil)
	if _, err := r.Ticker(context.Background(), "VTI"); !errors.Is(err, core.ErrSourceFailed) {
		t.Errorf("expected ErrSourceFailed, got %v", err)
	}
}

func tickerCacheCount(t *testing.T, m *metrics.Registry, result string) float64 {
	t.Helper()
	families, err := m.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		if mf.GetName() != "denom_ticker_cache_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "result" && l.GetValue() == result {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestTicker_HitCountsOnlySavedFetches(t *testing.T) {
	m := metrics.NewRegistry()
	r := NewRegistry(m)
	r.SetTickerSource(&countingTickerSource{})

	// First lookup fetches, second is served from cache.
	r.Ticker(context.Background(), "VTI")
	r.Ticker(context.Background(), "VTI")

	if got := tickerCacheCount(t, m, "hit"); got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}
	if got := tickerCacheCount(t, m, "miss"); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
}

func TestTicker_CachedErrorIsNotAHit(t *testing.T) {
	m := metrics.NewRegistry()
	r := NewRegistry(m)
	r.SetTickerSource(&countingTickerSource{fail: true})

	r.Ticker(context.Background(), "VTI")
	r.Ticker(context.Background(), "VTI")

	if got := tickerCacheCount(t, m, "hit"); got != 0 {
		t.Errorf("hits = %v, want 0", got)
	}
	if got := tickerCacheCount(t, m, "miss"); got != 2 {
		t.Errorf("misses = %v, want 2", got)
	}
}

func ensureStore(t *testing.T) *series.Store {
	t.Helper()
	store, err := series.NewStore(map[core.Builtin]*series.Series{
		core.BuiltinCAPE: series.New("shiller", []core.Observation{
			{Date: day(2000, 1, 1), CAPE: 43, CPI: 169},
		}),
	})
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestEnsure_FetchesMissingTickers(t *testing.T) {
	src := &countingTickerSource{}
	r := NewRegistry(nil)
	r.SetTickerSource(src)
	store := ensureStore(t)

	asset := core.TickerRef("VTI")
	err := r.Ensure(context.Background(), store, asset, core.BuiltinRef(core.BuiltinCAPE))
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := store.Series(asset); !ok {
		t.Error("ticker series not registered in store")
	}
	if got := src.calls.Load(); got != 1 {
		t.Errorf("fetch calls = %d, want 1", got)
	}

	// Already-present tickers are not refetched.
	if err := r.Ensure(context.Background(), store, asset); err != nil {
		t.Fatal(err)
	}
	if got := src.calls.Load(); got != 1 {
		t.Errorf("fetch calls after re-ensure = %d, want 1", got)
	}
}

func TestEnsure_PropagatesFetchFailure(t *testing.T) {
	r := NewRegistry(nil)
	r.SetTickerSource(&countingTickerSource{fail: true})
	store := ensureStore(t)

	err := r.Ensure(context.Background(), store, core.TickerRef("VTI"))
	if !errors.Is(err, core.ErrSourceFailed) {
		t.Errorf("expected ErrSourceFailed, got %v", err)
	}
	if _, ok := store.Series(core.TickerRef("VTI")); ok {
		t.Error("failed ticker must not be registered")
	}
}
