package ingest

import (
	"context"
	"sync"

	"github.com/verdin/denom/internal/core"
	"github.com/verdin/denom/internal/metrics"
	"github.com/verdin/denom/internal/series"
)

// Registry maps builtin assets to their sources and caches lazily-fetched
// ticker series for the remainder of the session.
type Registry struct {
	mu      sync.Mutex
	builtin map[core.Builtin]Source
	tickers TickerSource
	cache   map[string]*tickerResult
	metrics *metrics.Registry
}

// tickerResult memoizes one fetch outcome. Errors are cached too: a failed
// source is terminal for the session and is not retried automatically.
type tickerResult struct {
	once   sync.Once
	series *series.Series
	err    error
}

// NewRegistry creates an empty source registry. The metrics registry may be
// nil.
func NewRegistry(m *metrics.Registry) *Registry {
	return &Registry{
		builtin: make(map[core.Builtin]Source),
		cache:   make(map[string]*tickerResult),
		metrics: m,
	}
}

// Register binds a builtin asset to its source.
func (r *Registry) Register(b core.Builtin, src Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builtin[b] = src
}

// SetTickerSource installs the source used for custom ticker symbols.
func (r *Registry) SetTickerSource(src TickerSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickers = src
}

// Builtins returns the registered builtin bindings.
func (r *Registry) Builtins() map[core.Builtin]Source {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[core.Builtin]Source, len(r.builtin))
	for k, v := range r.builtin {
		out[k] = v
	}
	return out
}

// Ticker fetches a custom ticker series at most once per session. Repeated
// requests for the same symbol return the cached result without a network
// call, whether it succeeded or failed.
func (r *Registry) Ticker(ctx context.Context, symbol string) (*series.Series, error) {
	r.mu.Lock()
	if r.tickers == nil {
		r.mu.Unlock()
		return nil, core.WrapError(core.ErrSourceFailed, nil)
	}
	res, ok := r.cache[symbol]
	if !ok {
		res = &tickerResult{}
		r.cache[symbol] = res
	}
	src := r.tickers
	r.mu.Unlock()

	fetched := false
	res.once.Do(func() {
		fetched = true
		s, err := src.FetchTicker(ctx, symbol)
		if err != nil {
			res.err = core.WrapError(core.ErrSourceFailed, err)
			return
		}
		res.series = s
	})

	// A hit is a lookup served from a completed successful fetch; lookups
	// that fetch, wait out a fetch, or land on a cached error count as
	// misses so the hit ratio reflects work actually saved.
	if r.metrics != nil {
		r.metrics.RecordTickerCache(!fetched && res.err == nil)
	}
	return res.series, res.err
}

// Ensure fetches any referenced custom tickers not yet present in the store
// and registers them there. Builtin references pass through untouched, so
// callers can hand over every reference in a request without filtering.
func (r *Registry) Ensure(ctx context.Context, store *series.Store, refs ...core.AssetRef) error {
	for _, ref := range refs {
		if !ref.IsTicker() {
			continue
		}
		if _, ok := store.Series(ref); ok {
			continue
		}
		s, err := r.Ticker(ctx, ref.Ticker())
		if err != nil {
			return err
		}
		store.Put(ref.Ticker(), s)
	}
	return nil
}
