package series

import (
	"sync"

	"github.com/verdin/denom/internal/core"
)

// Store holds the fully-ingested series for a session. Builtin series are
// frozen at construction; custom tickers are added later through Put, which is
// the only mutation path. The base price level is fixed exactly once, at
// construction, from the most recent stock observation. Recomputing it
// mid-session would retroactively change every previously displayed ratio.
type Store struct {
	builtin   map[core.Builtin]*Series
	baseLevel float64

	mu      sync.RWMutex
	tickers map[string]*Series
}

// NewStore builds a store from the ingested builtin series. The stock series
// is required: it carries the price-level index every conversion anchors on.
func NewStore(builtin map[core.Builtin]*Series) (*Store, error) {
	stock, ok := builtin[core.BuiltinCAPE]
	if !ok || stock.Len() == 0 {
		return nil, core.ErrSeriesNotFound
	}
	last, _ := stock.Last()
	base := last.CPI
	if base <= 0 {
		base = 1 // degenerate index; conversions become identity
	}

	m := make(map[core.Builtin]*Series, len(builtin)+1)
	for k, s := range builtin {
		m[k] = s
	}
	// CAPE and S&P 500 are two views of the same stock series.
	if _, ok := m[core.BuiltinSP500]; !ok {
		m[core.BuiltinSP500] = stock
	}

	return &Store{
		builtin:   m,
		baseLevel: base,
		tickers:   make(map[string]*Series),
	}, nil
}

// BaseLevel returns the session's fixed reference price level.
func (st *Store) BaseLevel() float64 { return st.baseLevel }

// Stock returns the stock/CAPE series carrying the price-level index.
func (st *Store) Stock() *Series { return st.builtin[core.BuiltinCAPE] }

// Series resolves an asset reference to its series.
func (st *Store) Series(ref core.AssetRef) (*Series, bool) {
	if ref.IsTicker() {
		st.mu.RLock()
		defer st.mu.RUnlock()
		s, ok := st.tickers[ref.Ticker()]
		return s, ok
	}
	s, ok := st.builtin[ref.Builtin()]
	return s, ok
}

// Put registers a lazily-fetched custom ticker series. Re-registering the
// same symbol is a no-op so a cached series is never replaced mid-session.
func (st *Store) Put(symbol string, s *Series) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.tickers[symbol]; ok {
		return
	}
	st.tickers[symbol] = s
}

// Tickers returns the symbols loaded so far.
func (st *Store) Tickers() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]string, 0, len(st.tickers))
	for sym := range st.tickers {
		out = append(out, sym)
	}
	return out
}
