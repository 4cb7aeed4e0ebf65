// Package inflation converts values between nominal and real (inflation
// adjusted) USD against the session's fixed base price level.
package inflation

import (
	"time"

	"github.com/verdin/denom/internal/series"
)

// Normalizer converts between nominal and real values. ToReal and ToNominal
// are exact inverses for the same date and base level.
type Normalizer struct {
	base  float64
	stock *series.Series
}

// New creates a normalizer anchored on the store's base level and its
// stock series, whose CPI field is the reference price-level index.
func New(base float64, stock *series.Series) *Normalizer {
	if base <= 0 {
		base = 1
	}
	return &Normalizer{base: base, stock: stock}
}

// Base returns the fixed reference price level.
func (n *Normalizer) Base() float64 { return n.base }

// ToReal converts a nominal value observed at date d into base-level USD.
func (n *Normalizer) ToReal(v float64, d time.Time) float64 {
	return v * (n.base / n.levelAt(d))
}

// ToNominal converts a real (base-level) value back into the USD of date d.
func (n *Normalizer) ToNominal(v float64, d time.Time) float64 {
	return v * (n.levelAt(d) / n.base)
}

// levelAt resolves the price level nearest to d. When no level is available
// the base itself is used, turning the conversion into a no-op.
func (n *Normalizer) levelAt(d time.Time) float64 {
	if n.stock == nil {
		return n.base
	}
	obs, ok := n.stock.Lookup(d)
	if !ok || obs.CPI <= 0 {
		return n.base
	}
	return obs.CPI
}
