// Package stats derives the current-value summary and historical percentile
// rank of the CAPE/gold ratio.
package stats

import (
	"github.com/verdin/denom/internal/core"
	"github.com/verdin/denom/internal/valuation"
)

// Snapshot summarizes the current CAPE/real-gold ratio against its history.
// It is recomputed on demand and never persisted.
type Snapshot struct {
	CurrentCAPE  float64 `json:"current_cape"`
	CurrentGold  float64 `json:"current_gold_real"`
	CurrentRatio float64 `json:"current_ratio"`
	Percentile   float64 `json:"percentile"`
	StockCount   int     `json:"stock_observations"`
	RatioCount   int     `json:"ratio_observations"`
}

// Compute builds the snapshot from the engine's ingested series. It returns
// ErrStatsUnavailable instead of a partial result when the stock or gold
// series is missing or empty, or when the latest ratio does not resolve.
func Compute(e *valuation.Engine) (*Snapshot, error) {
	cape := core.BuiltinRef(core.BuiltinCAPE)
	gold := core.BuiltinRef(core.BuiltinGold)

	stock := e.Store().Stock()
	goldSeries, ok := e.Store().Series(gold)
	if stock == nil || stock.Len() == 0 || !ok || goldSeries.Len() == 0 {
		return nil, core.ErrStatsUnavailable
	}

	latest, _ := stock.Last()
	currentRatio, ok := e.Valuate(cape, latest, core.RatioTo(gold))
	if !ok {
		return nil, core.ErrStatsUnavailable
	}

	goldObs, _ := goldSeries.Lookup(latest.Date)
	goldRaw, _ := goldObs.Raw(gold)
	currentGold := e.Normalizer().ToReal(goldRaw, goldObs.Date)

	// Historical population: every stock observation's CAPE/real-gold ratio,
	// dropping dates where the gold lookup or either value fails.
	var ratios []float64
	for _, obs := range stock.Observations() {
		r, ok := e.Valuate(cape, obs, core.RatioTo(gold))
		if !ok {
			continue
		}
		ratios = append(ratios, r)
	}
	if len(ratios) == 0 {
		return nil, core.ErrStatsUnavailable
	}

	return &Snapshot{
		CurrentCAPE:  latest.CAPE,
		CurrentGold:  currentGold,
		CurrentRatio: currentRatio,
		Percentile:   Percentile(ratios, currentRatio),
		StockCount:   stock.Len(),
		RatioCount:   len(ratios),
	}, nil
}

// Percentile returns the share of population strictly less than value, as a
// percentage. The comparison is strict: entries equal to value do not count,
// so a value drawn from its own population caps below 100 even at an all-time
// high.
func Percentile(population []float64, value float64) float64 {
	if len(population) == 0 {
		return 0
	}
	below := 0
	for _, v := range population {
		if v < value {
			below++
		}
	}
	return 100 * float64(below) / float64(len(population))
}
