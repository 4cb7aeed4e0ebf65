package ingest

import (
	"math"
	"sort"

	"github.com/verdin/denom/internal/core"
	"github.com/verdin/denom/internal/series"
)

// Normalize turns raw parsed rows into a store-ready series: non-finite and
// negative values are cleared, rows without any usable value are discarded,
// observations are sorted ascending and deduplicated by date (first wins).
func Normalize(name string, rows []core.Observation, bounded bool) *series.Series {
	clean := make([]core.Observation, 0, len(rows))
	for _, r := range rows {
		if r.Date.IsZero() {
			continue
		}
		r.SP500 = sanitize(r.SP500)
		r.CAPE = sanitize(r.CAPE)
		r.Dividend = sanitize(r.Dividend)
		r.Earnings = sanitize(r.Earnings)
		r.CPI = sanitize(r.CPI)
		r.RealPrice = sanitize(r.RealPrice)
		r.BuildingCost = sanitize(r.BuildingCost)
		r.Price = sanitize(r.Price)
		if r.SP500 == 0 && r.CAPE == 0 && r.RealPrice == 0 && r.Price == 0 {
			continue
		}
		clean = append(clean, r)
	}

	sort.SliceStable(clean, func(i, j int) bool {
		return clean[i].Date.Before(clean[j].Date)
	})

	deduped := clean[:0]
	for _, r := range clean {
		if len(deduped) > 0 && r.Date.Equal(deduped[len(deduped)-1].Date) {
			continue
		}
		deduped = append(deduped, r)
	}

	if bounded {
		return series.NewBounded(name, deduped)
	}
	return series.New(name, deduped)
}

// sanitize clears values that cannot be a price or level.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
