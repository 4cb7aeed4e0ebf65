// Package returns computes investment returns between two dates for an
// asset/denominator pair: multiplier, dollar outcome, and annualized (CAGR)
// return.
package returns

import (
	"math"
	"time"

	"github.com/verdin/denom/internal/core"
	"github.com/verdin/denom/internal/valuation"
)

const daysPerYear = 365.25

// Result holds a computed return. FinalValue and TotalReturn are meaningful
// only when HasPrincipal is true.
type Result struct {
	Asset       string    `json:"asset"`
	Denominator string    `json:"denominator"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	StartValue  float64   `json:"start_value"`
	EndValue    float64   `json:"end_value"`

	Multiplier    float64 `json:"multiplier"`
	ReturnPct     float64 `json:"return_pct"`
	AnnualizedPct float64 `json:"annualized_pct"`
	Years         float64 `json:"years"`

	HasPrincipal bool    `json:"has_principal"`
	Principal    float64 `json:"principal,omitempty"`
	FinalValue   float64 `json:"final_value,omitempty"`
	TotalReturn  float64 `json:"total_return,omitempty"`
}

// Compute valuates the first and last observations inside [start, end] and
// derives the return figures. The endpoints are the nearest observations
// within the range, not necessarily at its boundaries.
func Compute(e *valuation.Engine, asset core.AssetRef, denom core.DenominatorSpec, start, end time.Time, principal float64) (*Result, error) {
	s, ok := e.Store().Series(asset)
	if !ok {
		return nil, core.WrapError(core.ErrSeriesNotFound, nil)
	}

	window := s.Range(start, end)
	if len(window) < 2 {
		return nil, core.ErrInsufficientRange
	}
	startObs := window[0]
	endObs := window[len(window)-1]

	startValue, ok1 := e.Valuate(asset, startObs, denom)
	endValue, ok2 := e.Valuate(asset, endObs, denom)
	if !ok1 || !ok2 || !positiveFinite(startValue) || !positiveFinite(endValue) {
		return nil, core.ErrInvalidPrice
	}

	multiplier := endValue / startValue
	years := endObs.Date.Sub(startObs.Date).Hours() / 24 / daysPerYear

	res := &Result{
		Asset:         asset.Key(),
		Denominator:   denom.Key(),
		StartDate:     startObs.Date,
		EndDate:       endObs.Date,
		StartValue:    startValue,
		EndValue:      endValue,
		Multiplier:    multiplier,
		ReturnPct:     (multiplier - 1) * 100,
		AnnualizedPct: annualize(multiplier, years),
		Years:         years,
	}

	if principal > 0 {
		res.HasPrincipal = true
		res.Principal = principal
		res.FinalValue = principal * multiplier
		res.TotalReturn = res.FinalValue - principal
	}
	return res, nil
}

// annualize converts a total multiplier over a span of years into a compound
// annual growth rate in percent. Zero or negative elapsed time yields
// exactly 0.
func annualize(multiplier, years float64) float64 {
	if years <= 0 {
		return 0
	}
	return (math.Pow(multiplier, 1/years) - 1) * 100
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
