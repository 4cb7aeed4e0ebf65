// Package valuation computes scalar asset values in an arbitrary denominator:
// nominal USD, inflation-adjusted USD, or the real price of another asset.
package valuation

import (
	"time"

	"github.com/verdin/denom/internal/core"
	"github.com/verdin/denom/internal/inflation"
	"github.com/verdin/denom/internal/series"
	"go.uber.org/zap"
)

// Engine valuates observations against an immutable series store. All inputs
// are injected; the engine holds no mutable state of its own.
type Engine struct {
	store  *series.Store
	norm   *inflation.Normalizer
	logger *zap.Logger
}

// NewEngine creates a valuation engine over a fully-ingested store.
func NewEngine(store *series.Store, logger ...*zap.Logger) *Engine {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Engine{
		store:  store,
		norm:   inflation.New(store.BaseLevel(), store.Stock()),
		logger: l,
	}
}

// Normalizer exposes the engine's inflation normalizer.
func (e *Engine) Normalizer() *inflation.Normalizer { return e.norm }

// Store exposes the underlying series store.
func (e *Engine) Store() *series.Store { return e.store }

// Valuate computes the value of one observation of asset in the requested
// denominator. ok is false when the raw field is absent or the denominator
// cannot be resolved to a positive value; a missing point is dropped by the
// caller, it is never NaN, Inf, or an error.
func (e *Engine) Valuate(asset core.AssetRef, obs core.Observation, denom core.DenominatorSpec) (float64, bool) {
	raw, ok := obs.Raw(asset)
	if !ok {
		return 0, false
	}

	switch denom.Kind() {
	case core.DenomNominal:
		return e.nominal(asset, obs, raw), true
	case core.DenomReal:
		return e.real(asset, obs, raw), true
	default:
		return e.ratio(asset, obs, raw, denom.Asset())
	}
}

// nominal returns the observation's value in unadjusted USD.
func (e *Engine) nominal(asset core.AssetRef, obs core.Observation, raw float64) float64 {
	switch asset.Nature() {
	case core.NatureNominal:
		// Native form: no conversion.
		return raw
	case core.NatureReal:
		// Prefer the observation's own embedded price level over a
		// nearest-date lookup.
		if obs.CPI > 0 {
			return raw * (obs.CPI / e.norm.Base())
		}
		return e.norm.ToNominal(raw, obs.Date)
	default:
		// Unitless assets have no nominal form; the raw ratio stands.
		return raw
	}
}

// real returns the observation's value in base-level USD.
func (e *Engine) real(asset core.AssetRef, obs core.Observation, raw float64) float64 {
	if asset.Nature() == core.NatureNominal {
		return e.norm.ToReal(raw, obs.Date)
	}
	return raw
}

// ratio divides the asset's real value by the denominator asset's real value
// on the nearest matched date. Denominators always resolve through their real
// form so cross-asset ratios stay consistent over time.
func (e *Engine) ratio(asset core.AssetRef, obs core.Observation, raw float64, denomAsset core.AssetRef) (float64, bool) {
	numer := e.real(asset, obs, raw)

	s, ok := e.store.Series(denomAsset)
	if !ok {
		return 0, false
	}
	dObs, ok := s.Lookup(obs.Date)
	if !ok {
		return 0, false
	}
	dRaw, ok := dObs.Raw(denomAsset)
	if !ok {
		return 0, false
	}
	dReal := e.real(denomAsset, dObs, dRaw)
	if dReal <= 0 {
		return 0, false
	}
	return numer / dReal, true
}

// Points builds the chart series for an asset/denominator pair over the given
// range. Observations that do not valuate are dropped silently.
func (e *Engine) Points(asset core.AssetRef, denom core.DenominatorSpec, start, end time.Time) ([]core.Point, error) {
	s, ok := e.store.Series(asset)
	if !ok {
		return nil, core.WrapError(core.ErrSeriesNotFound, nil)
	}

	obs := s.Observations()
	if !start.IsZero() || !end.IsZero() {
		if end.IsZero() {
			end = time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)
		}
		obs = s.Range(start, end)
	}

	points := make([]core.Point, 0, len(obs))
	dropped := 0
	for _, o := range obs {
		v, ok := e.Valuate(asset, o, denom)
		if !ok {
			dropped++
			continue
		}
		points = append(points, core.Point{X: o.Date, Y: v})
	}

	if dropped > 0 {
		e.logger.Debug("dropped points without data",
			zap.String("asset", asset.Key()),
			zap.String("denominator", denom.Key()),
			zap.Int("dropped", dropped),
		)
	}
	return points, nil
}
