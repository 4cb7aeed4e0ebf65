package series

import (
	"time"

	"github.com/verdin/denom/internal/core"
)

// InceptionTolerance is how far before a bounded series' first observation a
// lookup target may fall and still match that first observation.
const InceptionTolerance = 30 * 24 * time.Hour

// Series is an immutable, date-ascending sequence of observations for one
// asset source. It is built once by ingestion and never mutated by valuation.
type Series struct {
	name    string
	obs     []core.Observation
	bounded bool
}

// New creates a series from already-normalized observations. The slice must be
// sorted ascending by date with unique dates; ingestion owns that guarantee.
func New(name string, obs []core.Observation) *Series {
	return &Series{name: name, obs: obs}
}

// NewBounded creates a series for an asset with a real-world inception date
// (Bitcoin, custom tickers). Lookups targeting more than InceptionTolerance
// before the first observation report no data instead of extrapolating.
func NewBounded(name string, obs []core.Observation) *Series {
	return &Series{name: name, obs: obs, bounded: true}
}

// Name returns the source name the series was built from.
func (s *Series) Name() string { return s.name }

// Len returns the number of observations.
func (s *Series) Len() int { return len(s.obs) }

// Bounded reports whether the inception tolerance applies.
func (s *Series) Bounded() bool { return s.bounded }

// Observations returns the underlying observations. Callers must not mutate.
func (s *Series) Observations() []core.Observation { return s.obs }

// First returns the earliest observation.
func (s *Series) First() (core.Observation, bool) {
	if len(s.obs) == 0 {
		return core.Observation{}, false
	}
	return s.obs[0], true
}

// Last returns the most recent observation.
func (s *Series) Last() (core.Observation, bool) {
	if len(s.obs) == 0 {
		return core.Observation{}, false
	}
	return s.obs[len(s.obs)-1], true
}

// Lookup returns the observation closest to target by absolute time distance.
// Ties go to the earlier observation: the scan runs in date order and a later
// observation replaces the candidate only when strictly closer. Distance from
// the target is never a reason to miss, except for bounded series where a
// target more than InceptionTolerance before the first observation returns
// false rather than an economically meaningless match.
func (s *Series) Lookup(target time.Time) (core.Observation, bool) {
	if len(s.obs) == 0 {
		return core.Observation{}, false
	}
	if s.bounded && s.obs[0].Date.Sub(target) > InceptionTolerance {
		return core.Observation{}, false
	}

	best := s.obs[0]
	bestDist := absDuration(best.Date.Sub(target))
	for _, o := range s.obs[1:] {
		d := absDuration(o.Date.Sub(target))
		if d < bestDist {
			best = o
			bestDist = d
		}
	}
	return best, true
}

// Range returns the observations with dates in [start, end] inclusive.
func (s *Series) Range(start, end time.Time) []core.Observation {
	var out []core.Observation
	for _, o := range s.obs {
		if o.Date.Before(start) || o.Date.After(end) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
