package series

import (
	"testing"
	"time"

	"github.com/verdin/denom/internal/core"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func obsAt(dates ...time.Time) []core.Observation {
	out := make([]core.Observation, len(dates))
	for i, d := range dates {
		out[i] = core.Observation{Date: d, Price: float64(i + 1)}
	}
	return out
}

func TestLookup_Empty(t *testing.T) {
	s := New("gold", nil)
	if _, ok := s.Lookup(day(2020, 1, 1)); ok {
		t.Error("empty series should not resolve")
	}
}

func TestLookup_Exact(t *testing.T) {
	s := New("gold", obsAt(day(2020, 1, 1), day(2020, 2, 1)))
	got, ok := s.Lookup(day(2020, 2, 1))
	if !ok || !got.Date.Equal(day(2020, 2, 1)) {
		t.Errorf("Lookup = %v, %v", got.Date, ok)
	}
}

func TestLookup_TieBreaksEarlier(t *testing.T) {
	s := New("gold", obsAt(day(2020, 1, 1), day(2020, 1, 3)))

	// 2020-01-02 is equidistant: the earlier observation wins.
	got, ok := s.Lookup(day(2020, 1, 2))
	if !ok || !got.Date.Equal(day(2020, 1, 1)) {
		t.Errorf("tie should resolve to earlier date, got %v", got.Date)
	}

	// One second past midnight the later observation is strictly closer.
	got, ok = s.Lookup(day(2020, 1, 2).Add(time.Second))
	if !ok || !got.Date.Equal(day(2020, 1, 3)) {
		t.Errorf("strictly closer date should win, got %v", got.Date)
	}
}

func TestLookup_FarTargetStillResolves(t *testing.T) {
	// Unbounded series match however far the target is; callers needing a
	// distance cutoff check it themselves.
	s := New("gold", obsAt(day(1990, 1, 1)))
	got, ok := s.Lookup(day(1950, 1, 1))
	if !ok || !got.Date.Equal(day(1990, 1, 1)) {
		t.Error("unbounded series should resolve distant targets")
	}
}

func TestLookup_InceptionTolerance(t *testing.T) {
	s := NewBounded("bitcoin", obsAt(day(2015, 6, 1), day(2015, 7, 1)))

	if _, ok := s.Lookup(day(2015, 4, 1)); ok {
		t.Error("target >30d before inception should not resolve")
	}

	got, ok := s.Lookup(day(2015, 5, 15))
	if !ok || !got.Date.Equal(day(2015, 6, 1)) {
		t.Errorf("target within tolerance should resolve to first observation, got %v %v", got.Date, ok)
	}
}

func TestRange_Inclusive(t *testing.T) {
	s := New("gold", obsAt(day(2020, 1, 1), day(2020, 2, 1), day(2020, 3, 1)))
	got := s.Range(day(2020, 1, 1), day(2020, 2, 1))
	if len(got) != 2 {
		t.Fatalf("Range returned %d observations, want 2", len(got))
	}
	if !got[0].Date.Equal(day(2020, 1, 1)) || !got[1].Date.Equal(day(2020, 2, 1)) {
		t.Error("range boundaries should be inclusive")
	}
}

func TestFirstLast(t *testing.T) {
	s := New("gold", obsAt(day(2020, 1, 1), day(2020, 3, 1)))
	first, _ := s.First()
	last, _ := s.Last()
	if !first.Date.Equal(day(2020, 1, 1)) || !last.Date.Equal(day(2020, 3, 1)) {
		t.Error("First/Last mismatch")
	}
	if _, ok := New("empty", nil).Last(); ok {
		t.Error("empty series has no last observation")
	}
}
