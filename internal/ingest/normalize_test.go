package ingest

import (
	"math"
	"testing"
	"time"

	"github.com/verdin/denom/internal/core"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalize_SortsAndDedupes(t *testing.T) {
	rows := []core.Observation{
		{Date: day(2020, 1, 1), Price: 3},
		{Date: day(2000, 1, 1), Price: 1},
		{Date: day(2020, 1, 1), Price: 99}, // duplicate date, first wins
		{Date: day(2010, 1, 1), Price: 2},
	}

	s := Normalize("gold", rows, false)
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	obs := s.Observations()
	for i := 1; i < len(obs); i++ {
		if !obs[i-1].Date.Before(obs[i].Date) {
			t.Fatal("observations not strictly ascending")
		}
	}
	last, _ := s.Last()
	if last.Price != 3 {
		t.Errorf("duplicate resolution kept %f, want first-seen 3", last.Price)
	}
}

func TestNormalize_DiscardsBadRows(t *testing.T) {
	rows := []core.Observation{
		{Price: 10},                                  // zero date
		{Date: day(2020, 1, 1)},                      // no values at all
		{Date: day(2020, 2, 1), Price: math.NaN()},   // NaN cleared, row empty
		{Date: day(2020, 3, 1), Price: math.Inf(1)},  // Inf cleared, row empty
		{Date: day(2020, 4, 1), Price: -5},           // negative cleared, row empty
		{Date: day(2020, 5, 1), Price: 42},           // kept
		{Date: day(2020, 6, 1), CAPE: 30, CPI: -1},   // CPI cleared, row kept on CAPE
	}

	s := Normalize("test", rows, false)
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	last, _ := s.Last()
	if last.CAPE != 30 || last.CPI != 0 {
		t.Errorf("partial row = %+v", last)
	}
}

func TestNormalize_Bounded(t *testing.T) {
	s := Normalize("bitcoin", []core.Observation{{Date: day(2013, 4, 28), Price: 135}}, true)
	if !s.Bounded() {
		t.Error("bounded flag not propagated")
	}
}
