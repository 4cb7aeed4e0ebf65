package job

import (
	"errors"
	"testing"
	"time"

	"github.com/verdin/denom/internal/core"
)

func TestCreateAndGet(t *testing.T) {
	s := NewStore(10, time.Hour)

	j := s.Create("ticker_load")
	if j.ID == "" {
		t.Fatal("expected non-empty ID")
	}
	if j.Status != StatusPending {
		t.Errorf("status = %s", j.Status)
	}

	got, err := s.Get(j.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != j.ID || got.Type != "ticker_load" {
		t.Errorf("got %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := NewStore(10, time.Hour)
	_, err := s.Get("nope")
	if !errors.Is(err, core.ErrJobNotFound) {
		t.Errorf("got %v, want ErrJobNotFound", err)
	}
}

func TestUpdate(t *testing.T) {
	s := NewStore(10, time.Hour)
	j := s.Create("ticker_load")

	err := s.Update(j.ID, func(j *Job) {
		j.Status = StatusComplete
		j.Result = "done"
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := s.Get(j.ID)
	if got.Status != StatusComplete {
		t.Errorf("status = %s", got.Status)
	}
	if !got.UpdatedAt.After(got.CreatedAt) && !got.UpdatedAt.Equal(got.CreatedAt) {
		t.Error("UpdatedAt not advanced")
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	s := NewStore(10, time.Hour)
	j := s.Create("ticker_load")

	got, _ := s.Get(j.ID)
	got.Status = StatusFailed

	again, _ := s.Get(j.ID)
	if again.Status != StatusPending {
		t.Error("Get should return a copy, not the stored job")
	}
}

func TestEviction(t *testing.T) {
	s := NewStore(2, time.Hour)
	first := s.Create("a")
	s.Create("b")
	s.Create("c")

	if _, err := s.Get(first.ID); !errors.Is(err, core.ErrJobNotFound) {
		t.Error("oldest job should be evicted at capacity")
	}
	if len(s.List()) != 2 {
		t.Errorf("got %d jobs, want 2", len(s.List()))
	}
}

func TestTTLPrune(t *testing.T) {
	s := NewStore(10, 10*time.Millisecond)
	old := s.Create("a")
	time.Sleep(20 * time.Millisecond)

	// Creation prunes expired jobs.
	s.Create("b")

	if _, err := s.Get(old.ID); !errors.Is(err, core.ErrJobNotFound) {
		t.Error("expired job should be pruned")
	}
}
