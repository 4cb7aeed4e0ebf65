package ticker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/verdin/denom/internal/core"
)

func TestValidateSymbol(t *testing.T) {
	valid := []string{"AAPL", "VTI", "BRK-B", "0700.HK", "600519.SS"}
	for _, s := range valid {
		if err := ValidateSymbol(s); err != nil {
			t.Errorf("ValidateSymbol(%s) = %v", s, err)
		}
	}

	invalid := []string{"", "AAPL;DROP", "WAY_TOO_LONG_SYMBOL_NAME", "a b"}
	for _, s := range invalid {
		if err := ValidateSymbol(s); err == nil {
			t.Errorf("ValidateSymbol(%s) should fail", s)
		}
	}
}

func TestFetchTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/VTI" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"chart":{"result":[{"timestamp":[1577836800,1577923200,1578009600],
			"indicators":{"quote":[{"close":[163.2,null,164.9]}]}}]}}`)
	}))
	defer srv.Close()

	s, err := NewWithBaseURL(srv.URL).FetchTicker(context.Background(), "VTI")
	if err != nil {
		t.Fatal(err)
	}

	// The null close is skipped.
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	if !s.Bounded() {
		t.Error("ticker series must be bounded")
	}
	if s.Name() != "ticker:VTI" {
		t.Errorf("Name = %s", s.Name())
	}
}

func TestFetchTicker_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	defer srv.Close()

	if _, err := NewWithBaseURL(srv.URL).FetchTicker(context.Background(), "NOPE"); err == nil {
		t.Fatal("expected error from chart error payload")
	}
}

func TestFetchTicker_InvalidSymbol(t *testing.T) {
	_, err := New().FetchTicker(context.Background(), "bad symbol")
	if !errors.Is(err, core.ErrTickerInvalid) {
		t.Errorf("expected ErrTickerInvalid, got %v", err)
	}
}
