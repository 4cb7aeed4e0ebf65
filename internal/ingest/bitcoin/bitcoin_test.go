package bitcoin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/bitcoin/market_chart" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("x-cg-demo-api-key") != "test-key" {
			t.Error("expected api key header")
		}
		// 2013-04-28 and 2013-04-29 in unix ms.
		w.Write([]byte(`{"prices":[[1367107200000,135.3],[1367193600000,141.96],[1367280000000,0]]}`))
	}))
	defer srv.Close()

	s, err := NewWithBaseURL("test-key", srv.URL).Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// The zero-price row is discarded.
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	if !s.Bounded() {
		t.Error("bitcoin series must be bounded")
	}

	first, _ := s.First()
	if !first.Date.Equal(time.Date(2013, 4, 28, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first date = %v", first.Date)
	}
	if first.Price != 135.3 {
		t.Errorf("first price = %f", first.Price)
	}
}

func TestNewWithBaseURL_EmptyKeepsDefault(t *testing.T) {
	s := NewWithBaseURL("", "")
	if s.baseURL != baseURL {
		t.Errorf("baseURL = %q, want default %q", s.baseURL, baseURL)
	}
}

func TestFetch_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{`))
	}))
	defer srv.Close()

	if _, err := NewWithBaseURL("", srv.URL).Fetch(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}
