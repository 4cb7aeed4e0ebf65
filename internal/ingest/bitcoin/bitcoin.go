// Package bitcoin ingests daily Bitcoin closes in nominal USD from CoinGecko.
// The resulting series is bounded: Bitcoin has a real inception date and
// lookups far before it must not extrapolate.
package bitcoin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/verdin/denom/internal/core"
	"github.com/verdin/denom/internal/ingest"
	"github.com/verdin/denom/internal/series"
)

const baseURL = "https://api.coingecko.com/api/v3"

// Source fetches the Bitcoin price series.
type Source struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// New creates a new CoinGecko-backed source.
func New(apiKey string) *Source {
	return &Source{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// NewWithBaseURL creates a source with custom base URL (for testing).
func NewWithBaseURL(apiKey, url string) *Source {
	s := New(apiKey)
	if url != "" {
		s.baseURL = url
	}
	return s
}

func (s *Source) Name() string { return "bitcoin" }

// marketChartResponse is the CoinGecko market_chart payload: each price is a
// [unix_ms, price] pair.
type marketChartResponse struct {
	Prices [][2]float64 `json:"prices"`
}

// Fetch downloads the full daily price history.
func (s *Source) Fetch(ctx context.Context) (*series.Series, error) {
	url := fmt.Sprintf("%s/coins/bitcoin/market_chart?vs_currency=usd&days=max&interval=daily", s.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching bitcoin data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result marketChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	rows := make([]core.Observation, 0, len(result.Prices))
	for _, p := range result.Prices {
		rows = append(rows, core.Observation{
			Date:  time.UnixMilli(int64(p[0])).UTC(),
			Price: p[1],
		})
	}
	return ingest.Normalize(s.Name(), rows, true), nil
}
