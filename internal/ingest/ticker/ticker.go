// Package ticker ingests daily close history for arbitrary symbols from the
// Yahoo Finance chart API. Ticker series are bounded and fetched lazily, on
// first reference.
package ticker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/verdin/denom/internal/core"
	"github.com/verdin/denom/internal/ingest"
	"github.com/verdin/denom/internal/series"
)

const defaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// validSymbol matches symbols like AAPL, VTI, BRK-B, 0700.HK
var validSymbol = regexp.MustCompile(`^[A-Za-z0-9\-]{1,10}(\.[A-Za-z]{1,4})?$`)

// ValidateSymbol checks if a symbol has valid format.
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 20 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	if !validSymbol.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}

// Source fetches custom ticker series.
type Source struct {
	client  *http.Client
	baseURL string
}

// New creates a new ticker source.
func New() *Source {
	return &Source{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultBaseURL,
	}
}

// NewWithBaseURL creates a source with custom base URL (for testing).
func NewWithBaseURL(url string) *Source {
	s := New()
	if url != "" {
		s.baseURL = url
	}
	return s
}

func (s *Source) Name() string { return "ticker" }

// FetchTicker downloads the symbol's full daily history.
func (s *Source) FetchTicker(ctx context.Context, symbol string) (*series.Series, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, core.WrapError(core.ErrTickerInvalid, err)
	}

	url := fmt.Sprintf("%s/%s?interval=1d&period1=0&period2=%d",
		s.baseURL, symbol, time.Now().Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if result.Chart.Error != nil {
		return nil, fmt.Errorf("chart error: %s", result.Chart.Error.Description)
	}
	if len(result.Chart.Result) == 0 {
		return nil, fmt.Errorf("no data for symbol: %s", symbol)
	}

	r := result.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quotes for symbol: %s", symbol)
	}
	quotes := r.Indicators.Quote[0]

	rows := make([]core.Observation, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(quotes.Close) || quotes.Close[i] == nil {
			continue // Skip missing data
		}
		rows = append(rows, core.Observation{
			Date:  time.Unix(int64(ts), 0).UTC(),
			Price: *quotes.Close[i],
		})
	}
	return ingest.Normalize("ticker:"+symbol, rows, true), nil
}

// Chart API response types
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int      `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type indicators struct {
	Quote []quoteIndicator `json:"quote"`
}

type quoteIndicator struct {
	Close []*float64 `json:"close"`
}
