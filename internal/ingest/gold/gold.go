// Package gold ingests monthly gold prices in nominal USD per troy ounce.
package gold

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/verdin/denom/internal/core"
	"github.com/verdin/denom/internal/ingest"
	"github.com/verdin/denom/internal/ingest/shiller"
	"github.com/verdin/denom/internal/series"
)

const defaultURL = "https://datahub.io/core/gold-prices/r/monthly.csv"

// Source fetches the gold price series.
type Source struct {
	client *http.Client
	url    string
}

// New creates the source with the default dataset URL.
func New() *Source {
	return &Source{
		client: &http.Client{Timeout: 30 * time.Second},
		url:    defaultURL,
	}
}

// NewWithURL creates the source against a custom URL.
func NewWithURL(url string) *Source {
	s := New()
	if url != "" {
		s.url = url
	}
	return s
}

func (s *Source) Name() string { return "gold" }

// Fetch downloads and normalizes the dataset. The upstream CSV is two
// columns: Date,Price.
func (s *Source) Fetch(ctx context.Context) (*series.Series, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching gold data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	cr := csv.NewReader(resp.Body)
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); err != nil { // header
		return nil, fmt.Errorf("reading header: %w", err)
	}

	var rows []core.Observation
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		if len(rec) < 2 {
			continue
		}

		date, err := shiller.ParseDate(strings.TrimSpace(rec[0]))
		if err != nil {
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			continue
		}
		rows = append(rows, core.Observation{Date: date, Price: price})
	}
	return ingest.Normalize(s.Name(), rows, false), nil
}
