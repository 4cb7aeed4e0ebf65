// Package home ingests the long-run US home price dataset (real home price
// index and real building cost index).
package home

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

const defaultURL = "https://datahub.io/core/home-prices-us/r/data.csv"

// Source fetches the home price series.
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

func (s *Source) Name() string { return "home" }

const (
	colDate         = "Date"
	colRealPrice    = "Real Home Price Index"
	colBuildingCost = "Real Building Cost Index"
)

// Fetch downloads and normalizes the dataset.
func (s *Source) Fetch(ctx context.Context) (*series.Series, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching home data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	cr := csv.NewReader(resp.Body)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
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

		di, ok := idx[colDate]
		if !ok || di >= len(rec) {
			continue
		}
		date, err := shiller.ParseDate(strings.TrimSpace(rec[di]))
		if err != nil {
			continue
		}
		rows = append(rows, core.Observation{
			Date:         date,
			RealPrice:    number(rec, idx, colRealPrice),
			BuildingCost: number(rec, idx, colBuildingCost),
		})
	}
	return ingest.Normalize(s.Name(), rows, false), nil
}

func number(rec []string, idx map[string]int, name string) float64 {
	i, ok := idx[name]
	if !ok || i >= len(rec) {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
	if err != nil {
		return 0
	}
	return v
}
