// Package shiller ingests the long-run S&P 500 dataset: real price, CAPE,
// dividends, earnings and the consumer price index used as the session's
// inflation reference.
package shiller

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
	"github.com/verdin/denom/internal/series"
)

const defaultURL = "https://datahub.io/core/s-and-p-500/r/data.csv"

// Source fetches the stock/CAPE series.
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

// NewWithURL creates the source against a custom URL (for testing and
// mirrors).
func NewWithURL(url string) *Source {
	s := New()
	if url != "" {
		s.url = url
	}
	return s
}

func (s *Source) Name() string { return "shiller" }

// Fetch downloads and normalizes the dataset.
func (s *Source) Fetch(ctx context.Context) (*series.Series, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching stock data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	rows, err := parse(resp.Body)
	if err != nil {
		return nil, err
	}
	return ingest.Normalize(s.Name(), rows, false), nil
}

// Column headers of the upstream CSV.
const (
	colDate      = "Date"
	colRealPrice = "Real Price"
	colCAPE      = "PE10"
	colDividend  = "Dividend"
	colEarnings  = "Earnings"
	colCPI       = "Consumer Price Index"
)

func parse(r io.Reader) ([]core.Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	if _, ok := idx[colDate]; !ok {
		return nil, fmt.Errorf("missing %q column", colDate)
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

		date, err := ParseDate(field(rec, idx, colDate))
		if err != nil {
			continue // Skip malformed rows
		}
		rows = append(rows, core.Observation{
			Date:     date,
			SP500:    number(rec, idx, colRealPrice),
			CAPE:     number(rec, idx, colCAPE),
			Dividend: number(rec, idx, colDividend),
			Earnings: number(rec, idx, colEarnings),
			CPI:      number(rec, idx, colCPI),
		})
	}
	return rows, nil
}

func field(rec []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func number(rec []string, idx map[string]int, name string) float64 {
	v, err := strconv.ParseFloat(field(rec, idx, name), 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseDate accepts the dataset's month ("2020-01") and day ("2020-01-15")
// date formats.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", s)
}
