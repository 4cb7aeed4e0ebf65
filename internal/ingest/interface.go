// Package ingest fetches remote data sources and normalizes them into the
// canonical observation shape. All schema quirks of upstream providers stop
// here; the valuation core never inspects alternate field names.
package ingest

import (
	"context"

	"github.com/verdin/denom/internal/series"
)

// Source fetches one built-in data source as a normalized series.
type Source interface {
	// Name returns the source name used in logs, metrics and archives.
	Name() string

	// Fetch downloads and normalizes the full series. A failure is terminal
	// for the session's valuation capability; callers must not retry.
	Fetch(ctx context.Context) (*series.Series, error)
}

// TickerSource fetches history for arbitrary, lazily-requested symbols.
type TickerSource interface {
	Name() string
	FetchTicker(ctx context.Context, symbol string) (*series.Series, error)
}
