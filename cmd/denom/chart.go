package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/verdin/denom/internal/core"
	"github.com/verdin/denom/internal/logger"
	"github.com/verdin/denom/internal/valuation"
)

var (
	chartAsset string
	chartDenom string
	chartStart string
	chartEnd   string
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Print an asset's valuation series as JSON",
	Long: `Chart valuates an asset over its full history (or a date range) in the
chosen denominator and writes the points to stdout as JSON.`,
	RunE: runChart,
}

func init() {
	chartCmd.Flags().StringVar(&chartAsset, "asset", "cape", "asset to chart (cape, sp500, home, gold, bitcoin, or a ticker)")
	chartCmd.Flags().StringVar(&chartDenom, "denom", "nominal", "denominator (nominal, real, or an asset name)")
	chartCmd.Flags().StringVar(&chartStart, "start", "", "start date YYYY-MM-DD")
	chartCmd.Flags().StringVar(&chartEnd, "end", "", "end date YYYY-MM-DD")
	rootCmd.AddCommand(chartCmd)
}

func parseFlagDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return d, nil
}

func runChart(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	asset, err := core.ParseAssetRef(chartAsset)
	if err != nil {
		return err
	}
	denom, err := core.ParseDenominator(chartDenom)
	if err != nil {
		return err
	}
	start, err := parseFlagDate(chartStart)
	if err != nil {
		return err
	}
	end, err := parseFlagDate(chartEnd)
	if err != nil {
		return err
	}

	store, reg, err := loadStore(cmd.Context(), cfg, log, nil, true)
	if err != nil {
		return fmt.Errorf("loading sources: %w", err)
	}

	// Custom tickers load lazily on first reference.
	if err := reg.Ensure(cmd.Context(), store, asset, denom.Asset()); err != nil {
		return err
	}

	points, err := valuation.NewEngine(store, log).Points(asset, denom, start, end)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"asset":       asset.Key(),
		"denominator": denom.Key(),
		"points":      points,
	})
}
