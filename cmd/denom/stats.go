package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/verdin/denom/internal/logger"
	"github.com/verdin/denom/internal/stats"
	"github.com/verdin/denom/internal/valuation"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the current CAPE/gold valuation snapshot",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	store, _, err := loadStore(cmd.Context(), cfg, log, nil, true)
	if err != nil {
		return fmt.Errorf("loading sources: %w", err)
	}

	snap, err := stats.Compute(valuation.NewEngine(store, log))
	if err != nil {
		return err
	}

	fmt.Println("=== Valuation Snapshot ===")
	fmt.Printf("CAPE ratio:            %.2f\n", snap.CurrentCAPE)
	fmt.Printf("Gold (real USD/oz):    %.2f\n", snap.CurrentGold)
	fmt.Printf("CAPE/gold ratio:       %.6f\n", snap.CurrentRatio)
	fmt.Printf("Historical percentile: %.1f%% (of %d readings)\n", snap.Percentile, snap.RatioCount)
	return nil
}
