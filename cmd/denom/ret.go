package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/verdin/denom/internal/core"
	"github.com/verdin/denom/internal/logger"
	"github.com/verdin/denom/internal/returns"
	"github.com/verdin/denom/internal/valuation"
)

var (
	retAsset     string
	retDenom     string
	retFrom      string
	retTo        string
	retPrincipal float64
)

var retCmd = &cobra.Command{
	Use:   "ret",
	Short: "Compute the holding-period return over a date range",
	RunE:  runReturn,
}

func init() {
	retCmd.Flags().StringVar(&retAsset, "asset", "cape", "asset held")
	retCmd.Flags().StringVar(&retDenom, "denom", "nominal", "denominator (nominal, real, or an asset name)")
	retCmd.Flags().StringVar(&retFrom, "from", "", "start date YYYY-MM-DD (required)")
	retCmd.Flags().StringVar(&retTo, "to", "", "end date YYYY-MM-DD (required)")
	retCmd.Flags().Float64Var(&retPrincipal, "principal", 0, "hypothetical dollar amount invested at the start date")

	retCmd.MarkFlagRequired("from")
	retCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(retCmd)
}

func runReturn(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	asset, err := core.ParseAssetRef(retAsset)
	if err != nil {
		return err
	}
	denom, err := core.ParseDenominator(retDenom)
	if err != nil {
		return err
	}
	from, err := parseFlagDate(retFrom)
	if err != nil {
		return err
	}
	to, err := parseFlagDate(retTo)
	if err != nil {
		return err
	}
	if retPrincipal < 0 {
		return fmt.Errorf("principal cannot be negative")
	}

	store, reg, err := loadStore(cmd.Context(), cfg, log, nil, true)
	if err != nil {
		return fmt.Errorf("loading sources: %w", err)
	}

	// Custom tickers load lazily on first reference.
	if err := reg.Ensure(cmd.Context(), store, asset, denom.Asset()); err != nil {
		return err
	}

	result, err := returns.Compute(valuation.NewEngine(store, log), asset, denom, from, to, retPrincipal)
	if err != nil {
		return err
	}

	fmt.Println("=== Holding-Period Return ===")
	fmt.Printf("Asset:       %s (in %s)\n", result.Asset, result.Denominator)
	fmt.Printf("Period:      %s to %s (%.1f years)\n",
		result.StartDate.Format("2006-01-02"), result.EndDate.Format("2006-01-02"), result.Years)
	fmt.Printf("Start value: %.4f\n", result.StartValue)
	fmt.Printf("End value:   %.4f\n", result.EndValue)
	fmt.Printf("Multiplier:  %.4fx\n", result.Multiplier)
	fmt.Printf("Return:      %.2f%%\n", result.ReturnPct)
	fmt.Printf("Annualized:  %.2f%%\n", result.AnnualizedPct)
	if result.HasPrincipal {
		fmt.Printf("Principal:   $%.2f grew to $%.2f (%+.2f)\n",
			result.Principal, result.FinalValue, result.TotalReturn)
	}
	return nil
}
