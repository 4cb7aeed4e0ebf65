package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "denom",
	Short: "denom - long-run asset valuation in the denominator of your choice",
	Long: `denom charts a century of asset prices measured in nominal dollars,
inflation-adjusted dollars, or units of another asset, and computes
holding-period returns over any date range.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
