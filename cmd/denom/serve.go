package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/verdin/denom/internal/api"
	"github.com/verdin/denom/internal/insight"
	"github.com/verdin/denom/internal/insight/factory"
	"github.com/verdin/denom/internal/logger"
	"github.com/verdin/denom/internal/metrics"
	"github.com/verdin/denom/internal/valuation"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the denom HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	var m *metrics.Registry
	if cfg.Metrics.Enabled {
		m = metrics.NewRegistry()
	}

	log.Info("loading data sources")
	store, reg, err := loadStore(cmd.Context(), cfg, log, m, false)
	if err != nil {
		return fmt.Errorf("loading sources: %w", err)
	}

	var provider insight.Provider
	if cfg.Insight.Provider != "" {
		provider, err = factory.New(cfg.Insight)
		if err != nil {
			return fmt.Errorf("configuring insight provider: %w", err)
		}
	}

	server := api.NewServer(api.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		APIKey:      cfg.Server.APIKey,
		JobTTL:      time.Duration(cfg.Server.JobTTLHours) * time.Hour,
		MaxJobs:     cfg.Server.MaxJobs,
		MetricsPath: cfg.Metrics.Path,
	}, api.Deps{
		Engine:   valuation.NewEngine(store, log),
		Registry: reg,
		Insight:  insight.NewGenerator(provider, log, m),
		Metrics:  m,
		Events:   cfg.HistoricalEvents(),
	}, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}
