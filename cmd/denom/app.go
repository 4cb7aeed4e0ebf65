package main

import (
	"context"
	"fmt"

	"github.com/verdin/denom/internal/config"
	"github.com/verdin/denom/internal/core"
	"github.com/verdin/denom/internal/ingest"
	"github.com/verdin/denom/internal/ingest/bitcoin"
	"github.com/verdin/denom/internal/ingest/gold"
	"github.com/verdin/denom/internal/ingest/home"
	"github.com/verdin/denom/internal/ingest/shiller"
	"github.com/verdin/denom/internal/ingest/ticker"
	"github.com/verdin/denom/internal/metrics"
	"github.com/verdin/denom/internal/series"
	"github.com/verdin/denom/internal/storage/archive"
	"go.uber.org/zap"
)

// loadConfig reads the config file or falls back to defaults.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Debug("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// buildRegistry binds every builtin source, honoring URL overrides.
func buildRegistry(cfg *config.Config, m *metrics.Registry) *ingest.Registry {
	reg := ingest.NewRegistry(m)
	reg.Register(core.BuiltinCAPE, shiller.NewWithURL(cfg.Sources.ShillerURL))
	reg.Register(core.BuiltinHome, home.NewWithURL(cfg.Sources.HomeURL))
	reg.Register(core.BuiltinGold, gold.NewWithURL(cfg.Sources.GoldURL))
	reg.Register(core.BuiltinBitcoin, bitcoin.NewWithBaseURL(cfg.Sources.CoinGeckoAPIKey, cfg.Sources.BitcoinURL))
	reg.SetTickerSource(ticker.New())
	return reg
}

// buildLoader assembles the loader, attaching the configured archive.
func buildLoader(cfg *config.Config, reg *ingest.Registry, log *zap.Logger, m *metrics.Registry) (*ingest.Loader, error) {
	loader := ingest.NewLoader(reg, log, m)
	if cfg.Archive.Enabled {
		st, err := archive.New(archive.Config{
			Type: cfg.Archive.Type,
			Path: cfg.Archive.Path,
			S3: archive.S3Config{
				Bucket:    cfg.Archive.S3.Bucket,
				Endpoint:  cfg.Archive.S3.Endpoint,
				Region:    cfg.Archive.S3.Region,
				AccessKey: cfg.Archive.S3.AccessKey,
				SecretKey: cfg.Archive.S3.SecretKey,
				Prefix:    cfg.Archive.S3.Prefix,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("configuring archive: %w", err)
		}
		loader.SetArchive(st)
	}
	return loader, nil
}

// loadStore fetches all sources. With preferArchive, a previously archived
// snapshot is used and the network is only hit when no snapshot exists.
func loadStore(ctx context.Context, cfg *config.Config, log *zap.Logger, m *metrics.Registry, preferArchive bool) (*series.Store, *ingest.Registry, error) {
	reg := buildRegistry(cfg, m)
	loader, err := buildLoader(cfg, reg, log, m)
	if err != nil {
		return nil, nil, err
	}

	if preferArchive && cfg.Archive.Enabled {
		store, err := loader.LoadFromArchive(ctx)
		if err == nil {
			log.Debug("store restored from archive")
			return store, reg, nil
		}
		log.Debug("archive restore failed, fetching sources", zap.Error(err))
	}

	store, err := loader.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return store, reg, nil
}
