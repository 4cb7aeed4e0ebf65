// Package api exposes the valuation engine over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/verdin/denom/internal/api/job"
	"github.com/verdin/denom/internal/api/middleware"
	"github.com/verdin/denom/internal/core"
	"github.com/verdin/denom/internal/ingest"
	"github.com/verdin/denom/internal/insight"
	"github.com/verdin/denom/internal/metrics"
	"github.com/verdin/denom/internal/valuation"
	"go.uber.org/zap"
)

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux

	engine   *valuation.Engine
	registry *ingest.Registry
	jobs     *job.Store
	insight  *insight.Generator
	metrics  *metrics.Registry
	events   []core.HistoricalEvent
}

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	APIKey      string
	JobTTL      time.Duration
	MaxJobs     int
	MetricsPath string
}

// Deps bundles the components the server serves.
type Deps struct {
	Engine   *valuation.Engine
	Registry *ingest.Registry
	Insight  *insight.Generator
	Metrics  *metrics.Registry
	Events   []core.HistoricalEvent
}

// NewServer creates a new HTTP server.
func NewServer(cfg Config, deps Deps, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()

	s := &Server{
		logger:   logger,
		mux:      mux,
		engine:   deps.Engine,
		registry: deps.Registry,
		jobs:     job.NewStore(cfg.MaxJobs, cfg.JobTTL),
		insight:  deps.Insight,
		metrics:  deps.Metrics,
		events:   deps.Events,
	}
	s.setupRoutes(cfg)

	handler := http.Handler(mux)
	handler = middleware.APIKeyAuth(cfg.APIKey)(handler)
	if deps.Metrics != nil {
		handler = metrics.HTTPMiddleware(deps.Metrics)(handler)
	}
	handler = metrics.LoggingMiddleware(logger)(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes(cfg Config) {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/chart", s.handleChart)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.HandleFunc("GET /api/return", s.handleReturn)
	s.mux.HandleFunc("GET /api/events", s.handleEvents)
	s.mux.HandleFunc("POST /api/tickers/{symbol}", s.handleTickerLoad)
	s.mux.HandleFunc("GET /api/jobs/{id}", s.handleJob)
	s.mux.HandleFunc("GET /api/insight", s.handleInsight)

	if s.metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle("GET "+path, promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}
}

// Handler returns the full middleware-wrapped handler, for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
