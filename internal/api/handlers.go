package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/verdin/denom/internal/api/job"
	"github.com/verdin/denom/internal/api/response"
	"github.com/verdin/denom/internal/core"
	"github.com/verdin/denom/internal/ingest/ticker"
	"github.com/verdin/denom/internal/returns"
	"github.com/verdin/denom/internal/stats"
	"go.uber.org/zap"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"tickers": s.engine.Store().Tickers(),
	})
}

// chartQuery parses the asset/denom/start/end parameters shared by the chart
// and return endpoints.
func chartQuery(r *http.Request) (core.AssetRef, core.DenominatorSpec, time.Time, time.Time, error) {
	asset, err := core.ParseAssetRef(r.URL.Query().Get("asset"))
	if err != nil {
		return core.AssetRef{}, core.DenominatorSpec{}, time.Time{}, time.Time{}, err
	}
	denom, err := core.ParseDenominator(r.URL.Query().Get("denom"))
	if err != nil {
		return core.AssetRef{}, core.DenominatorSpec{}, time.Time{}, time.Time{}, err
	}
	start, err := parseDate(r.URL.Query().Get("start"))
	if err != nil {
		return core.AssetRef{}, core.DenominatorSpec{}, time.Time{}, time.Time{}, err
	}
	end, err := parseDate(r.URL.Query().Get("end"))
	if err != nil {
		return core.AssetRef{}, core.DenominatorSpec{}, time.Time{}, time.Time{}, err
	}
	return asset, denom, start, end, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, core.WrapError(core.ErrInsufficientRange, err)
	}
	return d, nil
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	asset, denom, start, end, err := chartQuery(r)
	if err != nil {
		response.Error(w, response.Status(err), err)
		return
	}

	points, err := s.engine.Points(asset, denom, start, end)
	if err != nil {
		response.Error(w, response.Status(err), err)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordChart(asset.Key(), denom.Key(), len(points))
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"asset":       asset.Key(),
		"denominator": denom.Key(),
		"points":      points,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, err := stats.Compute(s.engine)
	if err != nil {
		response.Error(w, response.Status(err), err)
		return
	}
	response.JSON(w, http.StatusOK, snap)
}

func (s *Server) handleReturn(w http.ResponseWriter, r *http.Request) {
	asset, denom, start, end, err := chartQuery(r)
	if err != nil {
		response.Error(w, response.Status(err), err)
		return
	}

	principal := 0.0
	if p := r.URL.Query().Get("principal"); p != "" {
		principal, err = strconv.ParseFloat(p, 64)
		if err != nil || principal < 0 {
			response.Error(w, http.StatusBadRequest,
				core.WrapError(core.ErrInvalidPrice, err))
			return
		}
	}

	result, err := returns.Compute(s.engine, asset, denom, start, end, principal)
	if s.metrics != nil {
		s.metrics.RecordReturn(returnStatus(err))
	}
	if err != nil {
		response.Error(w, response.Status(err), err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{"events": s.events})
}

// handleTickerLoad starts an async fetch of a custom ticker. The response
// carries a job ID the client polls; the series becomes chartable once the
// job completes.
func (s *Server) handleTickerLoad(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(r.PathValue("symbol"))
	if err := ticker.ValidateSymbol(symbol); err != nil {
		wrapped := core.WrapError(core.ErrTickerInvalid, err)
		response.Error(w, response.Status(wrapped), wrapped)
		return
	}

	j := s.jobs.Create("ticker_load")
	s.jobs.Update(j.ID, func(j *job.Job) { j.Status = job.StatusRunning })

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		loaded, err := s.registry.Ticker(ctx, symbol)
		if err != nil {
			s.logger.Warn("ticker load failed",
				zap.String("symbol", symbol), zap.Error(err))
			s.jobs.Update(j.ID, func(j *job.Job) {
				j.Status = job.StatusFailed
				j.Error = core.WrapError(core.ErrSourceFailed, err)
			})
			return
		}
		s.engine.Store().Put(symbol, loaded)
		s.jobs.Update(j.ID, func(j *job.Job) {
			j.Status = job.StatusComplete
			j.Result = map[string]any{
				"symbol":       symbol,
				"observations": loaded.Len(),
			}
		})
	}()

	response.JSON(w, http.StatusAccepted, map[string]any{
		"job_id": j.ID,
		"symbol": symbol,
	})
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	j, err := s.jobs.Get(r.PathValue("id"))
	if err != nil {
		response.Error(w, response.Status(err), err)
		return
	}
	response.JSON(w, http.StatusOK, j)
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	snap, err := stats.Compute(s.engine)
	if err != nil {
		response.Error(w, response.Status(err), err)
		return
	}

	commentary, err := s.insight.Generate(r.Context(), *snap)
	if err != nil {
		response.Error(w, response.Status(err), err)
		return
	}
	response.JSON(w, http.StatusOK, commentary)
}

func returnStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
