package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	fetchesTotal      *prometheus.CounterVec
	fetchDuration     *prometheus.HistogramVec
	chartsBuilt       *prometheus.CounterVec
	chartPoints       prometheus.Histogram
	returnsTotal      *prometheus.CounterVec
	tickerCacheTotal  *prometheus.CounterVec
	insightsTotal     *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Business metrics
	r.fetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "denom_fetches_total",
			Help: "Total number of source fetches",
		},
		[]string{"source", "status"},
	)
	r.fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "denom_fetch_duration_seconds",
			Help:    "Source fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)
	r.chartsBuilt = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "denom_charts_built_total",
			Help: "Total number of chart series built",
		},
		[]string{"asset", "denominator"},
	)
	r.chartPoints = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "denom_chart_points",
			Help:    "Points per built chart series",
			Buckets: []float64{10, 50, 100, 500, 1000, 2000, 5000},
		},
	)
	r.returnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "denom_returns_total",
			Help: "Total number of return calculations",
		},
		[]string{"status"},
	)
	r.tickerCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "denom_ticker_cache_total",
			Help: "Ticker cache lookups",
		},
		[]string{"result"},
	)
	r.insightsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "denom_insights_total",
			Help: "Total number of insight generations",
		},
		[]string{"provider", "status"},
	)

	reg.MustRegister(r.fetchesTotal)
	reg.MustRegister(r.fetchDuration)
	reg.MustRegister(r.chartsBuilt)
	reg.MustRegister(r.chartPoints)
	reg.MustRegister(r.returnsTotal)
	reg.MustRegister(r.tickerCacheTotal)
	reg.MustRegister(r.insightsTotal)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordFetch records a source fetch.
func (r *Registry) RecordFetch(source, status string, duration float64) {
	r.fetchesTotal.WithLabelValues(source, status).Inc()
	r.fetchDuration.WithLabelValues(source).Observe(duration)
}

// RecordChart records a built chart series.
func (r *Registry) RecordChart(asset, denominator string, points int) {
	r.chartsBuilt.WithLabelValues(asset, denominator).Inc()
	r.chartPoints.Observe(float64(points))
}

// RecordReturn records a return calculation.
func (r *Registry) RecordReturn(status string) {
	r.returnsTotal.WithLabelValues(status).Inc()
}

// RecordTickerCache records a ticker cache lookup.
func (r *Registry) RecordTickerCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.tickerCacheTotal.WithLabelValues(result).Inc()
}

// RecordInsight records an insight generation.
func (r *Registry) RecordInsight(provider, status string) {
	r.insightsTotal.WithLabelValues(provider, status).Inc()
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
