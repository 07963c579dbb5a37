package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// Refresh cycle rate by result (success / error). Watch for: error ratio
	// climbing toward 1 (upstream outage, bad API key).
	RefreshCyclesTotal *prometheus.CounterVec

	// Full refresh latency (both upstream calls + merge). Watch for: p95
	// approaching 2x the per-call timeout.
	RefreshDuration prometheus.Histogram

	// Individual Weather.com API call rate by resource and status.
	UpstreamCallsTotal *prometheus.CounterVec

	// Weather.com API latency per call. Watch for: p95 > 2s (upstream
	// degradation), p99 near the 10s timeout.
	UpstreamCallDuration *prometheus.HistogramVec

	// Unix time of the last successful refresh. Alert when now() minus this
	// exceeds a few update intervals.
	LastRefreshTimestamp prometheus.Gauge

	// Number of top-level fields in the current snapshot; zero means no
	// successful fetch yet.
	SnapshotFields prometheus.Gauge

	// HTTP request rate for the accessor API.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency for the accessor API.
	HTTPRequestDuration *prometheus.HistogramVec

	// Rate limit denials on the /v1 subtree. Watch for: overload.
	RateLimitDeniedTotal prometheus.Counter

	// Unmapped icon codes seen from the API (44 = N/A is expected).
	UnmappedIconCodesTotal prometheus.Counter
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	RefreshCyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refreshCyclesTotal",
			Help: "Total number of refresh cycles by result",
		},
		[]string{"result"},
	)
	RefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "refreshDurationSeconds",
			Help:    "Full refresh cycle latency in seconds",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20},
		},
	)
	UpstreamCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstreamCallsTotal",
			Help: "Total number of Weather.com API calls",
		},
		[]string{"resource", "status"},
	)
	UpstreamCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstreamCallDurationSeconds",
			Help:    "Weather.com API latency in seconds (per call)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"resource"},
	)
	LastRefreshTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lastRefreshTimestampSeconds",
			Help: "Unix time of the last successful refresh",
		},
	)
	SnapshotFields = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshotFields",
			Help: "Top-level field count of the current snapshot (0 = none yet)",
		},
	)
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of requests denied by rate limiter (429)",
		},
	)
	UnmappedIconCodesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "unmappedIconCodesTotal",
			Help: "Icon codes with no condition mapping (44 = N/A is expected)",
		},
	)

	registry.MustRegister(
		RefreshCyclesTotal, RefreshDuration,
		UpstreamCallsTotal, UpstreamCallDuration,
		LastRefreshTimestamp, SnapshotFields,
		HTTPRequestsTotal, HTTPRequestDuration,
		RateLimitDeniedTotal, UnmappedIconCodesTotal,
	)
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
