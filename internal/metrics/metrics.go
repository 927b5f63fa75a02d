// Package metrics defines Prometheus metrics for the timeline service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "timeline_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timeline_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timeline_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	RefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timeline_refresh_total",
			Help: "Timeline refreshes by trigger and result",
		},
		[]string{"trigger", "result"},
	)

	RefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "timeline_refresh_duration_seconds",
			Help:    "Duration of fetch plus rebuild",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	FetchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timeline_fetch_failures_total",
			Help: "Source fetch failures by collection",
		},
		[]string{"collection"},
	)

	EventCount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "timeline_events",
			Help: "Events in the current snapshot by category",
		},
		[]string{"category"},
	)

	LastRefresh = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "timeline_last_refresh_timestamp_seconds",
			Help: "Unix time of the last successful refresh",
		},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "timeline_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		RefreshTotal, RefreshDuration, FetchFailures,
		EventCount, LastRefresh, WSConnections,
	)
}
