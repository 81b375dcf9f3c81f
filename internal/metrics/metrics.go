// Package metrics 는 API/워커가 공유하는 Prometheus 수집기를 모아 둔다.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	MediaUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_media_uploads_total",
			Help: "Media uploads by content type",
		},
		[]string{"content_type"},
	)

	MediaUploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_media_upload_bytes_total",
			Help: "Total bytes uploaded to the object store",
		},
	)

	// CircuitBreakerState: 0=closed, 1=half-open, 2=open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "portfolio_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	ImportJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_import_jobs_total",
			Help: "Feed import jobs by final status",
		},
		[]string{"status"},
	)

	AnalyticsFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_analytics_fetches_total",
			Help: "Analytics API fetches by result",
		},
		[]string{"result"},
	)
)

// ObserveHTTP records one completed request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordBreakerState 는 gobreaker OnStateChange 콜백에서 호출한다.
func RecordBreakerState(name string, state gobreaker.State) {
	var v float64
	switch state {
	case gobreaker.StateHalfOpen:
		v = 1
	case gobreaker.StateOpen:
		v = 2
	}
	CircuitBreakerState.WithLabelValues(name).Set(v)
}
