// Package metrics holds the Prometheus collectors of the alumni backend.
// They register with the default registry at init and are exposed by
// promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	// HTTPRequests counts requests by route pattern and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alumni_http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "code"},
	)

	// HTTPDuration tracks request latency.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alumni_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// HTTPInFlight is the number of requests being served.
	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "alumni_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		},
	)
)

// Auth Metrics
var (
	// AuthEvents counts authentication outcomes, e.g. event="refresh",
	// result="ok".
	AuthEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alumni_auth_events_total",
			Help: "Authentication events by event and result",
		},
		[]string{"event", "result"},
	)

	// SessionsRevoked counts revoked sessions by reason.
	SessionsRevoked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alumni_sessions_revoked_total",
			Help: "Sessions revoked by reason (logout, refresh_reuse, password_reset, account_deleted)",
		},
		[]string{"reason"},
	)
)

// Housekeeping Metrics
var (
	// HousekeepingDeleted counts rows removed by the housekeeping worker.
	HousekeepingDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alumni_housekeeping_deleted_total",
			Help: "Expired rows deleted by housekeeping, by table",
		},
		[]string{"table"},
	)

	// HousekeepingRuns counts cleanup passes by status.
	HousekeepingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alumni_housekeeping_runs_total",
			Help: "Housekeeping cleanup passes by status",
		},
		[]string{"status"},
	)
)

// Result labels.
const (
	ResultOK      = "ok"
	ResultFailed  = "failed"
	ResultBlocked = "blocked"
)
