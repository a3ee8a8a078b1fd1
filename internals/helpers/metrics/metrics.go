// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Check-in attempts by method and outcome (created, already_checked_in, or a failure reason).
	CheckinAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkin_attempts_total",
			Help: "Total number of check-in attempts",
		},
		[]string{"method", "outcome"},
	)

	CheckinDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "checkin_duration_seconds",
			Help:    "Duration of check-in handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	ReportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "report_duration_seconds",
			Help:    "Duration of attendance report aggregation in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"kind"}, // event_summary, user_history, ledger_summary
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"method", "route"},
	)
)

func RecordCheckin(method, outcome string, duration time.Duration) {
	CheckinAttempts.WithLabelValues(method, outcome).Inc()
	CheckinDuration.WithLabelValues(method).Observe(duration.Seconds())
}

func RecordReport(kind string, duration time.Duration) {
	ReportDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
