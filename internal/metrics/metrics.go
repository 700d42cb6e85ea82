package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the Cricbook API

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cricbook_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cricbook_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ScoreRecomputeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cricbook_score_recompute_total",
			Help: "Derived score recomputations by trigger",
		},
		[]string{"trigger", "status"},
	)

	ScoreRecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cricbook_score_recompute_duration_seconds",
			Help:    "Time spent in the lock, fold and persist transaction",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cricbook_notifications_total",
			Help: "Notifications by type and delivery path",
		},
		[]string{"type", "path"},
	)

	LivePublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cricbook_live_publish_errors_total",
			Help: "Failures publishing live score updates",
		},
		[]string{"sink"},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cricbook_websocket_clients",
			Help: "Currently connected websocket clients",
		},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cricbook_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	SchedulerJobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cricbook_scheduler_job_runs_total",
			Help: "Scheduled job executions",
		},
		[]string{"job", "status"},
	)
)

// Status maps an error to the label used on outcome counters.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
