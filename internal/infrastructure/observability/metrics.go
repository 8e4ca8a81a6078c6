package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StatusTransitions counts review outcomes by entity (prospect, loan) and new status.
	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "csei_status_transitions_total",
		Help: "Total number of status changes applied through reviews",
	}, []string{"entity", "status"})

	// Submissions counts intake and loan submissions by entity and result.
	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "csei_submissions_total",
		Help: "Total number of submissions by outcome",
	}, []string{"entity", "result"})

	// Notifications counts emails by kind and result (queued, dropped, sent, failed).
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "csei_notifications_total",
		Help: "Total number of notification emails by kind and result",
	}, []string{"kind", "result"})

	// SweepRuns counts balance sweeps by result.
	SweepRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "csei_balance_sweep_runs_total",
		Help: "Total number of balance-change sweeps",
	}, []string{"result"})

	// SweepDuration observes balance sweep latency.
	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "csei_balance_sweep_duration_seconds",
		Help:    "Balance-change sweep duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// HTTPRequests counts handled requests by method, route template and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "csei_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "code"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "csei_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)
