package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "edital360_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// UpstreamRequests tracks calls to the concursos backend API
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edital360_upstream_requests_total",
			Help: "Number of upstream API requests",
		},
		[]string{"operation", "status"},
	)

	// GuardDecisions tracks route guard outcomes
	GuardDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edital360_guard_decisions_total",
			Help: "Number of route guard decisions",
		},
		[]string{"outcome"},
	)

	// LoginAttempts tracks login attempts by result
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edital360_login_attempts_total",
			Help: "Number of login attempts",
		},
		[]string{"status"},
	)

	// RegistrationSubmissions tracks wizard submissions by result
	RegistrationSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edital360_registration_submissions_total",
			Help: "Number of registration wizard submissions",
		},
		[]string{"status"},
	)

	// ActiveConnections tracks active connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "edital360_active_connections",
			Help: "Number of active connections",
		},
	)
)
