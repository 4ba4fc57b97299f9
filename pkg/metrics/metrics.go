package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records login attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clientele_auth_attempts_total",
			Help: "Total number of employee authentication attempts",
		},
		[]string{"result"},
	)

	// DuplicateEmails counts rejected registrations by entity (client|employee).
	DuplicateEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clientele_duplicate_email_total",
			Help: "Total number of registrations rejected for a duplicate email",
		},
		[]string{"entity"},
	)

	// InvitationTransitions counts invitation state changes (invite|accept|decline).
	InvitationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clientele_invitation_transitions_total",
			Help: "Total number of invitation workflow transitions",
		},
		[]string{"transition"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clientele_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
