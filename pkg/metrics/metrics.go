package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CodeIssued counts one-time passcode issuances by delivery outcome (delivered|failed|disabled).
	CodeIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uiforge_login_codes_issued_total",
			Help: "Total number of one-time passcodes issued",
		},
		[]string{"delivery"},
	)

	// CodeVerified counts verification attempts by result (valid|invalid|expired).
	CodeVerified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uiforge_login_codes_verified_total",
			Help: "Total number of one-time passcode verification attempts",
		},
		[]string{"result"},
	)

	// GenerationDuration measures end-to-end component generation latency.
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "uiforge_generation_duration_seconds",
			Help:    "Latency of component generation requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind", "result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "uiforge_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
