package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClaimOperationsTotal counts claim operations by operation and outcome
	ClaimOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_claim_operations_total",
			Help: "Total number of claim operations",
		},
		[]string{"operation", "outcome"},
	)

	// ClaimOperationDuration tracks claim operation processing time, including time spent
	// waiting for the execution lock
	ClaimOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "registry_claim_operation_duration_seconds",
			Help:    "Claim operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// LedgerHeight tracks the current block height
	LedgerHeight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "registry_ledger_height",
			Help: "Current ledger block height",
		},
	)

	// EventsEmitted counts claim events delivered to each sink
	EventsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_events_emitted_total",
			Help: "Total number of claim events emitted",
		},
		[]string{"sink", "event_type"},
	)

	// ErrorsTotal counts errors by component and type
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// OffchainFetches counts offchain fetch attempts by status
	OffchainFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_offchain_fetches_total",
			Help: "Total number of offchain fetch attempts",
		},
		[]string{"status"},
	)

	// OffchainSubmissions counts claims submitted by the offchain worker by status
	OffchainSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_offchain_submissions_total",
			Help: "Total number of offchain claim submissions",
		},
		[]string{"status"},
	)
)
