package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Execution lifecycle metrics
	ExecutionsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jarvis_executions_started_total",
			Help: "Total number of campaign executions started",
		},
		[]string{"campaign", "speed", "dry_run"},
	)

	ExecutionsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jarvis_executions_finished_total",
			Help: "Total number of campaign executions finished, by terminal status",
		},
		[]string{"campaign", "status"},
	)

	ActiveExecutions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jarvis_active_executions",
			Help: "Number of executions currently running",
		},
	)

	// Delivery metrics
	EventsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jarvis_events_delivered_total",
			Help: "Total events resolved by the delivery pipeline",
		},
		[]string{"campaign", "outcome"},
	)

	DeliveryAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jarvis_delivery_attempts_total",
			Help: "Total transmission attempts including retries and fallbacks",
		},
	)

	GeneratorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jarvis_generator_failures_total",
			Help: "Total isolated generator failures during scheduling",
		},
		[]string{"generator"},
	)

	ScheduleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jarvis_schedule_build_duration_seconds",
			Help:    "Duration of timeline schedule builds in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
