package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PassesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saleshealth_passes_total",
			Help: "Total number of monitoring passes run",
		},
		[]string{"status"}, // completed, failed
	)

	AlertsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saleshealth_alerts_created_total",
			Help: "Total number of alerts created",
		},
		[]string{"alert_type", "severity"},
	)

	AlertsSuppressedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saleshealth_alerts_suppressed_total",
			Help: "Total number of alert drafts dropped by the suppression window",
		},
		[]string{"alert_type"},
	)

	EvaluatorFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saleshealth_evaluator_failures_total",
			Help: "Total number of evaluator invocations that failed",
		},
		[]string{"evaluator"},
	)

	PassDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "saleshealth_pass_duration_seconds",
			Help:    "Duration of a full monitoring pass",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)
)
