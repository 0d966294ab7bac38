package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

var (
	invocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "panel_handler_invocations_total",
			Help: "Handler invocations by outcome",
		},
		[]string{"handler", "outcome"},
	)

	invocationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "panel_handler_duration_seconds",
			Help:    "Handler latency including JIRA round trips",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler"},
	)

	subtasksReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "panel_subtasks_returned",
			Help:    "Subtasks returned per board load",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"strategy"},
	)
)
