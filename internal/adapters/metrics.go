package adapters

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	callDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "anchor_adapter_call_duration_seconds",
		Help:    "Duration of external adapter calls",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"adapter"})

	callErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anchor_adapter_call_errors_total",
		Help: "Failed external adapter calls",
	}, []string{"adapter"})

	callCost = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anchor_adapter_call_cost_dollars_total",
		Help: "Accumulated vendor spend by adapter and source",
	}, []string{"adapter", "source"})
)
