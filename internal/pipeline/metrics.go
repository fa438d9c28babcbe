package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	batchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "anchor_batch_duration_seconds",
		Help:    "Duration of full batch runs",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
	})

	rowsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anchor_rows_processed_total",
		Help: "Slot rows processed across all batches",
	})
)
