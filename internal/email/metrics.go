package email

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anchor_emails_generated_total",
		Help: "Generated addresses by source and verification status",
	}, []string{"source", "status"})

	skippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anchor_email_generation_skipped_total",
		Help: "Rows skipped by the golden-rule gates",
	})
)
