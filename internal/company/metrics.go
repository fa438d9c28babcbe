package company

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anchor_company_match_outcomes_total",
		Help: "Company fuzzy match outcomes by status",
	}, []string{"status"})

	patternOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anchor_company_pattern_outcomes_total",
		Help: "Email pattern discovery outcomes by source",
	}, []string{"source"})

	readinessEvals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anchor_company_readiness_evaluations_total",
		Help: "Readiness evaluations by computed readiness",
	}, []string{"readiness"})
)
