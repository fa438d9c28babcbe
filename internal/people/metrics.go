package people

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	personMatchOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anchor_person_match_outcomes_total",
		Help: "Person fuzzy match outcomes by status",
	}, []string{"status"})

	employmentRetrievals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anchor_employment_retrievals_total",
		Help: "Successful employment retrievals by source strategy",
	}, []string{"strategy"})

	employerValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anchor_employer_validations_total",
		Help: "Person-company validations by result",
	}, []string{"result"})
)
