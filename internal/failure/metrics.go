package failure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	routedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anchor_failure_routed_total",
		Help: "Failure records delivered to a bay",
	}, []string{"bay"})

	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anchor_failure_route_retries_total",
		Help: "Delivery retries against a bay store",
	}, []string{"bay"})

	escalatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anchor_failure_escalated_total",
		Help: "Records escalated to the dead-letter store",
	}, []string{"bay"})

	parkedGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "anchor_failure_parked_records",
		Help: "Records parked in memory awaiting redelivery",
	})
)
