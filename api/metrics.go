package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	calculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "garment_cost_calculations_total",
		Help: "Calculations by outcome.",
	}, []string{"outcome"})

	calculationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "garment_cost_calculation_duration_seconds",
		Help:    "End-to-end calculate request duration.",
		Buckets: prometheus.DefBuckets,
	})
)
