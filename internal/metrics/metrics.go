// Package metrics defines the Prometheus instrumentation for billsplit.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BillsExtracted counts bills successfully extracted and stored.
	BillsExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billsplit_bills_extracted_total",
		Help: "Number of bills successfully extracted from images.",
	})

	// ExtractionFailures counts failed extraction attempts.
	ExtractionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billsplit_extraction_failures_total",
		Help: "Number of failed bill extraction attempts.",
	})

	// ExtractionDuration observes how long the vision model takes.
	ExtractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "billsplit_extraction_duration_seconds",
		Help:    "Duration of bill extraction calls.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
	})

	// ShareCalculations counts share calculations by outcome.
	ShareCalculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billsplit_share_calculations_total",
		Help: "Number of share calculation requests by outcome.",
	}, []string{"outcome"})
)
