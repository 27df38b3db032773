package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	eventsTotal       *prometheus.CounterVec
	correctionSeconds prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barycorr_events_total",
				Help: "Total number of event times read, by outcome.",
			},
			[]string{"outcome"},
		),
		correctionSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "barycorr_correction_seconds",
				Help:    "Absolute barycentric correction applied to the event times.",
				Buckets: prometheus.LinearBuckets(0, 50, 11),
			},
		),
	}
	reg.MustRegister(m.eventsTotal, m.correctionSeconds)
	return m
}
