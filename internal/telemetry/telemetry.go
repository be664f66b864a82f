// Package telemetry exposes prometheus instrumentation for the comparison
// pipeline.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for one process. Collectors live on a private
// registry so tests can create instances without double-registration panics.
type Metrics struct {
	registry *prometheus.Registry

	ComparisonsTotal   prometheus.Counter
	ComparisonDuration prometheus.Histogram
	ProviderCalls      *prometheus.CounterVec
	ProviderLatency    *prometheus.HistogramVec
	AnalysisFailures   *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		ComparisonsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "modelbench_comparisons_total",
			Help: "Number of comparison requests processed.",
		}),
		ComparisonDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "modelbench_comparison_duration_seconds",
			Help:    "End-to-end duration of comparison requests.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		ProviderCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "modelbench_provider_calls_total",
			Help: "Provider invocations by model and settled outcome.",
		}, []string{"model", "outcome"}),
		ProviderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "modelbench_provider_latency_seconds",
			Help:    "Wall-clock latency of provider invocations.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"model"}),
		AnalysisFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "modelbench_analysis_failures_total",
			Help: "Failed analysis sub-tasks by task name.",
		}, []string{"task"}),
	}

	reg.MustRegister(
		m.ComparisonsTotal,
		m.ComparisonDuration,
		m.ProviderCalls,
		m.ProviderLatency,
		m.AnalysisFailures,
	)
	return m
}

// Handler serves the /metrics endpoint for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
