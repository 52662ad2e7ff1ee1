package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	fetches  *prometheus.CounterVec
	errors   *prometheus.CounterVec
	patterns *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// New creates a recorder registered on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		fetches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patternscan_source_fetches_total",
				Help: "Exchange requests by endpoint and outcome",
			},
			[]string{"endpoint", "result"},
		),
		errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patternscan_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"kind"},
		),
		patterns: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patternscan_patterns_total",
				Help: "Classification results by label",
			},
			[]string{"pattern"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "patternscan_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch counts one exchange request.
func (r *Recorder) RecordFetch(endpoint, result string) {
	r.fetches.WithLabelValues(endpoint, result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errors.WithLabelValues(kind).Inc()
}

// RecordPattern counts one classification outcome.
func (r *Recorder) RecordPattern(label string) {
	r.patterns.WithLabelValues(label).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
