package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	HandlerLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "patternscan",
			Subsystem: "api",
			Name:      "latency_seconds",
			Help:      "Latency of dashboard endpoints",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"endpoint"},
	)

	HandlerErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "patternscan",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Errors by dashboard endpoint and code",
		},
		[]string{"endpoint", "code"},
	)

	WSClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "patternscan",
			Subsystem: "ws",
			Name:      "clients",
			Help:      "Connected websocket subscribers",
		},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(HandlerLatency, HandlerErrors, WSClients)
	})
}
