package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors behind a private registry.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal         *prometheus.CounterVec
	GenerationDuration    *prometheus.HistogramVec
	GenerationErrorsTotal *prometheus.CounterVec
	SessionsCreatedTotal  prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interera_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "status"},
		),
		GenerationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "interera_generation_duration_seconds",
				Help:    "Image generation duration in seconds",
				Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
			},
			[]string{"route"},
		),
		GenerationErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interera_generation_errors_total",
				Help: "Failed image generations by route",
			},
			[]string{"route"},
		),
		SessionsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "interera_sessions_created_total",
				Help: "Sessions minted for cookie-less requests",
			},
		),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.GenerationDuration,
		m.GenerationErrorsTotal,
		m.SessionsCreatedTotal,
	)
	return m
}

// Handler serves the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
