package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the clip service.
type Metrics struct {
	registry            *prometheus.Registry
	requestsTotal       prometheus.Counter
	clipsExtractedTotal prometheus.Counter
	clipFailuresTotal   prometheus.Counter
	activeExtractions   prometheus.Gauge
	errorsTotal         prometheus.Counter
}

// New creates and registers Prometheus metrics for the clip service.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "clip_requests_total",
		Help: "Total number of HTTP requests received",
	})
	clipsExtractedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "clip_extracted_total",
		Help: "Total number of clips successfully extracted and served",
	})
	clipFailuresTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "clip_failures_total",
		Help: "Total number of failed clip extractions",
	})
	activeExtractions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "clip_active_extractions",
		Help: "Number of extraction subprocesses currently running",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "clip_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})

	registry.MustRegister(
		requestsTotal,
		clipsExtractedTotal,
		clipFailuresTotal,
		activeExtractions,
		errorsTotal,
	)

	return &Metrics{
		registry:            registry,
		requestsTotal:       requestsTotal,
		clipsExtractedTotal: clipsExtractedTotal,
		clipFailuresTotal:   clipFailuresTotal,
		activeExtractions:   activeExtractions,
		errorsTotal:         errorsTotal,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncClipsExtracted increments the successful extraction counter.
func (m *Metrics) IncClipsExtracted() {
	m.clipsExtractedTotal.Inc()
}

// IncClipFailures increments the failed extraction counter.
func (m *Metrics) IncClipFailures() {
	m.clipFailuresTotal.Inc()
}

// IncActiveExtractions increments the running-subprocess gauge.
func (m *Metrics) IncActiveExtractions() {
	m.activeExtractions.Inc()
}

// DecActiveExtractions decrements the running-subprocess gauge.
func (m *Metrics) DecActiveExtractions() {
	m.activeExtractions.Dec()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
