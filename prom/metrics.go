// Package prom exposes Prometheus counters for the archiving pipeline.
package prom

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process counters. All record methods are safe to call
// on a nil receiver, so instrumentation points don't need nil checks.
type Metrics struct {
	registry *prometheus.Registry

	jobsStarted   prometheus.Counter
	jobsCompleted prometheus.Counter
	jobsFailed    prometheus.Counter
	mediaSaved    prometheus.Counter
	bytesSaved    prometheus.Counter
}

// New creates a Metrics with its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		jobsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "advault_jobs_started_total",
			Help: "Archiving jobs submitted.",
		}),
		jobsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "advault_jobs_completed_total",
			Help: "Archiving jobs that reached the done state.",
		}),
		jobsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "advault_jobs_failed_total",
			Help: "Archiving jobs that reached the error state.",
		}),
		mediaSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "advault_media_saved_total",
			Help: "Media files persisted into archive folders.",
		}),
		bytesSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "advault_media_saved_bytes_total",
			Help: "Bytes of media persisted into archive folders.",
		}),
	}
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// JobStarted records a submitted job.
func (m *Metrics) JobStarted() {
	if m == nil {
		return
	}
	m.jobsStarted.Inc()
}

// JobCompleted records a job reaching the done state.
func (m *Metrics) JobCompleted() {
	if m == nil {
		return
	}
	m.jobsCompleted.Inc()
}

// JobFailed records a job reaching the error state.
func (m *Metrics) JobFailed() {
	if m == nil {
		return
	}
	m.jobsFailed.Inc()
}

// MediaSaved records one persisted media file of the given size.
func (m *Metrics) MediaSaved(bytes int) {
	if m == nil {
		return
	}
	m.mediaSaved.Inc()
	m.bytesSaved.Add(float64(bytes))
}
