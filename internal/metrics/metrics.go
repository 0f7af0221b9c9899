// Package metrics holds the prometheus counters of the application pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "amiable"

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	ApplicationsSubmitted *prometheus.CounterVec
	Decisions             *prometheus.CounterVec
	NotificationDispatch  *prometheus.CounterVec
	OutboxClaimed         prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ApplicationsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "applications_submitted_total",
			Help:      "Applications accepted for review",
		}, []string{"purpose"}),
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "application_decisions_total",
			Help:      "Reviewer decisions committed",
		}, []string{"decision"}),
		NotificationDispatch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_dispatch_total",
			Help:      "Decision email delivery attempts",
		}, []string{"kind", "result"}),
		OutboxClaimed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "notification_outbox_claimed",
			Help:      "Outbox rows claimed by the last relay pass",
		}),
	}

	m.registry.MustRegister(
		m.ApplicationsSubmitted,
		m.Decisions,
		m.NotificationDispatch,
		m.OutboxClaimed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Submitted(purpose string) {
	if m == nil {
		return
	}
	m.ApplicationsSubmitted.WithLabelValues(purpose).Inc()
}

func (m *Metrics) Decided(decision string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(decision).Inc()
}

func (m *Metrics) Dispatched(kind string, delivered bool) {
	if m == nil {
		return
	}
	result := "delivered"
	if !delivered {
		result = "failed"
	}
	m.NotificationDispatch.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) Claimed(n int) {
	if m == nil {
		return
	}
	m.OutboxClaimed.Set(float64(n))
}

// Handler serves this instance's registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
