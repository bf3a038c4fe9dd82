// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service
type Metrics struct {
	registry prometheus.Gatherer

	WebhookEvents      *prometheus.CounterVec
	PlatformActions    *prometheus.CounterVec
	InvalidDestination prometheus.Counter
	WebhookLatency     *prometheus.HistogramVec
	RateLimited        prometheus.Counter
}

// New registers the instruments on a fresh registry
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	return NewWithRegistry(namespace, reg, reg)
}

// NewWithRegistry registers the instruments on reg and serves them from gatherer
func NewWithRegistry(namespace string, reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		registry: gatherer,
		WebhookEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Webhook invocations by endpoint and recovered step.",
		}, []string{"endpoint", "step"}),
		PlatformActions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "platform_actions_total",
			Help:      "Platform API actions by action and outcome.",
		}, []string{"action", "outcome"}),
		InvalidDestination: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_destinations_total",
			Help:      "Destination entries rejected by the number normalizer.",
		}),
		WebhookLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "webhook_latency_ms",
			Help:      "Webhook handling latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"endpoint"}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Webhook requests rejected by the rate limiter.",
		}),
	}
}

// ObserveWebhook records one webhook handled by endpoint
func (m *Metrics) ObserveWebhook(endpoint string, d time.Duration) {
	m.WebhookLatency.WithLabelValues(endpoint).Observe(float64(d.Milliseconds()))
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
