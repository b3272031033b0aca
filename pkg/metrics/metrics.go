// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// RelayDuration tracks webhook relay round trips.
	RelayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webhook_relay_duration_seconds",
			Help:    "Webhook relay round trip duration",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"outcome"},
	)

	// RelayTotal counts relay attempts by outcome (ok, upstream_error, transport_error, rejected).
	RelayTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_relay_total",
			Help: "Webhook relay attempts",
		},
		[]string{"outcome"},
	)

	// DraftDuration tracks reply draft generation time per provider.
	DraftDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_draft_duration_seconds",
			Help:    "LLM reply draft generation duration",
			Buckets: []float64{.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider", "status"},
	)

	// SSEConnectionsActive tracks open conversation event streams.
	SSEConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_connections_active",
			Help: "Number of active SSE connections",
		},
	)

	// RealtimeEventsTotal counts message insert events by direction (published, delivered).
	RealtimeEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_events_total",
			Help: "Message insert events on the change feed",
		},
		[]string{"direction"},
	)

	// MessagesTotal tracks messages written by role.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_total",
			Help: "Total messages written",
		},
		[]string{"role"},
	)

	// CompaniesOnboarded counts successful onboardings.
	CompaniesOnboarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "companies_onboarded_total",
			Help: "Companies created through onboarding",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordRelay records the outcome of one relay call.
func RecordRelay(outcome string, duration float64) {
	RelayDuration.WithLabelValues(outcome).Observe(duration)
	RelayTotal.WithLabelValues(outcome).Inc()
}

// RecordDraft records one draft generation.
func RecordDraft(provider, status string, duration float64) {
	DraftDuration.WithLabelValues(provider, status).Observe(duration)
}

// IncrementSSEConnections increments the active SSE connection count.
func IncrementSSEConnections() {
	SSEConnectionsActive.Inc()
}

// DecrementSSEConnections decrements the active SSE connection count.
func DecrementSSEConnections() {
	SSEConnectionsActive.Dec()
}
