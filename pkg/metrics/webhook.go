package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WebhookMetrics records processing outcomes for payment webhook events.
type WebhookMetrics struct {
	processed *prometheus.CounterVec
	duplicate *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewWebhookMetrics registers webhook metrics on the provided registerer.
func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	if reg == nil {
		return &WebhookMetrics{}
	}
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_processed",
		Help: "Webhook events processed, by event type and outcome.",
	}, []string{"event_type", "outcome"})
	duplicate := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_duplicate",
		Help: "Webhook events skipped because they were already handled.",
	}, []string{"event_type"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "webhook_event_duration_seconds",
		Help:    "Time spent reconciling a webhook event.",
		Buckets: prometheus.DefBuckets,
	}, []string{"event_type"})
	reg.MustRegister(processed, duplicate, duration)
	return &WebhookMetrics{
		processed: processed,
		duplicate: duplicate,
		duration:  duration,
	}
}

// IncProcessed records a processed event with its outcome label.
func (w *WebhookMetrics) IncProcessed(eventType, outcome string) {
	if w == nil || w.processed == nil {
		return
	}
	w.processed.WithLabelValues(normalizeLabel(eventType), normalizeLabel(outcome)).Inc()
}

// IncDuplicate records an event skipped by the idempotency guard.
func (w *WebhookMetrics) IncDuplicate(eventType string) {
	if w == nil || w.duplicate == nil {
		return
	}
	w.duplicate.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// ObserveDuration records how long reconciling an event took.
func (w *WebhookMetrics) ObserveDuration(eventType string, duration time.Duration) {
	if w == nil || w.duration == nil {
		return
	}
	w.duration.WithLabelValues(normalizeLabel(eventType)).Observe(duration.Seconds())
}
