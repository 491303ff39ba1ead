package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DispatchMetrics records outbox publishing and notification delivery
// outcomes.
type DispatchMetrics struct {
	publishDuration *prometheus.HistogramVec
	published       *prometheus.CounterVec
	publishFailed   *prometheus.CounterVec
	emailsSent      *prometheus.CounterVec
	emailsFailed    *prometheus.CounterVec
	duplicates      *prometheus.CounterVec
}

// NewDispatchMetrics registers dispatch metrics on the provided registerer.
func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	if reg == nil {
		return &DispatchMetrics{}
	}
	publishDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outbox_publish_duration_seconds",
		Help:    "Duration of outbox publish batches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"worker"})
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_published",
		Help: "Outbox events successfully published.",
	}, []string{"event_type"})
	publishFailed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_publish_failed",
		Help: "Outbox events that failed to publish.",
	}, []string{"event_type"})
	emailsSent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_emails_sent",
		Help: "Notification emails delivered to the mail provider.",
	}, []string{"event_type"})
	emailsFailed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_emails_failed",
		Help: "Notification emails the mail provider rejected.",
	}, []string{"event_type"})
	duplicates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_events_duplicate",
		Help: "Notification events skipped as already processed.",
	}, []string{"event_type"})
	reg.MustRegister(publishDuration, published, publishFailed, emailsSent, emailsFailed, duplicates)
	return &DispatchMetrics{
		publishDuration: publishDuration,
		published:       published,
		publishFailed:   publishFailed,
		emailsSent:      emailsSent,
		emailsFailed:    emailsFailed,
		duplicates:      duplicates,
	}
}

// ObservePublishDuration records the duration for a publish batch.
func (d *DispatchMetrics) ObservePublishDuration(worker string, duration time.Duration) {
	if d == nil || d.publishDuration == nil {
		return
	}
	d.publishDuration.WithLabelValues(normalizeLabel(worker)).Observe(duration.Seconds())
}

// IncPublished increments the published counter for an event type.
func (d *DispatchMetrics) IncPublished(eventType string) {
	if d == nil || d.published == nil {
		return
	}
	d.published.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncPublishFailed increments the publish failure counter for an event type.
func (d *DispatchMetrics) IncPublishFailed(eventType string) {
	if d == nil || d.publishFailed == nil {
		return
	}
	d.publishFailed.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncEmailSent increments the sent counter for an event type.
func (d *DispatchMetrics) IncEmailSent(eventType string) {
	if d == nil || d.emailsSent == nil {
		return
	}
	d.emailsSent.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncEmailFailed increments the failed counter for an event type.
func (d *DispatchMetrics) IncEmailFailed(eventType string) {
	if d == nil || d.emailsFailed == nil {
		return
	}
	d.emailsFailed.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncDuplicate increments the duplicate counter for an event type.
func (d *DispatchMetrics) IncDuplicate(eventType string) {
	if d == nil || d.duplicates == nil {
		return
	}
	d.duplicates.WithLabelValues(normalizeLabel(eventType)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
