package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the moderation counters. A fresh registry per instance
// keeps tests isolated from the default global registry.
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal      *prometheus.CounterVec
	NotificationsTotal *prometheus.CounterVec
	ClassifierErrors   prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moderation_requests_total",
			Help: "Moderation submissions by content type and classification.",
		}, []string{"content_type", "classification"}),
		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moderation_notifications_total",
			Help: "Notification delivery attempts by channel and outcome.",
		}, []string{"channel", "status"}),
		ClassifierErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moderation_classifier_errors_total",
			Help: "Classifier provider failures.",
		}),
	}

	registry.MustRegister(m.RequestsTotal, m.NotificationsTotal, m.ClassifierErrors)
	return m
}

func (m *Metrics) ObserveRequest(contentType, classification string) {
	m.RequestsTotal.WithLabelValues(contentType, classification).Inc()
}

func (m *Metrics) ObserveNotification(channel string, delivered bool) {
	status := "sent"
	if !delivered {
		status = "failed"
	}
	m.NotificationsTotal.WithLabelValues(channel, status).Inc()
}
