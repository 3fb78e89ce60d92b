package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Publish outcomes recorded on eventsPublished.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

var (
	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wishkit",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Widget events handed to Kafka, by topic, event type and outcome",
		},
		[]string{"topic", "event_type", "outcome"},
	)

	publishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wishkit",
			Subsystem: "events",
			Name:      "publish_duration_seconds",
			Help:      "Time spent writing one widget event to Kafka",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"topic"},
	)
)

func observePublish(topic, eventType string, seconds float64, err error) {
	publishDuration.WithLabelValues(topic).Observe(seconds)
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
	}
	eventsPublished.WithLabelValues(topic, eventType, outcome).Inc()
}
