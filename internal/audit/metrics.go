package audit

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	processedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roster_service",
		Subsystem: "audit",
		Name:      "entries_processed_total",
		Help:      "Number of roster change entries successfully handled.",
	}, []string{"topic", "event_type"})

	handlerErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roster_service",
		Subsystem: "audit",
		Name:      "handler_errors_total",
		Help:      "Number of handler errors grouped by topic and event type.",
	}, []string{"topic", "event_type"})

	decodeErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roster_service",
		Subsystem: "audit",
		Name:      "decode_errors_total",
		Help:      "Number of decode failures per topic.",
	}, []string{"topic"})

	lastEntryGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "roster_service",
		Subsystem: "audit",
		Name:      "last_entry_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successfully processed entry per topic.",
	}, []string{"topic"})
)

func init() {
	prometheus.MustRegister(processedCounter, handlerErrorCounter, decodeErrorCounter, lastEntryGauge)
}

func recordProcessed(entry Entry) {
	processedCounter.WithLabelValues(entry.Topic, entry.EventType).Inc()
	if !entry.Timestamp.IsZero() {
		lastEntryGauge.WithLabelValues(entry.Topic).Set(float64(entry.Timestamp.Unix()))
	}
}

func recordHandlerError(entry Entry) {
	handlerErrorCounter.WithLabelValues(entry.Topic, entry.EventType).Inc()
}

func recordDecodeError(topic string) {
	decodeErrorCounter.WithLabelValues(topic).Inc()
}

// RecordLag allows external callers (e.g. tests) to set the last entry gauge directly.
func RecordLag(topic string, ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastEntryGauge.WithLabelValues(topic).Set(float64(ts.Unix()))
}
