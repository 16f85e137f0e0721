// Package observability holds the Prometheus collectors for the roster service.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	signupCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roster_service",
		Subsystem: "roster",
		Name:      "signups_total",
		Help:      "Number of successful signups per activity.",
	}, []string{"activity"})

	unregisterCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roster_service",
		Subsystem: "roster",
		Name:      "unregisters_total",
		Help:      "Number of successful unregistrations per activity.",
	}, []string{"activity"})

	rejectionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roster_service",
		Subsystem: "roster",
		Name:      "rejections_total",
		Help:      "Number of rejected roster mutations grouped by operation and reason.",
	}, []string{"operation", "reason"})

	rosterSizeGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "roster_service",
		Subsystem: "roster",
		Name:      "participants",
		Help:      "Current participant count per activity. Capacity is reported, not enforced.",
	}, []string{"activity"})
)

func init() {
	prometheus.MustRegister(signupCounter, unregisterCounter, rejectionCounter, rosterSizeGauge)
}

// RecordSignup counts a successful signup and updates the roster size gauge.
func RecordSignup(activity string, size int) {
	signupCounter.WithLabelValues(activity).Inc()
	rosterSizeGauge.WithLabelValues(activity).Set(float64(size))
}

// RecordUnregister counts a successful unregistration and updates the roster size gauge.
func RecordUnregister(activity string, size int) {
	unregisterCounter.WithLabelValues(activity).Inc()
	rosterSizeGauge.WithLabelValues(activity).Set(float64(size))
}

// RecordRejection counts a rejected mutation.
func RecordRejection(operation, reason string) {
	rejectionCounter.WithLabelValues(operation, reason).Inc()
}

// SetRosterSize primes the roster size gauge, typically from seed data at startup.
func SetRosterSize(activity string, size int) {
	rosterSizeGauge.WithLabelValues(activity).Set(float64(size))
}
