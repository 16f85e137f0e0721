package events

import "github.com/prometheus/client_golang/prometheus"

var (
	deliveredCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "roster_service",
		Subsystem: "events",
		Name:      "delivered_total",
		Help:      "Number of roster changes successfully published to Kafka.",
	})

	failedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "roster_service",
		Subsystem: "events",
		Name:      "failed_total",
		Help:      "Number of roster changes that failed to publish and were requeued.",
	})

	batchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "roster_service",
		Subsystem: "events",
		Name:      "batch_duration_seconds",
		Help:      "Time spent claiming and delivering journal batches.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
	})
)

func init() {
	prometheus.MustRegister(deliveredCounter, failedCounter, batchDuration)
}
