package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

// Latency buckets in milliseconds; upstream LLM calls dominate the tail.
var latencyBuckets = []float64{
	25, 50, 100,
	250, 500, 1000,
	2500, 5000, 10000,
	30000, 60000,
}

var (
	SubmissionsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "modgate_submissions_total",
			Help: "Total number of moderation submissions processed",
		},
		[]string{"kind", "result"}, // result: completed, cache_hit, failed, rejected
	)

	ClassificationsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "modgate_classifications_total",
			Help: "Verdicts persisted by classification",
		},
		[]string{"classification"},
	)

	UpstreamLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "modgate_upstream_latency_ms",
			Help:    "Classification upstream latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"kind"},
	)

	NotificationsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "modgate_notifications_total",
			Help: "Notification attempts by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	DispatchDroppedTotal = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "modgate_dispatch_dropped_total",
			Help: "Dispatch jobs dropped because the queue was full or stopped",
		},
	)
)

// Handler serves the registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
