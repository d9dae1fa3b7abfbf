package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "peony",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	overrideWrites = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "peony",
			Name:      "override_writes_total",
			Help:      "Successful administrative override writes.",
		},
	)

	feedDeliveries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "peony",
			Name:      "feed_deliveries_total",
			Help:      "Full-snapshot change feed deliveries.",
		},
	)

	assembleFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "peony",
			Name:      "assemble_failures_total",
			Help:      "Confirmation assembly failures by field error code.",
		},
		[]string{"code"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, overrideWrites, feedDeliveries, assembleFailures)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncOverrideWrite counts one successful override write.
func IncOverrideWrite() {
	overrideWrites.Inc()
}

// IncFeedDelivery counts one snapshot delivery to subscribers.
func IncFeedDelivery() {
	feedDeliveries.Inc()
}

// IncAssembleFailure counts one validation failure by code.
func IncAssembleFailure(code string) {
	assembleFailures.WithLabelValues(code).Inc()
}
