package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "renthub",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "renthub",
			Name:      "cache_hits_total",
			Help:      "Cache hits by cache kind.",
		},
		[]string{"cache"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "renthub",
			Name:      "cache_misses_total",
			Help:      "Cache misses by cache kind.",
		},
		[]string{"cache"},
	)

	QuotesBuilt = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "renthub",
			Name:      "quotes_built_total",
			Help:      "Quotes computed.",
		},
	)

	BookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "renthub",
			Name:      "bookings_created_total",
			Help:      "Bookings accepted.",
		},
	)

	RangeConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "renthub",
			Name:      "range_conflicts_total",
			Help:      "Booking attempts rejected for date conflicts.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			CacheHits,
			CacheMisses,
			QuotesBuilt,
			BookingsCreated,
			RangeConflicts,
		)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}
