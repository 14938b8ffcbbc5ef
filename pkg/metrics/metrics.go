package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)
	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "redis_cache_hits_total",
			Help: "Total number of Redis cache hits",
		},
	)
	CacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "redis_cache_misses_total",
			Help: "Total number of Redis cache misses",
		},
	)
	MongoOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mongo_operation_duration_seconds",
			Help:    "MongoDB operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "collection"},
	)
	MongoErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongo_errors_total",
			Help: "Total number of failed MongoDB operations",
		},
		[]string{"operation", "collection"},
	)
	RedisOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	RedisErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_errors_total",
			Help: "Total number of failed Redis operations",
		},
		[]string{"operation"},
	)
	HydrationBatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "property_hydration_batch_size",
			Help:    "Number of properties hydrated per join",
			Buckets: []float64{1, 5, 10, 25, 50, 100},
		},
	)
	RelationalFilterDropsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_relational_filter_drops_total",
			Help: "Properties removed by the post-join relational filter after the store count",
		},
		[]string{"filter"},
	)
	MainImageLockWait = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "main_image_lock_wait_seconds",
			Help:    "Time spent waiting for the per-property main image lock",
			Buckets: prometheus.DefBuckets,
		},
	)
	ImageHostOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_host_operation_duration_seconds",
			Help:    "Image host call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	EventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_events_published_total",
			Help: "Domain events published to the broker",
		},
		[]string{"routing_key", "status"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(CacheHitsTotal)
		prometheus.MustRegister(CacheMissesTotal)
		prometheus.MustRegister(MongoOperationDuration)
		prometheus.MustRegister(MongoErrorsTotal)
		prometheus.MustRegister(RedisOperationDuration)
		prometheus.MustRegister(RedisErrorsTotal)
		prometheus.MustRegister(HydrationBatchSize)
		prometheus.MustRegister(RelationalFilterDropsTotal)
		prometheus.MustRegister(MainImageLockWait)
		prometheus.MustRegister(ImageHostOperationDuration)
		prometheus.MustRegister(EventsPublishedTotal)
	})
}
