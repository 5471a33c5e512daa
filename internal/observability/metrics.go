package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "findtogether_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// GeocodeUpstreamErrors counts failed calls to the geocoding service.
	GeocodeUpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "findtogether_geocode_upstream_errors_total",
		Help: "Total number of failed geocoding upstream calls",
	}, []string{"operation"})

	// StorageWriteFailures counts failed object-store writes.
	StorageWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "findtogether_storage_write_failures_total",
		Help: "Total number of failed object storage writes",
	})

	// SignedURLsIssued counts signed read URLs handed out.
	SignedURLsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "findtogether_signed_urls_issued_total",
		Help: "Total number of signed read URLs issued",
	})
)
