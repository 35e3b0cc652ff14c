package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Total number of cart mutations",
	}, []string{"op"})

	PromoAppliedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promo_applied_total",
		Help: "Total number of promo code applications",
	}, []string{"code"})

	PromoRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "promo_rejected_total",
		Help: "Total number of unrecognized promo codes dispatched",
	})

	FavoriteTogglesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "favorite_toggles_total",
		Help: "Total number of favorite toggles",
	})

	CatalogFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_fetches_total",
		Help: "Total number of catalog fetch attempts",
	}, []string{"result"})

	CatalogFetchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_fetch_latency_seconds",
		Help:    "Latency of catalog fetch operations",
		Buckets: prometheus.DefBuckets,
	})

	CatalogCacheLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_loads_total",
		Help: "Total number of catalog cache load attempts",
	}, []string{"result"})

	PersistWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "persist_writes_total",
		Help: "Total number of snapshot persist writes",
	}, []string{"key"})

	PersistFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "persist_failures_total",
		Help: "Total number of swallowed persist failures",
	}, []string{"key"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
