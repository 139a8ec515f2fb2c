package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alertgate_orders_total",
		Help: "The total number of orders processed",
	}, []string{"status", "side"})

	LatencyBucket = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "alertgate_latency_bucket",
		Help:    "Request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	// DegradedFetches distinguishes a swallowed upstream failure (empty
	// balances, fallback product info) from a genuine zero result.
	DegradedFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alertgate_degraded_fetches_total",
		Help: "Upstream fetches that fell back to a degraded default",
	}, []string{"source"})
)
