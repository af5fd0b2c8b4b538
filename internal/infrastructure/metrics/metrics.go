package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncRuns counts sync attempts by platform and outcome (success/error).
	SyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storesync_sync_runs_total",
		Help: "Sync attempts by platform and outcome.",
	}, []string{"platform", "outcome"})

	// OrdersIngested counts orders upserted per platform.
	OrdersIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storesync_orders_ingested_total",
		Help: "Orders fetched and upserted per platform.",
	}, []string{"platform"})

	// SyncDuration observes end-to-end sync latency per platform.
	SyncDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storesync_sync_duration_seconds",
		Help:    "End-to-end duration of one integration sync.",
		Buckets: prometheus.DefBuckets,
	}, []string{"platform"})
)
