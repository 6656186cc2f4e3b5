package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for external provider traffic and pipeline outcomes.
var (
	ExternalRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadtrip_external_requests_total",
		Help: "External provider requests by provider, operation and status.",
	}, []string{"provider", "op", "status"})

	SegmentFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roadtrip_segment_fallbacks_total",
		Help: "Route segments that fell back to a straight-line estimate.",
	})

	PlanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "roadtrip_plan_duration_seconds",
		Help:    "End-to-end trip planning duration.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	CatalogSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roadtrip_catalog_cities",
		Help: "Number of cities held by the catalog after the last fetch.",
	})
)
