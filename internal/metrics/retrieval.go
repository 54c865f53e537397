package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval Prometheus metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kreat",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "kreat",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kreat",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	NormalizeCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kreat",
			Name:      "normalize_cache_total",
			Help:      "Text normalizer cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	RetrievalBranchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kreat",
			Name:      "retrieval_branch_duration_seconds",
			Help:      "Duration of a single retrieval branch",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		},
		[]string{"source"},
	)

	RetrievalTimeoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kreat",
			Name:      "retrieval_timeouts_total",
			Help:      "Retrieval branches abandoned on budget exhaustion",
		},
		[]string{"source"},
	)
)

// RegisterRetrievalMetrics registers all retrieval metrics with the default registry.
// Called explicitly from the composition root (no init()).
func RegisterRetrievalMetrics() {
	prometheus.MustRegister(
		EmbeddingRequestsTotal,
		EmbeddingRequestDuration,
		EmbeddingCacheTotal,
		NormalizeCacheTotal,
		RetrievalBranchDuration,
		RetrievalTimeoutsTotal,
	)
}
