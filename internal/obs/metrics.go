// README: Prometheus metrics for the query pipeline.
package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Queries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tripmate_queries_total",
			Help: "Total travel queries processed",
		},
	)

	QueryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripmate_query_failures_total",
			Help: "Queries rejected before dispatch, by stage",
		},
		[]string{"stage"},
	)

	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripmate_provider_requests_total",
			Help: "Outbound provider searches",
		},
		[]string{"provider"},
	)

	ProviderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripmate_provider_errors_total",
			Help: "Provider failures by kind",
		},
		[]string{"provider", "kind"},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tripmate_cache_hits_total",
			Help: "Provider searches served from cache",
		},
	)

	ComposerFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tripmate_composer_fallbacks_total",
			Help: "Responses rendered by the plain fallback after a generation failure",
		},
	)
)
