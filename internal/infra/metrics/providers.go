package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(providerRequestsTotal, aggregationTierUsed) }

var providerRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "provider_requests_total",
		Help: "External provider requests, labeled by provider and outcome.",
	},
	[]string{"provider", "outcome"}, // 'ok', 'empty', 'unavailable', 'error'
)

var aggregationTierUsed = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "aggregation_tier_used_total",
		Help: "How often each tier contributed data to a match context.",
	},
	[]string{"tier"},
)

func IncProviderRequest(provider, outcome string) {
	providerRequestsTotal.WithLabelValues(norm(provider), norm(outcome)).Inc()
}

func IncTierUsed(tier string) { aggregationTierUsed.WithLabelValues(norm(tier)).Inc() }
