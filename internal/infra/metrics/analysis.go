package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(analysisDurationMs, analysisStrategyTotal) }

var analysisDurationMs = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "analysis_duration_ms",
		Help:    "End-to-end analysis duration distribution in milliseconds.",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	},
)

var analysisStrategyTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "analysis_strategy_total",
		Help: "Which generator strategy produced the result.",
	},
	[]string{"strategy"}, // 'model', 'mock'
)

func ObserveAnalysis(strategy string, latencyMs int) {
	analysisStrategyTotal.WithLabelValues(norm(strategy)).Inc()
	analysisDurationMs.Observe(float64(latencyMs))
}
