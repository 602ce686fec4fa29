package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(queueDepth, enqueueTotal) }

var queueDepth = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "analysis_queue_depth",
		Help: "Current queue depth per state, refreshed on each stats read.",
	},
	[]string{"state"}, // 'waiting', 'active', 'delayed'
)

var enqueueTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "analysis_enqueue_total",
		Help: "Enqueue calls, labeled by result.",
	},
	[]string{"result"}, // 'queued', 'deduped', 'unavailable'
)

func SetQueueDepth(state string, n int) { queueDepth.WithLabelValues(norm(state)).Set(float64(n)) }
func IncEnqueue(result string)          { enqueueTotal.WithLabelValues(norm(result)).Inc() }
