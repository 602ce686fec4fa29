package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(jobsProcessedTotal, jobAttemptsTotal, jobsReclaimedTotal) }

var jobsProcessedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "analysis_jobs_processed_total",
		Help: "Total number of analysis jobs finished, labeled by terminal status.",
	},
	[]string{"status"}, // 'completed', 'failed'
)

var jobAttemptsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "analysis_job_attempts_total",
		Help: "Total job attempts, labeled by outcome.",
	},
	[]string{"outcome"}, // 'ok', 'retry', 'exhausted'
)

var jobsReclaimedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "analysis_jobs_reclaimed_total",
		Help: "Jobs re-queued after their visibility deadline passed.",
	},
)

func IncJob(status string)      { jobsProcessedTotal.WithLabelValues(norm(status)).Inc() }
func IncAttempt(outcome string) { jobAttemptsTotal.WithLabelValues(norm(outcome)).Inc() }
func AddReclaimed(n int)        { jobsReclaimedTotal.Add(float64(n)) }
