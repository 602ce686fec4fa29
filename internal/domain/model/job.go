package model

import (
	"fmt"
	"time"
)

// JobKey derives the deterministic queue key for a prediction. One active
// job per prediction at a time.
func JobKey(predictionID string) string {
	return "prediction-" + predictionID
}

// AnalysisJob is one queue entry.
type AnalysisJob struct {
	ID           string `json:"id"`
	Key          string `json:"key"`
	PredictionID string `json:"prediction_id"`
	UserID       string `json:"user_id"`
	Attempts     int    `json:"attempts"`
	MaxAttempts  int    `json:"max_attempts"`
	LastError    string `json:"last_error,omitempty"`

	EnqueuedAt time.Time `json:"enqueued_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BackoffDelay returns the delay before the given attempt is retried.
// Exponential, base 1s: attempt 1 -> 1s, 2 -> 2s, 3 -> 4s.
func BackoffDelay(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	if attempt < 1 {
		attempt = 1
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	return d
}

func (j *AnalysisJob) String() string {
	return fmt.Sprintf("%s attempt=%d/%d", j.Key, j.Attempts, j.MaxAttempts)
}

// QueueStats is the operator-facing snapshot of queue depth. Available is
// false when the backing store cannot be reached; counts are zero then.
type QueueStats struct {
	Waiting   int  `json:"waiting"`
	Active    int  `json:"active"`
	Completed int  `json:"completed"`
	Failed    int  `json:"failed"`
	Delayed   int  `json:"delayed"`
	Total     int  `json:"total"`
	Available bool `json:"available"`
}
