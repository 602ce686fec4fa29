package model

import "time"

type PredictionStatus string

const (
	PredictionStatusPending    PredictionStatus = "pending"
	PredictionStatusProcessing PredictionStatus = "processing"
	PredictionStatusCompleted  PredictionStatus = "completed"
	PredictionStatusFailed     PredictionStatus = "failed"
)

// Prediction is a user's wager claim. It is created by the submission flow
// in state pending and mutated only by the analysis pipeline afterwards.
type Prediction struct {
	ID          string
	UserID      string
	Status      PredictionStatus
	Competition string
	HomeTeam    string
	AwayTeam    string
	KickoffAt   time.Time
	Market      string
	Pick        string
	Odds        float64
	Stake       *float64
	Reasoning   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Terminal reports whether no further automatic transition exists.
func (s PredictionStatus) Terminal() bool {
	return s == PredictionStatusCompleted || s == PredictionStatusFailed
}

// CanTransition enforces the pipeline state machine:
// pending -> processing -> completed|failed, plus the direct
// pending -> failed path taken when enqueue itself fails.
//
// failed -> processing is the queue-retry re-entry: an attempt that threw
// marks the prediction failed before the job is retried, and a later attempt
// picks it back up. failed only becomes final once the retry budget is
// exhausted; completed is always final.
func (s PredictionStatus) CanTransition(to PredictionStatus) bool {
	switch s {
	case PredictionStatusPending:
		return to == PredictionStatusProcessing || to == PredictionStatusFailed
	case PredictionStatusProcessing:
		return to == PredictionStatusCompleted || to == PredictionStatusFailed
	case PredictionStatusFailed:
		return to == PredictionStatusProcessing
	default:
		return false
	}
}
