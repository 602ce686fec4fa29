package model_test

import (
	"testing"
	"time"

	"betting-insight/internal/domain/model"
)

func TestJobKey(t *testing.T) {
	if got := model.JobKey("abc-123"); got != "prediction-abc-123" {
		t.Errorf("JobKey = %q", got)
	}
	if model.JobKey("x") != model.JobKey("x") {
		t.Error("job key must be deterministic")
	}
}

func TestBackoffDelay(t *testing.T) {
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{0, time.Second},  // clamped to first attempt
		{-3, time.Second}, // clamped to first attempt
	}
	for _, tc := range cases {
		if got := model.BackoffDelay(time.Second, tc.attempt); got != tc.want {
			t.Errorf("BackoffDelay(1s, %d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}

	// Zero base falls back to one second.
	if got := model.BackoffDelay(0, 2); got != 2*time.Second {
		t.Errorf("BackoffDelay(0, 2) = %v, want 2s", got)
	}
}
