//go:build !integration

package sentiment_test

import (
	"testing"

	"betting-insight/internal/infra/sentiment"
)

func TestWordListScorer(t *testing.T) {
	s := sentiment.NewWordListScorer()

	cases := []struct {
		name string
		text string
		want func(float64) bool
	}{
		{
			name: "positive headline",
			text: "Arsenal unbeaten and confident after impressive winning streak",
			want: func(v float64) bool { return v > 0 },
		},
		{
			name: "negative headline",
			text: "Injury crisis deepens as captain suspended and keeper injured",
			want: func(v float64) bool { return v < 0 },
		},
		{
			name: "neutral text scores zero",
			text: "The match kicks off at three on Saturday",
			want: func(v float64) bool { return v == 0 },
		},
		{
			name: "empty text scores zero",
			text: "",
			want: func(v float64) bool { return v == 0 },
		},
		{
			name: "balanced text scores zero",
			text: "won one lost one",
			want: func(v float64) bool { return v == 0 },
		},
		{
			name: "punctuation is stripped",
			text: "Unbeaten! Winning, dominant.",
			want: func(v float64) bool { return v == 1 },
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Score(tc.text)
			if !tc.want(got) {
				t.Errorf("Score(%q) = %v", tc.text, got)
			}
		})
	}
}

func TestWordListScorerBounds(t *testing.T) {
	s := sentiment.NewWordListScorer()
	for _, text := range []string{
		"win win win win win",
		"lost lost lost lost",
		"winning streak against struggling injured opponents",
	} {
		got := s.Score(text)
		if got < -1 || got > 1 {
			t.Errorf("Score(%q) = %v, out of [-1, 1]", text, got)
		}
	}
}
