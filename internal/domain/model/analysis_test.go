package model_test

import (
	"testing"

	"betting-insight/internal/domain/model"
)

func TestAnalysisResultNormalize(t *testing.T) {
	t.Run("should replace nil lists with empty slices", func(t *testing.T) {
		r := &model.AnalysisResult{}
		r.Normalize()

		for name, list := range map[string][]string{
			"Strengths":        r.Strengths,
			"Risks":            r.Risks,
			"MissingChecks":    r.MissingChecks,
			"Contradictions":   r.Contradictions,
			"KeyFactors":       r.KeyFactors,
			"MindChangers":     r.MindChangers,
			"DataQualityNotes": r.DataQualityNotes,
		} {
			if list == nil {
				t.Errorf("%s is nil after Normalize", name)
			}
		}
		if r.Citations == nil {
			t.Error("Citations is nil after Normalize")
		}
	})

	t.Run("should clamp confidence into the unit interval", func(t *testing.T) {
		r := &model.AnalysisResult{ConfidenceScore: 1.7}
		r.Normalize()
		if r.ConfidenceScore != 1 {
			t.Errorf("confidence %v, want 1", r.ConfidenceScore)
		}

		r = &model.AnalysisResult{ConfidenceScore: -0.2}
		r.Normalize()
		if r.ConfidenceScore != 0 {
			t.Errorf("confidence %v, want 0", r.ConfidenceScore)
		}
	})

	t.Run("should keep populated fields untouched", func(t *testing.T) {
		r := &model.AnalysisResult{
			Strengths:       []string{"a"},
			ConfidenceScore: 0.62,
		}
		r.Normalize()
		if len(r.Strengths) != 1 || r.Strengths[0] != "a" {
			t.Errorf("Strengths mutated: %v", r.Strengths)
		}
		if r.ConfidenceScore != 0.62 {
			t.Errorf("confidence mutated: %v", r.ConfidenceScore)
		}
	})
}
