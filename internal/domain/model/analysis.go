package model

import "time"

// Source is one external document or dataset a citation points at.
// Sources are deduplicated per prediction by URL.
type Source struct {
	ID           string
	PredictionID string
	Provider     string
	URL          string
	Title        string
	Snippet      string
	FetchedAt    time.Time
}

// Citation links one claim in an analysis to exactly one source.
type Citation struct {
	ID         string
	FeedbackID string
	SourceID   string
	SourceURL  string // carried until the source row id is known
	Claim      string
	Excerpt    string
}

// AnalysisSections are the optional richer structured parts of a result.
type AnalysisSections struct {
	TeamComparison    string
	MarketInsight     string
	TacticalBreakdown string
}

// AnalysisResult is the structured output of the analysis generator.
// All list fields are non-nil after Normalize; ConfidenceScore is in [0,1].
type AnalysisResult struct {
	Summary               string
	Strengths             []string
	Risks                 []string
	MissingChecks         []string
	Contradictions        []string
	KeyFactors            []string
	MindChangers          []string
	DataQualityNotes      []string
	ConfidenceExplanation string
	ConfidenceScore       float64
	Citations             []Citation
	Model                 string
	ProcessedIn           time.Duration
	Sections              *AnalysisSections
}

// Normalize enforces the structural contract shared by both generator
// strategies so persistence never special-cases which one ran.
func (r *AnalysisResult) Normalize() {
	if r.Strengths == nil {
		r.Strengths = []string{}
	}
	if r.Risks == nil {
		r.Risks = []string{}
	}
	if r.MissingChecks == nil {
		r.MissingChecks = []string{}
	}
	if r.Contradictions == nil {
		r.Contradictions = []string{}
	}
	if r.KeyFactors == nil {
		r.KeyFactors = []string{}
	}
	if r.MindChangers == nil {
		r.MindChangers = []string{}
	}
	if r.DataQualityNotes == nil {
		r.DataQualityNotes = []string{}
	}
	if r.Citations == nil {
		r.Citations = []Citation{}
	}
	if r.ConfidenceScore < 0 {
		r.ConfidenceScore = 0
	}
	if r.ConfidenceScore > 1 {
		r.ConfidenceScore = 1
	}
}

// Feedback is the persisted form of an AnalysisResult. One row per
// prediction; retries upsert into the same row.
type Feedback struct {
	ID           string
	PredictionID string
	Result       AnalysisResult
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
