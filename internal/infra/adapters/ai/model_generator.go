package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"betting-insight/internal/domain"
	"betting-insight/internal/domain/model"
	"betting-insight/internal/domain/ports/adapter"
)

var _ adapter.AnalysisGenerator = (*ModelGenerator)(nil)

// ModelGenerator calls an OpenAI-compatible chat-completions endpoint and
// parses a JSON analysis object out of the reply.
type ModelGenerator struct {
	apiKey string
	base   string
	model  string
	client *http.Client
}

func NewModelGenerator(apiKey, baseURL, model string) (*ModelGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("model api key empty")
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &ModelGenerator{
		apiKey: apiKey,
		base:   baseURL,
		model:  model,
		client: &http.Client{Timeout: 45 * time.Second},
	}, nil
}

func (g *ModelGenerator) Name() string { return "model" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// modelPayload is the JSON object the prompt asks the model to emit.
type modelPayload struct {
	Prediction            string   `json:"prediction"`
	Confidence            *float64 `json:"confidence"`
	Summary               string   `json:"summary"`
	Strengths             []string `json:"strengths"`
	Risks                 []string `json:"risks"`
	MissingChecks         []string `json:"missing_checks"`
	Contradictions        []string `json:"contradictions"`
	KeyFactors            []string `json:"key_factors"`
	MindChangers          []string `json:"what_would_change_my_mind"`
	DataQualityNotes      []string `json:"data_quality_notes"`
	ConfidenceExplanation string   `json:"confidence_explanation"`
	TeamComparison        string   `json:"team_comparison"`
	MarketInsight         string   `json:"market_insight"`
	TacticalBreakdown     string   `json:"tactical_breakdown"`
}

func (g *ModelGenerator) Generate(ctx context.Context, pred *model.Prediction, mctx *model.MatchContext) (*model.AnalysisResult, error) {
	start := time.Now()

	reqBody := struct {
		Model       string        `json:"model"`
		Messages    []chatMessage `json:"messages"`
		Temperature float64       `json:"temperature"`
	}{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(pred, mctx)},
		},
		Temperature: 0.3,
	}

	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.base+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("completions http %d", resp.StatusCode)
	}

	var payload struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	var content string
	for _, c := range payload.Choices {
		if c.Message.Content != "" {
			content = c.Message.Content
			break
		}
	}
	if content == "" {
		return nil, fmt.Errorf("%w: empty completion", domain.ErrInvalidModelResponse)
	}

	result, err := g.parse(content)
	if err != nil {
		return nil, err
	}
	result.Model = g.model
	result.ProcessedIn = time.Since(start)
	result.Normalize()
	return result, nil
}

// parse extracts the JSON object from the completion text (tolerant of
// surrounding prose and markdown fencing) and validates the contract:
// a prediction label must be present and confidence must sit in [0,1].
func (g *ModelGenerator) parse(content string) (*model.AnalysisResult, error) {
	raw, ok := ExtractJSON(content)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in completion", domain.ErrInvalidModelResponse)
	}

	var p modelPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidModelResponse, err)
	}
	if p.Prediction == "" {
		return nil, fmt.Errorf("%w: missing prediction label", domain.ErrInvalidModelResponse)
	}
	if p.Confidence == nil || *p.Confidence < 0 || *p.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence out of range", domain.ErrInvalidModelResponse)
	}

	result := &model.AnalysisResult{
		Summary:               p.Summary,
		Strengths:             p.Strengths,
		Risks:                 p.Risks,
		MissingChecks:         p.MissingChecks,
		Contradictions:        p.Contradictions,
		KeyFactors:            p.KeyFactors,
		MindChangers:          p.MindChangers,
		DataQualityNotes:      p.DataQualityNotes,
		ConfidenceExplanation: p.ConfidenceExplanation,
		ConfidenceScore:       *p.Confidence,
	}
	if p.Summary == "" {
		result.Summary = p.Prediction
	}
	if p.TeamComparison != "" || p.MarketInsight != "" || p.TacticalBreakdown != "" {
		result.Sections = &model.AnalysisSections{
			TeamComparison:    p.TeamComparison,
			MarketInsight:     p.MarketInsight,
			TacticalBreakdown: p.TacticalBreakdown,
		}
	}
	return result, nil
}
