package intel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"betting-insight/internal/config"
	"betting-insight/internal/domain"
	"betting-insight/internal/domain/model"
	"betting-insight/internal/domain/ports/adapter"
	"betting-insight/internal/infra/metrics"
	"betting-insight/internal/infra/providers/httpclient"
	"betting-insight/internal/infra/sentiment"
)

var _ adapter.IntelligenceProvider = (*Client)(nil)

const providerName = "intelligence"

// Client queries the primary intelligence aggregator. One FetchIntel fans
// out into four sub-queries (news, social posts, trending insights, related
// questions) run concurrently; each is guarded on its own so one failure
// never aborts the others.
type Client struct {
	apiKey  string
	baseURL string
	http    *httpclient.Client
	scorer  sentiment.Scorer
	log     *zerolog.Logger
}

func NewClient(cfg config.ProviderConfig, scorer sentiment.Scorer, logger *zerolog.Logger) *Client {
	ic := cfg.Intelligence
	base := ic.BaseURL
	if base == "" {
		base = "https://api.matchintel.io/v1"
	}
	l := logger.With().Str("component", "intel_client").Logger()
	return &Client{
		apiKey:  ic.APIKey,
		baseURL: base,
		http: httpclient.New(httpclient.Options{
			Timeout:     ic.RequestTimeout,
			MinInterval: ic.MinInterval,
		}),
		scorer: scorer,
		log:    &l,
	}
}

func (c *Client) Configured() bool { return c.apiKey != "" }

func (c *Client) FetchIntel(ctx context.Context, home, away, competition string) (*model.Intelligence, error) {
	if !c.Configured() {
		return nil, domain.ErrProviderUnavailable
	}

	fixture := fmt.Sprintf("%s vs %s", home, away)
	out := &model.Intelligence{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	failures := 0

	guard := func(name string, fn func(ctx context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				mu.Lock()
				failures++
				mu.Unlock()
				c.log.Debug().Err(err).Str("subquery", name).Msg("intel sub-query failed")
			}
		}()
	}

	guard("news", func(ctx context.Context) error {
		items, err := c.searchNews(ctx, fixture, competition)
		if err != nil {
			return err
		}
		mu.Lock()
		out.News = items
		mu.Unlock()
		return nil
	})

	guard("social", func(ctx context.Context) error {
		signal, err := c.socialSentiment(ctx, fixture)
		if err != nil {
			return err
		}
		mu.Lock()
		out.Sentiment = signal
		mu.Unlock()
		return nil
	})

	guard("trending", func(ctx context.Context) error {
		insights, rankings, risks, confidence, err := c.trendingInsights(ctx, home, away, competition)
		if err != nil {
			return err
		}
		mu.Lock()
		out.Insights = insights
		out.Rankings = rankings
		out.RiskSignals = risks
		out.ConfidenceSignals = confidence
		mu.Unlock()
		return nil
	})

	guard("questions", func(ctx context.Context) error {
		qs, err := c.relatedQuestions(ctx, fixture)
		if err != nil {
			return err
		}
		mu.Lock()
		out.RelatedQuestions = qs
		mu.Unlock()
		return nil
	})

	wg.Wait()

	if failures == 4 {
		metrics.IncProviderRequest(providerName, "unavailable")
		return nil, domain.ErrProviderUnavailable
	}
	if len(out.News) == 0 && out.Sentiment == nil && len(out.Insights) == 0 && len(out.RelatedQuestions) == 0 {
		metrics.IncProviderRequest(providerName, "empty")
		return nil, domain.ErrProviderUnavailable
	}
	metrics.IncProviderRequest(providerName, "ok")
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dst interface{}) error {
	params.Set("api_key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(dst)
}

func (c *Client) searchNews(ctx context.Context, fixture, competition string) ([]model.NewsItem, error) {
	var payload struct {
		Articles []struct {
			Title       string    `json:"title"`
			URL         string    `json:"url"`
			Snippet     string    `json:"snippet"`
			Source      string    `json:"source"`
			PublishedAt time.Time `json:"published_at"`
		} `json:"articles"`
	}
	params := url.Values{"q": {fixture}, "league": {competition}}
	if err := c.get(ctx, "/news/search", params, &payload); err != nil {
		return nil, err
	}
	items := make([]model.NewsItem, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		if a.URL == "" {
			continue
		}
		items = append(items, model.NewsItem{
			Title:       a.Title,
			URL:         a.URL,
			Snippet:     a.Snippet,
			Source:      a.Source,
			PublishedAt: a.PublishedAt,
		})
	}
	return items, nil
}

func (c *Client) socialSentiment(ctx context.Context, fixture string) (*model.SentimentSignal, error) {
	var payload struct {
		Posts []struct {
			Text string `json:"text"`
		} `json:"posts"`
	}
	if err := c.get(ctx, "/social/posts", url.Values{"q": {fixture}}, &payload); err != nil {
		return nil, err
	}
	if len(payload.Posts) == 0 {
		return nil, nil
	}

	var sum float64
	for _, p := range payload.Posts {
		sum += c.scorer.Score(p.Text)
	}
	avg := sum / float64(len(payload.Posts))
	mood := "mixed"
	switch {
	case avg > 0.2:
		mood = "leaning home side"
	case avg < -0.2:
		mood = "leaning away side"
	}
	return &model.SentimentSignal{
		Score:   avg,
		Samples: len(payload.Posts),
		Summary: fmt.Sprintf("public mood %s across %d posts", mood, len(payload.Posts)),
	}, nil
}

func (c *Client) trendingInsights(ctx context.Context, home, away, competition string) (insights, rankings, risks, confidence []string, err error) {
	var payload struct {
		Insights []struct {
			Text string `json:"text"`
			Kind string `json:"kind"` // "narrative" | "ranking" | "risk" | "confidence"
		} `json:"insights"`
	}
	params := url.Values{"home": {home}, "away": {away}, "league": {competition}}
	if err = c.get(ctx, "/insights/trending", params, &payload); err != nil {
		return nil, nil, nil, nil, err
	}
	for _, ins := range payload.Insights {
		switch ins.Kind {
		case "ranking":
			rankings = append(rankings, ins.Text)
		case "risk":
			risks = append(risks, ins.Text)
		case "confidence":
			confidence = append(confidence, ins.Text)
		default:
			insights = append(insights, ins.Text)
		}
	}
	return insights, rankings, risks, confidence, nil
}

func (c *Client) relatedQuestions(ctx context.Context, fixture string) ([]string, error) {
	var payload struct {
		Questions []string `json:"questions"`
	}
	if err := c.get(ctx, "/questions/related", url.Values{"q": {fixture}}, &payload); err != nil {
		return nil, err
	}
	return payload.Questions, nil
}
