package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"betting-insight/internal/domain"
)

// Client wraps http.Client with a minimum inter-request interval and
// bounded retries. Quota responses (429/403) are not retried; they surface
// as domain.ErrProviderUnavailable so the caller's fallback chain proceeds.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	maxElapsed time.Duration
}

type Options struct {
	Timeout     time.Duration
	MinInterval time.Duration // minimum gap between requests
	MaxElapsed  time.Duration // total retry budget
}

func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MinInterval == 0 {
		opts.MinInterval = 300 * time.Millisecond
	}
	if opts.MaxElapsed == 0 {
		opts.MaxElapsed = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(rate.Every(opts.MinInterval), 1),
		maxElapsed: opts.MaxElapsed,
	}
}

// Do performs the request, waiting on the limiter first and retrying
// transient failures with exponential backoff.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var resp *http.Response
	operation := func() error {
		var err error
		resp, err = c.httpClient.Do(req)
		if err != nil {
			return err
		}
		switch {
		case resp.StatusCode == http.StatusOK:
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden:
			resp.Body.Close()
			// Quota exhausted; retrying would burn more of it.
			return backoff.Permanent(domain.ErrProviderUnavailable)
		default:
			resp.Body.Close()
			return &StatusError{StatusCode: resp.StatusCode}
		}
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.MaxElapsedTime = c.maxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(strategy, ctx)); err != nil {
		return nil, err
	}
	return resp, nil
}

// StatusError is a non-200 response that is not a quota signal.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d (%s)", e.StatusCode, http.StatusText(e.StatusCode))
}
