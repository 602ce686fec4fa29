package redis

import (
	"context"

	"betting-insight/internal/config"

	"github.com/go-redis/redis/v8"
)

// Client is a thin handle around go-redis so wiring code owns the lifecycle
// explicitly (connect at startup, Close on shutdown).
type Client struct {
	cli *redis.Client
}

func NewClient(ctx context.Context, cfg *config.RedisConfig) (*Client, error) {
	opts := &redis.Options{
		Addr:     cfg.URL,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	c := redis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Client{cli: c}, nil
}

func (c *Client) Ping(ctx context.Context) error { return c.cli.Ping(ctx).Err() }

// Unwrap exposes the underlying client to infra packages that need the full
// command surface (the job queue).
func (c *Client) Unwrap() *redis.Client { return c.cli }

func (c *Client) Close() error { return c.cli.Close() }
