// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type QueueConfig struct {
	Workers          int           `yaml:"workers"`            // concurrent worker slots
	MaxAttempts      int           `yaml:"max_attempts"`       // job attempts before terminal failure
	BackoffBase      time.Duration `yaml:"backoff_base"`       // first retry delay, doubles per attempt
	PollInterval     time.Duration `yaml:"poll_interval"`      // worker dequeue tick
	StallTimeout     time.Duration `yaml:"stall_timeout"`      // visibility deadline for active jobs
	JobsPerSecond    int           `yaml:"jobs_per_second"`    // cap on job starts, protects providers
	KeepCompleted    int           `yaml:"keep_completed"`     // retained completed history
	KeepFailed       int           `yaml:"keep_failed"`        // retained failed history
	InlineFallback   *bool         `yaml:"inline_fallback"`    // run inline when enqueue fails (default on)
	FastDev          bool          `yaml:"fast_dev"`           // always bypass the queue
	StatsTimeout     time.Duration `yaml:"stats_timeout"`      // read-path bound for Stats
}

// InlineFallbackEnabled defaults to true: a submission should degrade to the
// synchronous path rather than fail when the queue is down.
func (q *QueueConfig) InlineFallbackEnabled() bool {
	return q.InlineFallback == nil || *q.InlineFallback
}

type ProviderConfig struct {
	Intelligence struct {
		APIKey         string        `yaml:"api_key"`
		BaseURL        string        `yaml:"base_url"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		MinInterval    time.Duration `yaml:"min_interval"` // self-throttle between requests
	} `yaml:"intelligence"`
	Statistics struct {
		APIKey         string        `yaml:"api_key"`
		BaseURL        string        `yaml:"base_url"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		MinInterval    time.Duration `yaml:"min_interval"`
	} `yaml:"statistics"`
}

type AIConfig struct {
	OpenAIKey string `yaml:"openai_key"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	Disabled  bool   `yaml:"disabled"` // force the deterministic generator
}

type WebConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"` // bearer token for operator routes
}

type Config struct {
	Log       LogConfig      `yaml:"log"`
	Database  DatabaseConfig `yaml:"database"`
	Redis     RedisConfig    `yaml:"redis"`
	Queue     QueueConfig    `yaml:"queue"`
	Providers ProviderConfig `yaml:"providers"`
	AI        AIConfig       `yaml:"ai"`
	Web       WebConfig      `yaml:"web"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" && !cfg.Queue.FastDev {
		return nil, errors.New("redis.url is required unless queue.fast_dev is set")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Queue.Workers <= 0 {
		cfg.Queue.Workers = 2
	}
	if cfg.Queue.MaxAttempts <= 0 {
		cfg.Queue.MaxAttempts = 3
	}
	if cfg.Queue.BackoffBase <= 0 {
		cfg.Queue.BackoffBase = time.Second
	}
	if cfg.Queue.PollInterval <= 0 {
		cfg.Queue.PollInterval = 500 * time.Millisecond
	}
	if cfg.Queue.StallTimeout <= 0 {
		cfg.Queue.StallTimeout = 90 * time.Second
	}
	if cfg.Queue.JobsPerSecond <= 0 {
		cfg.Queue.JobsPerSecond = 2
	}
	if cfg.Queue.KeepCompleted <= 0 {
		cfg.Queue.KeepCompleted = 50
	}
	if cfg.Queue.KeepFailed <= 0 {
		cfg.Queue.KeepFailed = 100
	}
	if cfg.Queue.StatsTimeout <= 0 {
		cfg.Queue.StatsTimeout = 2 * time.Second
	}
	if cfg.Providers.Intelligence.RequestTimeout <= 0 {
		cfg.Providers.Intelligence.RequestTimeout = 15 * time.Second
	}
	if cfg.Providers.Intelligence.MinInterval <= 0 {
		cfg.Providers.Intelligence.MinInterval = 300 * time.Millisecond
	}
	if cfg.Providers.Statistics.RequestTimeout <= 0 {
		cfg.Providers.Statistics.RequestTimeout = 15 * time.Second
	}
	if cfg.Providers.Statistics.MinInterval <= 0 {
		cfg.Providers.Statistics.MinInterval = 300 * time.Millisecond
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o-mini"
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 8080
	}
}
