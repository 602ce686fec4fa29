// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"betting-insight/internal/config"
	"betting-insight/internal/domain/ports/adapter"
	aiAdapters "betting-insight/internal/infra/adapters/ai"
	"betting-insight/internal/infra/aggregate"
	pg "betting-insight/internal/infra/db/postgres"
	"betting-insight/internal/infra/logging"
	"betting-insight/internal/infra/metrics"
	"betting-insight/internal/infra/providers/estimate"
	"betting-insight/internal/infra/providers/intel"
	"betting-insight/internal/infra/providers/sportstats"
	"betting-insight/internal/infra/queue"
	red "betting-insight/internal/infra/redis"
	"betting-insight/internal/infra/sentiment"
	"betting-insight/internal/infra/web"
	"betting-insight/internal/infra/worker"
	"betting-insight/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	tm := pg.NewTxManager(pool)

	// ---- Repositories ----
	predictionRepo := pg.NewPredictionRepo(pool)
	feedbackRepo := pg.NewFeedbackRepo(pool)
	sourceRepo := pg.NewSourceRepo(pool)
	citationRepo := pg.NewCitationRepo(pool)

	// ---- Providers & aggregation ----
	scorer := sentiment.NewWordListScorer()
	intelClient := intel.NewClient(cfg.Providers, scorer, logger)
	statsClient := sportstats.NewClient(cfg.Providers, logger)
	aggregator := aggregate.NewAggregator(intelClient, statsClient, estimate.NewEstimator(), logger)

	// ---- Analysis generator (model-backed with deterministic fallback) ----
	var primary adapter.AnalysisGenerator
	if !cfg.AI.Disabled && cfg.AI.OpenAIKey != "" {
		primary, err = aiAdapters.NewModelGenerator(cfg.AI.OpenAIKey, cfg.AI.BaseURL, cfg.AI.Model)
		if err != nil {
			logger.Fatal().Err(err).Msg("model generator init failed")
		}
		logger.Info().Str("model", cfg.AI.Model).Msg("model-backed analysis enabled")
	} else {
		logger.Info().Msg("model-backed analysis disabled, deterministic generator only")
	}
	generator := aiAdapters.NewFallbackGenerator(primary, aiAdapters.NewMockGenerator(), logger)

	// ---- Use cases ----
	analyzeUC := usecase.NewAnalyzeUseCase(
		predictionRepo, feedbackRepo, sourceRepo, citationRepo, tm,
		aggregator, generator, logger)

	// ---- Queue & worker ----
	var analysisQueue adapter.AnalysisQueue
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connect failed")
		}
		defer redisClient.Close()
		analysisQueue = queue.NewRedisQueue(redisClient.Unwrap(), cfg.Queue, logger)

		workers := worker.NewPool(cfg.Queue.Workers, logger)
		workers.Start(ctx)
		defer workers.Stop()

		processor := worker.NewAnalysisProcessor(analysisQueue, analyzeUC, cfg.Queue, logger)
		go processor.Start(ctx, workers)
	} else {
		logger.Warn().Msg("no redis configured; every submission runs inline")
		analysisQueue = queue.NewUnavailableQueue()
	}

	submitUC := usecase.NewSubmitUseCase(
		analysisQueue, analyzeUC, predictionRepo,
		cfg.Queue.FastDev, cfg.Queue.InlineFallbackEnabled(), logger)
	statsUC := usecase.NewQueueStatsUseCase(analysisQueue, cfg.Queue.StatsTimeout, logger)

	// ---- HTTP ----
	srv := web.NewServer(submitUC, statsUC, cfg.Web.APIKey, logger)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Web.Port), Handler: srv.Router()}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	_ = server.Close()
}
