package web

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"betting-insight/internal/infra/logging"
	"betting-insight/internal/usecase"
)

// Server exposes the pipeline's operational surface: the queue stats read
// endpoint, the analyze trigger used by the submission collaborator, health
// and metrics. Everything else about the product (forms, auth, dashboards)
// lives elsewhere.
type Server struct {
	submitUC usecase.SubmitUseCase
	statsUC  usecase.QueueStatsUseCase
	apiKey   string
	log      *zerolog.Logger
}

func NewServer(submitUC usecase.SubmitUseCase, statsUC usecase.QueueStatsUseCase, apiKey string, logger *zerolog.Logger) *Server {
	l := logger.With().Str("component", "web").Logger()
	return &Server{submitUC: submitUC, statsUC: statsUC, apiKey: apiKey, log: &l}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(traceMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.With(s.authMiddleware).Get("/queue/stats", s.handleQueueStats)
		r.Post("/predictions/{id}/analyze", s.handleAnalyze)
	})
	return r
}

// authMiddleware provides simple bearer-token authentication for the
// operator routes.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("operator API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(s.apiKey)) != 1 {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// traceMiddleware stamps every request with a trace id so log lines emitted
// anywhere down the pipeline can be correlated back to it.
func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithTraceID(r.Context(), ulid.Make().String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
