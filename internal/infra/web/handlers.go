package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"betting-insight/internal/domain"
)

func (s *Server) handleQueueStats(w http.ResponseWriter, r *http.Request) {
	// The use case bounds the read itself; a down backend yields an
	// explicit unavailable snapshot, not an error page.
	st := s.statsUC.Stats(r.Context())
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(st)
}

type analyzeResponse struct {
	PredictionID string `json:"prediction_id"`
	Queued       bool   `json:"queued"`
	JobID        string `json:"job_id,omitempty"`
	Inline       bool   `json:"inline,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	predictionID := chi.URLParam(r, "id")
	if predictionID == "" {
		http.Error(w, "missing prediction id", http.StatusBadRequest)
		return
	}
	userID := r.URL.Query().Get("user_id")

	res, err := s.submitUC.Submit(r.Context(), predictionID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			http.Error(w, "prediction not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrQueueUnavailable):
			http.Error(w, "analysis backend unavailable", http.StatusBadGateway)
		default:
			s.log.Error().Err(err).Str("prediction_id", predictionID).Msg("submit failed")
			http.Error(w, "analysis failed", http.StatusBadGateway)
		}
		return
	}

	resp := analyzeResponse{PredictionID: predictionID, Queued: res.Queued, Inline: res.Result != nil}
	if res.Job != nil {
		resp.JobID = res.Job.ID
	}
	w.Header().Set("Content-Type", "application/json")
	if res.Queued {
		w.WriteHeader(http.StatusAccepted)
	}
	_ = json.NewEncoder(w).Encode(resp)
}
