package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"scraper/internal/domain"
	"scraper/internal/scraper"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (s *Server) handleScrapeRequest(w http.ResponseWriter, r *http.Request) {
	var req domain.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := s.engine.Submit(req)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			s.respondWithError(w, http.StatusBadRequest, verr.Error())
			return
		}
		s.logger.Error("failed to submit task", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not accept task")
		return
	}

	s.respondWithJSON(w, http.StatusAccepted, map[string]string{
		"task_id": id,
		"status":  string(domain.StatusPending),
	})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	s.respondWithJSON(w, http.StatusOK, s.engine.ListTasks())
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.engine.GetTask(chi.URLParam(r, "id"))
	if err != nil {
		s.respondWithTaskError(w, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, task)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	result, err := s.engine.GetResult(chi.URLParam(r, "id"))
	if err != nil {
		s.respondWithTaskError(w, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	backends := make(map[string]string, len(s.backends))
	healthy := true
	for _, b := range s.backends {
		if err := b.Ping(ctx); err != nil {
			backends[b.Name()] = "unhealthy"
			healthy = false
			s.logger.Error("health check failed", zap.String("backend", b.Name()), zap.Error(err))
			continue
		}
		backends[b.Name()] = "healthy"
	}

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	s.respondWithJSON(w, code, map[string]any{
		"status":   status,
		"tasks":    s.engine.TaskCount(),
		"backends": backends,
	})
}

// --- Helper Functions ---

func (s *Server) respondWithTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scraper.ErrNotFound):
		s.respondWithError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, scraper.ErrNotReady):
		s.respondWithError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error("failed to read task", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not retrieve task")
	}
}

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
		code = http.StatusInternalServerError
		response = []byte(`{"error":"Could not encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
