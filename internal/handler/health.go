package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/chartsight/internal/analysis"
	"github.com/ollama/ollama/api"
)

type inferenceService interface {
	Heartbeat(ctx context.Context) error
	List(ctx context.Context) (*api.ListResponse, error)
}

// Health reports whether the Ollama server is reachable and has the
// analysis model pulled.
func Health(logger *slog.Logger, svc inferenceService) http.HandlerFunc {
	h := &BaseHandler{Logger: logger}

	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{"status": "ok", "model": analysis.Model}
		code := http.StatusOK

		if err := svc.Heartbeat(r.Context()); err != nil {
			body["status"] = "degraded"
			body["ollama"] = "unreachable"
			code = http.StatusServiceUnavailable
		} else if !hasModel(r.Context(), svc) {
			body["status"] = "degraded"
			body["ollama"] = "model not pulled"
			code = http.StatusServiceUnavailable
		}

		if err := h.writeJSON(w, code, body); err != nil {
			h.logError(r, err)
		}
	}
}

func hasModel(ctx context.Context, svc inferenceService) bool {
	list, err := svc.List(ctx)
	if err != nil {
		return false
	}
	for _, m := range list.Models {
		if m.Name == analysis.Model || m.Model == analysis.Model {
			return true
		}
	}
	return false
}
