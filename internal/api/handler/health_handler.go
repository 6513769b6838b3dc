package handler

import (
	"net/http"
	"todo_api/internal/common"

	"github.com/go-chi/chi/v5"
)

const apiVersion = "1.0.0"

// HealthHandler serves the root banner and the liveness probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.root)
	r.Get("/health", h.health)
}

func (h *HealthHandler) root(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Todo API is running",
		"version": apiVersion,
	})
}

func (h *HealthHandler) health(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
