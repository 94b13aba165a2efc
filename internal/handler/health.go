package handler

import (
	"context"
	"net/http"
	"time"

	"car-expert-api/internal/model"
)

// Pinger is the slice of the store needed for health checks; both
// pgxpool.Pool and the in-memory store satisfy it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	storeStatus := "connected"
	if err := h.store.Ping(ctx); err != nil {
		storeStatus = "disconnected"
	}

	response := model.HealthResponse{
		Status:    "ok",
		Store:     storeStatus,
		Timestamp: time.Now(),
	}

	if storeStatus == "disconnected" {
		response.Status = "degraded"
	}

	writeJSON(w, http.StatusOK, response)
}
