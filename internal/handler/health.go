package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger checks the database connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Readiness reports whether the realtime feed can publish.
type Readiness interface {
	Ready() bool
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db   Pinger
	feed Readiness
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db Pinger, feed Readiness) *HealthHandler {
	return &HealthHandler{
		db:   db,
		feed: feed,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "database unreachable",
		})
		return
	}

	if h.feed == nil || !h.feed.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "NATS not connected",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
