package handler

import (
	"net/http"

	"github.com/repguardian/dashboard-api/internal/middleware"
	"github.com/repguardian/dashboard-api/internal/service"
)

// FeedbackHandler serves the feedback table and charts.
type FeedbackHandler struct {
	service *service.FeedbackService
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(svc *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: svc}
}

// List handles GET /api/v1/feedback
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.List(r.Context(), middleware.GetCompanyID(r.Context()), service.FeedbackFilter{
		Priorities: listParam(r, "priority"),
		Tag:        r.URL.Query().Get("tag"),
	})
	if err != nil {
		respondError(w, r, err, "failed to list feedback")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// Trend handles GET /api/v1/feedback/trend
func (h *FeedbackHandler) Trend(w http.ResponseWriter, r *http.Request) {
	points, err := h.service.Trend(r.Context(), middleware.GetCompanyID(r.Context()), r.URL.Query().Get("range"))
	if err != nil {
		respondError(w, r, err, "failed to load trend")
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// Distribution handles GET /api/v1/feedback/distribution
func (h *FeedbackHandler) Distribution(w http.ResponseWriter, r *http.Request) {
	dist, err := h.service.Distribution(r.Context(), middleware.GetCompanyID(r.Context()))
	if err != nil {
		respondError(w, r, err, "failed to load distribution")
		return
	}
	writeJSON(w, http.StatusOK, dist)
}
