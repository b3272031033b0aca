// Package handler provides HTTP handlers for the API.
package handler

import (
	"net/http"

	"github.com/repguardian/dashboard-api/internal/middleware"
	"github.com/repguardian/dashboard-api/internal/model"
	"github.com/repguardian/dashboard-api/internal/service"
	"github.com/repguardian/dashboard-api/pkg/logger"
)

// ConversationHandler handles conversation endpoints.
type ConversationHandler struct {
	service *service.ConversationService
	drafts  *service.DraftService
	logger  *logger.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(svc *service.ConversationService, drafts *service.DraftService, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: svc,
		drafts:  drafts,
		logger:  log,
	}
}

// List handles GET /api/v1/conversations
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID := middleware.GetCompanyID(ctx)

	resp, err := h.service.List(ctx, companyID, r.URL.Query().Get("search"))
	if err != nil {
		respondError(w, r, err, "failed to list conversations")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/conversations/{id}
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := chatID(w, r)
	if !ok {
		return
	}

	thread, err := h.service.Thread(r.Context(), middleware.GetCompanyID(r.Context()), id)
	if err != nil {
		respondError(w, r, err, "failed to load conversation")
		return
	}

	writeJSON(w, http.StatusOK, thread)
}

// Messages handles GET /api/v1/conversations/{id}/messages
func (h *ConversationHandler) Messages(w http.ResponseWriter, r *http.Request) {
	id, ok := chatID(w, r)
	if !ok {
		return
	}

	thread, err := h.service.Thread(r.Context(), middleware.GetCompanyID(r.Context()), id)
	if err != nil {
		respondError(w, r, err, "failed to list messages")
		return
	}

	writeJSON(w, http.StatusOK, thread.Messages)
}

// Send handles POST /api/v1/conversations/{id}/messages
func (h *ConversationHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := chatID(w, r)
	if !ok {
		return
	}

	var req model.SendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateMessageContent(req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.service.Send(r.Context(), middleware.GetCompanyID(r.Context()), id, req.Content)
	if err != nil {
		respondError(w, r, err, "failed to send message")
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

type autopilotRequest struct {
	Enabled *bool `json:"enabled"`
}

// SetAutopilot handles PUT /api/v1/conversations/{id}/autopilot
func (h *ConversationHandler) SetAutopilot(w http.ResponseWriter, r *http.Request) {
	id, ok := chatID(w, r)
	if !ok {
		return
	}

	var req autopilotRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "enabled is required")
		return
	}

	if err := h.service.SetAutopilot(r.Context(), middleware.GetCompanyID(r.Context()), id, *req.Enabled); err != nil {
		respondError(w, r, err, "failed to update autopilot")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":        id,
		"autopilot": *req.Enabled,
	})
}

// Draft handles POST /api/v1/conversations/{id}/drafts
func (h *ConversationHandler) Draft(w http.ResponseWriter, r *http.Request) {
	id, ok := chatID(w, r)
	if !ok {
		return
	}

	msg, err := h.drafts.Suggest(r.Context(), middleware.GetCompanyID(r.Context()), id)
	if err != nil {
		respondError(w, r, err, "failed to draft reply")
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}
