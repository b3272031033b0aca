package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/repguardian/dashboard-api/internal/relay"
	"github.com/repguardian/dashboard-api/pkg/logger"
)

// Forwarder sends a payload to the automation webhook.
type Forwarder interface {
	Forward(ctx context.Context, payload json.RawMessage) (*relay.Upstream, error)
}

// RelayHandler forwards dashboard messages to the automation webhook and
// hands its answer back.
type RelayHandler struct {
	forwarder Forwarder
}

// NewRelayHandler creates a new relay handler.
func NewRelayHandler(f Forwarder) *RelayHandler {
	return &RelayHandler{forwarder: f}
}

// Send handles POST /api/send-message
func (h *RelayHandler) Send(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		writeError(w, http.StatusBadRequest, "Missing body")
		return
	}
	if !json.Valid(raw) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if missing(raw) {
		writeError(w, http.StatusBadRequest, "Missing body")
		return
	}

	up, err := h.forwarder.Forward(r.Context(), raw)
	switch {
	case errors.Is(err, relay.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	case err != nil:
		logger.FromContext(r.Context()).Error("relay request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Proxy error",
			"message": err.Error(),
		})
		return
	}

	if !up.OK() {
		logger.FromContext(r.Context()).Warn("relay upstream rejected payload",
			zap.Int("status", up.Status),
		)
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":  "n8n request failed",
			"status": up.Status,
			"body":   string(up.Body),
		})
		return
	}

	if body, ok := up.JSON(); ok {
		writeJSON(w, http.StatusOK, body)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(up.Body)
}

// missing reports payloads that carry nothing to forward: null, false, any
// zero number and the empty string.
func missing(raw []byte) bool {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case float64:
		return x == 0
	case string:
		return x == ""
	}
	return false
}
