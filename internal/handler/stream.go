package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/repguardian/dashboard-api/internal/middleware"
	"github.com/repguardian/dashboard-api/internal/model"
	"github.com/repguardian/dashboard-api/internal/service"
	"github.com/repguardian/dashboard-api/pkg/logger"
	"github.com/repguardian/dashboard-api/pkg/metrics"
)

const heartbeatInterval = 30 * time.Second

// StreamHandler handles SSE streaming endpoints.
type StreamHandler struct {
	conversations *service.ConversationService
	logger        *logger.Logger
	heartbeat     time.Duration
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(convSvc *service.ConversationService, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		conversations: convSvc,
		logger:        log,
		heartbeat:     heartbeatInterval,
	}
}

type heartbeatEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// Events handles GET /api/v1/conversations/{id}/events. It pushes every
// message inserted into the conversation after the stream opens.
func (h *StreamHandler) Events(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID := middleware.GetCompanyID(ctx)
	id, ok := chatID(w, r)
	if !ok {
		return
	}

	events := make(chan model.MessageEvent, 16)
	stop, err := h.conversations.Subscribe(ctx, companyID, id, func(ev model.MessageEvent) {
		select {
		case events <- ev:
		default:
			logger.FromContext(ctx).Warn("dropping realtime event for slow stream",
				zap.String("chat_id", id.String()),
			)
		}
	})
	if err != nil {
		respondError(w, r, err, "failed to subscribe")
		return
	}
	defer stop()

	rc := http.NewResponseController(w)
	// the stream outlives the server write timeout
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	if err := sendSSEEvent(w, rc, "connected", map[string]string{"conversation_id": id.String()}); err != nil {
		return
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("SSE client disconnected", zap.String("conversation_id", id.String()))
			return

		case ev := <-events:
			if err := sendSSEEvent(w, rc, "message", ev.Message); err != nil {
				return
			}

		case <-heartbeat.C:
			if err := sendSSEEvent(w, rc, "heartbeat", &heartbeatEvent{Timestamp: time.Now().UTC()}); err != nil {
				return
			}
		}
	}
}

func sendSSEEvent(w http.ResponseWriter, rc *http.ResponseController, event string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return err
	}
	return rc.Flush()
}
