// Package service holds the dashboard's read models and write paths on top
// of the tenant-scoped store.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	e "github.com/repguardian/dashboard-api/internal/errors"
	"github.com/repguardian/dashboard-api/internal/model"
	"github.com/repguardian/dashboard-api/internal/realtime"
	"github.com/repguardian/dashboard-api/internal/store"
	"github.com/repguardian/dashboard-api/pkg/logger"
	"github.com/repguardian/dashboard-api/pkg/metrics"
)

// Feed is the realtime change feed for message inserts.
type Feed interface {
	PublishMessageInserted(ctx context.Context, companyID uuid.UUID, msg model.Message) error
	Subscribe(ctx context.Context, companyID, chatID uuid.UUID, fn realtime.Handler) (func(), error)
}

// ConversationService handles conversation operations.
type ConversationService struct {
	repo   *store.Repository
	feed   Feed
	logger *logger.Logger
	now    func() time.Time
}

// NewConversationService creates a new conversation service.
func NewConversationService(repo *store.Repository, feed Feed, log *logger.Logger) *ConversationService {
	return &ConversationService{
		repo:   repo,
		feed:   feed,
		logger: log,
		now:    time.Now,
	}
}

// List returns the company's conversations with their last message and
// display status. A non-empty search keeps conversations whose client name
// or any message contains it, ignoring case.
func (s *ConversationService) List(ctx context.Context, companyID uuid.UUID, search string) ([]model.ConversationSummary, error) {
	chats, err := s.repo.ListChats(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}

	chatIDs := make([]uuid.UUID, len(chats))
	clientIDs := make([]uuid.UUID, 0, len(chats))
	for i, c := range chats {
		chatIDs[i] = c.ID
		clientIDs = append(clientIDs, c.ClientID)
	}

	msgs, err := s.repo.ListMessages(ctx, chatIDs...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	byChat := make(map[uuid.UUID][]model.Message, len(chats))
	for _, m := range msgs {
		byChat[m.SessionID] = append(byChat[m.SessionID], m)
	}

	conflicts, err := s.repo.ListConflictsForClients(ctx, companyID, clientIDs)
	if err != nil {
		return nil, fmt.Errorf("list conflicts: %w", err)
	}
	states := conflictStates(conflicts)

	query := strings.ToLower(strings.TrimSpace(search))
	now := s.now()

	out := make([]model.ConversationSummary, 0, len(chats))
	for _, c := range chats {
		thread := byChat[c.ID]
		if query != "" && !matchesConversation(c, thread, query) {
			continue
		}

		summary := model.ConversationSummary{
			ID:          c.ID,
			ClientID:    c.ClientID,
			ClientName:  displayName(c),
			Status:      states[c.ClientID].conversationStatus(),
			Autopilot:   c.Autopilot,
			ReviewBadge: reviewBadge(c.Client),
			NeedsHuman:  needsHuman(c.Client),
			UpdatedAt:   c.CreatedAt,
		}
		if n := len(thread); n > 0 {
			last := thread[n-1]
			summary.LastMessage = &last
			summary.UpdatedAt = last.CreatedAt
		}
		summary.Timestamp = ConversationTimestamp(summary.UpdatedAt, now)
		out = append(out, summary)
	}
	return out, nil
}

// Thread returns one conversation with its messages, oldest first.
func (s *ConversationService) Thread(ctx context.Context, companyID, chatID uuid.UUID) (*model.Thread, error) {
	chat, err := s.repo.GetChat(ctx, companyID, chatID)
	if err != nil {
		return nil, err
	}

	msgs, err := s.repo.ListMessages(ctx, chat.ID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if msgs == nil {
		msgs = []model.Message{}
	}

	conflicts, err := s.repo.ListConflictsForClients(ctx, companyID, []uuid.UUID{chat.ClientID})
	if err != nil {
		return nil, fmt.Errorf("list conflicts: %w", err)
	}

	return &model.Thread{
		Chat:     *chat,
		Status:   conflictStates(conflicts)[chat.ClientID].conversationStatus(),
		Messages: msgs,
	}, nil
}

// Send posts a staff reply into the conversation as an assistant message.
func (s *ConversationService) Send(ctx context.Context, companyID, chatID uuid.UUID, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", e.ErrInvalidInput)
	}
	if _, err := s.repo.GetChat(ctx, companyID, chatID); err != nil {
		return nil, err
	}
	return s.insert(ctx, companyID, chatID, model.RoleAssistant, content)
}

// insert writes the message row and announces it on the feed. A failed
// announcement is logged; the row is already committed.
func (s *ConversationService) insert(ctx context.Context, companyID, chatID uuid.UUID, role model.Role, content string) (*model.Message, error) {
	payload, err := json.Marshal(model.MessagePayload{Content: content, Role: role})
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	msg := &model.Message{
		SessionID: chatID,
		Role:      role,
		Content:   content,
		Payload:   payload,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.InsertMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	metrics.MessagesTotal.WithLabelValues(string(role)).Inc()

	if err := s.feed.PublishMessageInserted(ctx, companyID, *msg); err != nil {
		logger.FromContext(ctx).Warn("failed to publish message insert",
			zap.String("chat_id", chatID.String()),
			zap.String("message_id", msg.ID.String()),
			zap.Error(err),
		)
	}
	return msg, nil
}

// SetAutopilot toggles automated responses for one conversation.
func (s *ConversationService) SetAutopilot(ctx context.Context, companyID, chatID uuid.UUID, enabled bool) error {
	if err := s.repo.SetAutopilot(ctx, companyID, chatID, enabled); err != nil {
		return err
	}
	s.logger.Info("autopilot changed",
		zap.String("company_id", companyID.String()),
		zap.String("chat_id", chatID.String()),
		zap.Bool("enabled", enabled),
	)
	return nil
}

// Subscribe streams message inserts of one conversation to fn until ctx ends.
func (s *ConversationService) Subscribe(ctx context.Context, companyID, chatID uuid.UUID, fn realtime.Handler) (func(), error) {
	if _, err := s.repo.GetChat(ctx, companyID, chatID); err != nil {
		return nil, err
	}
	return s.feed.Subscribe(ctx, companyID, chatID, fn)
}

type conflictState struct {
	active bool
	closed bool
}

func (c conflictState) conversationStatus() string {
	switch {
	case c.active:
		return model.ConversationNeedsAttention
	case c.closed:
		return model.ConversationResolved
	default:
		return model.ConversationOpen
	}
}

func (c conflictState) feedbackStatus() string {
	switch {
	case c.active:
		return model.FeedbackConflictActive
	case c.closed:
		return model.FeedbackConflictResolved
	default:
		return model.FeedbackConflictNone
	}
}

func conflictStates(conflicts []model.Conflict) map[uuid.UUID]conflictState {
	out := make(map[uuid.UUID]conflictState)
	for _, c := range conflicts {
		st := out[c.ClientID]
		switch c.Status {
		case model.ConflictActive:
			st.active = true
		case model.ConflictClosed:
			st.closed = true
		}
		out[c.ClientID] = st
	}
	return out
}

func displayName(c model.Chat) string {
	if c.ClientName != nil && strings.TrimSpace(*c.ClientName) != "" {
		return strings.TrimSpace(*c.ClientName)
	}
	if c.Client != nil {
		if name := c.Client.FullName(); name != "" {
			return name
		}
	}
	return "Unknown client"
}

func matchesConversation(c model.Chat, msgs []model.Message, query string) bool {
	if c.ClientName != nil && strings.Contains(strings.ToLower(*c.ClientName), query) {
		return true
	}
	if c.Client != nil {
		if strings.Contains(strings.ToLower(c.Client.FirstName), query) ||
			strings.Contains(strings.ToLower(c.Client.LastName), query) {
			return true
		}
	}
	for _, m := range msgs {
		if strings.Contains(strings.ToLower(m.Content), query) {
			return true
		}
	}
	return false
}

func reviewBadge(c *model.Client) string {
	switch {
	case c == nil:
		return ""
	case c.ReviewSubmitted:
		return "reviewed"
	case c.ReviewRequestSent:
		return "requested"
	default:
		return ""
	}
}

func needsHuman(c *model.Client) bool {
	if c == nil || c.Status == nil {
		return false
	}
	return *c.Status == model.ClientStatusConflict || *c.Status == model.ClientStatusNeedsHuman
}
