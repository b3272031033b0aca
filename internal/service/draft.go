package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	e "github.com/repguardian/dashboard-api/internal/errors"
	"github.com/repguardian/dashboard-api/internal/llm"
	"github.com/repguardian/dashboard-api/internal/model"
	"github.com/repguardian/dashboard-api/internal/store"
	"github.com/repguardian/dashboard-api/pkg/logger"
	"github.com/repguardian/dashboard-api/pkg/metrics"
	"github.com/repguardian/dashboard-api/pkg/tracing"
)

const draftInstructions = `You help %s, a small business, reply to a customer named %s.
Write one short, warm, professional reply to the customer's latest message.
If the customer is unhappy, apologise and offer to make it right without promising refunds.
Reply with the message text only.`

// draftHistory bounds how many past messages are sent to the model.
const draftHistory = 30

// DraftService asks a language model for a suggested reply and stores it as
// a hidden message that only staff can see.
type DraftService struct {
	repo          *store.Repository
	conversations *ConversationService
	llm           llm.Client
	logger        *logger.Logger
}

// NewDraftService creates a draft service. A nil client disables drafts.
func NewDraftService(repo *store.Repository, conversations *ConversationService, client llm.Client, log *logger.Logger) *DraftService {
	return &DraftService{repo: repo, conversations: conversations, llm: client, logger: log}
}

// Enabled reports whether a provider is configured.
func (s *DraftService) Enabled() bool {
	return s.llm != nil
}

// Suggest drafts a reply for the conversation.
func (s *DraftService) Suggest(ctx context.Context, companyID, chatID uuid.UUID) (*model.Message, error) {
	if s.llm == nil {
		return nil, fmt.Errorf("%w: no language model configured", e.ErrUnavailable)
	}

	thread, err := s.conversations.Thread(ctx, companyID, chatID)
	if err != nil {
		return nil, err
	}
	company, err := s.repo.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	turns := draftTurns(thread.Messages)
	if len(turns) == 0 {
		return nil, fmt.Errorf("%w: conversation has no customer messages", e.ErrInvalidInput)
	}

	ctx, span := tracing.Start(ctx, "draft.Suggest",
		attribute.String("llm.provider", s.llm.Name()),
		attribute.Int("llm.turns", len(turns)),
	)
	defer span.End()

	start := time.Now()
	resp, err := s.llm.Complete(ctx, &llm.CompletionRequest{
		System:      fmt.Sprintf(draftInstructions, company.Name, displayName(thread.Chat)),
		Messages:    turns,
		MaxTokens:   400,
		Temperature: 0.4,
	})
	if err != nil {
		span.RecordError(err)
		metrics.RecordDraft(s.llm.Name(), "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("generate draft: %w", err)
	}
	metrics.RecordDraft(s.llm.Name(), "ok", time.Since(start).Seconds())

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return nil, fmt.Errorf("generate draft: empty completion")
	}

	s.logger.Debug("draft generated",
		zap.String("chat_id", chatID.String()),
		zap.String("model", resp.Model),
		zap.Int("tokens_in", resp.TokensIn),
		zap.Int("tokens_out", resp.TokensOut),
	)
	return s.conversations.insert(ctx, companyID, chatID, model.RoleHidden, content)
}

// draftTurns maps the latest visible messages to model turns. Hidden drafts
// are left out.
func draftTurns(msgs []model.Message) []llm.ChatMessage {
	if len(msgs) > draftHistory {
		msgs = msgs[len(msgs)-draftHistory:]
	}
	turns := make([]llm.ChatMessage, 0, len(msgs))
	hasCustomer := false
	for _, m := range msgs {
		switch m.Role {
		case model.RoleHuman:
			hasCustomer = true
			turns = append(turns, llm.ChatMessage{Role: llm.RoleUser, Content: m.Content})
		case model.RoleAssistant:
			turns = append(turns, llm.ChatMessage{Role: llm.RoleAssistant, Content: m.Content})
		}
	}
	if !hasCustomer {
		return nil
	}
	return turns
}
