package store

import (
	"context"

	"github.com/google/uuid"

	e "github.com/repguardian/dashboard-api/internal/errors"
	"github.com/repguardian/dashboard-api/internal/model"
)

// ListChats returns the company's conversations, most recently changed
// status first. Chats that never changed status sort after the rest.
func (r *Repository) ListChats(ctx context.Context, companyID uuid.UUID) ([]model.Chat, error) {
	var chats []model.Chat
	err := r.db.WithContext(ctx).
		Scopes(ForCompany(companyID)).
		Preload("Client").
		Order("status_updated_at DESC NULLS LAST").
		Order("created_at DESC").
		Find(&chats).Error
	return chats, err
}

func (r *Repository) GetChat(ctx context.Context, companyID, chatID uuid.UUID) (*model.Chat, error) {
	var chat model.Chat
	if err := r.db.WithContext(ctx).
		Scopes(ForCompany(companyID)).
		Preload("Client").
		First(&chat, "id = ?", chatID).Error; err != nil {
		return nil, notFound(err)
	}
	return &chat, nil
}

func (r *Repository) SetAutopilot(ctx context.Context, companyID, chatID uuid.UUID, enabled bool) error {
	result := r.db.WithContext(ctx).Model(&model.Chat{}).
		Scopes(ForCompany(companyID)).
		Where("id = ?", chatID).
		Update("autopilot", enabled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// ListMessages returns the messages of the given chats, oldest first.
func (r *Repository) ListMessages(ctx context.Context, chatIDs ...uuid.UUID) ([]model.Message, error) {
	if len(chatIDs) == 0 {
		return nil, nil
	}
	var msgs []model.Message
	err := r.db.WithContext(ctx).
		Where("session_id IN ?", chatIDs).
		Order("created_at ASC").
		Find(&msgs).Error
	return msgs, err
}

func (r *Repository) InsertMessage(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}
