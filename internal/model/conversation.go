package model

import (
	"time"

	"github.com/google/uuid"
)

// Chat is a conversation between a company and one of its clients.
type Chat struct {
	Base
	CompanyID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"company_id"`
	ClientID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"client_id"`
	ClientName      *string    `gorm:"size:255" json:"client_name"`
	Status          string     `gorm:"size:50;not null;default:'open'" json:"status"`
	StatusUpdatedAt *time.Time `json:"status_updated_at"`
	Autopilot       bool       `gorm:"not null;default:false" json:"autopilot"`

	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (Chat) TableName() string { return "chat" }

// Display status of a conversation, derived from the client's conflicts.
const (
	ConversationOpen           = "open"
	ConversationNeedsAttention = "needs_attention"
	ConversationResolved       = "resolved"
)

// ConversationSummary is one row of the conversation list.
type ConversationSummary struct {
	ID          uuid.UUID `json:"id"`
	ClientID    uuid.UUID `json:"client_id"`
	ClientName  string    `json:"client_name"`
	Status      string    `json:"status"`
	Autopilot   bool      `json:"autopilot"`
	ReviewBadge string    `json:"review_badge,omitempty"`
	NeedsHuman  bool      `json:"needs_human"`
	LastMessage *Message  `json:"last_message,omitempty"`
	Timestamp   string    `json:"timestamp"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Thread is a conversation with its messages in chronological order.
type Thread struct {
	Chat     Chat      `json:"chat"`
	Status   string    `json:"status"`
	Messages []Message `json:"messages"`
}
