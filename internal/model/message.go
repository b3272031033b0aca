package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role tags who wrote a message.
type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
	// RoleHidden marks a staff-only draft.
	RoleHidden Role = "hidden"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleHuman, RoleAssistant, RoleHidden:
		return true
	}
	return false
}

// Message is one entry in a chat. SessionID references the chat.
type Message struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID      `gorm:"type:uuid;index;not null" json:"session_id"`
	Role      Role           `gorm:"size:20;not null" json:"role"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Payload   datatypes.JSON `gorm:"column:message" json:"message,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

func (Message) TableName() string { return "messages" }

// BeforeCreate assigns an ID when the caller did not.
func (m *Message) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MessagePayload is the structured copy of a message kept alongside the row.
type MessagePayload struct {
	Content string `json:"content"`
	Role    Role   `json:"role"`
}

// SendMessageRequest is the body for posting a reply into a chat.
type SendMessageRequest struct {
	Content string `json:"content"`
}
