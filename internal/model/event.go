package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a change on the message table.
type EventType string

const EventMessageInserted EventType = "message.inserted"

// MessageEvent is published on the change feed when a message row is inserted.
type MessageEvent struct {
	Type      EventType `json:"type"`
	CompanyID uuid.UUID `json:"company_id"`
	ChatID    uuid.UUID `json:"chat_id"`
	Message   Message   `json:"message"`
	Sequence  uint64    `json:"sequence,omitempty"`
	SentAt    time.Time `json:"sent_at"`
}
