package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Feedback is a review or survey answer left by a client.
type Feedback struct {
	Base
	CompanyID       uuid.UUID                   `gorm:"type:uuid;index;not null" json:"company_id"`
	ClientID        uuid.UUID                   `gorm:"type:uuid;index;not null" json:"client_id"`
	FeedbackMessage string                      `gorm:"type:text" json:"feedback_message"`
	SentimentScore  *int                        `json:"sentiment_score"`
	Severity        string                      `gorm:"size:50" json:"severity"`
	Tags            datatypes.JSONSlice[string] `json:"tags"`

	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (Feedback) TableName() string { return "feedback" }

// Conflict statuses.
const (
	ConflictActive = "active"
	ConflictClosed = "closed"
)

// Conflict is an escalation raised for a client.
type Conflict struct {
	Base
	CompanyID   uuid.UUID `gorm:"type:uuid;index;not null" json:"company_id"`
	ClientID    uuid.UUID `gorm:"type:uuid;index;not null" json:"client_id"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"size:20;not null;default:'active'" json:"status"`
	Resolution  *string   `gorm:"type:text" json:"resolution"`

	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (Conflict) TableName() string { return "conflict" }

// Conflict status as reported alongside feedback.
const (
	FeedbackConflictActive   = "active"
	FeedbackConflictResolved = "resolved"
	FeedbackConflictNone     = "none"
)

// FeedbackView is a feedback row decorated for the feedback table.
type FeedbackView struct {
	Feedback
	ClientName     string `json:"client_name"`
	ConflictStatus string `json:"conflict_status"`
	Sentiment      string `json:"sentiment"`
	Priority       string `json:"priority"`
}

// TrendPoint is the average score for one UTC day.
type TrendPoint struct {
	Date    string  `json:"date"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Distribution splits scored feedback into positive and negative.
type Distribution struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
}
