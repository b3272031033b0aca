package model

import (
	"time"

	"github.com/google/uuid"
)

// Service is an offering in the company catalog.
type Service struct {
	Base
	CompanyID   uuid.UUID `gorm:"type:uuid;index;not null" json:"company_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	Price       *float64  `json:"price"`
}

func (Service) TableName() string { return "service" }

type FAQ struct {
	Base
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null" json:"company_id"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
}

func (FAQ) TableName() string { return "faq" }

type Appointment struct {
	Base
	CompanyID   uuid.UUID `gorm:"type:uuid;index;not null" json:"company_id"`
	ClientID    uuid.UUID `gorm:"type:uuid;index;not null" json:"client_id"`
	ScheduledAt time.Time `gorm:"index" json:"scheduled_at"`
	Status      string    `gorm:"size:50" json:"status"`
	Notes       *string   `gorm:"type:text" json:"notes"`

	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (Appointment) TableName() string { return "appointment" }
