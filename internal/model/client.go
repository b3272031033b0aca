package model

import (
	"strings"

	"github.com/google/uuid"
)

// Client status values that flag a customer for staff attention.
const (
	ClientStatusConflict   = "conflict"
	ClientStatusNeedsHuman = "needs_human"
)

// Client is a customer of a company.
type Client struct {
	Base
	CompanyID         uuid.UUID `gorm:"type:uuid;index;not null" json:"company_id"`
	FirstName         string    `gorm:"size:255" json:"first_name"`
	LastName          string    `gorm:"size:255" json:"last_name"`
	Email             *string   `gorm:"size:255" json:"email"`
	PhoneNumber       string    `gorm:"size:50" json:"phone_number"`
	Status            *string   `gorm:"size:50;index" json:"status"`
	ReviewSubmitted   bool      `gorm:"not null;default:false" json:"review_submitted"`
	ReviewRequestSent bool      `gorm:"not null;default:false" json:"review_request_sent"`
}

func (Client) TableName() string { return "client" }

// FullName joins first and last name, skipping empty parts.
func (c Client) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}
