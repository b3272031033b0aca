// Package model defines the persisted rows of the dashboard and the
// response shapes derived from them.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identifier and timestamps shared by every table.
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns an ID when the caller did not.
func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// All lists every model for migration.
func All() []any {
	return []any{
		&Company{}, &AppUser{},
		&Client{}, &Chat{}, &Message{},
		&Feedback{}, &Conflict{},
		&Referral{}, &Reward{}, &RewardService{},
		&Service{}, &FAQ{}, &Appointment{},
	}
}
