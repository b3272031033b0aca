package model

import "github.com/google/uuid"

// Referral is a code a client shared with a prospect.
type Referral struct {
	Base
	CompanyID    uuid.UUID `gorm:"type:uuid;index;not null" json:"company_id"`
	ClientID     uuid.UUID `gorm:"type:uuid;index;not null" json:"client_id"`
	ReferralCode string    `gorm:"size:64;index" json:"referral_code"`
	Status       string    `gorm:"size:50" json:"status"`

	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (Referral) TableName() string { return "referral" }

// Reward is a client's loyalty point balance entry.
type Reward struct {
	Base
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null" json:"company_id"`
	ClientID  uuid.UUID `gorm:"type:uuid;index;not null" json:"client_id"`
	Points    int       `gorm:"not null;default:0" json:"points"`

	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (Reward) TableName() string { return "reward" }

// RewardService is something a client can redeem points for.
type RewardService struct {
	Base
	CompanyID      uuid.UUID `gorm:"type:uuid;index;not null" json:"company_id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	PointsRequired int       `gorm:"not null" json:"points_required"`
	Description    *string   `gorm:"type:text" json:"description"`
}

func (RewardService) TableName() string { return "reward_service" }
