package model

import "github.com/google/uuid"

// Membership roles.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Company is the tenant. UserID is the auth identity of its owner.
type Company struct {
	Base
	Name   string    `gorm:"size:255;not null" json:"name"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
}

func (Company) TableName() string { return "company" }

// AppUser links an auth identity to a company with a role.
type AppUser struct {
	Base
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_app_user_member" json:"user_id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_app_user_member" json:"company_id"`
	Role      string    `gorm:"size:20;not null;default:'member'" json:"role"`
	Name      string    `gorm:"size:255" json:"name"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

func (AppUser) TableName() string { return "app_user" }

// Membership is a company the current user can act in.
type Membership struct {
	Company Company `json:"company"`
	Role    string  `json:"role"`
}
