package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	e "github.com/repguardian/dashboard-api/internal/errors"
	"github.com/repguardian/dashboard-api/internal/model"
)

func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var company model.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &company, nil
}

// CreateCompanyWithOwner inserts the company and its owner membership in one
// transaction so a failed membership leaves no orphan company behind.
func (r *Repository) CreateCompanyWithOwner(ctx context.Context, company *model.Company, owner *model.AppUser) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		if err := tx.db.Create(company).Error; err != nil {
			return fmt.Errorf("create company: %w", err)
		}
		owner.CompanyID = company.ID
		owner.Role = model.RoleOwner
		if err := tx.db.Create(owner).Error; err != nil {
			return fmt.Errorf("create owner membership: %w", err)
		}
		return nil
	})
}

// CompaniesForUser lists every company the user may act in. Companies the
// user owns come first, then app_user memberships, without duplicates.
func (r *Repository) CompaniesForUser(ctx context.Context, userID uuid.UUID) ([]model.Membership, error) {
	var owned []model.Company
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&owned).Error; err != nil {
		return nil, err
	}

	var members []model.AppUser
	if err := r.db.WithContext(ctx).
		Preload("Company").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(owned)+len(members))
	out := make([]model.Membership, 0, len(owned)+len(members))
	for _, c := range owned {
		seen[c.ID] = true
		out = append(out, model.Membership{Company: c, Role: model.RoleOwner})
	}
	for _, m := range members {
		if m.Company == nil || seen[m.CompanyID] {
			continue
		}
		seen[m.CompanyID] = true
		out = append(out, model.Membership{Company: *m.Company, Role: m.Role})
	}
	return out, nil
}

// ResolveMembership picks the company a request runs in. With a preferred
// company it must be one of the user's; otherwise the first one wins.
func (r *Repository) ResolveMembership(ctx context.Context, userID uuid.UUID, preferred uuid.UUID) (*model.Membership, error) {
	memberships, err := r.CompaniesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, e.ErrNoCompany
	}
	if preferred == uuid.Nil {
		return &memberships[0], nil
	}
	for i := range memberships {
		if memberships[i].Company.ID == preferred {
			return &memberships[i], nil
		}
	}
	return nil, e.ErrForbidden
}
