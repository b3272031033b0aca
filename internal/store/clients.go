package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/repguardian/dashboard-api/internal/model"
)

func (r *Repository) ListClients(ctx context.Context, companyID uuid.UUID) ([]model.Client, error) {
	return listForCompany[model.Client](ctx, r.db, companyID, "created_at DESC")
}

func (r *Repository) GetClient(ctx context.Context, companyID, id uuid.UUID) (*model.Client, error) {
	var client model.Client
	if err := r.db.WithContext(ctx).
		Scopes(ForCompany(companyID)).
		First(&client, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &client, nil
}


func (r *Repository) CountReviewsSubmitted(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Client{}).
		Scopes(ForCompany(companyID)).
		Where("review_submitted = ?", true).
		Count(&n).Error
	return n, err
}

func (r *Repository) CountClientsWithStatus(ctx context.Context, companyID uuid.UUID, statuses ...string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Client{}).
		Scopes(ForCompany(companyID)).
		Where("status IN ?", statuses).
		Count(&n).Error
	return n, err
}
