package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/repguardian/dashboard-api/internal/model"
)

func (r *Repository) ListReferrals(ctx context.Context, companyID uuid.UUID) ([]model.Referral, error) {
	return listForCompany[model.Referral](ctx, r.db, companyID, "created_at DESC", "Client")
}

func (r *Repository) ListRewards(ctx context.Context, companyID uuid.UUID) ([]model.Reward, error) {
	return listForCompany[model.Reward](ctx, r.db, companyID, "points DESC", "Client")
}

func (r *Repository) ListRewardServices(ctx context.Context, companyID uuid.UUID) ([]model.RewardService, error) {
	return listForCompany[model.RewardService](ctx, r.db, companyID, "points_required ASC")
}

func (r *Repository) ListServices(ctx context.Context, companyID uuid.UUID) ([]model.Service, error) {
	return listForCompany[model.Service](ctx, r.db, companyID, "name ASC")
}

func (r *Repository) ListFAQs(ctx context.Context, companyID uuid.UUID) ([]model.FAQ, error) {
	return listForCompany[model.FAQ](ctx, r.db, companyID, "created_at ASC")
}

func (r *Repository) ListAppointments(ctx context.Context, companyID uuid.UUID) ([]model.Appointment, error) {
	return listForCompany[model.Appointment](ctx, r.db, companyID, "scheduled_at ASC", "Client")
}
