package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/repguardian/dashboard-api/internal/model"
)

// ListFeedback returns feedback with its client, newest first.
func (r *Repository) ListFeedback(ctx context.Context, companyID uuid.UUID) ([]model.Feedback, error) {
	return listForCompany[model.Feedback](ctx, r.db, companyID, "created_at DESC", "Client")
}

// ListScoredFeedbackSince returns feedback carrying a sentiment score created
// at or after since, oldest first.
func (r *Repository) ListScoredFeedbackSince(ctx context.Context, companyID uuid.UUID, since time.Time) ([]model.Feedback, error) {
	var rows []model.Feedback
	err := r.db.WithContext(ctx).
		Scopes(ForCompany(companyID)).
		Where("sentiment_score IS NOT NULL").
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// CountFeedbackByScore counts feedback with min <= sentiment_score <= max.
func (r *Repository) CountFeedbackByScore(ctx context.Context, companyID uuid.UUID, min, max int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Feedback{}).
		Scopes(ForCompany(companyID)).
		Where("sentiment_score BETWEEN ? AND ?", min, max).
		Count(&n).Error
	return n, err
}

// ListConflicts returns the company's conflicts with their client, newest first.
func (r *Repository) ListConflicts(ctx context.Context, companyID uuid.UUID) ([]model.Conflict, error) {
	return listForCompany[model.Conflict](ctx, r.db, companyID, "created_at DESC", "Client")
}

// ListConflictsForClients returns conflicts raised for any of clientIDs.
func (r *Repository) ListConflictsForClients(ctx context.Context, companyID uuid.UUID, clientIDs []uuid.UUID) ([]model.Conflict, error) {
	if len(clientIDs) == 0 {
		return nil, nil
	}
	var rows []model.Conflict
	err := r.db.WithContext(ctx).
		Scopes(ForCompany(companyID)).
		Where("client_id IN ?", clientIDs).
		Find(&rows).Error
	return rows, err
}

func (r *Repository) CountConflicts(ctx context.Context, companyID uuid.UUID, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Conflict{}).
		Scopes(ForCompany(companyID)).
		Where("status = ?", status).
		Count(&n).Error
	return n, err
}
