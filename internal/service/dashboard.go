package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/repguardian/dashboard-api/internal/model"
	"github.com/repguardian/dashboard-api/internal/store"
)

type DashboardService struct {
	repo *store.Repository
}

func NewDashboardService(repo *store.Repository) *DashboardService {
	return &DashboardService{repo: repo}
}

// KPIs counts reviews collected, customers recovered (closed conflicts) and
// clients currently flagged for attention.
func (s *DashboardService) KPIs(ctx context.Context, companyID uuid.UUID) (*model.KPIs, error) {
	reviews, err := s.repo.CountReviewsSubmitted(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}
	recovered, err := s.repo.CountConflicts(ctx, companyID, model.ConflictClosed)
	if err != nil {
		return nil, fmt.Errorf("count recovered: %w", err)
	}
	attention, err := s.repo.CountClientsWithStatus(ctx, companyID,
		model.ClientStatusConflict, model.ClientStatusNeedsHuman)
	if err != nil {
		return nil, fmt.Errorf("count attention: %w", err)
	}
	return &model.KPIs{
		ReviewsCollected:   reviews,
		CustomersRecovered: recovered,
		NeedsAttention:     attention,
	}, nil
}

// Clients lists clients newest first, optionally filtered by name.
func (s *DashboardService) Clients(ctx context.Context, companyID uuid.UUID, search string) ([]model.Client, error) {
	clients, err := s.repo.ListClients(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	query := strings.ToLower(strings.TrimSpace(search))
	if query == "" {
		return clients, nil
	}
	out := clients[:0]
	for _, c := range clients {
		if strings.Contains(strings.ToLower(c.FullName()), query) {
			out = append(out, c)
		}
	}
	return out, nil
}
