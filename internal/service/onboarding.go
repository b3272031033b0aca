package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	e "github.com/repguardian/dashboard-api/internal/errors"
	"github.com/repguardian/dashboard-api/internal/model"
	"github.com/repguardian/dashboard-api/internal/store"
	"github.com/repguardian/dashboard-api/pkg/logger"
	"github.com/repguardian/dashboard-api/pkg/metrics"
)

// OnboardingService creates a user's first company.
type OnboardingService struct {
	repo   *store.Repository
	logger *logger.Logger
}

func NewOnboardingService(repo *store.Repository, log *logger.Logger) *OnboardingService {
	return &OnboardingService{repo: repo, logger: log}
}

// Onboard creates the company and the caller's owner membership together.
// A user who already belongs to a company gets ErrConflict.
func (s *OnboardingService) Onboard(ctx context.Context, userID uuid.UUID, req model.OnboardingRequest) (*model.CompanyContext, error) {
	fullName := strings.TrimSpace(req.FullName)
	companyName := strings.TrimSpace(req.CompanyName)
	if fullName == "" || companyName == "" {
		return nil, fmt.Errorf("%w: full_name and company_name are required", e.ErrInvalidInput)
	}

	existing, err := s.repo.CompaniesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load memberships: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: user already belongs to a company", e.ErrConflict)
	}

	company := &model.Company{Name: companyName, UserID: userID}
	owner := &model.AppUser{UserID: userID, Name: fullName}
	if err := s.repo.CreateCompanyWithOwner(ctx, company, owner); err != nil {
		return nil, err
	}

	metrics.CompaniesOnboarded.Inc()
	s.logger.Info("company onboarded",
		zap.String("company_id", company.ID.String()),
		zap.String("user_id", userID.String()),
	)
	return &model.CompanyContext{Company: *company, Role: owner.Role}, nil
}
