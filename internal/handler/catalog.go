package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/repguardian/dashboard-api/internal/middleware"
	"github.com/repguardian/dashboard-api/internal/store"
)

// CatalogHandler serves the read-only company lists: loyalty program,
// services, FAQs and appointments.
type CatalogHandler struct {
	repo *store.Repository
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(repo *store.Repository) *CatalogHandler {
	return &CatalogHandler{repo: repo}
}

func listHandler[T any](what string, list func(ctx context.Context, companyID uuid.UUID) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := list(r.Context(), middleware.GetCompanyID(r.Context()))
		if err != nil {
			respondError(w, r, err, "failed to list "+what)
			return
		}
		if rows == nil {
			rows = []T{}
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

// Referrals handles GET /api/v1/referrals
func (h *CatalogHandler) Referrals() http.HandlerFunc {
	return listHandler("referrals", h.repo.ListReferrals)
}

// Rewards handles GET /api/v1/rewards
func (h *CatalogHandler) Rewards() http.HandlerFunc {
	return listHandler("rewards", h.repo.ListRewards)
}

// RewardServices handles GET /api/v1/reward-services
func (h *CatalogHandler) RewardServices() http.HandlerFunc {
	return listHandler("reward services", h.repo.ListRewardServices)
}

// Services handles GET /api/v1/services
func (h *CatalogHandler) Services() http.HandlerFunc {
	return listHandler("services", h.repo.ListServices)
}

// FAQs handles GET /api/v1/faqs
func (h *CatalogHandler) FAQs() http.HandlerFunc {
	return listHandler("faqs", h.repo.ListFAQs)
}

// Appointments handles GET /api/v1/appointments
func (h *CatalogHandler) Appointments() http.HandlerFunc {
	return listHandler("appointments", h.repo.ListAppointments)
}
