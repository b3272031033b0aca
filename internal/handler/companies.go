package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/repguardian/dashboard-api/internal/middleware"
	"github.com/repguardian/dashboard-api/internal/model"
	"github.com/repguardian/dashboard-api/internal/service"
)

// MembershipLister lists the companies a user can act in.
type MembershipLister interface {
	CompaniesForUser(ctx context.Context, userID uuid.UUID) ([]model.Membership, error)
	ResolveMembership(ctx context.Context, userID, preferred uuid.UUID) (*model.Membership, error)
}

// CompanyHandler handles onboarding and the company switcher.
type CompanyHandler struct {
	onboarding  *service.OnboardingService
	memberships MembershipLister
}

// NewCompanyHandler creates a new company handler.
func NewCompanyHandler(onboarding *service.OnboardingService, memberships MembershipLister) *CompanyHandler {
	return &CompanyHandler{onboarding: onboarding, memberships: memberships}
}

// Onboard handles POST /api/v1/onboarding
func (h *CompanyHandler) Onboard(w http.ResponseWriter, r *http.Request) {
	var req model.OnboardingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateName("full_name", req.FullName); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateName("company_name", req.CompanyName); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cc, err := h.onboarding.Onboard(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		respondError(w, r, err, "failed to create company")
		return
	}

	middleware.SetActiveCompany(w, r, cc.Company.ID)
	writeJSON(w, http.StatusCreated, cc)
}

// List handles GET /api/v1/companies
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	memberships, err := h.memberships.CompaniesForUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, r, err, "failed to list companies")
		return
	}

	out := make([]model.CompanyContext, 0, len(memberships))
	for _, m := range memberships {
		out = append(out, model.CompanyContext{Company: m.Company, Role: m.Role})
	}
	writeJSON(w, http.StatusOK, out)
}

type selectCompanyRequest struct {
	CompanyID string `json:"company_id"`
}

// Select handles POST /api/v1/companies/active
func (h *CompanyHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req selectCompanyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	companyID, err := middleware.ParseID("company", req.CompanyID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m, err := h.memberships.ResolveMembership(r.Context(), middleware.GetUserID(r.Context()), companyID)
	if err != nil {
		respondError(w, r, err, "failed to select company")
		return
	}

	middleware.SetActiveCompany(w, r, m.Company.ID)
	writeJSON(w, http.StatusOK, model.CompanyContext{Company: m.Company, Role: m.Role})
}

// Context handles GET /api/v1/context
func (h *CompanyHandler) Context(w http.ResponseWriter, r *http.Request) {
	m := middleware.GetMembership(r.Context())
	if m == nil {
		writeError(w, http.StatusForbidden, "onboarding required")
		return
	}
	writeJSON(w, http.StatusOK, model.CompanyContext{Company: m.Company, Role: m.Role})
}
