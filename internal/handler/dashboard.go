package handler

import (
	"net/http"

	"github.com/repguardian/dashboard-api/internal/middleware"
	"github.com/repguardian/dashboard-api/internal/service"
)

// DashboardHandler serves the overview page: KPIs, clients and activity.
type DashboardHandler struct {
	dashboard *service.DashboardService
	activity  *service.ActivityService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboard *service.DashboardService, activity *service.ActivityService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, activity: activity}
}

// KPIs handles GET /api/v1/dashboard/kpis
func (h *DashboardHandler) KPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.dashboard.KPIs(r.Context(), middleware.GetCompanyID(r.Context()))
	if err != nil {
		respondError(w, r, err, "failed to load KPIs")
		return
	}
	writeJSON(w, http.StatusOK, kpis)
}

// Clients handles GET /api/v1/clients
func (h *DashboardHandler) Clients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.dashboard.Clients(r.Context(), middleware.GetCompanyID(r.Context()), r.URL.Query().Get("search"))
	if err != nil {
		respondError(w, r, err, "failed to list clients")
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

// Activity handles GET /api/v1/activity
func (h *DashboardHandler) Activity(w http.ResponseWriter, r *http.Request) {
	groups, err := h.activity.Feed(r.Context(), middleware.GetCompanyID(r.Context()), service.ActivityFilter{
		Types:  listParam(r, "types"),
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		respondError(w, r, err, "failed to load activity")
		return
	}
	writeJSON(w, http.StatusOK, groups)
}
