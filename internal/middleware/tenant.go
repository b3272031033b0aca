package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	e "github.com/repguardian/dashboard-api/internal/errors"
	"github.com/repguardian/dashboard-api/internal/model"
	"github.com/repguardian/dashboard-api/pkg/logger"
)

const (
	// CompanyIDKey is the context key for the resolved company ID.
	CompanyIDKey ContextKey = "company_id"
	// MembershipKey is the context key for the resolved membership.
	MembershipKey ContextKey = "membership"

	// CompanyHeader selects a company explicitly.
	CompanyHeader = "X-Company-ID"
	// ActiveCompanyCookie remembers the company picked in the switcher.
	ActiveCompanyCookie = "active_company_id"

	activeCompanyMaxAge = 30 * 24 * time.Hour
)

// MembershipResolver finds the company a user acts in.
type MembershipResolver interface {
	ResolveMembership(ctx context.Context, userID, preferred uuid.UUID) (*model.Membership, error)
}

// Tenant resolves the company for an authenticated request. The header wins
// over the cookie; without either the user's own company comes first, then
// memberships. A header naming a foreign company is refused, while a stale
// cookie falls back to the default company and is reset.
func Tenant(resolver MembershipResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID == uuid.Nil {
				writeError(w, http.StatusUnauthorized, "unauthenticated")
				return
			}

			preferred, fromCookie, err := preferredCompany(r)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid company id")
				return
			}

			membership, err := resolver.ResolveMembership(r.Context(), userID, preferred)
			if fromCookie && errors.Is(err, e.ErrForbidden) {
				// the cookie outlived the membership or belongs to another user
				membership, err = resolver.ResolveMembership(r.Context(), userID, uuid.Nil)
				if err == nil {
					SetActiveCompany(w, r, membership.Company.ID)
				}
			}
			switch {
			case errors.Is(err, e.ErrNoCompany):
				writeError(w, http.StatusForbidden, "onboarding required")
				return
			case errors.Is(err, e.ErrForbidden):
				writeError(w, http.StatusForbidden, "not a member of this company")
				return
			case err != nil:
				logger.FromContext(r.Context()).Error("failed to resolve company",
					zap.String("user_id", userID.String()),
					zap.Error(err),
				)
				writeError(w, http.StatusInternalServerError, "failed to resolve company")
				return
			}

			ctx := context.WithValue(r.Context(), CompanyIDKey, membership.Company.ID)
			ctx = context.WithValue(ctx, MembershipKey, membership)
			if info := requestInfoFrom(ctx); info != nil {
				info.companyID = membership.Company.ID.String()
			}
			ctx = logger.IntoContext(ctx, logger.FromContext(ctx).With(
				zap.String("company_id", membership.Company.ID.String()),
			))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// preferredCompany reads the explicit company choice and whether it came
// from the cookie. Only the header is binding.
func preferredCompany(r *http.Request) (uuid.UUID, bool, error) {
	if v := r.Header.Get(CompanyHeader); v != "" {
		id, err := uuid.Parse(v)
		return id, false, err
	}
	if c, err := r.Cookie(ActiveCompanyCookie); err == nil && c.Value != "" {
		id, err := uuid.Parse(c.Value)
		if err != nil {
			return uuid.Nil, false, nil
		}
		return id, true, nil
	}
	return uuid.Nil, false, nil
}

// SetActiveCompany stores the selected company in the switcher cookie.
func SetActiveCompany(w http.ResponseWriter, r *http.Request, companyID uuid.UUID) {
	http.SetCookie(w, &http.Cookie{
		Name:     ActiveCompanyCookie,
		Value:    companyID.String(),
		Path:     "/",
		MaxAge:   int(activeCompanyMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetCompanyID gets the resolved company ID from context.
func GetCompanyID(ctx context.Context) uuid.UUID {
	if v, ok := ctx.Value(CompanyIDKey).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// GetMembership gets the resolved membership from context.
func GetMembership(ctx context.Context) *model.Membership {
	m, _ := ctx.Value(MembershipKey).(*model.Membership)
	return m
}
