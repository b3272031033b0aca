package handler

import (
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/repguardian/dashboard-api/internal/middleware"
	"github.com/repguardian/dashboard-api/internal/service"
	"github.com/repguardian/dashboard-api/internal/store"
	"github.com/repguardian/dashboard-api/pkg/logger"
)

// Deps is everything the router needs.
type Deps struct {
	Repo          *store.Repository
	Feed          Readiness
	Conversations *service.ConversationService
	Drafts        *service.DraftService
	Feedback      *service.FeedbackService
	Dashboard     *service.DashboardService
	Activity      *service.ActivityService
	Onboarding    *service.OnboardingService
	Relay         Forwarder
	Logger        *logger.Logger

	// ReportErrors sends panics and server errors to Sentry. sentry.Init
	// must have been called.
	ReportErrors bool

	JWTSecret         string
	AllowedOrigins    []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewRouter builds the HTTP routes.
func NewRouter(d Deps) http.Handler {
	healthHandler := NewHealthHandler(d.Repo, d.Feed)
	companyHandler := NewCompanyHandler(d.Onboarding, d.Repo)
	dashboardHandler := NewDashboardHandler(d.Dashboard, d.Activity)
	conversationHandler := NewConversationHandler(d.Conversations, d.Drafts, d.Logger)
	streamHandler := NewStreamHandler(d.Conversations, d.Logger)
	feedbackHandler := NewFeedbackHandler(d.Feedback)
	catalogHandler := NewCatalogHandler(d.Repo)
	relayHandler := NewRelayHandler(d.Relay)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(d.Logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	if d.ReportErrors {
		r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}
	r.Use(middleware.CORS(d.AllowedOrigins))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	// Webhook relay, called by the dashboard without a user session
	r.With(middleware.IPRateLimit(d.RateLimitRequests, d.RateLimitWindow)).
		Post("/api/send-message", relayHandler.Send)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(d.JWTSecret))

		// Routes that work before the user has a company
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(d.RateLimitRequests, d.RateLimitWindow))
			r.Post("/onboarding", companyHandler.Onboard)
			r.Get("/companies", companyHandler.List)
			r.Post("/companies/active", companyHandler.Select)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Tenant(d.Repo))
			r.Use(middleware.RateLimit(d.RateLimitRequests, d.RateLimitWindow))

			r.Get("/context", companyHandler.Context)
			r.Get("/dashboard/kpis", dashboardHandler.KPIs)
			r.Get("/clients", dashboardHandler.Clients)
			r.Get("/activity", dashboardHandler.Activity)

			r.Route("/conversations", func(r chi.Router) {
				r.Get("/", conversationHandler.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", conversationHandler.Get)
					r.Get("/messages", conversationHandler.Messages)
					r.Post("/messages", conversationHandler.Send)
					r.Put("/autopilot", conversationHandler.SetAutopilot)
					r.Post("/drafts", conversationHandler.Draft)
					r.Get("/events", streamHandler.Events)
				})
			})

			r.Route("/feedback", func(r chi.Router) {
				r.Get("/", feedbackHandler.List)
				r.Get("/trend", feedbackHandler.Trend)
				r.Get("/distribution", feedbackHandler.Distribution)
			})

			r.Get("/referrals", catalogHandler.Referrals())
			r.Get("/rewards", catalogHandler.Rewards())
			r.Get("/reward-services", catalogHandler.RewardServices())
			r.Get("/services", catalogHandler.Services())
			r.Get("/faqs", catalogHandler.FAQs())
			r.Get("/appointments", catalogHandler.Appointments())
		})
	})

	return r
}
