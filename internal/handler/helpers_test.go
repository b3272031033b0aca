package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/repguardian/dashboard-api/internal/middleware"
	"github.com/repguardian/dashboard-api/internal/model"
	"github.com/repguardian/dashboard-api/internal/realtime"
	"github.com/repguardian/dashboard-api/internal/relay"
	"github.com/repguardian/dashboard-api/internal/service"
	"github.com/repguardian/dashboard-api/internal/store"
	"github.com/repguardian/dashboard-api/internal/store/storetest"
	"github.com/repguardian/dashboard-api/pkg/logger"
)

const testSecret = "handler-test-secret"

type testAPI struct {
	repo          *store.Repository
	feed          *realtime.Local
	conversations *service.ConversationService
	router        http.Handler
}

type stubForwarder struct {
	up  *relay.Upstream
	err error
	got json.RawMessage
}

func (s *stubForwarder) Forward(_ context.Context, payload json.RawMessage) (*relay.Upstream, error) {
	s.got = payload
	return s.up, s.err
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	repo := storetest.SetupTestDB(t)
	feed := realtime.NewLocal()
	log := logger.Nop()
	conversations := service.NewConversationService(repo, feed, log)

	router := NewRouter(Deps{
		Repo:              repo,
		Feed:              feed,
		Conversations:     conversations,
		Drafts:            service.NewDraftService(repo, conversations, nil, log),
		Feedback:          service.NewFeedbackService(repo),
		Dashboard:         service.NewDashboardService(repo),
		Activity:          service.NewActivityService(repo),
		Onboarding:        service.NewOnboardingService(repo, log),
		Relay:             &stubForwarder{up: &relay.Upstream{Status: http.StatusOK, Body: []byte(`{}`)}},
		Logger:            log,
		JWTSecret:         testSecret,
		AllowedOrigins:    []string{"http://localhost:3000"},
		RateLimitRequests: 10000,
		RateLimitWindow:   time.Minute,
	})

	return &testAPI{repo: repo, feed: feed, conversations: conversations, router: router}
}

func bearer(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

// do sends a request as userID; uuid.Nil sends no token.
func (a *testAPI) do(t *testing.T, userID uuid.UUID, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != uuid.Nil {
		req.Header.Set("Authorization", bearer(t, userID))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// seedCompany creates a company owned by a fresh user.
func (a *testAPI) seedCompany(t *testing.T, name string) (uuid.UUID, *model.Company) {
	t.Helper()
	owner := uuid.New()
	return owner, storetest.Company(t, a.repo, owner, name)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
