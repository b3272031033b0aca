package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repguardian/dashboard-api/internal/middleware"
	"github.com/repguardian/dashboard-api/internal/model"
	"github.com/repguardian/dashboard-api/internal/store/storetest"
)

func TestHealthAndReady(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, uuid.Nil, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, uuid.Nil, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
}

func TestTenantRoutesRequireAuth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, uuid.Nil, http.MethodGet, "/api/v1/conversations", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOnboardingFlow(t *testing.T) {
	api := newTestAPI(t)
	user := uuid.New()

	rec := api.do(t, user, http.MethodGet, "/api/v1/context", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"onboarding required"}`, rec.Body.String())

	rec = api.do(t, user, http.MethodPost, "/api/v1/onboarding", `{"full_name":"","company_name":"Acme"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, user, http.MethodPost, "/api/v1/onboarding", `{"full_name":"Dana Scott","company_name":"Acme Plumbing"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[model.CompanyContext](t, rec)
	assert.Equal(t, "Acme Plumbing", created.Company.Name)
	assert.Equal(t, model.RoleOwner, created.Role)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, created.Company.ID.String(), cookies[0].Value)

	rec = api.do(t, user, http.MethodGet, "/api/v1/context", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.Company.ID, decode[model.CompanyContext](t, rec).Company.ID)

	rec = api.do(t, user, http.MethodPost, "/api/v1/onboarding", `{"full_name":"Dana Scott","company_name":"Second"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, user, http.MethodGet, "/api/v1/companies", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.CompanyContext](t, rec), 1)
}

func TestCompanySwitcher(t *testing.T) {
	api := newTestAPI(t)
	owner, mine := api.seedCompany(t, "Mine")
	_, theirs := api.seedCompany(t, "Theirs")

	rec := api.do(t, owner, http.MethodPost, "/api/v1/companies/active", `{"company_id":"`+theirs.ID.String()+`"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, owner, http.MethodPost, "/api/v1/companies/active", `{"company_id":"`+mine.ID.String()+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)

	rec = api.do(t, owner, http.MethodGet, "/api/v1/context", "", middleware.CompanyHeader, theirs.ID.String())
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStaleCompanyCookieFallsBack(t *testing.T) {
	api := newTestAPI(t)
	owner, mine := api.seedCompany(t, "Mine")
	_, theirs := api.seedCompany(t, "Theirs")

	cookie := middleware.ActiveCompanyCookie + "=" + theirs.ID.String()
	for _, path := range []string{"/api/v1/context", "/api/v1/conversations", "/api/v1/dashboard/kpis"} {
		rec := api.do(t, owner, http.MethodGet, path, "", "Cookie", cookie)
		require.Equal(t, http.StatusOK, rec.Code, path)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1, path)
		assert.Equal(t, mine.ID.String(), cookies[0].Value, path)
	}

	rec := api.do(t, owner, http.MethodGet, "/api/v1/context", "", "Cookie", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, mine.ID, decode[model.CompanyContext](t, rec).Company.ID)
}

func TestConversationRoutes(t *testing.T) {
	api := newTestAPI(t)
	owner, company := api.seedCompany(t, "Acme")
	client := storetest.Client(t, api.repo, company.ID, "Ann", "Lee")
	chat := storetest.Chat(t, api.repo, company.ID, client)
	storetest.Message(t, api.repo, chat.ID, model.RoleHuman, "Is my order ready?", time.Now().Add(-time.Hour))

	base := "/api/v1/conversations/" + chat.ID.String()

	rec := api.do(t, owner, http.MethodGet, "/api/v1/conversations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]model.ConversationSummary](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Ann Lee", list[0].ClientName)

	rec = api.do(t, owner, http.MethodGet, "/api/v1/conversations?search=nothing-matches", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]model.ConversationSummary](t, rec))

	rec = api.do(t, owner, http.MethodPost, base+"/messages", `{"content":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, owner, http.MethodPost, base+"/messages", `{"content":"Yes, ready for pickup"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sent := decode[model.Message](t, rec)
	assert.Equal(t, model.RoleAssistant, sent.Role)

	rec = api.do(t, owner, http.MethodGet, base+"/messages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	msgs := decode[[]model.Message](t, rec)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Yes, ready for pickup", msgs[1].Content)

	rec = api.do(t, owner, http.MethodPut, base+"/autopilot", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, owner, http.MethodPut, base+"/autopilot", `{"enabled":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got, err := api.repo.GetChat(context.Background(), company.ID, chat.ID)
	require.NoError(t, err)
	assert.True(t, got.Autopilot)

	rec = api.do(t, owner, http.MethodPost, base+"/drafts", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = api.do(t, owner, http.MethodGet, "/api/v1/conversations/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConversationIsolation(t *testing.T) {
	api := newTestAPI(t)
	_, company := api.seedCompany(t, "Acme")
	outsider, _ := api.seedCompany(t, "Other")
	chat := storetest.Chat(t, api.repo, company.ID, storetest.Client(t, api.repo, company.ID, "Ann", "Lee"))

	base := "/api/v1/conversations/" + chat.ID.String()
	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, base, ""},
		{http.MethodGet, base + "/messages", ""},
		{http.MethodPost, base + "/messages", `{"content":"hi"}`},
		{http.MethodPut, base + "/autopilot", `{"enabled":true}`},
	} {
		rec := api.do(t, outsider, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.path)
	}

	msgs, err := api.repo.ListMessages(context.Background(), chat.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestFeedbackRoutes(t *testing.T) {
	api := newTestAPI(t)
	owner, company := api.seedCompany(t, "Acme")
	client := storetest.Client(t, api.repo, company.ID, "Ann", "Lee")
	storetest.Feedback(t, api.repo, company.ID, client.ID, storetest.Score(5), time.Now().Add(-time.Hour))
	storetest.Feedback(t, api.repo, company.ID, client.ID, storetest.Score(2), time.Now().Add(-time.Hour))
	atRisk := storetest.Feedback(t, api.repo, company.ID, client.ID, storetest.Score(3), time.Now().Add(-time.Hour))

	rec := api.do(t, owner, http.MethodGet, "/api/v1/feedback/distribution", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"positive":1,"negative":2}`, rec.Body.String())

	rec = api.do(t, owner, http.MethodGet, "/api/v1/feedback?priority=at_risk", "")
	require.Equal(t, http.StatusOK, rec.Code)
	riskRows := decode[[]model.FeedbackView](t, rec)
	require.Len(t, riskRows, 1)
	assert.Equal(t, atRisk.ID, riskRows[0].ID)

	rec = api.do(t, owner, http.MethodGet, "/api/v1/feedback?priority=critical", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, owner, http.MethodGet, "/api/v1/feedback?priority=Urgent", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode[[]model.FeedbackView](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, "Urgent", rows[0].Priority)

	rec = api.do(t, owner, http.MethodGet, "/api/v1/feedback/trend?range=7d", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.TrendPoint](t, rec), 1)

	rec = api.do(t, owner, http.MethodGet, "/api/v1/feedback/trend?range=1y", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardRoutes(t *testing.T) {
	api := newTestAPI(t)
	owner, company := api.seedCompany(t, "Acme")
	storetest.Client(t, api.repo, company.ID, "Ann", "Lee", func(c *model.Client) {
		c.ReviewSubmitted = true
		c.Status = storetest.Str(model.ClientStatusNeedsHuman)
	})

	rec := api.do(t, owner, http.MethodGet, "/api/v1/dashboard/kpis", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reviews_collected":1,"customers_recovered":0,"needs_attention":1}`, rec.Body.String())

	rec = api.do(t, owner, http.MethodGet, "/api/v1/clients?search=ann", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Client](t, rec), 1)

	rec = api.do(t, owner, http.MethodGet, "/api/v1/activity?types=warning,info", "")
	require.Equal(t, http.StatusOK, rec.Code)
	groups := decode[[]model.ActivityGroup](t, rec)
	require.Len(t, groups, 1)
	assert.Equal(t, "Today", groups[0].Label)
}

func TestCatalogRoutesReturnArrays(t *testing.T) {
	api := newTestAPI(t)
	owner, _ := api.seedCompany(t, "Acme")

	for _, path := range []string{"/referrals", "/rewards", "/reward-services", "/services", "/faqs", "/appointments"} {
		rec := api.do(t, owner, http.MethodGet, "/api/v1"+path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, `[]`, rec.Body.String(), path)
	}
}
