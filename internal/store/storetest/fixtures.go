package storetest

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/repguardian/dashboard-api/internal/model"
	"github.com/repguardian/dashboard-api/internal/store"
)

// Score returns a pointer for nullable sentiment scores.
func Score(n int) *int { return &n }

// Str returns a pointer for nullable text columns.
func Str(s string) *string { return &s }

func Company(t *testing.T, repo *store.Repository, ownerID uuid.UUID, name string) *model.Company {
	t.Helper()
	c := &model.Company{Name: name, UserID: ownerID}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func Client(t *testing.T, repo *store.Repository, companyID uuid.UUID, first, last string, opts ...func(*model.Client)) *model.Client {
	t.Helper()
	c := &model.Client{CompanyID: companyID, FirstName: first, LastName: last, PhoneNumber: "+15550100"}
	for _, o := range opts {
		o(c)
	}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func Chat(t *testing.T, repo *store.Repository, companyID uuid.UUID, client *model.Client, opts ...func(*model.Chat)) *model.Chat {
	t.Helper()
	c := &model.Chat{CompanyID: companyID, ClientID: client.ID, Status: "open"}
	for _, o := range opts {
		o(c)
	}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func Message(t *testing.T, repo *store.Repository, chatID uuid.UUID, role model.Role, content string, at time.Time) *model.Message {
	t.Helper()
	payload, err := json.Marshal(model.MessagePayload{Content: content, Role: role})
	require.NoError(t, err)
	m := &model.Message{SessionID: chatID, Role: role, Content: content, Payload: payload, CreatedAt: at.UTC()}
	require.NoError(t, repo.InsertMessage(context.Background(), m))
	return m
}

func Feedback(t *testing.T, repo *store.Repository, companyID, clientID uuid.UUID, score *int, at time.Time, opts ...func(*model.Feedback)) *model.Feedback {
	t.Helper()
	f := &model.Feedback{CompanyID: companyID, ClientID: clientID, SentimentScore: score, Severity: "low"}
	f.CreatedAt = at.UTC()
	for _, o := range opts {
		o(f)
	}
	require.NoError(t, repo.Create(context.Background(), f))
	return f
}

func Conflict(t *testing.T, repo *store.Repository, companyID, clientID uuid.UUID, status string, at time.Time) *model.Conflict {
	t.Helper()
	c := &model.Conflict{CompanyID: companyID, ClientID: clientID, Status: status, Description: "customer unhappy with service"}
	c.CreatedAt = at.UTC()
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}
