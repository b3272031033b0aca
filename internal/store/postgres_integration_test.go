//go:build integration

package store_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repguardian/dashboard-api/internal/config"
	"github.com/repguardian/dashboard-api/internal/model"
	"github.com/repguardian/dashboard-api/internal/store"
	"github.com/repguardian/dashboard-api/pkg/logger"
)

var pgConfig config.DatabaseConfig

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not connect to docker: %s", err)
	}

	resource, err := pool.Run("postgres", "16", []string{
		"POSTGRES_USER=test",
		"POSTGRES_PASSWORD=test",
		"POSTGRES_DB=repguardian",
	})
	if err != nil {
		log.Fatalf("Could not start postgres: %s", err)
	}

	port, _ := strconv.Atoi(resource.GetPort("5432/tcp"))
	pgConfig = config.DatabaseConfig{
		Host:            "localhost",
		Port:            port,
		User:            "test",
		Password:        "test",
		Name:            "repguardian",
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		ConnectTimeout:  30 * time.Second,
	}

	err = pool.Retry(func() error {
		db, err := sql.Open("postgres", pgConfig.DSN())
		if err != nil {
			return err
		}
		defer db.Close()
		return db.Ping()
	})
	if err != nil {
		log.Fatalf("Postgres never became ready: %s", err)
	}

	code := m.Run()

	_ = pool.Purge(resource)
	os.Exit(code)
}

func TestPostgresConversationFlow(t *testing.T) {
	ctx := context.Background()

	repo, err := store.Open(ctx, pgConfig, logger.Nop())
	require.NoError(t, err)
	defer repo.Close()
	require.NoError(t, repo.Migrate(ctx))
	require.NoError(t, repo.Ping(ctx))

	userID := uuid.New()
	company := &model.Company{Name: fmt.Sprintf("Acme %s", userID), UserID: userID}
	require.NoError(t, repo.CreateCompanyWithOwner(ctx, company, &model.AppUser{UserID: userID, Name: "Jane"}))

	client := &model.Client{CompanyID: company.ID, FirstName: "Ann", LastName: "Lee"}
	require.NoError(t, repo.Create(ctx, client))

	touched := time.Now().UTC().Add(-time.Hour)
	untouched := &model.Chat{CompanyID: company.ID, ClientID: client.ID, Status: "open"}
	recent := &model.Chat{CompanyID: company.ID, ClientID: client.ID, Status: "open", StatusUpdatedAt: &touched}
	require.NoError(t, repo.Create(ctx, untouched))
	require.NoError(t, repo.Create(ctx, recent))

	chats, err := repo.ListChats(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, recent.ID, chats[0].ID, "null status_updated_at sorts last")

	msg := &model.Message{
		SessionID: recent.ID,
		Role:      model.RoleAssistant,
		Content:   "Thanks for reaching out",
		Payload:   []byte(`{"content":"Thanks for reaching out","role":"assistant"}`),
	}
	require.NoError(t, repo.InsertMessage(ctx, msg))

	msgs, err := repo.ListMessages(ctx, recent.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.JSONEq(t, `{"content":"Thanks for reaching out","role":"assistant"}`, string(msgs[0].Payload))

	membership, err := repo.ResolveMembership(ctx, userID, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, company.ID, membership.Company.ID)
}
