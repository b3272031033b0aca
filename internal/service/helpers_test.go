package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"

	"github.com/repguardian/dashboard-api/internal/model"
	"github.com/repguardian/dashboard-api/internal/realtime"
	"github.com/repguardian/dashboard-api/internal/store"
	"github.com/repguardian/dashboard-api/internal/store/storetest"
	"github.com/repguardian/dashboard-api/pkg/logger"
)

type fixture struct {
	repo    *store.Repository
	feed    *realtime.Local
	log     *logger.Logger
	company *model.Company
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := storetest.SetupTestDB(t)
	return &fixture{
		repo:    repo,
		feed:    realtime.NewLocal(),
		log:     logger.Wrap(zaptest.NewLogger(t)),
		company: storetest.Company(t, repo, uuid.New(), "Acme Plumbing"),
	}
}

func (f *fixture) conversations(now time.Time) *ConversationService {
	s := NewConversationService(f.repo, f.feed, f.log)
	s.now = func() time.Time { return now }
	return s
}

type failingFeed struct{}

func (failingFeed) PublishMessageInserted(context.Context, uuid.UUID, model.Message) error {
	return errors.New("nats: connection closed")
}

func (failingFeed) Subscribe(context.Context, uuid.UUID, uuid.UUID, realtime.Handler) (func(), error) {
	return func() {}, nil
}
