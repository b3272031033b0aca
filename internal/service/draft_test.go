package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	e "github.com/repguardian/dashboard-api/internal/errors"
	"github.com/repguardian/dashboard-api/internal/llm"
	"github.com/repguardian/dashboard-api/internal/model"
	"github.com/repguardian/dashboard-api/internal/store/storetest"
)

type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*llm.CompletionResponse)
	return resp, args.Error(1)
}

func (m *mockLLM) Name() string { return "mock" }

func TestDraftSuggestStoresHiddenMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cid := f.company.ID
	chat := storetest.Chat(t, f.repo, cid, storetest.Client(t, f.repo, cid, "Ann", "Lee"))
	storetest.Message(t, f.repo, chat.ID, model.RoleAssistant, "How was your visit?", refNow.Add(-time.Hour))
	storetest.Message(t, f.repo, chat.ID, model.RoleHuman, "The plumber was late", refNow.Add(-50*time.Minute))
	storetest.Message(t, f.repo, chat.ID, model.RoleHidden, "old draft", refNow.Add(-40*time.Minute))

	client := &mockLLM{}
	client.On("Complete", mock.Anything, mock.MatchedBy(func(req *llm.CompletionRequest) bool {
		return len(req.Messages) == 2 &&
			req.Messages[1].Role == llm.RoleUser &&
			req.Messages[1].Content == "The plumber was late" &&
			req.System != ""
	})).Return(&llm.CompletionResponse{Content: " Sorry about the delay, Ann. \n", Model: "mock-1"}, nil).Once()

	conversations := f.conversations(refNow)
	svc := NewDraftService(f.repo, conversations, client, f.log)
	require.True(t, svc.Enabled())

	msg, err := svc.Suggest(ctx, cid, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleHidden, msg.Role)
	assert.Equal(t, "Sorry about the delay, Ann.", msg.Content)
	client.AssertExpectations(t)

	thread, err := conversations.Thread(ctx, cid, chat.ID)
	require.NoError(t, err)
	require.Len(t, thread.Messages, 4)
	assert.Equal(t, msg.ID, thread.Messages[3].ID)
}

func TestDraftSuggestErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cid := f.company.ID
	chat := storetest.Chat(t, f.repo, cid, storetest.Client(t, f.repo, cid, "Ann", "Lee"))
	conversations := f.conversations(refNow)

	_, err := NewDraftService(f.repo, conversations, nil, f.log).Suggest(ctx, cid, chat.ID)
	assert.ErrorIs(t, err, e.ErrUnavailable)

	client := &mockLLM{}
	svc := NewDraftService(f.repo, conversations, client, f.log)

	_, err = svc.Suggest(ctx, cid, chat.ID)
	assert.ErrorIs(t, err, e.ErrInvalidInput, "nothing from the customer to answer")

	storetest.Message(t, f.repo, chat.ID, model.RoleHuman, "Hello?", refNow.Add(-time.Minute))
	client.On("Complete", mock.Anything, mock.Anything).Return(nil, errors.New("rate limited")).Once()

	_, err = svc.Suggest(ctx, cid, chat.ID)
	assert.ErrorContains(t, err, "rate limited")
	client.AssertExpectations(t)
}
