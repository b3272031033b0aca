package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repguardian/dashboard-api/internal/model"
	"github.com/repguardian/dashboard-api/internal/store/storetest"
)

func TestDashboardKPIs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cid := f.company.ID

	a := storetest.Client(t, f.repo, cid, "Ann", "Lee", func(c *model.Client) { c.ReviewSubmitted = true })
	storetest.Client(t, f.repo, cid, "Bob", "Ray", func(c *model.Client) { c.ReviewSubmitted = true })
	storetest.Client(t, f.repo, cid, "Cal", "Fox", func(c *model.Client) { c.Status = storetest.Str(model.ClientStatusNeedsHuman) })
	storetest.Client(t, f.repo, cid, "Dee", "Oak", func(c *model.Client) { c.Status = storetest.Str(model.ClientStatusConflict) })
	storetest.Conflict(t, f.repo, cid, a.ID, model.ConflictClosed, refNow)
	storetest.Conflict(t, f.repo, cid, a.ID, model.ConflictActive, refNow)

	other := storetest.Company(t, f.repo, uuid.New(), "Other")
	storetest.Client(t, f.repo, other.ID, "Eve", "Elm", func(c *model.Client) { c.ReviewSubmitted = true })

	got, err := NewDashboardService(f.repo).KPIs(ctx, cid)
	require.NoError(t, err)
	assert.Equal(t, &model.KPIs{ReviewsCollected: 2, CustomersRecovered: 1, NeedsAttention: 2}, got)
}

func TestDashboardClientsSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cid := f.company.ID

	storetest.Client(t, f.repo, cid, "Ann", "Lee", func(c *model.Client) { c.CreatedAt = refNow.Add(-2 * time.Hour) })
	storetest.Client(t, f.repo, cid, "Bob", "Ray", func(c *model.Client) { c.CreatedAt = refNow.Add(-time.Hour) })

	svc := NewDashboardService(f.repo)

	all, err := svc.Clients(ctx, cid, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Bob", all[0].FirstName, "newest first")

	got, err := svc.Clients(ctx, cid, "ann lee")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ann", got[0].FirstName)
}
