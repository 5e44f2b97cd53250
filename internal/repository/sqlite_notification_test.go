package repository

import (
	"context"
	"testing"
	"time"

	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepo_CreateAndGet(t *testing.T) {
	repo := NewSQLiteNotificationRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	amount := decimal.RequireFromString("250.00")
	n := &domain.Notification{
		ID:         1717232400000,
		Title:      "💰 Reminder",
		Body:       "Pay the drone rental",
		ScheduleAt: &at,
		Group:      "finance-flow",
		Extra:      domain.NotificationExtra{CostID: "e1", Amount: &amount, Type: "expense"},
	}
	require.NoError(t, repo.Create(ctx, n))

	exists, err := repo.Exists(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := repo.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationPending, got.State)
	assert.Equal(t, "e1", got.Extra.CostID)
	require.NotNil(t, got.Extra.Amount)
	assert.True(t, amount.Equal(*got.Extra.Amount))
	require.NotNil(t, got.ScheduleAt)
	assert.True(t, at.Equal(*got.ScheduleAt))

	_, err = repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotificationRepo_ListDueAndDeliver(t *testing.T) {
	repo := NewSQLiteNotificationRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	require.NoError(t, repo.Create(ctx, &domain.Notification{ID: 1, Title: "past", ScheduleAt: &past}))
	require.NoError(t, repo.Create(ctx, &domain.Notification{ID: 2, Title: "future", ScheduleAt: &future}))
	require.NoError(t, repo.Create(ctx, &domain.Notification{ID: 3, Title: "now"}))

	due, err := repo.ListDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, int64(3), due[0].ID)
	assert.Equal(t, int64(1), due[1].ID)

	require.NoError(t, repo.MarkDelivered(ctx, 1, now))
	assert.ErrorIs(t, repo.MarkDelivered(ctx, 1, now), ErrNotFound)

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, int64(3), pending[0].ID)

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationDelivered, got.State)
	require.NotNil(t, got.DeliveredAt)
}

func TestNotificationRepo_Cancel(t *testing.T) {
	repo := NewSQLiteNotificationRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	for id := int64(1); id <= 3; id++ {
		require.NoError(t, repo.Create(ctx, &domain.Notification{ID: id, Title: "n"}))
	}

	require.NoError(t, repo.Cancel(ctx, 2))
	assert.ErrorIs(t, repo.Cancel(ctx, 2), ErrNotFound)

	n, err := repo.CancelAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
