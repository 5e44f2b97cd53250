package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/ledger"
	"github.com/financeflow/flowdesk/internal/repository"
	"github.com/financeflow/flowdesk/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type countingPermissions struct {
	granted bool
	err     error
	calls   int
}

func (p *countingPermissions) Request(context.Context) (bool, error) {
	p.calls++
	return p.granted, p.err
}

func newService(t *testing.T, perms Permissions) (*Service, *repository.SQLiteNotificationRepo) {
	t.Helper()
	repo := repository.NewSQLiteNotificationRepo(testutil.NewTestDB(t))
	return NewService(repo, perms, WithClock(func() time.Time { return fixedNow })), repo
}

func TestSchedule_PrefixesTitleAndUsesMillisID(t *testing.T) {
	svc, repo := newService(t, StaticPermissions{Granted: true})
	ctx := context.Background()

	id, err := svc.Schedule(ctx, Payload{Title: "Hello", Body: "world"}, nil)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.UnixMilli(), id)

	n, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "💰 Hello", n.Title)
	assert.Equal(t, Group, n.Group)
	assert.Nil(t, n.ScheduleAt)
}

func TestSchedule_BumpsCollidingIDs(t *testing.T) {
	svc, _ := newService(t, StaticPermissions{Granted: true})
	ctx := context.Background()

	first, err := svc.Schedule(ctx, Payload{Title: "a"}, nil)
	require.NoError(t, err)
	second, err := svc.Schedule(ctx, Payload{Title: "b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, first+1, second)
}

func TestSchedule_PermissionAskedOnceAndRemembered(t *testing.T) {
	perms := &countingPermissions{granted: false}
	svc, repo := newService(t, perms)
	ctx := context.Background()

	_, err := svc.Schedule(ctx, Payload{Title: "a"}, nil)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = svc.Schedule(ctx, Payload{Title: "b"}, nil)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.False(t, svc.RequestPermission(ctx))
	assert.Equal(t, 1, perms.calls)

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRequestPermission_RetriesAfterFailure(t *testing.T) {
	perms := &countingPermissions{err: errors.New("platform unavailable")}
	svc, _ := newService(t, perms)
	ctx := context.Background()

	assert.False(t, svc.RequestPermission(ctx))
	perms.err = nil
	perms.granted = true
	assert.True(t, svc.RequestPermission(ctx))
	assert.True(t, svc.RequestPermission(ctx))
	assert.Equal(t, 2, perms.calls)
}

func incomeTx(due time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:                  "cost-1",
		Description:         ledger.Encode(ledger.Entry{Kind: ledger.KindIncome, Description: "Wedding film", Counterparty: "Ana"}),
		Value:               decimal.RequireFromString("-1500"),
		Category:            "Serviços",
		DueDate:             &due,
		NotificationEnabled: true,
	}
}

func TestScheduleExpenseReminder_IncomeBothReminders(t *testing.T) {
	svc, repo := newService(t, StaticPermissions{Granted: true})
	ctx := context.Background()
	due := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)

	ids := svc.ScheduleExpenseReminder(ctx, incomeTx(due))
	require.Len(t, ids, 2)

	before, err := repo.GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "💰 Finance Flow - Cobrança em 1 dia", before.Title)
	assert.Equal(t, "Lembre-se de cobrar: Wedding film - R$ 1500.00", before.Body)
	require.NotNil(t, before.ScheduleAt)
	assert.True(t, due.AddDate(0, 0, -1).Equal(*before.ScheduleAt))

	dayOf, err := repo.GetByID(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, "💰 Finance Flow - Hora de cobrar!", dayOf.Title)
	assert.Equal(t, "Vence hoje: Wedding film - R$ 1500.00", dayOf.Body)
	assert.Equal(t, "income", dayOf.Extra.Type)
	assert.Equal(t, "cost-1", dayOf.Extra.CostID)
	assert.Equal(t, "2025-06-04", dayOf.Extra.DueDate)
	assert.Equal(t, "Serviços", dayOf.Extra.Category)
	require.NotNil(t, dayOf.Extra.Amount)
	assert.True(t, decimal.NewFromInt(1500).Equal(*dayOf.Extra.Amount))
}

func TestScheduleExpenseReminder_ExpenseDueTomorrowOnlyDayOf(t *testing.T) {
	svc, repo := newService(t, StaticPermissions{Granted: true})
	ctx := context.Background()
	due := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	tx := &domain.Transaction{
		ID:                  "cost-2",
		Description:         ledger.Encode(ledger.Entry{Kind: ledger.KindExpense, Description: "Drone rental"}),
		Value:               decimal.RequireFromString("89.9"),
		DueDate:             &due,
		NotificationEnabled: true,
	}

	ids := svc.ScheduleExpenseReminder(ctx, tx)
	require.Len(t, ids, 1)
	n, err := repo.GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "💰 Finance Flow - Vencimento hoje!", n.Title)
	assert.Equal(t, "Drone rental vence hoje - R$ 89.90", n.Body)
	assert.Equal(t, "expense", n.Extra.Type)
}

func TestScheduleExpenseReminder_NegativeValueCountsAsIncome(t *testing.T) {
	svc, repo := newService(t, StaticPermissions{Granted: true})
	ctx := context.Background()
	due := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	tx := &domain.Transaction{ID: "c", Description: "untagged", Value: decimal.NewFromInt(-5), DueDate: &due, NotificationEnabled: true}

	ids := svc.ScheduleExpenseReminder(ctx, tx)
	require.Len(t, ids, 2)
	n, err := repo.GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "income", n.Extra.Type)
}

func TestScheduleExpenseReminder_Skips(t *testing.T) {
	svc, _ := newService(t, StaticPermissions{Granted: true})
	ctx := context.Background()

	past := incomeTx(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	assert.Empty(t, svc.ScheduleExpenseReminder(ctx, past))

	disabled := incomeTx(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	disabled.NotificationEnabled = false
	assert.Empty(t, svc.ScheduleExpenseReminder(ctx, disabled))

	noDue := incomeTx(time.Time{})
	noDue.DueDate = nil
	assert.Empty(t, svc.ScheduleExpenseReminder(ctx, noDue))
}

func TestCancel_SkipsUnknownAndSettledReminders(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	repo := repository.NewSQLiteNotificationRepo(testutil.NewTestDB(t))
	svc := NewService(repo, StaticPermissions{Granted: true},
		WithClock(func() time.Time { return fixedNow }), WithLogger(zap.New(core)))
	ctx := context.Background()

	id, err := svc.Schedule(ctx, Payload{Title: "rent"}, nil)
	require.NoError(t, err)
	require.NoError(t, repo.MarkDelivered(ctx, id, fixedNow))

	svc.Cancel(ctx, id)
	svc.Cancel(ctx, 42)

	n, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationDelivered, n.State)

	settled := logs.FilterMessage("notification not pending").All()
	require.Len(t, settled, 1)
	assert.Equal(t, "delivered", settled[0].ContextMap()["state"])
	missing := logs.FilterMessage("cancelling notification").All()
	require.Len(t, missing, 1)
	assert.Equal(t, int64(42), missing[0].ContextMap()["id"])
}

func TestCancel(t *testing.T) {
	svc, _ := newService(t, StaticPermissions{Granted: true})
	ctx := context.Background()

	ids := svc.ScheduleExpenseReminder(ctx, incomeTx(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)))
	require.Len(t, ids, 2)
	other, err := svc.Schedule(ctx, Payload{Title: "other"}, nil)
	require.NoError(t, err)

	svc.Cancel(ctx, 12345) // unknown ids are logged, not returned
	svc.Cancel(ctx, other)
	assert.Equal(t, 2, svc.CancelForCost(ctx, "cost-1"))

	pending, err := svc.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = svc.Schedule(ctx, Payload{Title: "again"}, nil)
	require.NoError(t, err)
	svc.CancelAll(ctx)
	pending, err = svc.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
