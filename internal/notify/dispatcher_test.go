package notify

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/repository"
	"github.com/financeflow/flowdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))
}

func seed(t *testing.T, repo *repository.SQLiteNotificationRepo, id int64, at *time.Time) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &domain.Notification{
		ID: id, Title: "💰 t", Body: "b", ScheduleAt: at, Group: Group,
	}))
}

func TestDeliverDue(t *testing.T) {
	repo := repository.NewSQLiteNotificationRepo(testutil.NewTestDB(t))
	past := fixedNow.Add(-time.Minute)
	future := fixedNow.Add(time.Hour)
	seed(t, repo, 1, &past)
	seed(t, repo, 2, &future)
	seed(t, repo, 3, nil)

	var buf bytes.Buffer
	d := NewDispatcher(repo, WriterSink{W: &buf}, time.Second, nil)
	d.now = func() time.Time { return fixedNow }

	n, err := d.DeliverDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, buf.String(), "💰 t")

	pending, err := repo.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(2), pending[0].ID)
}

func TestDeliverDue_FailedDeliveryStaysPending(t *testing.T) {
	repo := repository.NewSQLiteNotificationRepo(testutil.NewTestDB(t))
	seed(t, repo, 1, nil)

	d := NewDispatcher(repo, SinkFunc(func(context.Context, *domain.Notification) error {
		return errors.New("display busy")
	}), time.Second, nil)

	n, err := d.DeliverDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	pending, err := repo.ListPending(context.Background())
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestRun_StopsOnCancel(t *testing.T) {
	repo := repository.NewSQLiteNotificationRepo(testutil.NewTestDB(t))
	seed(t, repo, 1, nil)

	var mu sync.Mutex
	var got []int64
	sink := SinkFunc(func(_ context.Context, n *domain.Notification) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, n.ID)
		return nil
	})
	d := NewDispatcher(repo, sink, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop")
	}
}
