package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/financeflow/flowdesk/internal/auth"
	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/repository"
	"github.com/financeflow/flowdesk/internal/store"
	"github.com/financeflow/flowdesk/internal/testutil"
)

// env bundles the repositories of one signed-in caller over a shared
// in-memory database.
type env struct {
	db       *sql.DB
	caller   *domain.Caller
	authn    auth.Authenticator
	store    *store.Client
	boards   *repository.StoreBoardRepo
	expenses *repository.StoreExpenseRepo
	profiles *repository.StoreProfileRepo
	agencies *repository.StoreAgencyRepo
}

func newEnv(t *testing.T, caller *domain.Caller) *env {
	t.Helper()
	return envFor(testutil.NewTestDB(t), caller)
}

// envFor acts as caller on an existing database. A nil caller is signed out.
func envFor(database *sql.DB, caller *domain.Caller) *env {
	client := testutil.NewTestStore(database, caller)
	return &env{
		db:       database,
		caller:   caller,
		authn:    auth.Static{Caller: caller},
		store:    client,
		boards:   repository.NewStoreBoardRepo(client),
		expenses: repository.NewStoreExpenseRepo(client),
		profiles: repository.NewStoreProfileRepo(client),
		agencies: repository.NewStoreAgencyRepo(client),
	}
}

// spyBoardRepo counts writes and can fail updates.
type spyBoardRepo struct {
	repository.BoardRepo
	creates   int
	updates   int
	updateErr error
}

func (s *spyBoardRepo) Create(ctx context.Context, p *domain.Project) error {
	s.creates++
	return s.BoardRepo.Create(ctx, p)
}

func (s *spyBoardRepo) Update(ctx context.Context, p *domain.Project) error {
	s.updates++
	if s.updateErr != nil {
		return s.updateErr
	}
	return s.BoardRepo.Update(ctx, p)
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) named(name string) []UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []UseCaseEvent
	for _, e := range o.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// fakeReminders records reminder calls without scheduling anything.
type fakeReminders struct {
	scheduled []*domain.Transaction
	cancelled []string
}

func (f *fakeReminders) ScheduleExpenseReminder(_ context.Context, tx *domain.Transaction) []int64 {
	f.scheduled = append(f.scheduled, tx)
	return nil
}

func (f *fakeReminders) CancelForCost(_ context.Context, costID string) int {
	f.cancelled = append(f.cancelled, costID)
	return 0
}
