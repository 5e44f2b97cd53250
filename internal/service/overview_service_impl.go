package service

import (
	"context"
	"time"

	"github.com/financeflow/flowdesk/internal/auth"
	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/ledger"
	"github.com/financeflow/flowdesk/internal/pipeline"
	"golang.org/x/sync/errgroup"
)

type overviewService struct {
	boards        BoardService
	finance       FinanceService
	subscriptions SubscriptionService
	authn         auth.Authenticator
	observer      UseCaseObserver
	now           func() time.Time
}

func NewOverviewService(
	boards BoardService,
	finance FinanceService,
	subscriptions SubscriptionService,
	authn auth.Authenticator,
	observers ...UseCaseObserver,
) OverviewService {
	return &overviewService{
		boards:        boards,
		finance:       finance,
		subscriptions: subscriptions,
		authn:         authn,
		observer:      useCaseObserverOrNoop(observers),
		now:           time.Now,
	}
}

// Overview loads the three dashboard parts concurrently. A failed part
// leaves its zero value and adds a notice; the others are still returned.
func (s *overviewService) Overview(ctx context.Context, scope domain.Scope) Overview {
	var err error
	defer observe(ctx, s.observer, "overview", time.Now(), map[string]any{"scope": scope.String()}, &err)

	out := Overview{Scope: scope, Subscription: domain.DefaultSubscription()}
	var (
		projects   []*domain.Project
		summary    ledger.Summary
		boardErr   error
		financeErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		projects, boardErr = s.boards.Load(gctx, scope)
		return nil
	})
	g.Go(func() error {
		summary, financeErr = s.finance.Summary(gctx)
		return nil
	})
	g.Go(func() error {
		caller, err := s.authn.CurrentCaller(gctx)
		if err != nil {
			return nil
		}
		out.Subscription = s.subscriptions.GetUserSubscription(gctx, caller.ID)
		return nil
	})
	_ = g.Wait()

	if boardErr != nil {
		err = boardErr
		out.Notices = append(out.Notices, *errorNotice("Board unavailable", boardErr.Error()))
	} else {
		out.Projects = projects
		out.Metrics = pipeline.Compute(projects, s.now())
	}
	if financeErr != nil {
		err = financeErr
		out.Notices = append(out.Notices, *errorNotice("Finances unavailable", financeErr.Error()))
	} else {
		out.Finance = summary
	}
	return out
}
