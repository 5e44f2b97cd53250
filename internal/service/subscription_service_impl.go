package service

import (
	"context"
	"errors"
	"time"

	"github.com/financeflow/flowdesk/internal/auth"
	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/repository"
)

// ResolutionSource records which branch produced a subscription.
type ResolutionSource string

const (
	SourceAdminRPC               ResolutionSource = "admin_rpc"
	SourceDirect                 ResolutionSource = "direct"
	SourceDefaultUnauthenticated ResolutionSource = "default_unauthenticated"
	SourceDefaultUnauthorized    ResolutionSource = "default_unauthorized"
	SourceDefaultNotFound        ResolutionSource = "default_not_found"
	SourceDefaultLookupFailed    ResolutionSource = "default_lookup_failed"
)

// IsDefault reports whether the subscription is the free/inactive fallback.
func (s ResolutionSource) IsDefault() bool {
	return s != SourceAdminRPC && s != SourceDirect
}

// Resolution is a subscription together with how it was obtained. Err is
// the swallowed lookup error, if any.
type Resolution struct {
	Subscription domain.Subscription
	Source       ResolutionSource
	Err          error
}

type subscriptionService struct {
	profiles repository.ProfileRepo
	authn    auth.Authenticator
	observer UseCaseObserver
}

func NewSubscriptionService(profiles repository.ProfileRepo, authn auth.Authenticator, observers ...UseCaseObserver) SubscriptionService {
	return &subscriptionService{
		profiles: profiles,
		authn:    authn,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *subscriptionService) Resolve(ctx context.Context, userID string) (res Resolution) {
	started := time.Now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "subscription.resolve",
			StartedAt: started,
			Duration:  time.Since(started),
			Success:   res.Err == nil,
			Err:       res.Err,
			Fields:    map[string]any{"user_id": userID, "source": string(res.Source)},
		})
	}()

	fallback := func(src ResolutionSource, err error) Resolution {
		return Resolution{Subscription: domain.DefaultSubscription(), Source: src, Err: err}
	}

	caller, err := s.authn.CurrentCaller(ctx)
	if err != nil {
		return fallback(SourceDefaultUnauthenticated, err)
	}
	isOwnUser := caller.ID == userID
	isSuperAdmin := caller.IsSuperAdmin()

	var lookupErr error
	if isSuperAdmin {
		p, err := s.profiles.GetForAdmin(ctx, userID)
		if err == nil {
			return Resolution{Subscription: subscriptionOf(p), Source: SourceAdminRPC}
		}
		if !errors.Is(err, repository.ErrNotFound) {
			lookupErr = err
		}
	}
	if !isOwnUser && !isSuperAdmin {
		return fallback(SourceDefaultUnauthorized, nil)
	}

	p, err := s.profiles.Get(ctx, userID)
	switch {
	case err == nil:
		return Resolution{Subscription: subscriptionOf(p), Source: SourceDirect}
	case !errors.Is(err, repository.ErrNotFound):
		return fallback(SourceDefaultLookupFailed, err)
	case lookupErr != nil:
		return fallback(SourceDefaultLookupFailed, lookupErr)
	}
	return fallback(SourceDefaultNotFound, nil)
}

func (s *subscriptionService) GetUserSubscription(ctx context.Context, userID string) domain.Subscription {
	return s.Resolve(ctx, userID).Subscription
}

// Update stores sub for userID. Super-admins go through the privileged
// procedure first and fall back to a direct update when it fails.
func (s *subscriptionService) Update(ctx context.Context, userID string, sub domain.Subscription) (ok bool) {
	var err error
	defer observe(ctx, s.observer, "subscription.update", time.Now(), map[string]any{
		"user_id": userID,
		"plan":    string(sub.Plan),
	}, &err)

	caller, err := s.authn.CurrentCaller(ctx)
	if err != nil {
		return false
	}
	isSuperAdmin := caller.IsSuperAdmin()
	if caller.ID != userID && !isSuperAdmin {
		err = errors.New("not allowed to update another user's subscription")
		return false
	}

	data, err := domain.EncodeSubscriptionData(sub)
	if err != nil {
		return false
	}
	patch := repository.SubscriptionPatch{Plan: sub.Plan, Data: data}

	if isSuperAdmin {
		if _, err = s.profiles.AdminUpdateSubscription(ctx, userID, patch); err == nil {
			return true
		}
	}
	err = s.profiles.UpdateSubscription(ctx, userID, patch)
	return err == nil
}

func subscriptionOf(p *domain.Profile) domain.Subscription {
	return domain.DecodeSubscription(p.Subscription, p.SubscriptionData)
}
