package service

import (
	"context"
	"errors"
	"testing"

	"github.com/financeflow/flowdesk/internal/auth"
	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/repository"
	"github.com/financeflow/flowdesk/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const premiumData = `{"status":"active","payment_provider":"stripe","amount":"49.90","current_period_end":"2025-07-01T00:00:00Z"}`

func TestSubscriptionService_Resolve(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	alice := testutil.SeedProfile(t, database, testutil.NewTestCaller("alice"),
		testutil.WithPlan(domain.PlanPremium), testutil.WithSubscriptionData(premiumData))
	bob := testutil.SeedProfile(t, database, testutil.NewTestCaller("bob"))
	admin := testutil.SeedProfile(t, database, testutil.NewTestAdmin("admin"))

	tests := []struct {
		name       string
		caller     *domain.Caller
		target     string
		wantPlan   domain.Plan
		wantStatus domain.SubscriptionStatus
		wantSource ResolutionSource
	}{
		{"signed out", nil, alice.ID, domain.PlanFree, domain.SubscriptionInactive, SourceDefaultUnauthenticated},
		{"own profile", alice, alice.ID, domain.PlanPremium, domain.SubscriptionActive, SourceDirect},
		{"own profile without data", bob, bob.ID, domain.PlanFree, domain.SubscriptionInactive, SourceDirect},
		{"other user as member", bob, alice.ID, domain.PlanFree, domain.SubscriptionInactive, SourceDefaultUnauthorized},
		{"other user as super-admin", admin, alice.ID, domain.PlanPremium, domain.SubscriptionActive, SourceAdminRPC},
		{"missing user as super-admin", admin, "ghost", domain.PlanFree, domain.SubscriptionInactive, SourceDefaultNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := envFor(database, tc.caller)
			svc := NewSubscriptionService(e.profiles, e.authn)

			res := svc.Resolve(ctx, tc.target)
			assert.Equal(t, tc.wantSource, res.Source)
			assert.Equal(t, tc.wantPlan, res.Subscription.Plan)
			assert.Equal(t, tc.wantStatus, res.Subscription.Status)
			assert.Equal(t, res.Subscription, svc.GetUserSubscription(ctx, tc.target))
		})
	}
}

func TestSubscriptionService_Resolve_MapsStoredFields(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	alice := testutil.SeedProfile(t, database, testutil.NewTestCaller("alice"),
		testutil.WithPlan(domain.PlanPremium), testutil.WithSubscriptionData(premiumData))

	e := envFor(database, alice)
	sub := NewSubscriptionService(e.profiles, e.authn).GetUserSubscription(ctx, alice.ID)

	assert.Equal(t, "stripe", sub.PaymentProvider)
	assert.Equal(t, domain.DefaultCurrency, sub.Currency)
	require.NotNil(t, sub.Amount)
	assert.True(t, sub.Amount.Equal(decimal.RequireFromString("49.90")))
	require.NotNil(t, sub.CurrentPeriodEnd)
	assert.Equal(t, 2025, sub.CurrentPeriodEnd.Year())
}

// failingProfiles fails every privileged read.
type failingProfiles struct {
	repository.ProfileRepo
}

func (failingProfiles) GetForAdmin(context.Context, string) (*domain.Profile, error) {
	return nil, errors.New("procedure unavailable")
}

func TestSubscriptionService_Resolve_AdminFallsBackToDirectRead(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	admin := testutil.SeedProfile(t, database, testutil.NewTestAdmin("admin"),
		testutil.WithPlan(domain.PlanEnterprise))
	e := envFor(database, admin)

	svc := NewSubscriptionService(failingProfiles{e.profiles}, e.authn)
	res := svc.Resolve(ctx, admin.ID)
	assert.Equal(t, SourceDirect, res.Source)
	assert.Equal(t, domain.PlanEnterprise, res.Subscription.Plan)

	other := svc.Resolve(ctx, "someone-else")
	assert.Equal(t, SourceDefaultLookupFailed, other.Source)
	assert.EqualError(t, other.Err, "procedure unavailable")
	assert.True(t, other.Source.IsDefault())
}

func TestSubscriptionService_Update(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	alice := testutil.SeedProfile(t, database, testutil.NewTestCaller("alice"))
	bob := testutil.SeedProfile(t, database, testutil.NewTestCaller("bob"))
	admin := testutil.SeedProfile(t, database, testutil.NewTestAdmin("admin"))

	basic := domain.Subscription{Plan: domain.PlanBasic, Status: domain.SubscriptionActive, Currency: "BRL"}

	aliceEnv := envFor(database, alice)
	aliceSvc := NewSubscriptionService(aliceEnv.profiles, aliceEnv.authn)
	require.True(t, aliceSvc.Update(ctx, alice.ID, basic))
	assert.Equal(t, domain.PlanBasic, aliceSvc.GetUserSubscription(ctx, alice.ID).Plan)

	bobEnv := envFor(database, bob)
	bobSvc := NewSubscriptionService(bobEnv.profiles, bobEnv.authn)
	assert.False(t, bobSvc.Update(ctx, alice.ID, domain.Subscription{Plan: domain.PlanFree}))
	assert.Equal(t, domain.PlanBasic, aliceSvc.GetUserSubscription(ctx, alice.ID).Plan)

	adminEnv := envFor(database, admin)
	adminSvc := NewSubscriptionService(adminEnv.profiles, adminEnv.authn)
	premium := domain.Subscription{Plan: domain.PlanPremium, Status: domain.SubscriptionActive}
	require.True(t, adminSvc.Update(ctx, alice.ID, premium))
	got := aliceSvc.GetUserSubscription(ctx, alice.ID)
	assert.Equal(t, domain.PlanPremium, got.Plan)
	assert.Equal(t, domain.SubscriptionActive, got.Status)

	signedOut := envFor(database, nil)
	assert.False(t, NewSubscriptionService(signedOut.profiles, auth.Static{}).Update(ctx, alice.ID, basic))
}
