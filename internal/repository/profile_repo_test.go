package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/store"
	"github.com/financeflow/flowdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepo_GetOwnOnly(t *testing.T) {
	database := testutil.NewTestDB(t)
	user := testutil.SeedProfile(t, database, testutil.NewTestCaller("user-1"),
		testutil.WithPlan(domain.PlanPremium),
		testutil.WithSubscriptionData(`{"status":"active"}`))
	testutil.SeedProfile(t, database, testutil.NewTestCaller("user-2"))
	repo := NewStoreProfileRepo(testutil.NewTestStore(database, user))
	ctx := context.Background()

	p, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "premium", p.Subscription)
	assert.JSONEq(t, `{"status":"active"}`, string(p.SubscriptionData))

	_, err = repo.Get(ctx, "user-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileRepo_AdminAccess(t *testing.T) {
	database := testutil.NewTestDB(t)
	admin := testutil.SeedProfile(t, database, testutil.NewTestAdmin("admin"))
	member := testutil.SeedProfile(t, database, testutil.NewTestCaller("user-2"))
	ctx := context.Background()

	adminRepo := NewStoreProfileRepo(testutil.NewTestStore(database, admin))
	p, err := adminRepo.GetForAdmin(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, "user-2@example.com", p.Email)

	_, err = adminRepo.GetForAdmin(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = NewStoreProfileRepo(testutil.NewTestStore(database, member)).GetForAdmin(ctx, "admin")
	assert.ErrorIs(t, err, store.ErrPermissionDenied)

	ok, err := adminRepo.AdminUpdateSubscription(ctx, "user-2", SubscriptionPatch{
		Plan: domain.PlanBasic,
		Data: json.RawMessage(`{"plan":"basic","status":"active"}`),
	})
	require.NoError(t, err)
	assert.True(t, ok)

	p, err = adminRepo.GetForAdmin(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, "basic", p.Subscription)

	ok, err = adminRepo.AdminUpdateSubscription(ctx, "ghost", SubscriptionPatch{Plan: domain.PlanBasic})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfileRepo_UpdateSubscription(t *testing.T) {
	database := testutil.NewTestDB(t)
	user := testutil.SeedProfile(t, database, testutil.NewTestCaller("user-1"))
	testutil.SeedProfile(t, database, testutil.NewTestCaller("user-2"))
	repo := NewStoreProfileRepo(testutil.NewTestStore(database, user))
	ctx := context.Background()

	require.NoError(t, repo.UpdateSubscription(ctx, "user-1", SubscriptionPatch{
		Plan: domain.PlanEnterprise,
		Data: json.RawMessage(`{"status":"active"}`),
	}))
	p, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "enterprise", p.Subscription)

	err = repo.UpdateSubscription(ctx, "user-2", SubscriptionPatch{Plan: domain.PlanEnterprise})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileRepo_FindByEmail(t *testing.T) {
	database := testutil.NewTestDB(t)
	user := testutil.SeedProfile(t, database, testutil.NewTestCaller("user-1"))
	testutil.SeedProfile(t, database, testutil.NewTestCaller("user-2"))
	repo := NewStoreProfileRepo(testutil.NewTestStore(database, user))

	p, err := repo.FindByEmail(context.Background(), "user-2@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-2", p.ID)

	_, err = repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
