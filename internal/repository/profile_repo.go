package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/store"
)

type StoreProfileRepo struct {
	store *store.Client
}

func NewStoreProfileRepo(s *store.Client) *StoreProfileRepo {
	return &StoreProfileRepo{store: s}
}

func (r *StoreProfileRepo) Get(ctx context.Context, id string) (*domain.Profile, error) {
	res := r.store.From(store.Profiles).Select().Eq("id", id).Single().Execute(ctx)
	if errors.Is(res.Err, store.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	if res.Err != nil {
		return nil, fmt.Errorf("getting profile %s: %w", id, res.Err)
	}
	return profileFromRow(res.First()), nil
}

func (r *StoreProfileRepo) GetForAdmin(ctx context.Context, id string) (*domain.Profile, error) {
	res := r.store.RPC(ctx, store.ProcGetProfileForAdmin, map[string]any{"target_user_id": id})
	if res.Err != nil {
		return nil, fmt.Errorf("getting profile %s as admin: %w", id, res.Err)
	}
	if len(res.Data) == 0 {
		return nil, fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	return profileFromRow(res.First()), nil
}

func (r *StoreProfileRepo) UpdateSubscription(ctx context.Context, id string, patch SubscriptionPatch) error {
	res := r.store.From(store.Profiles).
		Update(store.Row{
			"subscription":      string(patch.Plan),
			"subscription_data": patch.Data,
			"updated_at":        nowUTC(),
		}).
		Eq("id", id).
		Execute(ctx)
	if res.Err != nil {
		return fmt.Errorf("updating subscription for %s: %w", id, res.Err)
	}
	if res.Count == 0 {
		return fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	return nil
}

// AdminUpdateSubscription reports whether the procedure changed a row.
func (r *StoreProfileRepo) AdminUpdateSubscription(ctx context.Context, id string, patch SubscriptionPatch) (bool, error) {
	res := r.store.RPC(ctx, store.ProcAdminUpdateProfile, map[string]any{
		"target_user_id": id,
		"update_data": map[string]any{
			"subscription":      string(patch.Plan),
			"subscription_data": patch.Data,
		},
	})
	if res.Err != nil {
		return false, fmt.Errorf("admin update of %s: %w", id, res.Err)
	}
	updated, _ := res.First()["updated"].(bool)
	return updated, nil
}

func (r *StoreProfileRepo) FindByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	res := r.store.RPC(ctx, store.ProcLookupProfileByEmail, map[string]any{"email": email})
	if res.Err != nil {
		return nil, fmt.Errorf("looking up %s: %w", email, res.Err)
	}
	if len(res.Data) == 0 {
		return nil, fmt.Errorf("profile %s: %w", email, ErrNotFound)
	}
	return profileFromRow(res.First()), nil
}

func profileFromRow(row store.Row) *domain.Profile {
	return &domain.Profile{
		ID:               rowString(row, "id"),
		Email:            rowString(row, "email"),
		Name:             rowString(row, "name"),
		UserType:         rowString(row, "user_type"),
		Subscription:     rowString(row, "subscription"),
		SubscriptionData: rowBytes(row, "subscription_data"),
		CreatedAt:        rowTime(row, "created_at"),
		UpdatedAt:        rowTime(row, "updated_at"),
	}
}
