package repository

import (
	"context"
	"fmt"

	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/store"
)

type StoreAgencyRepo struct {
	store *store.Client
}

func NewStoreAgencyRepo(s *store.Client) *StoreAgencyRepo {
	return &StoreAgencyRepo{store: s}
}

func (r *StoreAgencyRepo) Create(ctx context.Context, a *domain.Agency) error {
	row := store.Row{
		"name":        a.Name,
		"owner_id":    a.OwnerID,
		"cnpj":        a.CNPJ,
		"description": a.Description,
	}
	if a.ID != "" {
		row["id"] = a.ID
	}
	res := r.store.From(store.Agencies).Insert(row).Execute(ctx)
	if res.Err != nil {
		return fmt.Errorf("inserting agency: %w", res.Err)
	}
	a.ID = rowString(res.First(), "id")
	a.CreatedAt = rowTime(res.First(), "created_at")
	return nil
}

func (r *StoreAgencyRepo) GetByID(ctx context.Context, id string) (*domain.Agency, error) {
	res := r.store.From(store.Agencies).Select().Eq("id", id).Execute(ctx)
	if res.Err != nil {
		return nil, fmt.Errorf("getting agency %s: %w", id, res.Err)
	}
	if len(res.Data) == 0 {
		return nil, fmt.Errorf("agency %s: %w", id, ErrNotFound)
	}
	return agencyFromRow(res.First()), nil
}

// List returns the agencies visible to the caller, by name.
func (r *StoreAgencyRepo) List(ctx context.Context) ([]*domain.Agency, error) {
	res := r.store.From(store.Agencies).Select().Order("name", true).Execute(ctx)
	if res.Err != nil {
		return nil, fmt.Errorf("listing agencies: %w", res.Err)
	}
	agencies := make([]*domain.Agency, 0, len(res.Data))
	for _, row := range res.Data {
		agencies = append(agencies, agencyFromRow(row))
	}
	return agencies, nil
}

func (r *StoreAgencyRepo) AddMember(ctx context.Context, m *domain.AgencyMember) error {
	res := r.store.From(store.AgencyMembers).Insert(store.Row{
		"agency_id": m.AgencyID,
		"user_id":   m.UserID,
		"role":      string(m.Role),
	}).Execute(ctx)
	if res.Err != nil {
		return fmt.Errorf("adding member %s to %s: %w", m.UserID, m.AgencyID, res.Err)
	}
	m.CreatedAt = rowTime(res.First(), "created_at")
	return nil
}

func (r *StoreAgencyRepo) ListMembers(ctx context.Context, agencyID string) ([]*domain.AgencyMember, error) {
	res := r.store.From(store.AgencyMembers).Select().
		Eq("agency_id", agencyID).
		Order("created_at", true).
		Execute(ctx)
	if res.Err != nil {
		return nil, fmt.Errorf("listing members of %s: %w", agencyID, res.Err)
	}
	members := make([]*domain.AgencyMember, 0, len(res.Data))
	for _, row := range res.Data {
		members = append(members, &domain.AgencyMember{
			AgencyID:  rowString(row, "agency_id"),
			UserID:    rowString(row, "user_id"),
			Role:      domain.MemberRole(rowString(row, "role")),
			CreatedAt: rowTime(row, "created_at"),
		})
	}
	return members, nil
}

func agencyFromRow(row store.Row) *domain.Agency {
	return &domain.Agency{
		ID:          rowString(row, "id"),
		Name:        rowString(row, "name"),
		OwnerID:     rowString(row, "owner_id"),
		CNPJ:        rowString(row, "cnpj"),
		Description: rowString(row, "description"),
		CreatedAt:   rowTime(row, "created_at"),
	}
}
