package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/store"
)

// StoreBoardRepo maps kanban_boards records to projects.
type StoreBoardRepo struct {
	store *store.Client
}

func NewStoreBoardRepo(s *store.Client) *StoreBoardRepo {
	return &StoreBoardRepo{store: s}
}

// List returns the scope's projects, newest first.
func (r *StoreBoardRepo) List(ctx context.Context, scope domain.Scope) ([]*domain.Project, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	q := r.store.From(store.KanbanBoards).Select()
	if scope.IsAgency() {
		q = q.Eq("agency_id", scope.AgencyID)
	} else {
		q = q.Eq("user_id", scope.UserID).Is("agency_id", nil)
	}
	res := q.Order("created_at", false).Execute(ctx)
	if res.Err != nil {
		return nil, fmt.Errorf("listing boards: %w", res.Err)
	}

	projects := make([]*domain.Project, 0, len(res.Data))
	for _, row := range res.Data {
		projects = append(projects, projectFromRow(row))
	}
	return projects, nil
}

func (r *StoreBoardRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	res := r.store.From(store.KanbanBoards).Select().Eq("id", id).Execute(ctx)
	if res.Err != nil {
		return nil, fmt.Errorf("getting board %s: %w", id, res.Err)
	}
	if len(res.Data) == 0 {
		return nil, fmt.Errorf("board %s: %w", id, ErrNotFound)
	}
	return projectFromRow(res.First()), nil
}

func (r *StoreBoardRepo) Create(ctx context.Context, p *domain.Project) error {
	if err := p.Scope.Validate(); err != nil {
		return err
	}
	payload, err := domain.EncodeBoardData(p)
	if err != nil {
		return fmt.Errorf("encoding board data: %w", err)
	}

	row := store.Row{"board_data": json.RawMessage(payload)}
	if p.ID != "" {
		row["id"] = p.ID
	}
	if p.Scope.IsAgency() {
		row["agency_id"] = p.Scope.AgencyID
		row["user_id"] = nil
	} else {
		row["user_id"] = p.Scope.UserID
	}

	res := r.store.From(store.KanbanBoards).Insert(row).Execute(ctx)
	if res.Err != nil {
		return fmt.Errorf("inserting board: %w", res.Err)
	}
	saved := res.First()
	p.ID = rowString(saved, "id")
	p.CreatedAt = rowTime(saved, "created_at")
	p.UpdatedAt = rowTime(saved, "updated_at")
	return nil
}

// Update rewrites the board payload and refreshes updated_at.
func (r *StoreBoardRepo) Update(ctx context.Context, p *domain.Project) error {
	payload, err := domain.EncodeBoardData(p)
	if err != nil {
		return fmt.Errorf("encoding board data: %w", err)
	}
	now := nowUTC()
	res := r.store.From(store.KanbanBoards).
		Update(store.Row{"board_data": json.RawMessage(payload), "updated_at": now}).
		Eq("id", p.ID).
		Execute(ctx)
	if res.Err != nil {
		return fmt.Errorf("updating board %s: %w", p.ID, res.Err)
	}
	if res.Count == 0 {
		return fmt.Errorf("board %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (r *StoreBoardRepo) Delete(ctx context.Context, id string) error {
	res := r.store.From(store.KanbanBoards).Delete().Eq("id", id).Execute(ctx)
	if res.Err != nil {
		return fmt.Errorf("deleting board %s: %w", id, res.Err)
	}
	if res.Count == 0 {
		return fmt.Errorf("board %s: %w", id, ErrNotFound)
	}
	return nil
}

func projectFromRow(row store.Row) *domain.Project {
	p := &domain.Project{
		ID:        rowString(row, "id"),
		CreatedAt: rowTime(row, "created_at"),
		UpdatedAt: rowTime(row, "updated_at"),
	}
	domain.DecodeBoardData(rowBytes(row, "board_data")).Apply(p)
	if agency := rowString(row, "agency_id"); agency != "" {
		p.Scope = domain.AgencyScope(agency)
	} else {
		p.Scope = domain.IndividualScope(rowString(row, "user_id"))
	}
	return p
}
