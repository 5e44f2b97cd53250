package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/financeflow/flowdesk/internal/auth"
	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/pipeline"
	"github.com/financeflow/flowdesk/internal/repository"
)

type boardService struct {
	boards   repository.BoardRepo
	agencies repository.AgencyRepo
	authn    auth.Authenticator
	observer UseCaseObserver
}

func NewBoardService(
	boards repository.BoardRepo,
	agencies repository.AgencyRepo,
	authn auth.Authenticator,
	observers ...UseCaseObserver,
) BoardService {
	return &boardService{
		boards:   boards,
		agencies: agencies,
		authn:    authn,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *boardService) ResolveScope(ctx context.Context, agencyID string) (domain.Scope, error) {
	caller, err := s.authn.CurrentCaller(ctx)
	if err != nil {
		return domain.Scope{}, err
	}
	if agencyID == "" {
		return domain.IndividualScope(caller.ID), nil
	}
	// Agencies the caller does not belong to are hidden by row policies.
	if _, err := s.agencies.GetByID(ctx, agencyID); err != nil {
		return domain.Scope{}, fmt.Errorf("opening agency board: %w", err)
	}
	return domain.AgencyScope(agencyID), nil
}

func (s *boardService) Load(ctx context.Context, scope domain.Scope) ([]*domain.Project, error) {
	return s.boards.List(ctx, scope)
}

func (s *boardService) Create(ctx context.Context, scope domain.Scope, p *domain.Project) (err error) {
	defer observe(ctx, s.observer, "board.create", time.Now(), map[string]any{"scope": scope.String()}, &err)

	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	caller, err := s.authn.CurrentCaller(ctx)
	if err != nil {
		return err
	}
	if p.Status == "" {
		p.Status = domain.StageShot
	}
	if p.Priority == "" {
		p.Priority = domain.PriorityMedium
	}
	if p.Links == nil {
		p.Links = []string{}
	}
	p.Scope = scope
	p.AuthorID = caller.ID
	return s.boards.Create(ctx, p)
}

func (s *boardService) Update(ctx context.Context, p *domain.Project) (err error) {
	defer observe(ctx, s.observer, "board.update", time.Now(), map[string]any{"project_id": p.ID}, &err)

	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	caller, err := s.authn.CurrentCaller(ctx)
	if err != nil {
		return err
	}
	p.AuthorID = caller.ID
	return s.boards.Update(ctx, p)
}

func (s *boardService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.boards.GetByID(ctx, id)
}

func (s *boardService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "board.delete", time.Now(), map[string]any{"project_id": id}, &err)
	return s.boards.Delete(ctx, id)
}

// Move writes the new status and returns the reloaded board. The list is
// never flipped locally: what the caller renders is what the store holds.
func (s *boardService) Move(ctx context.Context, req MoveRequest) MoveResult {
	unchanged := MoveResult{Projects: req.Projects}
	if req.From == req.To {
		return unchanged
	}
	project := pipeline.FindByID(req.Projects, req.ProjectID)
	if project == nil {
		return unchanged
	}

	var err error
	defer observe(ctx, s.observer, "board.move", time.Now(), map[string]any{
		"project_id": req.ProjectID,
		"from":       string(req.From),
		"to":         string(req.To),
	}, &err)

	err = s.boards.Update(ctx, project.WithStatus(req.To))
	reloaded, loadErr := s.boards.List(ctx, req.Scope)
	if loadErr != nil {
		reloaded = req.Projects
	}

	switch {
	case err != nil:
		return MoveResult{
			Projects: reloaded,
			Notice:   errorNotice("Error", "Could not move the project: "+err.Error()),
		}
	case loadErr != nil:
		err = loadErr
		return MoveResult{
			Moved:    true,
			Projects: reloaded,
			Notice:   errorNotice("Error", "Project moved but the board could not be reloaded: "+loadErr.Error()),
		}
	}
	return MoveResult{
		Moved:    true,
		Projects: reloaded,
		Notice:   infoNotice("Project moved", "Moved to "+req.To.Title()),
	}
}

// IsNotFound reports whether err means the record is missing or hidden.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
