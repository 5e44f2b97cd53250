package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/repository"
	"github.com/financeflow/flowdesk/internal/store"
	"github.com/google/uuid"
)

type companyService struct {
	store    *store.Client
	agencies repository.AgencyRepo
	profiles repository.ProfileRepo
	uow      store.UnitOfWork
	observer UseCaseObserver
}

func NewCompanyService(
	client *store.Client,
	agencies repository.AgencyRepo,
	profiles repository.ProfileRepo,
	uow store.UnitOfWork,
	observers ...UseCaseObserver,
) CompanyService {
	return &companyService{
		store:    client,
		agencies: agencies,
		profiles: profiles,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Create inserts the agency and its owner membership atomically.
func (s *companyService) Create(ctx context.Context, in NewCompany) (agency *domain.Agency, err error) {
	defer observe(ctx, s.observer, "company.create", time.Now(), map[string]any{"name": in.Name}, &err)

	if err := domain.ValidateNewCompany(in.Name, in.OwnerEmail); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	owner, err := s.profiles.FindByEmail(ctx, strings.TrimSpace(in.OwnerEmail))
	if err != nil {
		return nil, fmt.Errorf("resolving company owner: %w", err)
	}

	agency = &domain.Agency{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		OwnerID:     owner.ID,
		CNPJ:        strings.TrimSpace(in.CNPJ),
		Description: strings.TrimSpace(in.Description),
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx *store.Client) error {
		txAgencies := repository.NewStoreAgencyRepo(tx)
		if err := txAgencies.Create(ctx, agency); err != nil {
			return err
		}
		return txAgencies.AddMember(ctx, &domain.AgencyMember{
			AgencyID: agency.ID,
			UserID:   owner.ID,
			Role:     domain.MemberOwner,
		})
	})
	if err != nil {
		return nil, err
	}
	return agency, nil
}

func (s *companyService) List(ctx context.Context) ([]*domain.Agency, error) {
	return s.agencies.List(ctx)
}

func (s *companyService) AddMember(ctx context.Context, agencyID, email string, role domain.MemberRole) (m *domain.AgencyMember, err error) {
	defer observe(ctx, s.observer, "company.add_member", time.Now(), map[string]any{
		"agency_id": agencyID,
		"role":      string(role),
	}, &err)

	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: member email is required", ErrValidation)
	}
	switch role {
	case "":
		role = domain.MemberMember
	case domain.MemberOwner, domain.MemberAdmin, domain.MemberMember:
	default:
		return nil, fmt.Errorf("%w: invalid member role %q", ErrValidation, role)
	}

	profile, err := s.profiles.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("resolving member: %w", err)
	}
	m = &domain.AgencyMember{AgencyID: agencyID, UserID: profile.ID, Role: role}
	if err := s.agencies.AddMember(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *companyService) Members(ctx context.Context, agencyID string) ([]*domain.AgencyMember, error) {
	return s.agencies.ListMembers(ctx, agencyID)
}
