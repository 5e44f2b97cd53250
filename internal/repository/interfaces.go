package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/financeflow/flowdesk/internal/domain"
)

// ErrNotFound is returned when a record does not exist or is hidden from
// the caller by row policies.
var ErrNotFound = errors.New("not found")

type BoardRepo interface {
	List(ctx context.Context, scope domain.Scope) ([]*domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	Create(ctx context.Context, p *domain.Project) error
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type ExpenseRepo interface {
	ListFinancial(ctx context.Context, userID string, limit int) ([]*domain.Transaction, error)
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	Create(ctx context.Context, tx *domain.Transaction) error
	Delete(ctx context.Context, id string) error
}

// SubscriptionPatch is the profile change written by a subscription update.
type SubscriptionPatch struct {
	Plan domain.Plan
	Data json.RawMessage
}

type ProfileRepo interface {
	// Get reads the profile row directly, subject to row policies.
	Get(ctx context.Context, id string) (*domain.Profile, error)
	// GetForAdmin reads any profile through the privileged procedure.
	GetForAdmin(ctx context.Context, id string) (*domain.Profile, error)
	UpdateSubscription(ctx context.Context, id string, patch SubscriptionPatch) error
	AdminUpdateSubscription(ctx context.Context, id string, patch SubscriptionPatch) (bool, error)
	// FindByEmail resolves an email to identity fields only.
	FindByEmail(ctx context.Context, email string) (*domain.Profile, error)
}

type AgencyRepo interface {
	Create(ctx context.Context, a *domain.Agency) error
	GetByID(ctx context.Context, id string) (*domain.Agency, error)
	List(ctx context.Context) ([]*domain.Agency, error)
	AddMember(ctx context.Context, m *domain.AgencyMember) error
	ListMembers(ctx context.Context, agencyID string) ([]*domain.AgencyMember, error)
}

type NotificationRepo interface {
	Create(ctx context.Context, n *domain.Notification) error
	Exists(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Notification, error)
	ListPending(ctx context.Context) ([]*domain.Notification, error)
	ListDue(ctx context.Context, now time.Time) ([]*domain.Notification, error)
	MarkDelivered(ctx context.Context, id int64, at time.Time) error
	Cancel(ctx context.Context, id int64) error
	CancelAll(ctx context.Context) (int, error)
}
