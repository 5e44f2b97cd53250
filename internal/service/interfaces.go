package service

import (
	"context"
	"time"

	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/ledger"
	"github.com/financeflow/flowdesk/internal/pipeline"
	"github.com/shopspring/decimal"
)

type BoardService interface {
	// ResolveScope returns the caller's individual scope, or the agency
	// scope when agencyID is set.
	ResolveScope(ctx context.Context, agencyID string) (domain.Scope, error)
	Load(ctx context.Context, scope domain.Scope) ([]*domain.Project, error)
	// Get reads one project by its full ID; hidden rows are not found.
	Get(ctx context.Context, id string) (*domain.Project, error)
	Create(ctx context.Context, scope domain.Scope, p *domain.Project) error
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	Move(ctx context.Context, req MoveRequest) MoveResult
}

// MoveRequest describes dropping a card onto a column. Projects is the
// list the caller is currently showing.
type MoveRequest struct {
	Scope     domain.Scope
	Projects  []*domain.Project
	ProjectID string
	From      domain.Stage
	To        domain.Stage
}

// MoveResult carries the list to render after a move. When Moved is false
// and Notice is nil nothing was written and Projects is the input list.
type MoveResult struct {
	Moved    bool
	Projects []*domain.Project
	Notice   *Notice
}

// ReminderScheduler schedules and cancels due-date reminders.
type ReminderScheduler interface {
	ScheduleExpenseReminder(ctx context.Context, tx *domain.Transaction) []int64
	CancelForCost(ctx context.Context, costID string) int
}

// EntryInput is a financial entry as typed by the user. Amount is
// positive; the sign is applied by kind.
type EntryInput struct {
	Description   string
	PaymentMethod string
	Counterparty  string
	// Date is the entry date, YYYY-MM-DD. Empty means today.
	Date     string
	Paid     bool
	Amount   decimal.Decimal
	Category string
	DueDate  *time.Time
	Remind   bool
}

// FinancialEntry is a stored transaction with its decoded fields.
type FinancialEntry struct {
	Transaction *domain.Transaction
	Entry       ledger.Entry
	Class       ledger.Class
}

type FinanceService interface {
	AddIncome(ctx context.Context, in EntryInput) (*domain.Transaction, error)
	AddExpense(ctx context.Context, in EntryInput) (*domain.Transaction, error)
	List(ctx context.Context) ([]FinancialEntry, error)
	Summary(ctx context.Context) (ledger.Summary, error)
	Delete(ctx context.Context, id string) error
}

type SubscriptionService interface {
	// Resolve explains where the subscription came from. It never fails;
	// problems are reported in Resolution.Source and Resolution.Err.
	Resolve(ctx context.Context, userID string) Resolution
	GetUserSubscription(ctx context.Context, userID string) domain.Subscription
	Update(ctx context.Context, userID string, sub domain.Subscription) bool
}

// NewCompany is the input of CompanyService.Create.
type NewCompany struct {
	Name        string
	OwnerEmail  string
	CNPJ        string
	Description string
}

type CompanyService interface {
	Create(ctx context.Context, in NewCompany) (*domain.Agency, error)
	List(ctx context.Context) ([]*domain.Agency, error)
	AddMember(ctx context.Context, agencyID, email string, role domain.MemberRole) (*domain.AgencyMember, error)
	Members(ctx context.Context, agencyID string) ([]*domain.AgencyMember, error)
}

// Overview is the dashboard summary. Parts that failed to load are left
// at their zero value and explained in Notices.
type Overview struct {
	Scope        domain.Scope
	Projects     []*domain.Project
	Metrics      pipeline.Metrics
	Finance      ledger.Summary
	Subscription domain.Subscription
	Notices      []Notice
}

type OverviewService interface {
	Overview(ctx context.Context, scope domain.Scope) Overview
}
