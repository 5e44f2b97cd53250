package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/financeflow/flowdesk/internal/auth"
	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/ledger"
	"github.com/financeflow/flowdesk/internal/repository"
)

type financeService struct {
	expenses  repository.ExpenseRepo
	authn     auth.Authenticator
	reminders ReminderScheduler
	observer  UseCaseObserver
	now       func() time.Time
}

// NewFinanceService wires the financial entry use cases. A nil reminders
// disables due-date notifications.
func NewFinanceService(
	expenses repository.ExpenseRepo,
	authn auth.Authenticator,
	reminders ReminderScheduler,
	observers ...UseCaseObserver,
) FinanceService {
	return &financeService{
		expenses:  expenses,
		authn:     authn,
		reminders: reminders,
		observer:  useCaseObserverOrNoop(observers),
		now:       time.Now,
	}
}

func (s *financeService) AddIncome(ctx context.Context, in EntryInput) (*domain.Transaction, error) {
	return s.add(ctx, ledger.KindIncome, in)
}

func (s *financeService) AddExpense(ctx context.Context, in EntryInput) (*domain.Transaction, error) {
	return s.add(ctx, ledger.KindExpense, in)
}

func (s *financeService) add(ctx context.Context, kind ledger.Kind, in EntryInput) (tx *domain.Transaction, err error) {
	defer observe(ctx, s.observer, "finance.add_"+kind.String(), time.Now(), map[string]any{"amount": in.Amount.String()}, &err)

	if strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	}
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = s.now().UTC().Format(domain.DueDateLayout)
	}
	day, err := time.Parse(domain.DueDateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrValidation, in.Date)
	}

	caller, err := s.authn.CurrentCaller(ctx)
	if err != nil {
		return nil, err
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = kind.String()
	}
	tx = &domain.Transaction{
		UserID: caller.ID,
		Description: ledger.Encode(ledger.Entry{
			Kind:          kind,
			Description:   in.Description,
			PaymentMethod: in.PaymentMethod,
			Counterparty:  in.Counterparty,
			Date:          date,
			Paid:          in.Paid,
		}),
		Value:               ledger.SignedValue(kind, in.Amount),
		Category:            category,
		Month:               day.Format(domain.MonthLayout),
		DueDate:             in.DueDate,
		NotificationEnabled: in.Remind && in.DueDate != nil,
	}
	if err := s.expenses.Create(ctx, tx); err != nil {
		return nil, err
	}
	if s.reminders != nil {
		s.reminders.ScheduleExpenseReminder(ctx, tx)
	}
	return tx, nil
}

func (s *financeService) List(ctx context.Context) ([]FinancialEntry, error) {
	txs, err := s.listOwn(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]FinancialEntry, 0, len(txs))
	for _, tx := range txs {
		entries = append(entries, FinancialEntry{
			Transaction: tx,
			Entry:       ledger.Decode(tx.Description),
			Class:       ledger.Classify(tx.Description, tx.Value),
		})
	}
	return entries, nil
}

func (s *financeService) Summary(ctx context.Context) (ledger.Summary, error) {
	txs, err := s.listOwn(ctx)
	if err != nil {
		return ledger.Summary{}, err
	}
	return ledger.Summarize(txs), nil
}

func (s *financeService) listOwn(ctx context.Context) ([]*domain.Transaction, error) {
	caller, err := s.authn.CurrentCaller(ctx)
	if err != nil {
		return nil, err
	}
	return s.expenses.ListFinancial(ctx, caller.ID, repository.DefaultFinancialLimit)
}

// Delete removes the entry and, when it had reminders enabled, cancels
// the pending ones.
func (s *financeService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "finance.delete", time.Now(), map[string]any{"entry_id": id}, &err)

	tx, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.expenses.Delete(ctx, id); err != nil {
		return err
	}
	if s.reminders != nil && tx.NotificationEnabled {
		s.reminders.CancelForCost(ctx, id)
	}
	return nil
}
