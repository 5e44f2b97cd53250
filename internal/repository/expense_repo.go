package repository

import (
	"context"
	"fmt"

	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/ledger"
	"github.com/financeflow/flowdesk/internal/store"
)

// DefaultFinancialLimit caps the financial list to the most recent entries.
const DefaultFinancialLimit = 50

// financialFilter matches rows carrying either ledger tag.
var financialFilter = fmt.Sprintf("description.ilike.%s:%%,description.ilike.%s:%%",
	ledger.IncomeTag, ledger.ExpenseTag)

// StoreExpenseRepo maps expenses records to transactions.
type StoreExpenseRepo struct {
	store *store.Client
}

func NewStoreExpenseRepo(s *store.Client) *StoreExpenseRepo {
	return &StoreExpenseRepo{store: s}
}

// ListFinancial returns the user's tagged entries, newest first. A limit
// of zero uses DefaultFinancialLimit.
func (r *StoreExpenseRepo) ListFinancial(ctx context.Context, userID string, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = DefaultFinancialLimit
	}
	res := r.store.From(store.Expenses).Select().
		Eq("user_id", userID).
		Or(financialFilter).
		Order("created_at", false).
		Limit(limit).
		Execute(ctx)
	if res.Err != nil {
		return nil, fmt.Errorf("listing financial entries: %w", res.Err)
	}

	txs := make([]*domain.Transaction, 0, len(res.Data))
	for _, row := range res.Data {
		tx, err := transactionFromRow(row)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (r *StoreExpenseRepo) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	res := r.store.From(store.Expenses).Select().Eq("id", id).Execute(ctx)
	if res.Err != nil {
		return nil, fmt.Errorf("getting expense %s: %w", id, res.Err)
	}
	if len(res.Data) == 0 {
		return nil, fmt.Errorf("expense %s: %w", id, ErrNotFound)
	}
	return transactionFromRow(res.First())
}

func (r *StoreExpenseRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	row := store.Row{
		"user_id":              tx.UserID,
		"description":          tx.Description,
		"value":                tx.Value.String(),
		"category":             tx.Category,
		"month":                tx.Month,
		"notification_enabled": tx.NotificationEnabled,
	}
	if tx.ID != "" {
		row["id"] = tx.ID
	}
	if tx.DueDate != nil {
		row["due_date"] = tx.DueDate.Format(domain.DueDateLayout)
	}

	res := r.store.From(store.Expenses).Insert(row).Execute(ctx)
	if res.Err != nil {
		return fmt.Errorf("inserting expense: %w", res.Err)
	}
	saved := res.First()
	tx.ID = rowString(saved, "id")
	tx.CreatedAt = rowTime(saved, "created_at")
	return nil
}

func (r *StoreExpenseRepo) Delete(ctx context.Context, id string) error {
	res := r.store.From(store.Expenses).Delete().Eq("id", id).Execute(ctx)
	if res.Err != nil {
		return fmt.Errorf("deleting expense %s: %w", id, res.Err)
	}
	if res.Count == 0 {
		return fmt.Errorf("expense %s: %w", id, ErrNotFound)
	}
	return nil
}

func transactionFromRow(row store.Row) (*domain.Transaction, error) {
	value, err := rowDecimal(row, "value")
	if err != nil {
		return nil, fmt.Errorf("expense %s: %w", rowString(row, "id"), err)
	}
	tx := &domain.Transaction{
		ID:                  rowString(row, "id"),
		UserID:              rowString(row, "user_id"),
		Description:         rowString(row, "description"),
		Value:               value,
		Category:            rowString(row, "category"),
		Month:               rowString(row, "month"),
		CreatedAt:           rowTime(row, "created_at"),
		NotificationEnabled: rowBool(row, "notification_enabled"),
	}
	if due, err := domain.ParseDueDate(rowString(row, "due_date")); err == nil {
		tx.DueDate = due
	}
	return tx, nil
}
