package ledger

import (
	"strings"

	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/shopspring/decimal"
)

// Class is the aggregate bucket of a stored transaction.
type Class int

const (
	Unclassified Class = iota
	ClassIncome
	ClassExpense
)

// Classify buckets a stored row. Income needs the income tag and a
// negative value; expense needs the expense tag and a positive value.
// Rows whose tag and sign disagree are Unclassified and count toward
// neither total.
func Classify(description string, value decimal.Decimal) Class {
	switch {
	case strings.Contains(description, incomeMarker) && value.IsNegative():
		return ClassIncome
	case strings.Contains(description, expenseMarker) && value.IsPositive():
		return ClassExpense
	default:
		return Unclassified
	}
}

// SignedValue converts a positive user-entered amount to the stored sign
// convention for kind.
func SignedValue(kind Kind, amount decimal.Decimal) decimal.Decimal {
	amount = amount.Abs()
	if kind == KindIncome {
		return amount.Neg()
	}
	return amount
}

// Summary aggregates classified transactions. All amounts are positive.
type Summary struct {
	TotalIncome     decimal.Decimal
	TotalExpenses   decimal.Decimal
	Balance         decimal.Decimal
	PendingIncome   decimal.Decimal
	PendingExpenses decimal.Decimal
	// Skipped counts rows excluded because their tag and sign disagree.
	Skipped int
}

// Summarize computes totals over txs. Pending amounts are classified
// entries whose decoded Paid flag is false.
func Summarize(txs []*domain.Transaction) Summary {
	s := Summary{
		TotalIncome:     decimal.Zero,
		TotalExpenses:   decimal.Zero,
		PendingIncome:   decimal.Zero,
		PendingExpenses: decimal.Zero,
	}
	incomeSum := decimal.Zero
	for _, tx := range txs {
		paid := Decode(tx.Description).Paid
		switch Classify(tx.Description, tx.Value) {
		case ClassIncome:
			incomeSum = incomeSum.Add(tx.Value)
			if !paid {
				s.PendingIncome = s.PendingIncome.Add(tx.Value.Abs())
			}
		case ClassExpense:
			s.TotalExpenses = s.TotalExpenses.Add(tx.Value)
			if !paid {
				s.PendingExpenses = s.PendingExpenses.Add(tx.Value)
			}
		default:
			s.Skipped++
		}
	}
	s.TotalIncome = incomeSum.Abs()
	s.Balance = s.TotalIncome.Sub(s.TotalExpenses)
	return s
}
