package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthLayout is the format of Transaction.Month.
const MonthLayout = "2006-01"

// Transaction is a row of the expenses collection. Financial entries
// encode their structured fields inside Description; see package ledger.
// Value is signed: income is stored negative, expenses positive.
type Transaction struct {
	ID                  string
	UserID              string
	Description         string
	Value               decimal.Decimal
	Category            string
	Month               string
	CreatedAt           time.Time
	DueDate             *time.Time
	NotificationEnabled bool
}
