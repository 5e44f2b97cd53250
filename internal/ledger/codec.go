// Package ledger encodes financial entries into the legacy single-line
// description format stored in the expenses collection, decodes them back
// and aggregates totals.
//
// Wire format:
//
//	<TAG>: <description> | Payment: <method> | <Client|Supplier>: <name> | Date: <date> | Paid: <true|false>
//
// The separator is not escaped. A free-text field containing " | " will
// not survive a round trip.
package ledger

import (
	"strconv"
	"strings"
)

// Kind distinguishes income from expense entries.
type Kind int

const (
	KindExpense Kind = iota
	KindIncome
)

func (k Kind) String() string {
	if k == KindIncome {
		return "income"
	}
	return "expense"
}

// Tag returns the literal prefix that classifies an encoded entry.
func (k Kind) Tag() string {
	if k == KindIncome {
		return IncomeTag
	}
	return ExpenseTag
}

// CounterpartyLabel returns "Client" for income and "Supplier" for expenses.
func (k Kind) CounterpartyLabel() string {
	if k == KindIncome {
		return "Client"
	}
	return "Supplier"
}

const (
	IncomeTag  = "FINANCIAL_INCOME"
	ExpenseTag = "FINANCIAL_EXPENSE"

	// Separator joins the segments of an encoded entry.
	Separator = " | "

	incomeMarker  = IncomeTag + ":"
	expenseMarker = ExpenseTag + ":"
)

// Entry is the structured form of an encoded description.
type Entry struct {
	Kind          Kind
	Description   string
	PaymentMethod string
	Counterparty  string
	Date          string
	Paid          bool
}

// Encode renders e in the legacy description format.
func Encode(e Entry) string {
	var b strings.Builder
	b.WriteString(e.Kind.Tag())
	b.WriteString(": ")
	b.WriteString(e.Description)
	b.WriteString(Separator + "Payment: ")
	b.WriteString(e.PaymentMethod)
	b.WriteString(Separator)
	b.WriteString(e.Kind.CounterpartyLabel())
	b.WriteString(": ")
	b.WriteString(e.Counterparty)
	b.WriteString(Separator + "Date: ")
	b.WriteString(e.Date)
	b.WriteString(Separator + "Paid: ")
	b.WriteString(strconv.FormatBool(e.Paid))
	return b.String()
}

// Decode parses an encoded description. Segments are matched by their
// literal prefix; absent segments leave their field empty (or false).
// Kind is income whenever the income tag appears anywhere in raw.
func Decode(raw string) Entry {
	var e Entry
	if HasIncomeTag(raw) {
		e.Kind = KindIncome
	}

	parts := strings.Split(raw, Separator)
	head := strings.Replace(parts[0], incomeMarker+" ", "", 1)
	e.Description = strings.Replace(head, expenseMarker+" ", "", 1)

	// The first segment carrying a prefix wins, the head included.
	var seenPayment, seenParty, seenDate, seenPaid bool
	for _, part := range parts {
		switch {
		case !seenPayment && strings.HasPrefix(part, "Payment:"):
			seenPayment = true
			e.PaymentMethod = strings.Replace(part, "Payment: ", "", 1)
		case !seenParty && (strings.HasPrefix(part, "Client:") || strings.HasPrefix(part, "Supplier:")):
			seenParty = true
			_, e.Counterparty, _ = strings.Cut(part, ": ")
		case !seenDate && strings.HasPrefix(part, "Date:"):
			seenDate = true
			e.Date = strings.Replace(part, "Date: ", "", 1)
		case !seenPaid && strings.HasPrefix(part, "Paid:"):
			seenPaid = true
			e.Paid = strings.Replace(part, "Paid: ", "", 1) == "true"
		}
	}
	return e
}

// HasIncomeTag reports whether raw carries the income tag.
func HasIncomeTag(raw string) bool {
	return strings.Contains(raw, incomeMarker)
}

// HeadDescription returns the human description of an encoded entry
// without its tag.
func HeadDescription(raw string) string {
	return Decode(raw).Description
}
