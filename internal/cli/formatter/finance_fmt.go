package formatter

import (
	"fmt"
	"strings"

	"github.com/financeflow/flowdesk/internal/ledger"
	"github.com/financeflow/flowdesk/internal/service"
)

// FormatEntries renders the financial list, newest first.
func FormatEntries(entries []service.FinancialEntry, money Money) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		date := e.Entry.Date
		if date == "" {
			date = e.Transaction.CreatedAt.Format("2006-01-02")
		}
		paid := StyleYellow.Render("pending")
		if e.Entry.Paid {
			paid = StyleGreen.Render("paid")
		}
		kind := StyleRed.Render("expense")
		if e.Entry.Kind == ledger.KindIncome {
			kind = StyleGreen.Render("income")
		}
		amount := money.Signed(e.Transaction.Value)
		if e.Class == ledger.Unclassified {
			amount = Dim(money.Format(e.Transaction.Value.Abs()) + " ?")
		}
		rows = append(rows, []string{
			TruncID(e.Transaction.ID),
			date,
			kind,
			Bold(Truncate(e.Entry.Description, 30)),
			Truncate(e.Entry.Counterparty, 18),
			e.Entry.PaymentMethod,
			e.Transaction.Category,
			paid,
			amount,
		})
	}
	return RenderTable(
		[]string{"ID", "DATE", "KIND", "DESCRIPTION", "PARTY", "METHOD", "CATEGORY", "STATUS", "AMOUNT"},
		rows,
		AlignRight(8),
	)
}

// FormatSummary renders the totals box.
func FormatSummary(s ledger.Summary, money Money) string {
	balance := StyleGreen.Render(money.Format(s.Balance))
	if s.Balance.IsNegative() {
		balance = StyleRed.Render(money.Format(s.Balance))
	}
	lines := []string{
		fmt.Sprintf("%s %s", StyleDim.Render("Income          "), StyleGreen.Render(money.Format(s.TotalIncome))),
		fmt.Sprintf("%s %s", StyleDim.Render("Expenses        "), StyleRed.Render(money.Format(s.TotalExpenses))),
		fmt.Sprintf("%s %s", StyleDim.Render("Balance         "), balance),
		"",
		fmt.Sprintf("%s %s", StyleDim.Render("To receive      "), money.Format(s.PendingIncome)),
		fmt.Sprintf("%s %s", StyleDim.Render("To pay          "), money.Format(s.PendingExpenses)),
	}
	if s.Skipped > 0 {
		lines = append(lines, "", Dim(fmt.Sprintf("%d entr(ies) ignored: tag and sign disagree", s.Skipped)))
	}
	return RenderBox("Financial overview", strings.Join(lines, "\n"))
}
