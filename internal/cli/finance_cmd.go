package cli

import (
	"context"

	"github.com/financeflow/flowdesk/internal/cli/formatter"
	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/ledger"
	"github.com/financeflow/flowdesk/internal/service"
	"github.com/spf13/cobra"
)

func newFinanceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "finance",
		Aliases: []string{"fin"},
		Short:   "Record income and expenses",
	}

	cmd.AddCommand(
		newEntryAddCmd(app, ledger.KindIncome),
		newEntryAddCmd(app, ledger.KindExpense),
		newFinanceListCmd(app),
		newFinanceSummaryCmd(app),
		newFinanceRemoveCmd(app),
	)

	return cmd
}

func newEntryAddCmd(app *App, kind ledger.Kind) *cobra.Command {
	var (
		v           entryFormValues
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   kind.String(),
		Short: "Record an " + kind.String(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				if err := entryForm(kind.CounterpartyLabel(), &v).Run(); err != nil {
					return err
				}
			}
			in, err := v.input()
			if err != nil {
				return err
			}
			add := app.Finance.AddExpense
			if kind == ledger.KindIncome {
				add = app.Finance.AddIncome
			}
			tx, err := add(cmd.Context(), in)
			if err != nil {
				return err
			}
			cmd.Printf("Recorded %s %s %s\n", kind, app.Money.Signed(tx.Value), formatter.TruncID(tx.ID))
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&v.Description, "description", "", "What the entry is for")
	fs.StringVar(&v.Amount, "amount", "", "Amount, e.g. 150.00 or 150,00")
	fs.StringVar(&v.Counterparty, "counterparty", "", kind.CounterpartyLabel())
	fs.StringVar(&v.PaymentMethod, "method", "", "Payment method")
	fs.StringVar(&v.Date, "date", "", "Entry date (YYYY-MM-DD, default today)")
	fs.StringVar(&v.Category, "category", "", "Category (default "+kind.String()+")")
	fs.BoolVar(&v.Paid, "paid", false, "Already paid")
	fs.StringVar(&v.Due, "due", "", "Due date (YYYY-MM-DD)")
	fs.BoolVar(&v.Remind, "remind", false, "Schedule reminders before the due date")
	fs.BoolVarP(&interactive, "interactive", "i", false, "Fill in the entry with a form")

	return cmd
}

func (v entryFormValues) input() (service.EntryInput, error) {
	in := service.EntryInput{
		Description:   v.Description,
		PaymentMethod: v.PaymentMethod,
		Counterparty:  v.Counterparty,
		Date:          v.Date,
		Paid:          v.Paid,
		Category:      v.Category,
		Remind:        v.Remind,
	}
	if v.Amount != "" {
		amount, err := parseAmount(v.Amount)
		if err != nil {
			return in, err
		}
		in.Amount = amount
	}
	due, err := domain.ParseDueDate(v.Due)
	if err != nil {
		return in, err
	}
	in.DueDate = due
	return in, nil
}

func newFinanceListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List financial entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Finance.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				cmd.Println("No financial entries yet.")
				return nil
			}
			cmd.Print(formatter.FormatEntries(entries, app.Money))
			return nil
		},
	}
}

func newFinanceSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show income, expense and pending totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Finance.Summary(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Println(formatter.FormatSummary(s, app.Money))
			return nil
		},
	}
}

func newFinanceRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Delete a financial entry and its reminders",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveEntryArg(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Finance.Delete(cmd.Context(), id); err != nil {
				return err
			}
			cmd.Printf("Removed entry %s\n", formatter.TruncID(id))
			return nil
		},
	}
}

func resolveEntryArg(ctx context.Context, app *App, input string) (string, error) {
	entries, err := app.Finance.List(ctx)
	if err != nil {
		return "", err
	}
	return resolveEntry(entries, input)
}
