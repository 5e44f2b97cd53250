package cli

import (
	"errors"
	"fmt"

	"github.com/financeflow/flowdesk/internal/cli/formatter"
	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/spf13/cobra"
)

func newSubscriptionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscription",
		Aliases: []string{"sub"},
		Short:   "Show or change a subscription plan",
	}
	cmd.AddCommand(newSubscriptionShowCmd(app), newSubscriptionSetCmd(app))
	return cmd
}

// targetUser returns userID, or the signed-in caller's ID when empty.
func targetUser(cmd *cobra.Command, app *App, userID string) (string, error) {
	if userID != "" {
		return userID, nil
	}
	caller, err := app.Sessions.CurrentCaller(cmd.Context())
	if err != nil {
		return "", err
	}
	return caller.ID, nil
}

func newSubscriptionShowCmd(app *App) *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "show [USER_ID]",
		Short: "Show a subscription (your own by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var userID string
			if len(args) == 1 {
				userID = args[0]
			}
			// Signed-out callers still get the default plan.
			if id, err := targetUser(cmd, app, userID); err == nil {
				userID = id
			}

			res := app.Subscriptions.Resolve(cmd.Context(), userID)
			if explain {
				cmd.Println(formatter.FormatSubscription(res.Subscription, app.Money, &res))
				return nil
			}
			cmd.Println(formatter.FormatSubscription(res.Subscription, app.Money, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "Show where the subscription was read from")
	return cmd
}

func newSubscriptionSetCmd(app *App) *cobra.Command {
	var (
		userID, provider, currency, amount, start, end string
		plan                                           domain.Plan
		status                                         domain.SubscriptionStatus
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change a subscription (admins may change any user)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			target, err := targetUser(cmd, app, userID)
			if err != nil {
				return err
			}

			sub := app.Subscriptions.GetUserSubscription(ctx, target)
			flags := cmd.Flags()
			if flags.Changed("plan") {
				sub.Plan = plan
			}
			if flags.Changed("status") {
				sub.Status = status
			}
			if flags.Changed("provider") {
				sub.PaymentProvider = provider
			}
			if flags.Changed("currency") {
				sub.Currency = currency
			}
			if flags.Changed("amount") {
				d, err := parseAmount(amount)
				if err != nil {
					return err
				}
				sub.Amount = &d
			}
			if flags.Changed("period-start") {
				if sub.CurrentPeriodStart, err = domain.ParseDueDate(start); err != nil {
					return fmt.Errorf("period start: %w", err)
				}
			}
			if flags.Changed("period-end") {
				if sub.CurrentPeriodEnd, err = domain.ParseDueDate(end); err != nil {
					return fmt.Errorf("period end: %w", err)
				}
			}

			if !app.Subscriptions.Update(ctx, target, sub) {
				cmd.Println(formatter.Notice("Error", "Could not update the subscription.", true))
				return errors.New("subscription update failed")
			}
			cmd.Println(formatter.Notice("Subscription updated", string(sub.Plan), false))
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&userID, "user", "", "User ID (default: you)")
	fs.Var(planValue(&plan), "plan", "free, basic, premium, enterprise or enterprise-annual")
	fs.Var(statusValue(&status), "status", "active, inactive or cancelled")
	fs.StringVar(&provider, "provider", "", "Payment provider")
	fs.StringVar(&currency, "currency", "", "ISO currency code")
	fs.StringVar(&amount, "amount", "", "Recurring amount")
	fs.StringVar(&start, "period-start", "", "Current period start (YYYY-MM-DD)")
	fs.StringVar(&end, "period-end", "", "Current period end (YYYY-MM-DD)")

	return cmd
}
