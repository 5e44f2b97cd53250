package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/financeflow/flowdesk/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newNotifyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Inspect and deliver due-date reminders",
	}
	cmd.AddCommand(
		newNotifyListCmd(app),
		newNotifyCancelCmd(app),
		newNotifyCancelAllCmd(app),
		newNotifyRunCmd(app),
	)
	return cmd
}

func newNotifyListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			pending, err := app.Notifications.Pending(cmd.Context())
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				cmd.Println("No pending reminders.")
				return nil
			}
			cmd.Print(formatter.FormatNotifications(pending))
			return nil
		},
	}
}

func newNotifyCancelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel one reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid reminder id %q", args[0])
			}
			app.Notifications.Cancel(cmd.Context(), id)
			cmd.Printf("Cancelled reminder %d\n", id)
			return nil
		},
	}
}

func newNotifyCancelAllCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel-all",
		Short: "Cancel every pending reminder",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Notifications.CancelAll(cmd.Context())
			cmd.Println("Cancelled all reminders.")
			return nil
		},
	}
}

func newNotifyRunCmd(app *App) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Deliver reminders as they come due until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if once {
				n, err := app.Reminders.DeliverDue(cmd.Context())
				if err != nil {
					return err
				}
				cmd.Printf("Delivered %d reminder(s)\n", n)
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			cmd.Println(formatter.Dim("Watching reminders; press Ctrl+C to stop."))
			if err := app.Reminders.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Deliver what is due now and exit")
	return cmd
}
