package cli

import (
	"context"
	"os"
	"time"

	"github.com/financeflow/flowdesk/internal/auth"
	"github.com/financeflow/flowdesk/internal/cli/formatter"
	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/service"
	"github.com/spf13/cobra"
)

// NotificationCenter lists and cancels scheduled reminders.
type NotificationCenter interface {
	Pending(ctx context.Context) ([]*domain.Notification, error)
	Cancel(ctx context.Context, id int64)
	CancelAll(ctx context.Context)
}

// ReminderRunner delivers due reminders.
type ReminderRunner interface {
	Run(ctx context.Context) error
	DeliverDue(ctx context.Context) (int, error)
}

// SessionManager signs the local user in and out.
type SessionManager interface {
	Login(ctx context.Context, req auth.LoginRequest) (*domain.Caller, error)
	Logout() error
	CurrentCaller(ctx context.Context) (*domain.Caller, error)
}

// App holds everything CLI commands talk to.
type App struct {
	Boards        service.BoardService
	Finance       service.FinanceService
	Subscriptions service.SubscriptionService
	Companies     service.CompanyService
	Overview      service.OverviewService
	Notifications NotificationCenter
	Reminders     ReminderRunner
	Sessions      SessionManager

	Money formatter.Money
	Now   func() time.Time
	// Interactive is true when stdin and stdout are terminals; the board
	// command only starts the TUI then.
	Interactive bool
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// NewRootCmd creates the top-level "flowdesk" command and registers all
// subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "flowdesk",
		Short:         "Project delivery board and finances for video production teams",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(os.Stdout)

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoAmICmd(app),
		newProjectCmd(app),
		newBoardCmd(app),
		newFinanceCmd(app),
		newSubscriptionCmd(app),
		newCompanyCmd(app),
		newNotifyCmd(app),
		newOverviewCmd(app),
		newImportCmd(app),
	)

	return root
}

// printNotice writes a service notice, if any, to the command output.
func printNotice(cmd *cobra.Command, n *service.Notice) {
	if n == nil {
		return
	}
	cmd.Println(formatter.Notice(n.Title, n.Message, n.Destructive))
}
