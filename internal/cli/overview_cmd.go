package cli

import (
	"github.com/financeflow/flowdesk/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newOverviewCmd(app *App) *cobra.Command {
	var agencyID string

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Board, finances and plan at a glance",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			scope, err := app.Boards.ResolveScope(ctx, agencyID)
			if err != nil {
				return err
			}
			ov := app.Overview.Overview(ctx, scope)

			cmd.Println(formatter.Header("Board · " + scope.String()))
			cmd.Println(formatter.FormatMetrics(ov.Metrics))
			cmd.Println()
			cmd.Println(formatter.FormatSummary(ov.Finance, app.Money))
			cmd.Println(formatter.FormatSubscription(ov.Subscription, app.Money, nil))
			for i := range ov.Notices {
				printNotice(cmd, &ov.Notices[i])
			}
			return nil
		},
	}

	addAgencyFlag(cmd.Flags(), &agencyID)
	return cmd
}
