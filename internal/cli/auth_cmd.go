package cli

import (
	"github.com/financeflow/flowdesk/internal/auth"
	"github.com/financeflow/flowdesk/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var req auth.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with your email",
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := app.Sessions.Login(cmd.Context(), req)
			if err != nil {
				return err
			}
			cmd.Println("Signed in as " + formatter.FormatCaller(caller))
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&req.Email, "email", "", "Account email")
	fs.StringVar(&req.Name, "name", "", "Display name for new accounts")
	fs.BoolVar(&req.Register, "register", false, "Create the account if it does not exist")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sessions.Logout(); err != nil {
				return err
			}
			cmd.Println("Signed out.")
			return nil
		},
	}
}

func newWhoAmICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := app.Sessions.CurrentCaller(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Println(formatter.FormatCaller(caller))
			return nil
		},
	}
}
