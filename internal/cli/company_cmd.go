package cli

import (
	"github.com/financeflow/flowdesk/internal/cli/formatter"
	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/service"
	"github.com/spf13/cobra"
)

func newCompanyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "company",
		Aliases: []string{"agency"},
		Short:   "Manage companies and their members",
	}
	cmd.AddCommand(
		newCompanyCreateCmd(app),
		newCompanyListCmd(app),
		newCompanyAddMemberCmd(app),
		newCompanyMembersCmd(app),
	)
	return cmd
}

func newCompanyCreateCmd(app *App) *cobra.Command {
	var in service.NewCompany

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a company owned by a registered user",
		RunE: func(cmd *cobra.Command, args []string) error {
			agency, err := app.Companies.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			cmd.Println(formatter.Notice("Company created", agency.Name+" "+formatter.TruncID(agency.ID), false))
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&in.Name, "name", "", "Company name")
	fs.StringVar(&in.OwnerEmail, "owner", "", "Owner email")
	fs.StringVar(&in.CNPJ, "cnpj", "", "CNPJ")
	fs.StringVar(&in.Description, "description", "", "Description")

	return cmd
}

func newCompanyListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List companies you belong to",
		RunE: func(cmd *cobra.Command, args []string) error {
			agencies, err := app.Companies.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(agencies) == 0 {
				cmd.Println("No companies found.")
				return nil
			}
			cmd.Print(formatter.FormatAgencies(agencies))
			return nil
		},
	}
}

func newCompanyAddMemberCmd(app *App) *cobra.Command {
	role := domain.MemberMember

	cmd := &cobra.Command{
		Use:   "add-member COMPANY_ID EMAIL",
		Short: "Add a registered user to a company",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.Companies.AddMember(cmd.Context(), args[0], args[1], role)
			if err != nil {
				return err
			}
			cmd.Printf("Added %s as %s\n", args[1], m.Role)
			return nil
		},
	}

	cmd.Flags().Var(roleValue(&role), "role", "owner, admin or member")
	return cmd
}

func newCompanyMembersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "members COMPANY_ID",
		Short: "List company members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := app.Companies.Members(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cmd.Print(formatter.FormatMembers(members))
			return nil
		},
	}
}
