package cli

import (
	"errors"
	"fmt"

	"github.com/financeflow/flowdesk/internal/cli/formatter"
	"github.com/financeflow/flowdesk/internal/importer"
	"github.com/financeflow/flowdesk/internal/ledger"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var (
		agencyID string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import projects and financial entries from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			schema, err := importer.LoadImportSchema(args[0])
			if err != nil {
				return err
			}
			if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
				for _, e := range errs {
					cmd.Println(formatter.StyleRed.Render("  " + e.Error()))
				}
				return fmt.Errorf("import file has %d error(s)", len(errs))
			}
			converted, err := importer.Convert(schema)
			if err != nil {
				return err
			}
			if dryRun {
				cmd.Printf("%s: %d project(s), %d entr(ies)\n", formatter.Bold("Valid"), len(converted.Projects), len(converted.Entries))
				return nil
			}

			scope, err := app.Boards.ResolveScope(ctx, agencyID)
			if err != nil {
				return err
			}

			// Rows are independent; keep going and report what failed.
			var failed []error
			projects := 0
			for _, p := range converted.Projects {
				if err := app.Boards.Create(ctx, scope, p); err != nil {
					failed = append(failed, fmt.Errorf("project %q: %w", p.Title, err))
					continue
				}
				projects++
			}
			entries := 0
			for _, e := range converted.Entries {
				add := app.Finance.AddExpense
				if e.Kind == ledger.KindIncome {
					add = app.Finance.AddIncome
				}
				if _, err := add(ctx, e.Input); err != nil {
					failed = append(failed, fmt.Errorf("entry %q: %w", e.Input.Description, err))
					continue
				}
				entries++
			}

			cmd.Printf("Imported %d project(s) and %d entr(ies)\n", projects, entries)
			return errors.Join(failed...)
		},
	}

	addAgencyFlag(cmd.Flags(), &agencyID)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate without writing")
	return cmd
}
