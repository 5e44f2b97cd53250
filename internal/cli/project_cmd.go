package cli

import (
	"errors"
	"fmt"

	"github.com/financeflow/flowdesk/internal/cli/formatter"
	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/service"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"p"},
		Short:   "Manage board projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectEditCmd(app),
		newProjectMoveCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var (
		agencyID, due string
		interactive   bool
		links         []string
	)
	p := &domain.Project{Priority: domain.PriorityMedium, Status: domain.StageShot}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a project to a board",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if interactive {
				v := projectFormValues{
					Title: p.Title, Client: p.Client, Due: due,
					Priority: string(p.Priority), Status: string(p.Status), Description: p.Description,
				}
				if err := projectForm(&v).Run(); err != nil {
					return err
				}
				p.Title, p.Client, due, p.Description = v.Title, v.Client, v.Due, v.Description
				p.Priority = domain.Priority(v.Priority)
				p.Status = domain.Stage(v.Status)
			}

			dueDate, err := domain.ParseDueDate(due)
			if err != nil {
				return err
			}
			p.DueDate = dueDate
			p.Links = links

			scope, err := app.Boards.ResolveScope(ctx, agencyID)
			if err != nil {
				return err
			}
			if err := app.Boards.Create(ctx, scope, p); err != nil {
				if errors.Is(err, service.ErrValidation) {
					cmd.Println(formatter.Notice("Error", domain.ErrTitleAndClientRequired.Error(), true))
				}
				return err
			}

			cmd.Printf("Created project %s %s\n", formatter.Bold(p.Title), formatter.TruncID(p.ID))
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&p.Title, "title", "", "Project title")
	fs.StringVar(&p.Client, "client", "", "Client name")
	fs.StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	fs.Var(priorityValue(&p.Priority), "priority", "high, medium or low")
	fs.Var(stageValue(&p.Status), "stage", "shot, editing, review or delivered")
	fs.StringVar(&p.Description, "description", "", "Free-form notes")
	fs.StringArrayVar(&links, "link", nil, "Reference link (repeatable)")
	fs.BoolVarP(&interactive, "interactive", "i", false, "Fill in the project with a form")
	addAgencyFlag(fs, &agencyID)

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var agencyID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, projects, err := loadScope(cmd.Context(), app, agencyID)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				cmd.Println("No projects found.")
				return nil
			}
			cmd.Print(formatter.FormatProjectList(projects, app.now()))
			return nil
		},
	}

	addAgencyFlag(cmd.Flags(), &agencyID)
	return cmd
}

func newProjectShowCmd(app *App) *cobra.Command {
	var agencyID string

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show project details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := findProject(cmd.Context(), app, agencyID, args[0])
			if err != nil {
				return err
			}
			cmd.Println(formatter.FormatProjectDetail(p, app.now()))
			return nil
		},
	}

	addAgencyFlag(cmd.Flags(), &agencyID)
	return cmd
}

func newProjectEditCmd(app *App) *cobra.Command {
	var (
		agencyID, title, client, due, description string
		priority                                  domain.Priority
		stage                                     domain.Stage
		links                                     []string
		clearDue                                  bool
	)

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, projects, err := loadScope(ctx, app, agencyID)
			if err != nil {
				return err
			}
			found, err := resolveProject(projects, args[0])
			if err != nil {
				return err
			}
			p := found.WithStatus(found.Status)

			flags := cmd.Flags()
			if flags.Changed("title") {
				p.Title = title
			}
			if flags.Changed("client") {
				p.Client = client
			}
			if flags.Changed("due") {
				if p.DueDate, err = domain.ParseDueDate(due); err != nil {
					return err
				}
			}
			if clearDue {
				p.DueDate = nil
			}
			if flags.Changed("priority") {
				p.Priority = priority
			}
			if flags.Changed("stage") {
				p.Status = stage
			}
			if flags.Changed("description") {
				p.Description = description
			}
			if flags.Changed("link") {
				p.Links = links
			}

			if err := app.Boards.Update(ctx, p); err != nil {
				return err
			}
			cmd.Printf("Updated project %s\n", formatter.Bold(p.Title))
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&title, "title", "", "New title")
	fs.StringVar(&client, "client", "", "New client")
	fs.StringVar(&due, "due", "", "New due date (YYYY-MM-DD)")
	fs.BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	fs.Var(priorityValue(&priority), "priority", "high, medium or low")
	fs.Var(stageValue(&stage), "stage", "shot, editing, review or delivered")
	fs.StringVar(&description, "description", "", "New notes")
	fs.StringArrayVar(&links, "link", nil, "Replace links (repeatable)")
	addAgencyFlag(fs, &agencyID)

	return cmd
}

func newProjectMoveCmd(app *App) *cobra.Command {
	var agencyID string

	cmd := &cobra.Command{
		Use:   "move ID STAGE",
		Short: "Move a project to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, ok := domain.ParseStage(args[1])
			if !ok {
				return fmt.Errorf("invalid stage %q", args[1])
			}

			scope, projects, err := loadScope(cmd.Context(), app, agencyID)
			if err != nil {
				return err
			}
			p, err := resolveProject(projects, args[0])
			if err != nil {
				return err
			}

			res := app.Boards.Move(cmd.Context(), service.MoveRequest{
				Scope:     scope,
				Projects:  projects,
				ProjectID: p.ID,
				From:      p.Status,
				To:        to,
			})
			if !res.Moved && res.Notice == nil {
				cmd.Printf("%s is already in %s.\n", p.Title, to.Title())
				return nil
			}
			printNotice(cmd, res.Notice)
			if !res.Moved {
				return errors.New("move failed")
			}
			return nil
		},
	}

	addAgencyFlag(cmd.Flags(), &agencyID)
	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var agencyID string

	cmd := &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Delete a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := findProject(ctx, app, agencyID, args[0])
			if err != nil {
				return err
			}
			if err := app.Boards.Delete(ctx, p.ID); err != nil {
				if service.IsNotFound(err) {
					return fmt.Errorf("project %s was already removed", p.Title)
				}
				return err
			}
			cmd.Printf("Removed project %s\n", p.Title)
			return nil
		},
	}

	addAgencyFlag(cmd.Flags(), &agencyID)
	return cmd
}
