package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/financeflow/flowdesk/internal/cli/formatter"
	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/shopspring/decimal"
)

// flowdeskHuhTheme styles huh forms with the formatter palette.
func flowdeskHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

// validateOptionalDate accepts empty or YYYY-MM-DD.
func validateOptionalDate(s string) error {
	if _, err := domain.ParseDueDate(s); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

// validateAmount accepts a positive decimal, with either "." or "," as
// the decimal mark.
func validateAmount(s string) error {
	d, err := parseAmount(s)
	if err != nil {
		return err
	}
	if !d.IsPositive() {
		return errors.New("enter an amount greater than zero")
	}
	return nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// projectFormValues backs the interactive project form.
type projectFormValues struct {
	Title       string
	Client      string
	Due         string
	Priority    string
	Status      string
	Description string
}

func projectForm(v *projectFormValues) *huh.Form {
	priorities := []huh.Option[string]{
		huh.NewOption("High", string(domain.PriorityHigh)),
		huh.NewOption("Medium", string(domain.PriorityMedium)),
		huh.NewOption("Low", string(domain.PriorityLow)),
	}
	stages := make([]huh.Option[string], 0, len(domain.Stages))
	for _, st := range domain.Stages {
		stages = append(stages, huh.NewOption(st.Title(), string(st)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&v.Title).Validate(required("title")),
			huh.NewInput().Title("Client").Value(&v.Client).Validate(required("client")),
			huh.NewInput().Title("Due Date (YYYY-MM-DD, blank for none)").
				Placeholder("2025-06-30").Value(&v.Due).Validate(validateOptionalDate),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Priority").Options(priorities...).Value(&v.Priority),
			huh.NewSelect[string]().Title("Stage").Options(stages...).Value(&v.Status),
			huh.NewText().Title("Description").Value(&v.Description),
		),
	).WithTheme(flowdeskHuhTheme()).WithShowHelp(false)
}

// entryFormValues backs the interactive income/expense form.
type entryFormValues struct {
	Description   string
	Amount        string
	Counterparty  string
	PaymentMethod string
	Date          string
	Category      string
	Paid          bool
	Due           string
	Remind        bool
}

func entryForm(counterpartyLabel string, v *entryFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Description").Value(&v.Description).Validate(required("description")),
			huh.NewInput().Title("Amount").Placeholder("150,00").Value(&v.Amount).Validate(validateAmount),
			huh.NewInput().Title(counterpartyLabel).Value(&v.Counterparty),
			huh.NewInput().Title("Payment method").Placeholder("pix").Value(&v.PaymentMethod),
		),
		huh.NewGroup(
			huh.NewInput().Title("Date (YYYY-MM-DD, blank for today)").Value(&v.Date).Validate(validateOptionalDate),
			huh.NewInput().Title("Category").Value(&v.Category),
			huh.NewConfirm().Title("Paid?").Value(&v.Paid),
			huh.NewInput().Title("Due Date (YYYY-MM-DD, blank for none)").Value(&v.Due).Validate(validateOptionalDate),
			huh.NewConfirm().Title("Remind me before it is due?").Value(&v.Remind),
		),
	).WithTheme(flowdeskHuhTheme()).WithShowHelp(false)
}
