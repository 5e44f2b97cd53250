package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/financeflow/flowdesk/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StageColor returns the accent color of a kanban column.
func StageColor(s domain.Stage) lipgloss.Color {
	switch s {
	case domain.StageShot:
		return ColorBlue
	case domain.StageEditing:
		return ColorYellow
	case domain.StageReview:
		return ColorPurple
	case domain.StageDelivered:
		return ColorGreen
	default:
		return ColorDim
	}
}

// StagePill returns a colored stage label such as "● Editing".
func StagePill(s domain.Stage) string {
	return lipgloss.NewStyle().Foreground(StageColor(s)).Render("● " + s.Title())
}

// PriorityPill renders the priority with urgency coloring.
func PriorityPill(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return StyleRed.Render("▲ high")
	case domain.PriorityLow:
		return StyleDim.Render("▽ low")
	default:
		return StyleYellow.Render("■ medium")
	}
}

// PlanPill renders a subscription plan and status.
func PlanPill(plan domain.Plan, status domain.SubscriptionStatus) string {
	label := strings.ToUpper(string(plan))
	switch status {
	case domain.SubscriptionActive:
		return StyleGreen.Render("● "+label) + Dim(" active")
	case domain.SubscriptionCancelled:
		return StyleRed.Render("✖ "+label) + Dim(" cancelled")
	default:
		return StyleDim.Render("○ " + label + " inactive")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
