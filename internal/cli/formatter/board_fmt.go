package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/pipeline"
)

// FormatProjectList renders projects as a table in list order.
func FormatProjectList(projects []*domain.Project, now time.Time) string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(Truncate(p.Title, 32)),
			Truncate(p.Client, 20),
			StagePill(p.Status),
			PriorityPill(p.Priority),
			DueBadge(p, now),
		})
	}
	return RenderTable([]string{"ID", "TITLE", "CLIENT", "STAGE", "PRIORITY", "DUE"}, rows)
}

// FormatMetrics renders the summary line shown above the board.
func FormatMetrics(m pipeline.Metrics) string {
	parts := []string{
		StyleBlue.Render(fmt.Sprintf("%d active", m.Active)),
		StyleGreen.Render(fmt.Sprintf("%d completed", m.Completed)),
		StyleYellow.Render(fmt.Sprintf("%d urgent", m.Urgent)),
	}
	if m.Overdue != nil {
		parts = append(parts, StyleRed.Render(fmt.Sprintf("overdue: %s (%dd)", m.Overdue.Client, m.DaysOverdue)))
	} else {
		parts = append(parts, Dim("no overdue projects"))
	}
	return strings.Join(parts, Dim("  ·  "))
}

// RenderColumn draws one kanban column. selected is the highlighted card
// index, or -1.
func RenderColumn(stage domain.Stage, cards []*domain.Project, selected, width int, focused bool, now time.Time) string {
	if width < 16 {
		width = 16
	}
	inner := width - 4

	title := lipgloss.NewStyle().Foreground(StageColor(stage)).Bold(true).
		Render(fmt.Sprintf("%s (%d)", stage.Title(), len(cards)))

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	if len(cards) == 0 {
		b.WriteString("\n" + Dim("empty"))
	}
	for i, p := range cards {
		card := Bold(Truncate(p.Title, inner)) + "\n" +
			StyleDim.Render(Truncate(p.Client, inner)) + "\n" +
			DueBadge(p, now)
		if len(p.Links) > 0 {
			card += "\n" + StyleBlue.Render(fmt.Sprintf("%d link(s)", len(p.Links)))
		}
		border := lipgloss.NormalBorder()
		color := ColorDim
		if i == selected {
			border = lipgloss.ThickBorder()
			color = ColorHeader
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Border(border).
			BorderForeground(color).
			Width(inner).
			Render(card))
	}

	borderColor := ColorDim
	if focused {
		borderColor = StageColor(stage)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(width).
		Render(b.String())
}

// FormatBoard renders the four columns side by side without selection.
func FormatBoard(projects []*domain.Project, width int, now time.Time) string {
	cols := pipeline.Columns(projects)
	colWidth := width/len(domain.Stages) - 1
	rendered := make([]string, 0, len(domain.Stages))
	for _, st := range domain.Stages {
		rendered = append(rendered, RenderColumn(st, cols[st], -1, colWidth, false, now))
	}
	return FormatMetrics(pipeline.Compute(projects, now)) + "\n\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// FormatProjectDetail renders every field of a project.
func FormatProjectDetail(p *domain.Project, now time.Time) string {
	var b strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", StyleDim.Render(fmt.Sprintf("%-12s", label)), value)
	}
	row("ID", p.ID)
	row("Client", p.Client)
	row("Stage", StagePill(p.Status))
	row("Priority", PriorityPill(p.Priority))
	row("Due", DueBadge(p, now))
	row("Board", p.Scope.String())
	if p.Description != "" {
		row("Description", p.Description)
	}
	for i, l := range p.Links {
		row(fmt.Sprintf("Link %d", i+1), StyleBlue.Render(l))
	}
	return RenderBox(p.Title, strings.TrimRight(b.String(), "\n"))
}
