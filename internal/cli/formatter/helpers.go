package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/pipeline"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// DueBadge describes a due date relative to now, such as "05/06 · 3d left"
// or "01/01 · 1979d overdue". Delivered projects only show the date.
func DueBadge(p *domain.Project, now time.Time) string {
	if p.DueDate == nil {
		return StyleDim.Render("no due date")
	}
	date := p.DueDate.Format("02/01/2006")
	if p.Status == domain.StageDelivered {
		return StyleDim.Render(date)
	}
	if pipeline.IsOverdue(p, now) {
		return StyleRed.Render(fmt.Sprintf("%s · %dd overdue", date, pipeline.DaysOverdue(*p.DueDate, now)))
	}
	days := pipeline.DaysUntil(*p.DueDate, now)
	switch {
	case days == 0:
		return StyleRed.Render(date + " · due today")
	case pipeline.IsUrgent(p, now):
		return StyleYellow.Render(fmt.Sprintf("%s · %dd left", date, days))
	default:
		return StyleFg.Render(fmt.Sprintf("%s · %dd left", date, days))
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Truncate shortens s to max visible cells, adding an ellipsis.
func Truncate(s string, max int) string {
	if max <= 1 || lipgloss.Width(s) <= max {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > max {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// Notice renders a service notice; destructive notices are red.
func Notice(title, message string, destructive bool) string {
	style := StyleGreen
	if destructive {
		style = StyleRed
	}
	if message == "" {
		return style.Render(title)
	}
	return style.Render(title) + Dim(": ") + message
}
