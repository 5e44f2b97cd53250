package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/service"
)

// FormatCaller renders the signed-in identity.
func FormatCaller(c *domain.Caller) string {
	role := Dim("member")
	if c.IsSuperAdmin() {
		role = StylePurple.Render("super-admin")
	}
	return fmt.Sprintf("%s %s %s", Bold(c.Email), TruncID(c.ID), role)
}

// FormatSubscription renders a subscription. When res is non-nil its
// source is shown too.
func FormatSubscription(sub domain.Subscription, money Money, res *service.Resolution) string {
	var b strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", StyleDim.Render(fmt.Sprintf("%-10s", label)), value)
	}
	row("Plan", PlanPill(sub.Plan, sub.Status))
	if sub.CurrentPeriodStart != nil || sub.CurrentPeriodEnd != nil {
		row("Period", fmt.Sprintf("%s → %s", periodDate(sub.CurrentPeriodStart), periodDate(sub.CurrentPeriodEnd)))
	}
	if sub.Amount != nil {
		row("Amount", money.Format(*sub.Amount)+" "+Dim(sub.Currency))
	}
	if sub.PaymentProvider != "" {
		row("Provider", sub.PaymentProvider)
	}
	if res != nil {
		source := string(res.Source)
		if res.Err != nil {
			source += Dim(" (" + res.Err.Error() + ")")
		}
		row("Source", source)
	}
	return RenderBox("Subscription", strings.TrimRight(b.String(), "\n"))
}

func periodDate(t *time.Time) string {
	if t == nil {
		return "?"
	}
	return t.Format("2006-01-02")
}

// FormatAgencies renders companies as a table.
func FormatAgencies(agencies []*domain.Agency) string {
	rows := make([][]string, 0, len(agencies))
	for _, a := range agencies {
		rows = append(rows, []string{
			TruncID(a.ID),
			Bold(a.Name),
			a.CNPJ,
			Truncate(a.Description, 40),
			a.CreatedAt.Format("2006-01-02"),
		})
	}
	return RenderTable([]string{"ID", "NAME", "CNPJ", "DESCRIPTION", "CREATED"}, rows)
}

// FormatMembers renders agency members.
func FormatMembers(members []*domain.AgencyMember) string {
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		role := string(m.Role)
		if m.Role == domain.MemberOwner {
			role = StyleHeader.Render(role)
		}
		rows = append(rows, []string{m.UserID, role, m.CreatedAt.Format("2006-01-02")})
	}
	return RenderTable([]string{"USER", "ROLE", "SINCE"}, rows)
}

// FormatNotifications renders pending reminders.
func FormatNotifications(ns []*domain.Notification) string {
	rows := make([][]string, 0, len(ns))
	for _, n := range ns {
		at := Dim("now")
		if n.ScheduleAt != nil {
			at = n.ScheduleAt.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{fmt.Sprint(n.ID), at, Bold(n.Title), Truncate(n.Body, 48)})
	}
	return RenderTable([]string{"ID", "AT", "TITLE", "BODY"}, rows)
}
