package cli

import (
	"fmt"
	"strings"

	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/spf13/pflag"
)

// enumFlag is a pflag.Value restricted to a fixed set of values. Legacy
// spellings accepted by parse are normalized on Set.
type enumFlag[T ~string] struct {
	value   *T
	parse   func(string) (T, bool)
	name    string
	choices []T
}

var _ pflag.Value = (*enumFlag[domain.Stage])(nil)

func (f *enumFlag[T]) String() string {
	if f.value == nil {
		return ""
	}
	return string(*f.value)
}

func (f *enumFlag[T]) Set(s string) error {
	v, ok := f.parse(s)
	if !ok {
		names := make([]string, len(f.choices))
		for i, c := range f.choices {
			names[i] = string(c)
		}
		return fmt.Errorf("invalid %s %q (one of: %s)", f.name, s, strings.Join(names, ", "))
	}
	*f.value = v
	return nil
}

func (f *enumFlag[T]) Type() string { return f.name }

func stageValue(v *domain.Stage) *enumFlag[domain.Stage] {
	return &enumFlag[domain.Stage]{value: v, parse: domain.ParseStage, name: "stage", choices: domain.Stages}
}

func priorityValue(v *domain.Priority) *enumFlag[domain.Priority] {
	return &enumFlag[domain.Priority]{
		value: v, parse: domain.ParsePriority, name: "priority",
		choices: []domain.Priority{domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow},
	}
}

func planValue(v *domain.Plan) *enumFlag[domain.Plan] {
	return &enumFlag[domain.Plan]{
		value: v, parse: domain.ParsePlan, name: "plan",
		choices: []domain.Plan{domain.PlanFree, domain.PlanBasic, domain.PlanPremium, domain.PlanEnterprise, domain.PlanEnterpriseAnnual},
	}
}

func statusValue(v *domain.SubscriptionStatus) *enumFlag[domain.SubscriptionStatus] {
	return &enumFlag[domain.SubscriptionStatus]{
		value: v, parse: domain.ParseSubscriptionStatus, name: "status",
		choices: []domain.SubscriptionStatus{domain.SubscriptionActive, domain.SubscriptionInactive, domain.SubscriptionCancelled},
	}
}

var memberRoles = []domain.MemberRole{domain.MemberOwner, domain.MemberAdmin, domain.MemberMember}

func parseMemberRole(s string) (domain.MemberRole, bool) {
	r := domain.MemberRole(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range memberRoles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

func roleValue(v *domain.MemberRole) *enumFlag[domain.MemberRole] {
	return &enumFlag[domain.MemberRole]{value: v, parse: parseMemberRole, name: "role", choices: memberRoles}
}

// addAgencyFlag registers --agency, which switches a command from the
// caller's own board to a company board.
func addAgencyFlag(fs *pflag.FlagSet, agencyID *string) {
	fs.StringVar(agencyID, "agency", "", "Company ID; omit for your own board")
}
