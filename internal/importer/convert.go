package importer

import (
	"fmt"
	"strings"

	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/ledger"
	"github.com/financeflow/flowdesk/internal/service"
)

// Entry is an imported financial entry ready for the finance service.
type Entry struct {
	Kind  ledger.Kind
	Input service.EntryInput
}

// Converted is the content of a validated import file.
type Converted struct {
	Projects []*domain.Project
	Entries  []Entry
}

// Convert turns a validated schema into domain values. Call
// ValidateImportSchema first; Convert assumes the schema is valid.
// Projects get no ID or scope; the board service assigns those on create.
func Convert(schema *ImportSchema) (*Converted, error) {
	out := &Converted{
		Projects: make([]*domain.Project, 0, len(schema.Projects)),
		Entries:  make([]Entry, 0, len(schema.Entries)),
	}

	for i, p := range schema.Projects {
		project := &domain.Project{
			Title:       strings.TrimSpace(p.Title),
			Client:      strings.TrimSpace(p.Client),
			Priority:    domain.PriorityMedium,
			Status:      domain.StageShot,
			Description: p.Description,
			Links:       append([]string{}, p.Links...),
		}
		if p.Status != "" {
			project.Status, _ = domain.ParseStage(p.Status)
		}
		if p.Priority != "" {
			project.Priority, _ = domain.ParsePriority(p.Priority)
		}
		if p.DueDate != nil {
			due, err := domain.ParseDueDate(*p.DueDate)
			if err != nil {
				return nil, fmt.Errorf("projects[%d]: %w", i, err)
			}
			project.DueDate = due
		}
		out.Projects = append(out.Projects, project)
	}

	for i, e := range schema.Entries {
		kind := ledger.KindExpense
		if strings.EqualFold(e.Kind, "income") {
			kind = ledger.KindIncome
		}
		in := service.EntryInput{
			Description:   strings.TrimSpace(e.Description),
			PaymentMethod: e.PaymentMethod,
			Counterparty:  e.Counterparty,
			Date:          e.Date,
			Paid:          e.Paid,
			Amount:        e.Amount,
			Category:      e.Category,
			Remind:        e.Remind,
		}
		if e.DueDate != nil {
			due, err := domain.ParseDueDate(*e.DueDate)
			if err != nil {
				return nil, fmt.Errorf("entries[%d]: %w", i, err)
			}
			in.DueDate = due
		}
		out.Entries = append(out.Entries, Entry{Kind: kind, Input: in})
	}

	return out, nil
}
