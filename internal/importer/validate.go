package importer

import (
	"fmt"
	"strings"

	"github.com/financeflow/flowdesk/internal/domain"
)

var validKinds = map[string]bool{"income": true, "expense": true}

// ValidateImportSchema checks the whole file before anything is written
// and returns every problem found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error
	if len(schema.Projects) == 0 && len(schema.Entries) == 0 {
		return []error{fmt.Errorf("import file has no projects or entries")}
	}
	for i := range schema.Projects {
		errs = append(errs, validateProject(fmt.Sprintf("projects[%d]", i), &schema.Projects[i])...)
	}
	for i := range schema.Entries {
		errs = append(errs, validateEntry(fmt.Sprintf("entries[%d]", i), &schema.Entries[i])...)
	}
	return errs
}

func validateProject(prefix string, p *ProjectImport) []error {
	var errs []error

	if strings.TrimSpace(p.Title) == "" {
		errs = append(errs, fmt.Errorf("%s.title is required", prefix))
	}
	if strings.TrimSpace(p.Client) == "" {
		errs = append(errs, fmt.Errorf("%s.client is required", prefix))
	}
	if p.Status != "" {
		if _, ok := domain.ParseStage(p.Status); !ok {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, p.Status))
		}
	}
	if p.Priority != "" {
		if _, ok := domain.ParsePriority(p.Priority); !ok {
			errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", prefix, p.Priority))
		}
	}
	errs = append(errs, validateDate(prefix+".due_date", p.DueDate)...)

	return errs
}

func validateEntry(prefix string, e *EntryImport) []error {
	var errs []error

	if !validKinds[strings.ToLower(e.Kind)] {
		errs = append(errs, fmt.Errorf("%s.kind: invalid value %q (expected income or expense)", prefix, e.Kind))
	}
	if strings.TrimSpace(e.Description) == "" {
		errs = append(errs, fmt.Errorf("%s.description is required", prefix))
	}
	if !e.Amount.IsPositive() {
		errs = append(errs, fmt.Errorf("%s.amount must be positive", prefix))
	}
	if e.Date != "" {
		errs = append(errs, validateDate(prefix+".date", &e.Date)...)
	}
	errs = append(errs, validateDate(prefix+".due_date", e.DueDate)...)
	if e.Remind && e.DueDate == nil {
		errs = append(errs, fmt.Errorf("%s.remind requires due_date", prefix))
	}

	return errs
}

func validateDate(field string, s *string) []error {
	if s == nil {
		return nil
	}
	if _, err := domain.ParseDueDate(*s); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *s)}
	}
	return nil
}
