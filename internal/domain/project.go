package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrTitleAndClientRequired is returned when a project is saved without
// a title or a client name.
var ErrTitleAndClientRequired = errors.New("fill in at least the title and client")

// DueDateLayout is the calendar format used for project due dates.
const DueDateLayout = "2006-01-02"

// Scope selects whose board a project belongs to: an individual user or
// an agency. Exactly one of the two is set.
type Scope struct {
	UserID   string
	AgencyID string
}

func IndividualScope(userID string) Scope { return Scope{UserID: userID} }
func AgencyScope(agencyID string) Scope   { return Scope{AgencyID: agencyID} }

// IsAgency reports whether the scope is an agency context.
func (s Scope) IsAgency() bool { return s.AgencyID != "" }

// Validate checks the user/agency exclusivity invariant.
func (s Scope) Validate() error {
	switch {
	case s.UserID == "" && s.AgencyID == "":
		return fmt.Errorf("scope requires a user or an agency")
	case s.UserID != "" && s.AgencyID != "":
		return fmt.Errorf("scope cannot be both user %s and agency %s", s.UserID, s.AgencyID)
	}
	return nil
}

func (s Scope) String() string {
	if s.IsAgency() {
		return "agency:" + s.AgencyID
	}
	return "individual"
}

// Project is a delivery card on the kanban board.
type Project struct {
	ID          string
	Title       string
	Client      string
	DueDate     *time.Time
	Priority    Priority
	Status      Stage
	Description string
	Links       []string
	Scope       Scope
	// AuthorID is the user who last saved the card.
	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate enforces the minimum fields required to save a project.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Client) == "" {
		return ErrTitleAndClientRequired
	}
	if p.Status != "" && p.Status.Index() < 0 {
		return fmt.Errorf("invalid status %q", p.Status)
	}
	if p.Priority != "" {
		if _, ok := ParsePriority(string(p.Priority)); !ok {
			return fmt.Errorf("invalid priority %q", p.Priority)
		}
	}
	return nil
}

// DueDateString returns the due date in DueDateLayout or "".
func (p *Project) DueDateString() string {
	if p.DueDate == nil {
		return ""
	}
	return p.DueDate.Format(DueDateLayout)
}

// WithStatus returns a copy of p moved to stage s. Links are copied so the
// result can be saved without aliasing the original slice.
func (p *Project) WithStatus(s Stage) *Project {
	cp := *p
	cp.Status = s
	cp.Links = append([]string(nil), p.Links...)
	return &cp
}

// ParseDueDate parses a calendar date as UTC midnight. Full RFC3339
// timestamps are accepted too.
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(DueDateLayout, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q: use YYYY-MM-DD", s)
	}
	t = t.UTC()
	return &t, nil
}
