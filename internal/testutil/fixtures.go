package testutil

import (
	"encoding/json"
	"time"

	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/google/uuid"
)

// NewTestCaller returns a member caller with an email derived from id.
func NewTestCaller(id string) *domain.Caller {
	return &domain.Caller{ID: id, Email: id + "@example.com", Role: domain.RoleMember}
}

// NewTestAdmin returns a super-admin caller.
func NewTestAdmin(id string) *domain.Caller {
	c := NewTestCaller(id)
	c.Role = domain.RoleSuperAdmin
	return c
}

// Profile options
type ProfileOption func(*domain.Profile)

func WithPlan(plan domain.Plan) ProfileOption {
	return func(p *domain.Profile) {
		p.Subscription = string(plan)
	}
}

func WithSubscriptionData(raw string) ProfileOption {
	return func(p *domain.Profile) {
		p.SubscriptionData = json.RawMessage(raw)
	}
}

func WithUserType(userType string) ProfileOption {
	return func(p *domain.Profile) {
		p.UserType = userType
	}
}

// Project options
type ProjectOption func(*domain.Project)

func WithDueDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.DueDate = &d
	}
}

func WithStatus(s domain.Stage) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithPriority(pr domain.Priority) ProjectOption {
	return func(p *domain.Project) {
		p.Priority = pr
	}
}

func WithScope(s domain.Scope) ProjectOption {
	return func(p *domain.Project) {
		p.Scope = s
	}
}

func WithLinks(links ...string) ProjectOption {
	return func(p *domain.Project) {
		p.Links = links
	}
}

func WithClient(client string) ProjectOption {
	return func(p *domain.Project) {
		p.Client = client
	}
}

// NewTestProject builds an unsaved individual project owned by "user-1".
func NewTestProject(title string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Title:     title,
		Client:    "Test Client",
		Priority:  domain.PriorityMedium,
		Status:    domain.StageShot,
		Links:     []string{},
		Scope:     domain.IndividualScope("user-1"),
		AuthorID:  "user-1",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
