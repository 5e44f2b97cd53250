// Package pipeline computes the derived figures shown on the kanban board.
// Everything here is pure and recomputed on every render.
package pipeline

import (
	"math"
	"time"

	"github.com/financeflow/flowdesk/internal/domain"
)

const msPerDay = 86_400_000

// UrgentWindowDays is the inclusive upper bound of the urgent badge.
const UrgentWindowDays = 2

// DaysUntil returns ceil((due - now) / 1 day) measured in milliseconds.
// The result is negative once due has passed by more than a day.
func DaysUntil(due, now time.Time) int {
	return ceilDays(due.Sub(now))
}

// DaysOverdue returns ceil((now - due) / 1 day).
func DaysOverdue(due, now time.Time) int {
	return ceilDays(now.Sub(due))
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(float64(d.Milliseconds()) / msPerDay))
}

// IsUrgent reports whether p has a due date within the urgent window.
func IsUrgent(p *domain.Project, now time.Time) bool {
	if p.DueDate == nil {
		return false
	}
	days := DaysUntil(*p.DueDate, now)
	return days >= 0 && days <= UrgentWindowDays
}

// IsOverdue reports whether p is past due and not yet delivered.
func IsOverdue(p *domain.Project, now time.Time) bool {
	return p.DueDate != nil && p.DueDate.Before(now) && p.Status != domain.StageDelivered
}

// OverdueAnchor returns the first project in list order that is overdue,
// or nil.
func OverdueAnchor(projects []*domain.Project, now time.Time) *domain.Project {
	for _, p := range projects {
		if IsOverdue(p, now) {
			return p
		}
	}
	return nil
}

type Metrics struct {
	Active    int
	Completed int
	Urgent    int
	// Overdue is the anchor project for the overdue banner.
	Overdue      *domain.Project
	DaysOverdue  int
	ColumnCounts map[domain.Stage]int
}

// Compute derives board metrics for projects at now.
func Compute(projects []*domain.Project, now time.Time) Metrics {
	m := Metrics{ColumnCounts: make(map[domain.Stage]int, len(domain.Stages))}
	for _, st := range domain.Stages {
		m.ColumnCounts[st] = 0
	}

	for _, p := range projects {
		m.ColumnCounts[p.Status]++
		if p.Status == domain.StageDelivered {
			m.Completed++
		} else {
			m.Active++
		}
		if IsUrgent(p, now) {
			m.Urgent++
		}
	}

	if anchor := OverdueAnchor(projects, now); anchor != nil {
		m.Overdue = anchor
		m.DaysOverdue = DaysOverdue(*anchor.DueDate, now)
	}
	return m
}

// Columns groups projects by stage, keeping list order inside each column.
func Columns(projects []*domain.Project) map[domain.Stage][]*domain.Project {
	cols := make(map[domain.Stage][]*domain.Project, len(domain.Stages))
	for _, p := range projects {
		cols[p.Status] = append(cols[p.Status], p)
	}
	return cols
}

// FindByID returns the project with id from projects, or nil.
func FindByID(projects []*domain.Project, id string) *domain.Project {
	for _, p := range projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}
