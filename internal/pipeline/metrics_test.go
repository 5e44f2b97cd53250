package pipeline

import (
	"testing"
	"time"

	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestDaysUntil_CeilBoundaries(t *testing.T) {
	due := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysUntil(due, due))
	assert.Equal(t, 1, DaysUntil(due, due.Add(-time.Millisecond)))
	assert.Equal(t, 1, DaysUntil(due, due.Add(-24*time.Hour)))
	assert.Equal(t, 2, DaysUntil(due, due.Add(-24*time.Hour-time.Millisecond)))
	assert.Equal(t, 0, DaysUntil(due, due.Add(12*time.Hour)))
	assert.Equal(t, -1, DaysUntil(due, due.Add(24*time.Hour)))
}

func TestIsUrgent(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		due  *time.Time
		want bool
	}{
		{"no due date", nil, false},
		{"later today rounds to one day", day(2025, 3, 16), true},
		{"two days", day(2025, 3, 17), true},
		{"three days", day(2025, 3, 18), false},
		{"earlier today is zero", day(2025, 3, 15), true},
		{"yesterday", day(2025, 3, 14), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &domain.Project{DueDate: tc.due, Status: domain.StageShot}
			assert.Equal(t, tc.want, IsUrgent(p, now))
		})
	}
}

func TestOverdueAnchor_FirstInListOrder(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	projects := []*domain.Project{
		{ID: "done", DueDate: day(2020, 1, 1), Status: domain.StageDelivered},
		{ID: "future", DueDate: day(2026, 1, 1), Status: domain.StageShot},
		{ID: "late-a", DueDate: day(2025, 5, 1), Status: domain.StageEditing},
		{ID: "late-b", DueDate: day(2020, 1, 1), Status: domain.StageShot},
	}

	anchor := OverdueAnchor(projects, now)
	require.NotNil(t, anchor)
	assert.Equal(t, "late-a", anchor.ID)
}

func TestCompute_LongOverdueShotProject(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	due := day(2020, 1, 1)
	projects := []*domain.Project{{ID: "p1", DueDate: due, Status: domain.StageShot}}

	m := Compute(projects, now)

	require.NotNil(t, m.Overdue)
	assert.Equal(t, "p1", m.Overdue.ID)
	// 1978 full days plus half a day, rounded up.
	wantDays := int(now.Sub(*due).Hours()/24) + 1
	assert.Equal(t, wantDays, m.DaysOverdue)
	assert.Equal(t, 1979, m.DaysOverdue)
	assert.Equal(t, 0, m.Urgent)
}

func TestCompute_Counts(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	projects := []*domain.Project{
		{ID: "a", Status: domain.StageShot, DueDate: day(2025, 3, 16)},
		{ID: "b", Status: domain.StageEditing},
		{ID: "c", Status: domain.StageEditing},
		{ID: "d", Status: domain.StageDelivered, DueDate: day(2025, 3, 16)},
	}

	m := Compute(projects, now)

	assert.Equal(t, 3, m.Active)
	assert.Equal(t, 1, m.Completed)
	assert.Equal(t, 2, m.Urgent)
	assert.Nil(t, m.Overdue)
	assert.Equal(t, 1, m.ColumnCounts[domain.StageShot])
	assert.Equal(t, 2, m.ColumnCounts[domain.StageEditing])
	assert.Equal(t, 0, m.ColumnCounts[domain.StageReview])
	assert.Equal(t, 1, m.ColumnCounts[domain.StageDelivered])
}

func TestColumns_PreservesOrder(t *testing.T) {
	projects := []*domain.Project{
		{ID: "1", Status: domain.StageReview},
		{ID: "2", Status: domain.StageShot},
		{ID: "3", Status: domain.StageReview},
	}
	cols := Columns(projects)
	require.Len(t, cols[domain.StageReview], 2)
	assert.Equal(t, "1", cols[domain.StageReview][0].ID)
	assert.Equal(t, "3", cols[domain.StageReview][1].ID)
	assert.Nil(t, FindByID(projects, "9"))
	assert.Equal(t, "2", FindByID(projects, "2").ID)
}
