package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Notification is a locally scheduled reminder.
type Notification struct {
	ID          int64
	Title       string
	Body        string
	ScheduleAt  *time.Time
	Extra       NotificationExtra
	Group       string
	State       NotificationState
	CreatedAt   time.Time
	DeliveredAt *time.Time
}

// NotificationExtra carries the data attached to a reminder.
type NotificationExtra struct {
	CostID   string           `json:"costId,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	DueDate  string           `json:"dueDate,omitempty"`
	Category string           `json:"category,omitempty"`
	Type     string           `json:"type,omitempty"`
}

// IsDue reports whether n should be delivered at now.
func (n *Notification) IsDue(now time.Time) bool {
	if n.State != NotificationPending {
		return false
	}
	return n.ScheduleAt == nil || !n.ScheduleAt.After(now)
}
