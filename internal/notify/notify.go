// Package notify schedules local reminders for financial entries and
// delivers them when they fall due.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/ledger"
	"github.com/financeflow/flowdesk/internal/repository"
	"go.uber.org/zap"
)

const (
	// Group tags every reminder scheduled by flowdesk.
	Group       = "finance-flow"
	titlePrefix = "💰 "
)

// ErrPermissionDenied is returned by Schedule when notifications are not
// allowed on this device.
var ErrPermissionDenied = errors.New("notification permission denied")

// Permissions asks the platform whether notifications may be shown.
type Permissions interface {
	Request(ctx context.Context) (bool, error)
}

// StaticPermissions answers every request with Granted.
type StaticPermissions struct {
	Granted bool
}

func (p StaticPermissions) Request(context.Context) (bool, error) { return p.Granted, nil }

// Payload is the content of a reminder before scheduling.
type Payload struct {
	Title string
	Body  string
	Data  domain.NotificationExtra
}

type Service struct {
	repo  repository.NotificationRepo
	perms Permissions
	log   *zap.Logger
	now   func() time.Time

	mu          sync.Mutex
	initialized bool
	granted     bool
	lastID      int64
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo repository.NotificationRepo, perms Permissions, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		perms: perms,
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestPermission asks once and remembers the answer. A failed request
// is logged and treated as denied but not remembered, so a later call
// asks again.
func (s *Service) RequestPermission(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requestLocked(ctx)
}

func (s *Service) requestLocked(ctx context.Context) bool {
	if s.initialized {
		return s.granted
	}
	granted, err := s.perms.Request(ctx)
	if err != nil {
		s.log.Error("requesting notification permission", zap.Error(err))
		return false
	}
	s.initialized = true
	s.granted = granted
	if granted {
		s.log.Info("notification permission granted")
	} else {
		s.log.Info("notification permission denied")
	}
	return granted
}

// Schedule stores a pending reminder. A nil at delivers as soon as the
// dispatcher runs. The returned id is the current time in milliseconds,
// bumped when it would collide with an earlier reminder.
func (s *Service) Schedule(ctx context.Context, p Payload, at *time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.requestLocked(ctx) {
		return 0, ErrPermissionDenied
	}

	id, err := s.nextIDLocked(ctx)
	if err != nil {
		return 0, err
	}
	n := &domain.Notification{
		ID:         id,
		Title:      titlePrefix + p.Title,
		Body:       p.Body,
		ScheduleAt: at,
		Extra:      p.Data,
		Group:      Group,
		State:      domain.NotificationPending,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.log.Error("scheduling notification", zap.String("title", n.Title), zap.Error(err))
		return 0, fmt.Errorf("scheduling notification: %w", err)
	}
	s.log.Debug("notification scheduled", zap.Int64("id", id), zap.Timep("at", at))
	return id, nil
}

func (s *Service) nextIDLocked(ctx context.Context) (int64, error) {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	for {
		exists, err := s.repo.Exists(ctx, id)
		if err != nil {
			return 0, err
		}
		if !exists {
			break
		}
		id++
	}
	s.lastID = id
	return id, nil
}

// ScheduleExpenseReminder schedules the "one day before" and "due today"
// reminders for tx when it has a due date and reminders enabled. Only
// reminders still in the future are scheduled. Failures are logged.
func (s *Service) ScheduleExpenseReminder(ctx context.Context, tx *domain.Transaction) []int64 {
	if tx.DueDate == nil || !tx.NotificationEnabled {
		return nil
	}

	now := s.now()
	due := *tx.DueDate
	isIncome := ledger.HasIncomeTag(tx.Description) || tx.Value.IsNegative()
	amount := tx.Value.Abs()
	money := "R$ " + amount.StringFixed(2)
	head := ledger.HeadDescription(tx.Description)

	kind := "expense"
	if isIncome {
		kind = "income"
	}
	data := domain.NotificationExtra{
		CostID:   tx.ID,
		Amount:   &amount,
		DueDate:  due.Format(domain.DueDateLayout),
		Category: tx.Category,
		Type:     kind,
	}

	var ids []int64
	schedule := func(p Payload, at time.Time) {
		id, err := s.Schedule(ctx, p, &at)
		if err != nil {
			s.log.Warn("expense reminder not scheduled", zap.String("cost_id", tx.ID), zap.Error(err))
			return
		}
		ids = append(ids, id)
	}

	dayBefore := due.AddDate(0, 0, -1)
	if dayBefore.After(now) {
		if isIncome {
			schedule(Payload{
				Title: "Finance Flow - Cobrança em 1 dia",
				Body:  fmt.Sprintf("Lembre-se de cobrar: %s - %s", head, money),
				Data:  data,
			}, dayBefore)
		} else {
			schedule(Payload{
				Title: "Finance Flow - Vencimento em 1 dia",
				Body:  fmt.Sprintf("%s vence amanhã - %s", head, money),
				Data:  data,
			}, dayBefore)
		}
	}

	if due.After(now) {
		if isIncome {
			schedule(Payload{
				Title: "Finance Flow - Hora de cobrar!",
				Body:  fmt.Sprintf("Vence hoje: %s - %s", head, money),
				Data:  data,
			}, due)
		} else {
			schedule(Payload{
				Title: "Finance Flow - Vencimento hoje!",
				Body:  fmt.Sprintf("%s vence hoje - %s", head, money),
				Data:  data,
			}, due)
		}
	}
	return ids
}

// Cancel cancels one pending reminder. Errors are logged, not returned.
func (s *Service) Cancel(ctx context.Context, id int64) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.log.Warn("cancelling notification", zap.Int64("id", id), zap.Error(err))
		return
	}
	if n.State != domain.NotificationPending {
		s.log.Info("notification not pending", zap.Int64("id", id), zap.String("state", string(n.State)))
		return
	}
	if err := s.repo.Cancel(ctx, id); err != nil {
		s.log.Error("cancelling notification", zap.Int64("id", id), zap.Error(err))
		return
	}
	s.log.Info("notification cancelled", zap.Int64("id", id))
}

// CancelAll cancels every pending reminder. Errors are logged, not returned.
func (s *Service) CancelAll(ctx context.Context) {
	n, err := s.repo.CancelAll(ctx)
	if err != nil {
		s.log.Error("cancelling all notifications", zap.Error(err))
		return
	}
	s.log.Info("all notifications cancelled", zap.Int("count", n))
}

// CancelForCost cancels the pending reminders attached to a financial
// entry and returns how many were cancelled.
func (s *Service) CancelForCost(ctx context.Context, costID string) int {
	pending, err := s.repo.ListPending(ctx)
	if err != nil {
		s.log.Error("listing notifications", zap.Error(err))
		return 0
	}
	cancelled := 0
	for _, n := range pending {
		if n.Extra.CostID != costID {
			continue
		}
		if err := s.repo.Cancel(ctx, n.ID); err != nil {
			s.log.Error("cancelling notification", zap.Int64("id", n.ID), zap.Error(err))
			continue
		}
		cancelled++
	}
	return cancelled
}

// Pending lists reminders that have not been delivered or cancelled.
func (s *Service) Pending(ctx context.Context) ([]*domain.Notification, error) {
	return s.repo.ListPending(ctx)
}
