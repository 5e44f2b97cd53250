package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/financeflow/flowdesk/internal/db"
	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/store"
)

// SQLiteNotificationRepo stores locally scheduled reminders. Notifications
// belong to the device, not to a user, so they live outside the store
// gateway and its row policies.
type SQLiteNotificationRepo struct {
	db db.DBTX
}

func NewSQLiteNotificationRepo(conn db.DBTX) *SQLiteNotificationRepo {
	return &SQLiteNotificationRepo{db: conn}
}

const notificationColumns = `id, title, body, schedule_at, extra, group_name, state, created_at, delivered_at`

func (r *SQLiteNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	extra, err := json.Marshal(n.Extra)
	if err != nil {
		return fmt.Errorf("encoding notification extra: %w", err)
	}
	if n.State == "" {
		n.State = domain.NotificationPending
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO notifications (`+notificationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID,
		n.Title,
		n.Body,
		nullableTimeToString(n.ScheduleAt),
		string(extra),
		n.Group,
		string(n.State),
		n.CreatedAt.UTC().Format(store.TimestampLayout),
		nullableTimeToString(n.DeliveredAt),
	)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

func (r *SQLiteNotificationRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("checking notification %d: %w", id, err)
	}
	return n > 0, nil
}

func (r *SQLiteNotificationRepo) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id)
	n, err := scanNotification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("notification %d: %w", id, ErrNotFound)
	}
	return n, err
}

// ListPending returns pending notifications in schedule order; immediate
// ones first.
func (r *SQLiteNotificationRepo) ListPending(ctx context.Context) ([]*domain.Notification, error) {
	return r.list(ctx, `SELECT `+notificationColumns+` FROM notifications
		WHERE state = 'pending'
		ORDER BY schedule_at IS NOT NULL, schedule_at, id`)
}

// ListDue returns pending notifications scheduled at or before now.
func (r *SQLiteNotificationRepo) ListDue(ctx context.Context, now time.Time) ([]*domain.Notification, error) {
	return r.list(ctx, `SELECT `+notificationColumns+` FROM notifications
		WHERE state = 'pending' AND (schedule_at IS NULL OR schedule_at <= ?)
		ORDER BY schedule_at IS NOT NULL, schedule_at, id`,
		now.UTC().Format(store.TimestampLayout))
}

func (r *SQLiteNotificationRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var out []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *SQLiteNotificationRepo) MarkDelivered(ctx context.Context, id int64, at time.Time) error {
	return r.setState(ctx, id, domain.NotificationDelivered, &at)
}

func (r *SQLiteNotificationRepo) Cancel(ctx context.Context, id int64) error {
	return r.setState(ctx, id, domain.NotificationCancelled, nil)
}

// CancelAll cancels every pending notification and returns how many.
func (r *SQLiteNotificationRepo) CancelAll(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET state = 'cancelled' WHERE state = 'pending'`)
	if err != nil {
		return 0, fmt.Errorf("cancelling notifications: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cancelling notifications: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteNotificationRepo) setState(ctx context.Context, id int64, state domain.NotificationState, at *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET state = ?, delivered_at = COALESCE(?, delivered_at)
		 WHERE id = ? AND state = 'pending'`,
		string(state), nullableTimeToString(at), id)
	if err != nil {
		return fmt.Errorf("updating notification %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating notification %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("pending notification %d: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNotification(s scanner) (*domain.Notification, error) {
	var (
		n                       domain.Notification
		scheduleAt, deliveredAt sql.NullString
		extra, state, createdAt string
	)
	err := s.Scan(&n.ID, &n.Title, &n.Body, &scheduleAt, &extra, &n.Group, &state, &createdAt, &deliveredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning notification: %w", err)
	}
	n.State = domain.NotificationState(state)
	n.ScheduleAt = parseNullTimeString(scheduleAt)
	n.DeliveredAt = parseNullTimeString(deliveredAt)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		n.CreatedAt = t
	}
	// Malformed extra data is dropped rather than failing the list.
	_ = json.Unmarshal([]byte(extra), &n.Extra)
	return &n, nil
}

func parseNullTimeString(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableTimeToString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(store.TimestampLayout)
}
