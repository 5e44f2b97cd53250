package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE statements re-run on every start.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillBoardOwner(db); err != nil {
		return fmt.Errorf("backfilling board owners: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id                TEXT PRIMARY KEY,
		email             TEXT NOT NULL DEFAULT '',
		name              TEXT NOT NULL DEFAULT '',
		user_type         TEXT NOT NULL DEFAULT 'individual',
		subscription      TEXT NOT NULL DEFAULT 'free',
		subscription_data TEXT,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_email ON profiles(email) WHERE email != ''`,

	`CREATE TABLE IF NOT EXISTS agencies (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		owner_id    TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		cnpj        TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS agency_members (
		agency_id  TEXT NOT NULL REFERENCES agencies(id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		role       TEXT NOT NULL DEFAULT 'member'
		           CHECK(role IN ('owner','admin','member')),
		created_at TEXT NOT NULL,
		PRIMARY KEY (agency_id, user_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_agency_members_user ON agency_members(user_id)`,

	`CREATE TABLE IF NOT EXISTS kanban_boards (
		id         TEXT PRIMARY KEY,
		agency_id  TEXT REFERENCES agencies(id) ON DELETE CASCADE,
		user_id    TEXT,
		board_data TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_kanban_boards_user ON kanban_boards(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_kanban_boards_agency ON kanban_boards(agency_id)`,

	`CREATE TABLE IF NOT EXISTS expenses (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		description TEXT NOT NULL,
		value       TEXT NOT NULL,
		category    TEXT NOT NULL DEFAULT '',
		month       TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_expenses_user ON expenses(user_id)`,

	// Reminder columns arrived after the first release.
	`ALTER TABLE expenses ADD COLUMN due_date TEXT`,
	`ALTER TABLE expenses ADD COLUMN notification_enabled INTEGER NOT NULL DEFAULT 0`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id           INTEGER PRIMARY KEY,
		title        TEXT NOT NULL,
		body         TEXT NOT NULL,
		schedule_at  TEXT,
		extra        TEXT NOT NULL DEFAULT '{}',
		group_name   TEXT NOT NULL DEFAULT '',
		state        TEXT NOT NULL DEFAULT 'pending'
		             CHECK(state IN ('pending','delivered','cancelled')),
		created_at   TEXT NOT NULL,
		delivered_at TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_notifications_state ON notifications(state, schedule_at)`,
}

// migrateBackfillBoardOwner copies board_data.user_id into the user_id
// column for individual boards written before the column was populated.
// Idempotent: only touches rows with a NULL user_id and no agency.
func migrateBackfillBoardOwner(db *sql.DB) error {
	ctx := context.Background()
	_, err := db.ExecContext(ctx, `UPDATE kanban_boards
		SET user_id = json_extract(board_data, '$.user_id')
		WHERE user_id IS NULL AND agency_id IS NULL
		  AND json_valid(board_data)
		  AND json_extract(board_data, '$.user_id') IS NOT NULL`)
	if err != nil {
		return fmt.Errorf("updating kanban_boards.user_id: %w", err)
	}
	return nil
}
