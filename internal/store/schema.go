package store

import (
	"context"
	"fmt"
	"time"

	"github.com/financeflow/flowdesk/internal/db"
	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/google/uuid"
)

// Collection names.
const (
	Profiles      = "profiles"
	KanbanBoards  = "kanban_boards"
	Expenses      = "expenses"
	Agencies      = "agencies"
	AgencyMembers = "agency_members"
)

// policy is a row-level rule. using filters rows for select, update and
// delete; check validates a new row before insert.
type policy struct {
	using func(c *domain.Caller) (string, []any)
	check func(ctx context.Context, conn db.DBTX, c *domain.Caller, row Row) error
}

type collection struct {
	name    string
	columns []string
	json    map[string]bool
	// immutable columns cannot appear in an update patch.
	immutable map[string]bool
	// generated columns are filled on insert when absent.
	generatedID bool
	timestamps  bool
	policy      policy
}

func (c *collection) hasColumn(name string) bool {
	for _, col := range c.columns {
		if col == name {
			return true
		}
	}
	return false
}

func (c *collection) fillDefaults(row Row, now time.Time) {
	if c.generatedID {
		if v, ok := row["id"]; !ok || v == nil || v == "" {
			row["id"] = uuid.New().String()
		}
	}
	if c.timestamps {
		ts := now.UTC().Format(TimestampLayout)
		if _, ok := row["created_at"]; !ok {
			row["created_at"] = ts
		}
		if c.hasColumn("updated_at") {
			if _, ok := row["updated_at"]; !ok {
				row["updated_at"] = ts
			}
		}
	}
}

const memberAgencies = `SELECT agency_id FROM agency_members WHERE user_id = ?`

var collections = map[string]*collection{
	Profiles: {
		name: Profiles,
		columns: []string{"id", "email", "name", "user_type", "subscription",
			"subscription_data", "created_at", "updated_at"},
		json:       map[string]bool{"subscription_data": true},
		immutable:  map[string]bool{"id": true, "user_type": true},
		timestamps: true,
		policy: policy{
			using: func(c *domain.Caller) (string, []any) {
				return "id = ?", []any{c.ID}
			},
			check: func(_ context.Context, _ db.DBTX, c *domain.Caller, row Row) error {
				if row["id"] != c.ID {
					return ErrPermissionDenied
				}
				return nil
			},
		},
	},
	Expenses: {
		name: Expenses,
		columns: []string{"id", "user_id", "description", "value", "category",
			"month", "created_at", "due_date", "notification_enabled"},
		immutable:   map[string]bool{"id": true, "user_id": true},
		generatedID: true,
		timestamps:  true,
		policy: policy{
			using: func(c *domain.Caller) (string, []any) {
				return "user_id = ?", []any{c.ID}
			},
			check: func(_ context.Context, _ db.DBTX, c *domain.Caller, row Row) error {
				if row["user_id"] != c.ID {
					return ErrPermissionDenied
				}
				return nil
			},
		},
	},
	KanbanBoards: {
		name:        KanbanBoards,
		columns:     []string{"id", "agency_id", "board_data", "user_id", "created_at", "updated_at"},
		json:        map[string]bool{"board_data": true},
		immutable:   map[string]bool{"id": true, "agency_id": true, "user_id": true},
		generatedID: true,
		timestamps:  true,
		policy: policy{
			using: func(c *domain.Caller) (string, []any) {
				return "(user_id = ? OR agency_id IN (" + memberAgencies + "))", []any{c.ID, c.ID}
			},
			check: func(ctx context.Context, conn db.DBTX, c *domain.Caller, row Row) error {
				if agency, ok := row["agency_id"].(string); ok && agency != "" {
					return requireMembership(ctx, conn, c, agency, false)
				}
				if row["user_id"] != c.ID {
					return ErrPermissionDenied
				}
				return nil
			},
		},
	},
	Agencies: {
		name:        Agencies,
		columns:     []string{"id", "name", "owner_id", "cnpj", "description", "created_at"},
		immutable:   map[string]bool{"id": true},
		generatedID: true,
		timestamps:  true,
		policy: policy{
			using: func(c *domain.Caller) (string, []any) {
				if c.IsSuperAdmin() {
					return "1 = 1", nil
				}
				return "(owner_id = ? OR id IN (" + memberAgencies + "))", []any{c.ID, c.ID}
			},
			check: func(_ context.Context, _ db.DBTX, c *domain.Caller, row Row) error {
				if c.IsSuperAdmin() || row["owner_id"] == c.ID {
					return nil
				}
				return ErrPermissionDenied
			},
		},
	},
	AgencyMembers: {
		name:       AgencyMembers,
		columns:    []string{"agency_id", "user_id", "role", "created_at"},
		immutable:  map[string]bool{"agency_id": true, "user_id": true},
		timestamps: true,
		policy: policy{
			using: func(c *domain.Caller) (string, []any) {
				if c.IsSuperAdmin() {
					return "1 = 1", nil
				}
				return "(user_id = ? OR agency_id IN (" + memberAgencies + "))", []any{c.ID, c.ID}
			},
			check: func(ctx context.Context, conn db.DBTX, c *domain.Caller, row Row) error {
				agency, _ := row["agency_id"].(string)
				if agency == "" {
					return fmt.Errorf("%w: agency_id is required", ErrPermissionDenied)
				}
				return requireMembership(ctx, conn, c, agency, true)
			},
		},
	},
}

// requireMembership checks the caller belongs to agency. With manage set
// the caller must own the agency or hold the owner/admin member role.
// Super-admins always pass.
func requireMembership(ctx context.Context, conn db.DBTX, c *domain.Caller, agency string, manage bool) error {
	if c.IsSuperAdmin() {
		return nil
	}
	query := `SELECT COUNT(*) FROM agencies a
		LEFT JOIN agency_members m ON m.agency_id = a.id AND m.user_id = ?
		WHERE a.id = ? AND (a.owner_id = ? OR m.user_id IS NOT NULL)`
	if manage {
		query = `SELECT COUNT(*) FROM agencies a
		LEFT JOIN agency_members m ON m.agency_id = a.id AND m.user_id = ?
		WHERE a.id = ? AND (a.owner_id = ? OR m.role IN ('owner','admin'))`
	}
	var n int
	if err := conn.QueryRowContext(ctx, query, c.ID, agency, c.ID).Scan(&n); err != nil {
		return fmt.Errorf("checking membership: %w", err)
	}
	if n == 0 {
		return ErrPermissionDenied
	}
	return nil
}

func lookupCollection(name string) (*collection, error) {
	c, ok := collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	return c, nil
}
