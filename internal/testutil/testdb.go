package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/financeflow/flowdesk/internal/auth"
	"github.com/financeflow/flowdesk/internal/db"
	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/store"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestStore returns a store client acting as caller. A nil caller is
// signed out.
func NewTestStore(database *sql.DB, caller *domain.Caller) *store.Client {
	return store.New(database, auth.Static{Caller: caller})
}

// SeedProfile inserts a profile row for caller directly, bypassing row
// policies, and returns caller for chaining.
func SeedProfile(t *testing.T, database *sql.DB, caller *domain.Caller, opts ...ProfileOption) *domain.Caller {
	t.Helper()
	p := &domain.Profile{
		ID:           caller.ID,
		Email:        caller.Email,
		Name:         caller.ID,
		UserType:     "individual",
		Subscription: string(domain.PlanFree),
	}
	for _, opt := range opts {
		opt(p)
	}
	now := time.Now().UTC().Format(store.TimestampLayout)
	var data any
	if p.SubscriptionData != nil {
		data = string(p.SubscriptionData)
	}
	_, err := database.Exec(`INSERT INTO profiles
		(id, email, name, user_type, subscription, subscription_data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Email, p.Name, p.UserType, p.Subscription, data, now, now)
	if err != nil {
		t.Fatalf("seeding profile %s: %v", p.ID, err)
	}
	return caller
}
