package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/financeflow/flowdesk/internal/auth"
	"github.com/financeflow/flowdesk/internal/db"
	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var (
	alice = &domain.Caller{ID: "alice", Email: "alice@x.com", Role: domain.RoleMember}
	bob   = &domain.Caller{ID: "bob", Email: "bob@x.com", Role: domain.RoleMember}
	root  = &domain.Caller{ID: "root", Email: "root@x.com", Role: domain.RoleSuperAdmin}
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	for _, c := range []*domain.Caller{alice, bob, root} {
		_, err := database.Exec(`INSERT INTO profiles (id, email, name, subscription, created_at, updated_at)
			VALUES (?, ?, ?, 'free', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`, c.ID, c.Email, c.ID)
		require.NoError(t, err)
	}
	return database
}

func as(database *sql.DB, caller *domain.Caller) *Client {
	return New(database, auth.Static{Caller: caller})
}

func insertExpense(t *testing.T, c *Client, userID, desc, value, created string) {
	t.Helper()
	res := c.From(Expenses).Insert(Row{
		"user_id":     userID,
		"description": desc,
		"value":       decimal.RequireFromString(value),
		"created_at":  created,
	}).Execute(context.Background())
	require.NoError(t, res.Err)
}

func TestSelect_RowPolicyHidesOtherUsers(t *testing.T) {
	database := openDB(t)
	ctx := context.Background()
	insertExpense(t, as(database, alice), "alice", "FINANCIAL_EXPENSE: a", "10", "2025-01-01T00:00:00.000000Z")
	insertExpense(t, as(database, bob), "bob", "FINANCIAL_EXPENSE: b", "20", "2025-01-01T00:00:00.000000Z")

	res := as(database, alice).From(Expenses).Select().Execute(ctx)
	require.NoError(t, res.Err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "alice", res.Data[0]["user_id"])
	assert.Equal(t, "10", res.Data[0]["value"])

	res = as(database, alice).From(Expenses).Select().Eq("user_id", "bob").Execute(ctx)
	require.NoError(t, res.Err)
	assert.Empty(t, res.Data)
}

func TestInsert_PolicyCheckRejectsForeignOwner(t *testing.T) {
	database := openDB(t)
	res := as(database, alice).From(Expenses).Insert(Row{
		"user_id": "bob", "description": "x", "value": "1",
	}).Execute(context.Background())
	assert.ErrorIs(t, res.Err, ErrPermissionDenied)
}

func TestInsert_FillsGeneratedColumns(t *testing.T) {
	database := openDB(t)
	res := as(database, alice).From(KanbanBoards).Insert(Row{
		"user_id":    "alice",
		"board_data": json.RawMessage(`{"title":"A"}`),
	}).Execute(context.Background())
	require.NoError(t, res.Err)

	row := res.First()
	assert.NotEmpty(t, row["id"])
	assert.NotEmpty(t, row["created_at"])
	assert.Equal(t, json.RawMessage(`{"title":"A"}`), row["board_data"])
}

func TestSelect_OrOrderLimit(t *testing.T) {
	database := openDB(t)
	c := as(database, alice)
	insertExpense(t, c, "alice", "FINANCIAL_INCOME: first", "-5", "2025-01-01T00:00:00.000000Z")
	insertExpense(t, c, "alice", "Office rent", "100", "2025-01-02T00:00:00.000000Z")
	insertExpense(t, c, "alice", "financial_expense: lower", "7", "2025-01-03T00:00:00.000000Z")
	insertExpense(t, c, "alice", "FINANCIAL_EXPENSE: last", "9", "2025-01-04T00:00:00.000000Z")

	res := c.From(Expenses).Select("description", "value").
		Eq("user_id", "alice").
		Or("description.ilike.FINANCIAL_INCOME:%,description.ilike.FINANCIAL_EXPENSE:%").
		Order("created_at", false).
		Limit(2).
		Execute(context.Background())
	require.NoError(t, res.Err)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "FINANCIAL_EXPENSE: last", res.Data[0]["description"])
	assert.Equal(t, "financial_expense: lower", res.Data[1]["description"])
	assert.NotContains(t, res.Data[0], "user_id")
}

func TestSelect_Single(t *testing.T) {
	database := openDB(t)
	c := as(database, alice)
	ctx := context.Background()

	res := c.From(Profiles).Select().Eq("id", "alice").Single().Execute(ctx)
	require.NoError(t, res.Err)
	assert.Equal(t, "alice@x.com", res.First()["email"])

	res = c.From(Profiles).Select().Eq("id", "bob").Single().Execute(ctx)
	assert.ErrorIs(t, res.Err, ErrNoRows)
}

func TestBoards_AgencyMembersShareRecords(t *testing.T) {
	database := openDB(t)
	ctx := context.Background()

	agency := as(database, alice).From(Agencies).Insert(Row{"name": "Studio", "owner_id": "alice"}).Execute(ctx)
	require.NoError(t, agency.Err)
	agencyID := agency.First()["id"].(string)
	require.NoError(t, as(database, alice).From(AgencyMembers).
		Insert(Row{"agency_id": agencyID, "user_id": "alice", "role": "owner"}).Execute(ctx).Err)

	// bob is not a member yet
	res := as(database, bob).From(KanbanBoards).Insert(Row{"agency_id": agencyID, "board_data": "{}"}).Execute(ctx)
	assert.ErrorIs(t, res.Err, ErrPermissionDenied)

	require.NoError(t, as(database, alice).From(AgencyMembers).
		Insert(Row{"agency_id": agencyID, "user_id": "bob", "role": "member"}).Execute(ctx).Err)
	require.NoError(t, as(database, bob).From(KanbanBoards).
		Insert(Row{"agency_id": agencyID, "board_data": "{}"}).Execute(ctx).Err)

	res = as(database, alice).From(KanbanBoards).Select().Eq("agency_id", agencyID).Execute(ctx)
	require.NoError(t, res.Err)
	assert.Len(t, res.Data, 1)

	res = as(database, root).From(KanbanBoards).Select().Eq("agency_id", agencyID).Execute(ctx)
	require.NoError(t, res.Err)
	assert.Empty(t, res.Data, "super-admins still go through board policies")
}

func TestMembers_OnlyManagersCanAdd(t *testing.T) {
	database := openDB(t)
	ctx := context.Background()
	agency := as(database, alice).From(Agencies).Insert(Row{"name": "Studio", "owner_id": "alice"}).Execute(ctx)
	require.NoError(t, agency.Err)
	agencyID := agency.First()["id"].(string)

	res := as(database, bob).From(AgencyMembers).
		Insert(Row{"agency_id": agencyID, "user_id": "bob", "role": "member"}).Execute(ctx)
	assert.ErrorIs(t, res.Err, ErrPermissionDenied)
}

func TestUpdateDelete(t *testing.T) {
	database := openDB(t)
	c := as(database, alice)
	ctx := context.Background()
	ins := c.From(KanbanBoards).Insert(Row{"user_id": "alice", "board_data": "{}"}).Execute(ctx)
	require.NoError(t, ins.Err)
	id := ins.First()["id"]

	assert.ErrorIs(t, c.From(KanbanBoards).Update(Row{"board_data": "{}"}).Execute(ctx).Err, ErrUnfiltered)
	assert.ErrorIs(t, c.From(KanbanBoards).Delete().Execute(ctx).Err, ErrUnfiltered)
	assert.ErrorIs(t, c.From(KanbanBoards).Update(Row{"user_id": "bob"}).Eq("id", id).Execute(ctx).Err, ErrPermissionDenied)

	// bob's update matches nothing under the policy
	res := as(database, bob).From(KanbanBoards).Update(Row{"board_data": `{"title":"x"}`}).Eq("id", id).Execute(ctx)
	require.NoError(t, res.Err)
	assert.Equal(t, 0, res.Count)

	res = c.From(KanbanBoards).Update(Row{"board_data": json.RawMessage(`{"title":"y"}`)}).Eq("id", id).Execute(ctx)
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Count)

	res = c.From(KanbanBoards).Delete().Eq("id", id).Execute(ctx)
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Count)
}

func TestErrors(t *testing.T) {
	database := openDB(t)
	ctx := context.Background()

	assert.ErrorIs(t, as(database, alice).From("payments").Select().Execute(ctx).Err, ErrUnknownCollection)
	assert.ErrorIs(t, as(database, alice).From(Profiles).Select("password").Execute(ctx).Err, ErrUnknownColumn)
	assert.ErrorIs(t, as(database, alice).From(Profiles).Select().Eq("nope", 1).Execute(ctx).Err, ErrUnknownColumn)
	assert.ErrorIs(t, as(database, nil).From(Profiles).Select().Execute(ctx).Err, auth.ErrUnauthenticated)
	assert.Error(t, as(database, alice).From(Profiles).Select().Or("broken").Execute(ctx).Err)
}

func TestRPC_AdminProcedures(t *testing.T) {
	database := openDB(t)
	ctx := context.Background()
	args := map[string]any{"target_user_id": "bob"}

	res := as(database, alice).RPC(ctx, ProcGetProfileForAdmin, args)
	assert.ErrorIs(t, res.Err, ErrPermissionDenied)

	res = as(database, root).RPC(ctx, ProcGetProfileForAdmin, args)
	require.NoError(t, res.Err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "bob@x.com", res.First()["email"])

	res = as(database, root).RPC(ctx, ProcAdminUpdateProfile, map[string]any{
		"target_user_id": "bob",
		"update_data": map[string]any{
			"subscription":      "premium",
			"subscription_data": json.RawMessage(`{"status":"active"}`),
		},
	})
	require.NoError(t, res.Err)
	assert.Equal(t, true, res.First()["updated"])

	res = as(database, bob).From(Profiles).Select("subscription", "subscription_data").Eq("id", "bob").Single().Execute(ctx)
	require.NoError(t, res.Err)
	assert.Equal(t, "premium", res.First()["subscription"])
	assert.JSONEq(t, `{"status":"active"}`, string(res.First()["subscription_data"].(json.RawMessage)))

	res = as(database, root).RPC(ctx, ProcAdminUpdateProfile, map[string]any{
		"target_user_id": "bob",
		"update_data":    map[string]any{"email": "x@y.com"},
	})
	assert.ErrorIs(t, res.Err, ErrUnknownColumn)

	assert.ErrorIs(t, as(database, root).RPC(ctx, "drop_everything", nil).Err, ErrUnknownProcedure)
}

func TestRPC_LookupByEmail(t *testing.T) {
	database := openDB(t)
	res := as(database, alice).RPC(context.Background(), ProcLookupProfileByEmail, map[string]any{"email": " BOB@x.com"})
	require.NoError(t, res.Err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "bob", res.First()["id"])
	assert.NotContains(t, res.First(), "subscription_data")
}

func countExpenses(t *testing.T, database *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM expenses`).Scan(&n))
	return n
}

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	database := openDB(t)
	c := as(database, alice)

	err := c.WithinTx(context.Background(), func(ctx context.Context, tx *Client) error {
		return tx.From(Expenses).Insert(Row{"user_id": "alice", "description": "x", "value": "1"}).Execute(ctx).Err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countExpenses(t, database))
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	database := openDB(t)
	c := as(database, alice)

	err := c.WithinTx(context.Background(), func(ctx context.Context, tx *Client) error {
		res := tx.From(Expenses).Insert(Row{"user_id": "alice", "description": "x", "value": "1"}).Execute(ctx)
		require.NoError(t, res.Err)
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, countExpenses(t, database))
}

func TestWithinTx_RollsBackOnPanic(t *testing.T) {
	database := openDB(t)
	c := as(database, alice)

	assert.Panics(t, func() {
		_ = c.WithinTx(context.Background(), func(ctx context.Context, tx *Client) error {
			tx.From(Expenses).Insert(Row{"user_id": "alice", "description": "x", "value": "1"}).Execute(ctx)
			panic("boom")
		})
	})
	assert.Zero(t, countExpenses(t, database))
}

func TestWithinTx_NestedCallJoinsOuterTransaction(t *testing.T) {
	database := openDB(t)
	c := as(database, alice)

	err := c.WithinTx(context.Background(), func(ctx context.Context, tx *Client) error {
		inner := tx.WithinTx(ctx, func(ctx context.Context, nested *Client) error {
			return nested.From(Expenses).Insert(Row{"user_id": "alice", "description": "x", "value": "1"}).Execute(ctx).Err
		})
		require.NoError(t, inner)
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, countExpenses(t, database), "inner write belongs to the outer transaction")
}

func TestWithinTx_RecordsSpan(t *testing.T) {
	database := openDB(t)
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	c := New(database, auth.Static{Caller: alice}, WithTracer(tp.Tracer("test")))
	err := c.WithinTx(context.Background(), func(ctx context.Context, tx *Client) error {
		return tx.From(Profiles).Select().Execute(ctx).Err
	})
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "store.select", spans[0].Name())
	assert.Equal(t, "store.tx", spans[1].Name())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestSpans_RecordedPerRequest(t *testing.T) {
	database := openDB(t)
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	c := New(database, auth.Static{Caller: alice}, WithTracer(tp.Tracer("test")))
	ctx := context.Background()
	require.NoError(t, c.From(Profiles).Select().Execute(ctx).Err)
	require.Error(t, c.From("nope").Select().Execute(ctx).Err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "store.select", spans[0].Name())
	assert.Equal(t, "store.select", spans[1].Name())
	assert.NotEmpty(t, spans[1].Events(), "failed request records the error")
}

func TestTimestampLayout_SortsLexically(t *testing.T) {
	a := time.Date(2025, 1, 1, 0, 0, 5, 0, time.UTC).Format(TimestampLayout)
	b := time.Date(2025, 1, 1, 0, 0, 5, 100000, time.UTC).Format(TimestampLayout)
	assert.Less(t, a, b)
}
