package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/financeflow/flowdesk/internal/db"
	"github.com/financeflow/flowdesk/internal/store"
)

// FailingExecUoW is a store.UnitOfWork whose transaction rejects any
// ExecContext call whose statement contains Match. Reads pass through, so
// multi-write operations can be failed at a precise write to check
// rollback.
type FailingExecUoW struct {
	DB     *sql.DB
	Client *store.Client
	Match  string
	Err    error
}

func (u *FailingExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *store.Client) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	conn := &failingExec{DBTX: tx, match: u.Match, err: u.Err}
	if fnErr := fn(ctx, u.Client.WithConn(conn)); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failingExec struct {
	db.DBTX
	match string
	err   error
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if strings.Contains(query, f.match) {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
