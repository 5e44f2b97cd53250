package db

import (
	"context"
	"database/sql"
)

// DBTX is the common interface satisfied by both *sql.DB and *sql.Tx.
// The store gateway and the local repositories depend on it so a whole
// operation can be composed inside one transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Beginner starts transactions. Only the root *sql.DB implements it, so
// a DBTX that is not a Beginner is already inside a transaction.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// TimestampLayout is the fixed-width UTC layout used for created_at and
// updated_at so that text ordering matches time ordering.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

var (
	_ Beginner = (*sql.DB)(nil)
	_ DBTX     = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
