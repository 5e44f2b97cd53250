package store

import (
	"context"
	"fmt"

	"github.com/financeflow/flowdesk/internal/db"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// UnitOfWork runs fn against a Client bound to a single transaction.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx *Client) error) error
}

var _ UnitOfWork = (*Client)(nil)

// WithinTx begins a transaction and hands fn a copy of c bound to it. The
// transaction commits when fn returns nil and rolls back otherwise, panics
// included. A client already bound to a transaction runs fn inside it.
func (c *Client) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *Client) error) (err error) {
	b, ok := c.conn.(db.Beginner)
	if !ok {
		return fn(ctx, c)
	}

	ctx, span := c.tracer.Start(ctx, "store.tx", trace.WithAttributes(attribute.String("db.system", "sqlite")))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := b.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, c.WithConn(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			c.log.Warn("store rollback failed", zap.Error(rbErr), zap.NamedError("cause", err))
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
