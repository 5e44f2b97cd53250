// Package store is the gateway every feature uses to read and write
// persisted records. Requests are composed with a small query builder
// (collection, filters, order, limit) and executed on behalf of the
// authenticated caller; row policies decide which records the caller can
// see or change. Privileged procedures are exposed through RPC.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/financeflow/flowdesk/internal/auth"
	"github.com/financeflow/flowdesk/internal/db"
	"github.com/financeflow/flowdesk/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/financeflow/flowdesk/internal/store"

var (
	ErrPermissionDenied  = errors.New("permission denied")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrUnknownColumn     = errors.New("unknown column")
	ErrUnknownProcedure  = errors.New("unknown procedure")
	// ErrNoRows is returned by Single queries that match nothing.
	ErrNoRows = errors.New("no rows returned")
	// ErrMultipleRows is returned by Single queries that match more than one record.
	ErrMultipleRows = errors.New("multiple rows returned")
	// ErrUnfiltered guards update and delete requests without filters.
	ErrUnfiltered = errors.New("update and delete require a filter")
)

// Row is one record keyed by column name. JSON columns are returned as
// json.RawMessage, NULL as nil.
type Row map[string]any

// Result is the outcome of a request. Call sites check Err first.
type Result struct {
	Data  []Row
	Count int
	Err   error
}

// First returns the first row or nil.
func (r Result) First() Row {
	if len(r.Data) == 0 {
		return nil
	}
	return r.Data[0]
}

// Client executes requests against the backing database.
type Client struct {
	conn   db.DBTX
	authn  auth.Authenticator
	log    *zap.Logger
	tracer trace.Tracer
}

type Option func(*Client)

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

// New creates a Client. Without options it logs nowhere and uses the
// global tracer provider.
func New(conn db.DBTX, authn auth.Authenticator, opts ...Option) *Client {
	c := &Client{
		conn:   conn,
		authn:  authn,
		log:    zap.NewNop(),
		tracer: otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithConn returns a copy of c that runs requests on conn, typically a
// transaction opened by WithinTx.
func (c *Client) WithConn(conn db.DBTX) *Client {
	cp := *c
	cp.conn = conn
	return &cp
}

// Caller returns the authenticated caller for ctx.
func (c *Client) Caller(ctx context.Context) (*domain.Caller, error) {
	return c.authn.CurrentCaller(ctx)
}

// From starts a request on collection.
func (c *Client) From(collection string) *Query {
	return &Query{client: c, collection: collection, op: opSelect}
}

func (c *Client) startSpan(ctx context.Context, op, target string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "store."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "sqlite"),
			attribute.String("db.operation", op),
			attribute.String("db.collection.name", target),
		))
}

func (c *Client) finish(span trace.Span, op, target string, res Result) Result {
	defer span.End()
	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
		c.log.Warn("store request failed",
			zap.String("op", op),
			zap.String("target", target),
			zap.Error(res.Err))
		return res
	}
	span.SetAttributes(attribute.Int("db.rows", res.Count))
	return res
}

func failed(format string, args ...any) Result {
	return Result{Err: fmt.Errorf(format, args...)}
}
