package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/financeflow/flowdesk/internal/db"
	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/jmoiron/sqlx"
)

// TimestampLayout is shared with writers outside the gateway.
const TimestampLayout = db.TimestampLayout

type opKind string

const (
	opSelect opKind = "select"
	opInsert opKind = "insert"
	opUpdate opKind = "update"
	opDelete opKind = "delete"
)

type filter struct {
	column string
	op     string
	value  any
}

// Query is a request under construction. Builder methods record the
// first error and Execute reports it.
type Query struct {
	client     *Client
	collection string
	op         opKind
	columns    []string
	filters    []filter
	anyOf      []filter
	orderBy    string
	ascending  bool
	limit      int
	single     bool
	row        Row
	err        error
}

// Select limits the returned columns. No columns or "*" selects all.
func (q *Query) Select(columns ...string) *Query {
	if len(columns) == 1 && columns[0] == "*" {
		columns = nil
	}
	q.columns = columns
	return q
}

// Insert turns the request into an insert of row. The stored row, with
// generated columns filled, is returned in Result.Data.
func (q *Query) Insert(row Row) *Query {
	q.op = opInsert
	q.row = row
	return q
}

// Update turns the request into an update applying patch to every
// matching row.
func (q *Query) Update(patch Row) *Query {
	q.op = opUpdate
	q.row = patch
	return q
}

// Delete turns the request into a delete of every matching row.
func (q *Query) Delete() *Query {
	q.op = opDelete
	return q
}

func (q *Query) Eq(column string, value any) *Query {
	q.filters = append(q.filters, filter{column: column, op: "eq", value: value})
	return q
}

// Is matches NULL when value is nil, otherwise behaves like Eq.
func (q *Query) Is(column string, value any) *Query {
	q.filters = append(q.filters, filter{column: column, op: "is", value: value})
	return q
}

// ILike is a case-insensitive pattern match; % and * are wildcards.
func (q *Query) ILike(column, pattern string) *Query {
	q.filters = append(q.filters, filter{column: column, op: "ilike", value: pattern})
	return q
}

// Or adds a disjunction written as comma-separated "column.op.value"
// terms, e.g. "description.ilike.FINANCIAL_INCOME:%,status.eq.shot".
// Values cannot contain commas.
func (q *Query) Or(expr string) *Query {
	for _, term := range strings.Split(expr, ",") {
		parts := strings.SplitN(strings.TrimSpace(term), ".", 3)
		if len(parts) != 3 {
			q.setErr(fmt.Errorf("invalid or-filter term %q", term))
			return q
		}
		var value any = parts[2]
		if parts[1] == "is" && parts[2] == "null" {
			value = nil
		}
		q.anyOf = append(q.anyOf, filter{column: parts[0], op: parts[1], value: value})
	}
	return q
}

func (q *Query) Order(column string, ascending bool) *Query {
	q.orderBy = column
	q.ascending = ascending
	return q
}

func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Single requires exactly one matching row.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

func (q *Query) setErr(err error) {
	if q.err == nil {
		q.err = err
	}
}

// Execute runs the request as the current caller.
func (q *Query) Execute(ctx context.Context) Result {
	c := q.client
	ctx, span := c.startSpan(ctx, string(q.op), q.collection)
	return c.finish(span, string(q.op), q.collection, q.execute(ctx))
}

func (q *Query) execute(ctx context.Context) Result {
	if q.err != nil {
		return Result{Err: q.err}
	}
	coll, err := lookupCollection(q.collection)
	if err != nil {
		return Result{Err: err}
	}
	caller, err := q.client.Caller(ctx)
	if err != nil {
		return Result{Err: err}
	}

	switch q.op {
	case opInsert:
		return q.runInsert(ctx, coll, caller)
	case opUpdate, opDelete:
		if len(q.filters) == 0 && len(q.anyOf) == 0 {
			return Result{Err: ErrUnfiltered}
		}
	}

	where, args, err := q.whereClause(coll)
	if err != nil {
		return Result{Err: err}
	}
	using, policyArgs := coll.policy.using(caller)
	where = append(where, using)
	args = append(args, policyArgs...)

	switch q.op {
	case opUpdate:
		return q.runUpdate(ctx, coll, where, args)
	case opDelete:
		return q.runExec(ctx, "DELETE FROM "+coll.name+" WHERE "+strings.Join(where, " AND "), args)
	default:
		return q.runSelect(ctx, coll, where, args)
	}
}

func (q *Query) whereClause(coll *collection) ([]string, []any, error) {
	var where []string
	var args []any
	for _, f := range q.filters {
		clause, fargs, err := compileFilter(coll, f)
		if err != nil {
			return nil, nil, err
		}
		where = append(where, clause)
		args = append(args, fargs...)
	}
	if len(q.anyOf) > 0 {
		var terms []string
		for _, f := range q.anyOf {
			clause, fargs, err := compileFilter(coll, f)
			if err != nil {
				return nil, nil, err
			}
			terms = append(terms, clause)
			args = append(args, fargs...)
		}
		where = append(where, "("+strings.Join(terms, " OR ")+")")
	}
	return where, args, nil
}

func compileFilter(coll *collection, f filter) (string, []any, error) {
	if !coll.hasColumn(f.column) {
		return "", nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, coll.name, f.column)
	}
	switch f.op {
	case "eq":
		return f.column + " = ?", []any{bindValue(f.value)}, nil
	case "is":
		if f.value == nil {
			return f.column + " IS NULL", nil, nil
		}
		return f.column + " IS ?", []any{bindValue(f.value)}, nil
	case "ilike":
		pattern := strings.ReplaceAll(fmt.Sprint(f.value), "*", "%")
		return "LOWER(" + f.column + ") LIKE LOWER(?)", []any{pattern}, nil
	default:
		return "", nil, fmt.Errorf("unsupported filter operator %q", f.op)
	}
}

func (q *Query) selectedColumns(coll *collection) ([]string, error) {
	if len(q.columns) == 0 {
		return coll.columns, nil
	}
	for _, col := range q.columns {
		if !coll.hasColumn(col) {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, coll.name, col)
		}
	}
	return q.columns, nil
}

func (q *Query) runSelect(ctx context.Context, coll *collection, where []string, args []any) Result {
	cols, err := q.selectedColumns(coll)
	if err != nil {
		return Result{Err: err}
	}

	var b strings.Builder
	b.WriteString("SELECT " + strings.Join(cols, ", ") + " FROM " + coll.name)
	b.WriteString(" WHERE " + strings.Join(where, " AND "))
	if q.orderBy != "" {
		if !coll.hasColumn(q.orderBy) {
			return failed("%w: %s.%s", ErrUnknownColumn, coll.name, q.orderBy)
		}
		dir := "DESC"
		if q.ascending {
			dir = "ASC"
		}
		b.WriteString(" ORDER BY " + q.orderBy + " " + dir)
	}
	if q.limit > 0 {
		b.WriteString(" LIMIT " + strconv.Itoa(q.limit))
	}

	data, err := queryRows(ctx, q.client.conn, coll, b.String(), args)
	if err != nil {
		return Result{Err: fmt.Errorf("selecting %s: %w", coll.name, err)}
	}
	if q.single {
		switch len(data) {
		case 0:
			return Result{Err: ErrNoRows}
		case 1:
		default:
			return Result{Err: ErrMultipleRows}
		}
	}
	return Result{Data: data, Count: len(data)}
}

func (q *Query) runInsert(ctx context.Context, coll *collection, caller *domain.Caller) Result {
	row := make(Row, len(q.row))
	for k, v := range q.row {
		if !coll.hasColumn(k) {
			return failed("%w: %s.%s", ErrUnknownColumn, coll.name, k)
		}
		row[k] = v
	}
	coll.fillDefaults(row, time.Now())
	if err := coll.policy.check(ctx, q.client.conn, caller, row); err != nil {
		return Result{Err: fmt.Errorf("inserting into %s: %w", coll.name, err)}
	}

	cols := sortedKeys(row)
	args := make([]any, len(cols))
	for i, col := range cols {
		args[i] = bindValue(row[col])
	}
	stmt := "INSERT INTO " + coll.name + " (" + strings.Join(cols, ", ") + ") VALUES (" +
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
	if _, err := q.client.conn.ExecContext(ctx, stmt, args...); err != nil {
		return Result{Err: fmt.Errorf("inserting into %s: %w", coll.name, err)}
	}

	out := make(Row, len(row))
	for col, v := range row {
		out[col] = normalize(coll, col, bindValue(v))
	}
	return Result{Data: []Row{out}, Count: 1}
}

func (q *Query) runUpdate(ctx context.Context, coll *collection, where []string, args []any) Result {
	if len(q.row) == 0 {
		return failed("updating %s: empty patch", coll.name)
	}
	cols := sortedKeys(q.row)
	sets := make([]string, len(cols))
	setArgs := make([]any, len(cols))
	for i, col := range cols {
		if !coll.hasColumn(col) {
			return failed("%w: %s.%s", ErrUnknownColumn, coll.name, col)
		}
		if coll.immutable[col] {
			return failed("updating %s.%s: %w", coll.name, col, ErrPermissionDenied)
		}
		sets[i] = col + " = ?"
		setArgs[i] = bindValue(q.row[col])
	}
	stmt := "UPDATE " + coll.name + " SET " + strings.Join(sets, ", ") +
		" WHERE " + strings.Join(where, " AND ")
	return q.runExec(ctx, stmt, append(setArgs, args...))
}

func (q *Query) runExec(ctx context.Context, stmt string, args []any) Result {
	res, err := q.client.conn.ExecContext(ctx, stmt, args...)
	if err != nil {
		return Result{Err: fmt.Errorf("%s %s: %w", q.op, q.collection, err)}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Result{Err: fmt.Errorf("%s %s: %w", q.op, q.collection, err)}
	}
	return Result{Count: int(n)}
}

// queryRows scans every row into memory before returning so no cursor
// stays open on a single-connection database.
func queryRows(ctx context.Context, conn interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
}, coll *collection, stmt string, args []any) ([]Row, error) {
	rows, err := conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var data []Row
	for rows.Next() {
		m := map[string]any{}
		if err := sqlx.MapScan(rows, m); err != nil {
			return nil, err
		}
		row := make(Row, len(m))
		for col, v := range m {
			row[col] = normalize(coll, col, v)
		}
		data = append(data, row)
	}
	return data, rows.Err()
}

// bindValue converts JSON-ish values to the TEXT form stored in SQLite.
func bindValue(v any) any {
	switch x := v.(type) {
	case json.RawMessage:
		if x == nil {
			return nil
		}
		return string(x)
	case map[string]any, []any:
		raw, err := json.Marshal(x)
		if err != nil {
			return nil
		}
		return string(raw)
	case time.Time:
		return x.UTC().Format(TimestampLayout)
	case *time.Time:
		if x == nil {
			return nil
		}
		return x.UTC().Format(TimestampLayout)
	case bool:
		if x {
			return int64(1)
		}
		return int64(0)
	case driver.Valuer:
		val, err := x.Value()
		if err != nil {
			return nil
		}
		return val
	default:
		return v
	}
}

func normalize(coll *collection, col string, v any) any {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if coll != nil && coll.json[col] {
		if s, ok := v.(string); ok {
			return json.RawMessage(s)
		}
	}
	return v
}

func sortedKeys(r Row) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
