package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// QueryBuilder is a typed, chainable wrapper around bun queries
type QueryBuilder[T any] struct {
	db   bun.IDB
	inTx bool

	wheres    []*whereClause
	orders    []*orderClause
	relations []string
	limitVal  *int
	offsetVal *int
	forUpdate bool
	timeout   time.Duration
}

type whereClause struct {
	column   string
	operator string
	value    any
	raw      string
	args     []any
}

type orderClause struct {
	column    string
	direction OrderDirection
}

// OrderDirection represents sort direction
type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

// Query starts a builder on the database handle.
func Query[T any](db *DB) *QueryBuilder[T] {
	return &QueryBuilder[T]{db: db.DB}
}

// QueryTx starts a builder inside a running transaction. Retries are
// disabled because a failed statement aborts the whole transaction.
func QueryTx[T any](tx bun.Tx) *QueryBuilder[T] {
	return &QueryBuilder[T]{db: tx, inTx: true}
}

// Where adds column = value
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "=", value)
}

// WhereOp adds a condition with a custom comparison operator
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &whereClause{column: column, operator: operator, value: value})
	return q
}

// WhereIn adds column IN (values). An empty list matches nothing.
func (q *QueryBuilder[T]) WhereIn(column string, values []any) *QueryBuilder[T] {
	if len(values) == 0 {
		return q.WhereRaw("FALSE")
	}
	q.wheres = append(q.wheres, &whereClause{column: column, operator: "IN", value: bun.In(values)})
	return q
}

func (q *QueryBuilder[T]) WhereNotIn(column string, values []any) *QueryBuilder[T] {
	if len(values) == 0 {
		return q
	}
	q.wheres = append(q.wheres, &whereClause{column: column, operator: "NOT IN", value: bun.In(values)})
	return q
}

func (q *QueryBuilder[T]) WhereNull(column string) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &whereClause{column: column, operator: "IS NULL"})
	return q
}

func (q *QueryBuilder[T]) WhereNotNull(column string) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &whereClause{column: column, operator: "IS NOT NULL"})
	return q
}

// WhereRaw adds a raw SQL condition with bun placeholders
func (q *QueryBuilder[T]) WhereRaw(sql string, args ...any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &whereClause{raw: sql, args: args})
	return q
}

// OrderBy adds an ORDER BY clause
func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, &orderClause{column: column, direction: direction})
	return q
}

func (q *QueryBuilder[T]) Limit(limit int) *QueryBuilder[T] {
	q.limitVal = &limit
	return q
}

func (q *QueryBuilder[T]) Offset(offset int) *QueryBuilder[T] {
	q.offsetVal = &offset
	return q
}

// Relation preloads a bun relation on select
func (q *QueryBuilder[T]) Relation(name string) *QueryBuilder[T] {
	q.relations = append(q.relations, name)
	return q
}

// ForUpdate locks the selected rows until the transaction ends
func (q *QueryBuilder[T]) ForUpdate() *QueryBuilder[T] {
	q.forUpdate = true
	return q
}

// Timeout bounds each execution of the query
func (q *QueryBuilder[T]) Timeout(duration time.Duration) *QueryBuilder[T] {
	q.timeout = duration
	return q
}

// clone copies the builder so Count and a paged select can share filters.
func (q *QueryBuilder[T]) clone() *QueryBuilder[T] {
	c := *q
	c.wheres = append([]*whereClause(nil), q.wheres...)
	c.orders = append([]*orderClause(nil), q.orders...)
	c.relations = append([]string(nil), q.relations...)
	return &c
}

func (w *whereClause) condition() (string, []any) {
	if w.raw != "" {
		return w.raw, w.args
	}
	switch w.operator {
	case "IS NULL", "IS NOT NULL":
		return fmt.Sprintf("%s %s", quoteColumn(w.column), w.operator), nil
	case "IN", "NOT IN":
		return fmt.Sprintf("%s %s (?)", quoteColumn(w.column), w.operator), []any{w.value}
	default:
		return fmt.Sprintf("%s %s ?", quoteColumn(w.column), w.operator), []any{w.value}
	}
}

// quoteColumn leaves qualified names like "p.price" untouched.
func quoteColumn(column string) string {
	if strings.ContainsAny(column, `."() `) {
		return column
	}
	return `"` + column + `"`
}

type whereable[Q any] interface {
	Where(query string, args ...any) Q
}

func applyWheres[Q whereable[Q]](query Q, wheres []*whereClause) Q {
	for _, w := range wheres {
		cond, args := w.condition()
		query = query.Where(cond, args...)
	}
	return query
}

func (q *QueryBuilder[T]) buildSelect(model any) *bun.SelectQuery {
	query := q.db.NewSelect().Model(model)
	query = applyWheres(query, q.wheres)

	for _, rel := range q.relations {
		query = query.Relation(rel)
	}
	for _, o := range q.orders {
		query = query.OrderExpr(fmt.Sprintf("%s %s", quoteColumn(o.column), o.direction))
	}
	if q.limitVal != nil {
		query = query.Limit(*q.limitVal)
	}
	if q.offsetVal != nil {
		query = query.Offset(*q.offsetVal)
	}
	if q.forUpdate {
		query = query.For("UPDATE")
	}
	return query
}

func (q *QueryBuilder[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout > 0 {
		return context.WithTimeout(ctx, q.timeout)
	}
	return ctx, func() {}
}

func (q *QueryBuilder[T]) run(ctx context.Context, fn func() error) error {
	if q.inTx {
		return fn()
	}
	return WithRetry(ctx, fn)
}
