// Package sqlbuilder is a filters.Builder producing plain SQL for sqlx.
//
// A Query is immutable: every builder method returns a modified copy, so a
// base query can be shared between requests.
package sqlbuilder

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/exp/slices"

	"github.com/SanteonNL/sift/filters"
	"github.com/SanteonNL/sift/predicate"
)

type computed struct {
	sq    predicate.Subquery
	alias string
}

type ordering struct {
	column string
	dir    filters.Direction
}

// Query is a SELECT over a single model table.
type Query struct {
	model     filters.Model
	dialect   Dialect
	selectAll bool
	computed  []computed
	where     predicate.And
	orders    []ordering
	limit     int
	offset    int
}

type Option func(*Query)

// WithDialect renders the query for d instead of Postgres.
func WithDialect(d Dialect) Option {
	return func(q *Query) {
		q.dialect = d
	}
}

// New starts a query selecting every row of model.
func New(model filters.Model, opts ...Option) *Query {
	q := &Query{model: model, dialect: Postgres}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *Query) clone() *Query {
	c := *q
	c.computed = slices.Clone(q.computed)
	c.where = slices.Clone(q.where)
	c.orders = slices.Clone(q.orders)
	return &c
}

func (q *Query) Model() filters.Model { return q.model }

func (q *Query) WhereEquals(column string, value any) filters.Builder {
	return q.Where(predicate.Eq{Column: column, Value: value})
}

func (q *Query) WhereLike(column, pattern string) filters.Builder {
	return q.Where(predicate.Like{Column: column, Pattern: pattern})
}

func (q *Query) WhereIn(column string, values []any) filters.Builder {
	return q.Where(predicate.In{Column: column, Values: values})
}

func (q *Query) Where(p predicate.Predicate) filters.Builder {
	if p == nil {
		return q
	}
	c := q.clone()
	c.where = append(c.where, p)
	return c
}

func (q *Query) OrderBy(column string, dir filters.Direction) filters.Builder {
	c := q.clone()
	c.orders = append(c.orders, ordering{column: column, dir: dir})
	return c
}

func (q *Query) SelectAll() filters.Builder {
	if q.selectAll {
		return q
	}
	c := q.clone()
	c.selectAll = true
	return c
}

func (q *Query) SelectSubquery(sq predicate.Subquery, alias string) filters.Builder {
	c := q.clone()
	c.computed = append(c.computed, computed{sq: sq, alias: alias})
	return c
}

// Page limits the result to limit rows after skipping offset rows. A zero
// limit means no limit.
func (q *Query) Page(limit, offset int) *Query {
	c := q.clone()
	c.limit, c.offset = limit, offset
	return c
}

// Condition returns the conjunction of every condition added so far.
func (q *Query) Condition() predicate.Predicate {
	return q.where
}

// SQL renders the query with ? placeholders.
func (q *Query) SQL() (string, []any) {
	r := q.dialect.renderer()
	var (
		sb   strings.Builder
		args []any
	)

	table := q.model.TableName()
	sb.WriteString("SELECT ")
	var cols []string
	if q.selectAll {
		cols = append(cols, r.Ident(table+".*"))
	}
	for _, c := range q.computed {
		sub, subArgs := r.RenderSubquery(subqueryWithoutAlias(c.sq))
		cols = append(cols, sub+" AS "+r.Ident(c.alias))
		args = append(args, subArgs...)
	}
	if len(cols) == 0 {
		cols = append(cols, "*")
	}
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(r.Ident(table))

	if len(q.where) > 0 {
		cond, condArgs := r.Render(q.where)
		sb.WriteString(" WHERE ")
		sb.WriteString(cond)
		args = append(args, condArgs...)
	}

	if len(q.orders) > 0 {
		parts := make([]string, len(q.orders))
		for i, o := range q.orders {
			parts[i] = r.Ident(o.column) + " " + strings.ToUpper(string(o.dir))
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}

	if q.limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.limit)
	}
	if q.offset > 0 {
		fmt.Fprintf(&sb, " OFFSET %d", q.offset)
	}
	return sb.String(), args
}

// ToSQL renders the query with the dialect's bind variables, ready for sqlx.
func (q *Query) ToSQL() (string, []any) {
	query, args := q.SQL()
	return sqlx.Rebind(q.dialect.BindType, query), args
}

// The outer alias is applied by the select list.
func subqueryWithoutAlias(sq predicate.Subquery) predicate.Subquery {
	sq.Alias = ""
	return sq
}
