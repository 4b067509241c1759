package filters

import (
	"fmt"
	"strings"

	"github.com/SanteonNL/sift/predicate"
)

// Direction is an ORDER BY direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts asc or desc in any case.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Builder composes one relational query. Every method returns the builder
// state to continue with; implementations may return a new value or the
// receiver.
type Builder interface {
	// Model describes the table the query selects from.
	Model() Model

	WhereEquals(column string, value any) Builder
	WhereLike(column, pattern string) Builder
	WhereIn(column string, values []any) Builder
	// Where ANDs p with the conditions already present.
	Where(p predicate.Predicate) Builder

	OrderBy(column string, dir Direction) Builder

	// SelectAll selects every column of the model's table explicitly.
	SelectAll() Builder
	// SelectSubquery adds sq as a computed column named alias.
	SelectSubquery(sq predicate.Subquery, alias string) Builder
}

// ExistsRelation returns a predicate matching rows of m with at least one
// related row satisfying cond. It is false when the relation is unknown or
// of an unsupported kind.
func ExistsRelation(m Model, relation string, cond predicate.Predicate) (predicate.Predicate, bool) {
	rel, ok := m.Relation(relation)
	if !ok {
		return nil, false
	}
	left, right, ok := rel.correlate(relation, m)
	if !ok {
		return nil, false
	}
	return predicate.Exists{
		Table: rel.Table,
		Where: predicate.And{predicate.ColumnEq{Left: left, Right: right}, cond},
	}, true
}
