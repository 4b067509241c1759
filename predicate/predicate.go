// Package predicate holds the boolean condition tree shared by the query
// builders, and renders it to parameterised SQL.
//
// Trees are plain values: a search over two tokens is built as
//
//	predicate.And{
//	    predicate.Or{predicate.Like{Column: "users.name", Pattern: predicate.Contains("alice")}},
//	    predicate.Or{predicate.Eq{Column: "users.is_admin", Value: true}},
//	}
//
// and rendered with a Renderer configured for the target dialect.
package predicate

import "strings"

// Predicate is a node of a condition tree.
type Predicate interface {
	predicate()
}

// Operator is a binary comparison operator.
type Operator string

const (
	OpEq Operator = "="
	OpNe Operator = "<>"
	OpGt Operator = ">"
	OpGe Operator = ">="
	OpLt Operator = "<"
	OpLe Operator = "<="
)

// Valid reports whether o is one of the supported comparison operators.
func (o Operator) Valid() bool {
	switch o {
	case OpEq, OpNe, OpGt, OpGe, OpLt, OpLe:
		return true
	}
	return false
}

// Eq matches rows where Column equals Value. A nil Value renders IS NULL.
type Eq struct {
	Column string
	Value  any
}

// Compare matches rows where Column compares to Value with Op.
type Compare struct {
	Column string
	Op     Operator
	Value  any
}

// Like matches rows where Column matches the LIKE Pattern.
type Like struct {
	Column  string
	Pattern string
}

// In matches rows where Column is one of Values. An empty list matches nothing.
type In struct {
	Column string
	Values []any
}

// ColumnEq compares two column references, used for subquery correlation.
type ColumnEq struct {
	Left  string
	Right string
}

// And is a conjunction. An empty And matches everything.
type And []Predicate

// Or is a disjunction. An empty Or matches nothing.
type Or []Predicate

// Exists matches when at least one row of Table satisfies Where.
type Exists struct {
	Table string
	Where Predicate
}

// Raw is an SQL fragment with ? placeholders, inserted in parentheses.
type Raw struct {
	SQL  string
	Args []any
}

func (Eq) predicate()       {}
func (Compare) predicate()  {}
func (Like) predicate()     {}
func (In) predicate()       {}
func (ColumnEq) predicate() {}
func (And) predicate()      {}
func (Or) predicate()       {}
func (Exists) predicate()   {}
func (Raw) predicate()      {}

// Subquery is a scalar correlated subquery selecting a single column of
// at most Limit rows of Table.
type Subquery struct {
	Table  string
	Column string
	Alias  string
	Where  Predicate
	Limit  int
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains returns a LIKE pattern matching any value containing s literally.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// Qualify prefixes column with table unless it is already qualified.
func Qualify(table, column string) string {
	if table == "" || strings.Contains(column, ".") {
		return column
	}
	return table + "." + column
}
