package filters

import (
	"github.com/SanteonNL/sift/predicate"
)

type call struct {
	op   string
	args []any
}

// recorder is a Builder remembering every call made on it.
type recorder struct {
	model Model
	calls []call
}

func newRecorder(m Model) *recorder {
	return &recorder{model: m}
}

func (r *recorder) record(op string, args ...any) Builder {
	r.calls = append(r.calls, call{op: op, args: args})
	return r
}

func (r *recorder) Model() Model { return r.model }

func (r *recorder) WhereEquals(column string, value any) Builder {
	return r.record("whereEquals", column, value)
}

func (r *recorder) WhereLike(column, pattern string) Builder {
	return r.record("whereLike", column, pattern)
}

func (r *recorder) WhereIn(column string, values []any) Builder {
	return r.record("whereIn", column, values)
}

func (r *recorder) Where(p predicate.Predicate) Builder {
	return r.record("where", p)
}

func (r *recorder) OrderBy(column string, dir Direction) Builder {
	return r.record("orderBy", column, dir)
}

func (r *recorder) SelectAll() Builder {
	return r.record("selectAll")
}

func (r *recorder) SelectSubquery(sq predicate.Subquery, alias string) Builder {
	return r.record("selectSubquery", sq, alias)
}

func (r *recorder) ops() []string {
	ops := make([]string, len(r.calls))
	for i, c := range r.calls {
		ops[i] = c.op
	}
	return ops
}

// stubModel is a Model declared inline by tests.
type stubModel struct {
	table       string
	columns     []string
	foreign     []string
	booleans    []string
	localizable []string
	search      map[string][]string
	relations   map[string]Relation
}

func (m stubModel) TableName() string                    { return m.table }
func (m stubModel) IDColumn() string                     { return "id" }
func (m stubModel) Columns() []string                    { return m.columns }
func (m stubModel) ForeignKeys() []string                { return m.foreign }
func (m stubModel) BooleanColumns() []string             { return m.booleans }
func (m stubModel) LocalizableFields() []string          { return m.localizable }
func (m stubModel) SearchRelations() map[string][]string { return m.search }

func (m stubModel) Relation(name string) (Relation, bool) {
	r, ok := m.relations[name]
	return r, ok
}

var posts = stubModel{
	table:       "posts",
	columns:     []string{"id", "title", "published", "author_id"},
	foreign:     []string{"author_id"},
	booleans:    []string{"published"},
	localizable: []string{"summary"},
	search:      map[string][]string{"comments": {"body"}},
	relations: map[string]Relation{
		"author":       {Kind: ToOne, Table: "users"},
		"comments":     {Kind: ToMany, Table: "comments", ForeignKey: "parent_id"},
		"translations": {Kind: ToMany, Table: "post_translations", ForeignKey: "post_id"},
		"tags":         {Kind: Other, Table: "tags"},
	},
}
