// Package schema describes tables for the filter engine, either declared in
// code or read from a PostgreSQL catalog.
package schema

import (
	"github.com/SanteonNL/sift/filters"
)

// Table is a filters.Model declared field by field.
type Table struct {
	Name        string
	ID          string
	ColumnNames []string
	Foreign     []string
	Booleans    []string
	Localizable []string
	Searchable  map[string][]string
	Relations   map[string]filters.Relation
}

// New declares a table with the given columns and an "id" key.
func New(name string, columns ...string) *Table {
	return &Table{
		Name:        name,
		ID:          "id",
		ColumnNames: columns,
		Searchable:  map[string][]string{},
		Relations:   map[string]filters.Relation{},
	}
}

// WithForeignKeys marks columns as foreign keys, excluded from search.
func (t *Table) WithForeignKeys(columns ...string) *Table {
	t.Foreign = append(t.Foreign, columns...)
	return t
}

// WithBooleans marks columns as boolean.
func (t *Table) WithBooleans(columns ...string) *Table {
	t.Booleans = append(t.Booleans, columns...)
	return t
}

// HasMany declares a to-many relation whose rows point back through foreignKey.
func (t *Table) HasMany(name, table, foreignKey string) *Table {
	t.Relations[name] = filters.Relation{Kind: filters.ToMany, Table: table, ForeignKey: foreignKey}
	return t
}

// BelongsTo declares a to-one relation reached through the local column
// "{name}_id".
func (t *Table) BelongsTo(name, table string) *Table {
	t.Relations[name] = filters.Relation{Kind: filters.ToOne, Table: table}
	return t
}

// Translatable stores fields per locale in table, whose rows point back
// through foreignKey.
func (t *Table) Translatable(table, foreignKey string, fields ...string) *Table {
	t.Localizable = append(t.Localizable, fields...)
	return t.HasMany(filters.TranslationRelation, table, foreignKey)
}

// SearchIn adds fields of a declared relation to the generic search.
func (t *Table) SearchIn(relation string, fields ...string) *Table {
	t.Searchable[relation] = append(t.Searchable[relation], fields...)
	return t
}

func (t *Table) TableName() string { return t.Name }

func (t *Table) IDColumn() string {
	if t.ID == "" {
		return "id"
	}
	return t.ID
}

func (t *Table) Columns() []string                    { return t.ColumnNames }
func (t *Table) ForeignKeys() []string                { return t.Foreign }
func (t *Table) BooleanColumns() []string             { return t.Booleans }
func (t *Table) LocalizableFields() []string          { return t.Localizable }
func (t *Table) SearchRelations() map[string][]string { return t.Searchable }

func (t *Table) Relation(name string) (filters.Relation, bool) {
	r, ok := t.Relations[name]
	return r, ok
}

// HasColumn reports whether column belongs to the table.
func (t *Table) HasColumn(column string) bool {
	for _, c := range t.ColumnNames {
		if c == column {
			return true
		}
	}
	return false
}
