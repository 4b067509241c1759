package schema

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

const (
	columnsQuery = `SELECT column_name, data_type
FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1
ORDER BY ordinal_position`

	constraintColumnsQuery = `SELECT kcu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
WHERE tc.constraint_type = $1 AND tc.table_schema = current_schema() AND tc.table_name = $2
ORDER BY kcu.ordinal_position`
)

type columnRow struct {
	Name     string `db:"column_name"`
	DataType string `db:"data_type"`
}

// Introspector reads table descriptions from a PostgreSQL catalog.
type Introspector struct {
	db  *sqlx.DB
	log zerolog.Logger
}

func NewIntrospector(db *sqlx.DB, log zerolog.Logger) *Introspector {
	return &Introspector{db: db, log: log}
}

// Table describes name from the catalog: columns in ordinal order, boolean
// columns, foreign key columns and the primary key. Relations, translations
// and search relations are left for the caller to declare.
func (in *Introspector) Table(ctx context.Context, name string) (*Table, error) {
	var columns []columnRow
	if err := in.db.SelectContext(ctx, &columns, columnsQuery, name); err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", name, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", name)
	}

	t := New(name)
	for _, c := range columns {
		t.ColumnNames = append(t.ColumnNames, c.Name)
		if c.DataType == "boolean" {
			t.Booleans = append(t.Booleans, c.Name)
		}
	}

	var foreign []string
	if err := in.db.SelectContext(ctx, &foreign, constraintColumnsQuery, "FOREIGN KEY", name); err != nil {
		return nil, fmt.Errorf("failed to read foreign keys of %s: %w", name, err)
	}
	t.Foreign = foreign

	var primary []string
	if err := in.db.SelectContext(ctx, &primary, constraintColumnsQuery, "PRIMARY KEY", name); err != nil {
		return nil, fmt.Errorf("failed to read primary key of %s: %w", name, err)
	}
	if len(primary) > 0 {
		t.ID = primary[0]
	}

	in.log.Debug().
		Str("table", name).
		Int("columns", len(t.ColumnNames)).
		Int("foreign_keys", len(t.Foreign)).
		Int("booleans", len(t.Booleans)).
		Str("id", t.IDColumn()).
		Msg("Introspected table")

	return t, nil
}
