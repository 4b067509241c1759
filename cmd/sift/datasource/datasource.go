package datasource

import (
	"context"
	"fmt"

	"github.com/jinzhu/gorm"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/SanteonNL/sift/filters"
	"github.com/SanteonNL/sift/gormscope"
	"github.com/SanteonNL/sift/sqlbuilder"
)

// Row is one result row keyed by column name.
type Row map[string]interface{}

// DataSourceService creates builders for a backend and executes them.
type DataSourceService struct {
	db      *sqlx.DB
	gormDB  *gorm.DB
	maxRows int
	log     zerolog.Logger
}

// NewDataSourceService executes queries rendered by sqlbuilder through sqlx.
func NewDataSourceService(db *sqlx.DB, maxRows int, log zerolog.Logger) *DataSourceService {
	return &DataSourceService{db: db, maxRows: maxRows, log: log}
}

// NewGormDataSourceService executes gorm scopes.
func NewGormDataSourceService(db *gorm.DB, maxRows int, log zerolog.Logger) *DataSourceService {
	return &DataSourceService{gormDB: db, maxRows: maxRows, log: log}
}

// NewBuilder returns an empty builder over model for the configured backend.
func (svc *DataSourceService) NewBuilder(model filters.Model) filters.Builder {
	if svc.gormDB != nil {
		return gormscope.New(svc.gormDB, model)
	}
	return sqlbuilder.New(model, sqlbuilder.WithDialect(sqlbuilder.DialectFor(svc.db.DriverName())))
}

// Fetch executes b and returns at most maxRows rows.
func (svc *DataSourceService) Fetch(ctx context.Context, b filters.Builder) ([]Row, error) {
	switch q := b.(type) {
	case *sqlbuilder.Query:
		if svc.maxRows > 0 {
			q = q.Page(svc.maxRows, 0)
		}
		query, args := q.ToSQL()
		svc.log.Debug().Str("query", query).Int("args", len(args)).Msg("Executing query")

		rows, err := svc.db.QueryxContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to execute query for %s: %w", q.Model().TableName(), err)
		}
		defer rows.Close()
		return collect(rows)

	case *gormscope.Scope:
		db := q.DB()
		if svc.maxRows > 0 {
			db = db.Limit(svc.maxRows)
		}
		rows, err := db.Rows()
		if err != nil {
			return nil, fmt.Errorf("failed to execute query for %s: %w", q.Model().TableName(), err)
		}
		defer rows.Close()
		return collect(rows)
	}
	return nil, fmt.Errorf("unsupported builder %T", b)
}

type rowScanner interface {
	sqlx.ColScanner
	Next() bool
}

func collect(rows rowScanner) ([]Row, error) {
	result := make([]Row, 0)
	for rows.Next() {
		row := make(Row)
		if err := sqlx.MapScan(rows, row); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}
