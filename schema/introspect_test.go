package schema

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestIntrospector_Table(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("posts").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type"}).
			AddRow("post_id", "integer").
			AddRow("title", "character varying").
			AddRow("published", "boolean").
			AddRow("author_id", "integer"))
	mock.ExpectQuery("FROM information_schema.table_constraints").
		WithArgs("FOREIGN KEY", "posts").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("author_id"))
	mock.ExpectQuery("FROM information_schema.table_constraints").
		WithArgs("PRIMARY KEY", "posts").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("post_id"))

	table, err := NewIntrospector(db, zerolog.Nop()).Table(context.Background(), "posts")
	require.NoError(t, err)

	assert.Equal(t, "posts", table.TableName())
	assert.Equal(t, "post_id", table.IDColumn())
	assert.Equal(t, []string{"post_id", "title", "published", "author_id"}, table.Columns())
	assert.Equal(t, []string{"published"}, table.BooleanColumns())
	assert.Equal(t, []string{"author_id"}, table.ForeignKeys())
	assert.Empty(t, table.LocalizableFields())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIntrospector_TableNotFound(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type"}))

	_, err := NewIntrospector(db, zerolog.Nop()).Table(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
