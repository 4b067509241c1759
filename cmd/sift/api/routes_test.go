package api

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanteonNL/sift/cmd/sift/datasource"
	"github.com/SanteonNL/sift/models"
)

func newTestRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ds := datasource.NewDataSourceService(sqlx.NewDb(db, "postgres"), 0, zerolog.Nop())
	lr := NewListRouter(models.Builtin(), ds, NewLocaleNegotiator("en", "nl"), zerolog.Nop())
	return lr.SetupRoutes(), mock
}

func TestListRouter_Health(t *testing.T) {
	t.Parallel()

	h, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListRouter_List(t *testing.T) {
	t.Parallel()

	h, mock := newTestRouter(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "email" = $1 ORDER BY "name" DESC`)).
		WithArgs("a@b.c").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow(int64(1), "a@b.c"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users?email=a@b.c&orderBy[name]=desc&orderBy[secret]=asc", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Data  []map[string]any `json:"data"`
		Count int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "a@b.c", body.Data[0]["email"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRouter_TranslatedOrderUsesLocale(t *testing.T) {
	t.Parallel()

	h, mock := newTestRouter(t)
	mock.ExpectQuery(regexp.QuoteMeta(`"post_translations"."locale" = $1`)).
		WithArgs("nl").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req := httptest.NewRequest(http.MethodGet, "/posts?orderBy[translations.title]=asc", nil)
	req.Header.Set("Accept-Language", "nl-NL")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"data":[],"count":0}`, rec.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRouter_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{name: "unknown resource", target: "/widgets", want: http.StatusNotFound},
		{name: "invalid typed value", target: "/posts?author_id=seven", want: http.StatusBadRequest},
		{name: "invalid direction", target: "/posts?orderBy[title]=sideways", want: http.StatusBadRequest},
		{name: "malformed order", target: `/posts?orderBy=%7Bnope`, want: http.StatusBadRequest},
		{name: "wrong method", target: "/posts", want: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, _ := newTestRouter(t)
			method := http.MethodGet
			if tt.want == http.StatusMethodNotAllowed {
				method = http.MethodPost
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(method, tt.target, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestListRouter_DatabaseError(t *testing.T) {
	t.Parallel()

	h, mock := newTestRouter(t)
	mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/comments", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
}
