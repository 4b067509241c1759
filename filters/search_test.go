package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanteonNL/sift/predicate"
)

var users = stubModel{
	table:    "users",
	columns:  []string{"name", "is_admin", "secret_fk"},
	foreign:  []string{"secret_fk"},
	booleans: []string{"is_admin"},
}

func TestEngine_SearchPredicate_ColumnsAndBooleans(t *testing.T) {
	t.Parallel()

	got := New(nil, nil).SearchPredicate(users, "alice true")

	assert.Equal(t, predicate.And{
		predicate.Or{
			predicate.Like{Column: "users.name", Pattern: "%alice%"},
		},
		predicate.Or{
			predicate.Like{Column: "users.name", Pattern: "%true%"},
			predicate.Eq{Column: "users.is_admin", Value: true},
		},
	}, got)

	sql, args := predicate.NewRenderer(nil).Render(got)
	assert.NotContains(t, sql, "secret_fk")
	assert.Equal(t, `("users"."name" LIKE ? AND ("users"."name" LIKE ? OR "users"."is_admin" = ?))`, sql)
	assert.Equal(t, []any{"%alice%", "%true%", true}, args)
}

func TestEngine_SearchPredicate_BooleanTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token  string
		want   bool
		isFlag bool
	}{
		{token: "true", want: true, isFlag: true},
		{token: "1", want: true, isFlag: true},
		{token: "false", want: false, isFlag: true},
		{token: "0", want: false, isFlag: true},
		{token: "yes", isFlag: false},
		{token: "True", isFlag: false},
	}

	flagsOnly := stubModel{table: "t", columns: []string{"active"}, booleans: []string{"active"}}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.token, func(t *testing.T) {
			t.Parallel()

			got := New(nil, nil).SearchPredicate(flagsOnly, tt.token)
			require.IsType(t, predicate.And{}, got)
			group := got.(predicate.And)[0].(predicate.Or)
			if !tt.isFlag {
				assert.Empty(t, group)
				return
			}
			assert.Equal(t, predicate.Or{predicate.Eq{Column: "t.active", Value: tt.want}}, group)
		})
	}
}

func TestEngine_SearchPredicate_TokenCount(t *testing.T) {
	t.Parallel()

	for phrase, n := range map[string]int{
		"one":                 1,
		"one two":             2,
		"  one   two  three ": 3,
		"a\tb\nc d":           4,
	} {
		got := New(nil, nil).SearchPredicate(users, phrase)
		require.IsType(t, predicate.And{}, got)
		assert.Len(t, got.(predicate.And), n, phrase)
		for _, group := range got.(predicate.And) {
			assert.IsType(t, predicate.Or{}, group)
		}
	}

	assert.Nil(t, New(nil, nil).SearchPredicate(users, "   "))
}

func TestEngine_SearchPredicate_TranslationsAndRelations(t *testing.T) {
	t.Parallel()

	got := New(nil, nil).SearchPredicate(posts, "hello")

	assert.Equal(t, predicate.And{
		predicate.Or{
			predicate.Like{Column: "posts.id", Pattern: "%hello%"},
			predicate.Like{Column: "posts.title", Pattern: "%hello%"},
			predicate.Exists{
				Table: "post_translations",
				Where: predicate.And{
					predicate.ColumnEq{Left: "post_translations.post_id", Right: "posts.id"},
					predicate.Or{predicate.Like{Column: "post_translations.summary", Pattern: "%hello%"}},
				},
			},
			predicate.Exists{
				Table: "comments",
				Where: predicate.And{
					predicate.ColumnEq{Left: "comments.parent_id", Right: "posts.id"},
					predicate.Or{predicate.Like{Column: "comments.body", Pattern: "%hello%"}},
				},
			},
		},
	}, got)
}

func TestEngine_SearchPredicate_NoSearchableColumns(t *testing.T) {
	t.Parallel()

	onlyKeys := stubModel{table: "links", columns: []string{"a_id", "b_id"}, foreign: []string{"a_id", "b_id"}}
	got := New(nil, nil).SearchPredicate(onlyKeys, "x")

	sql, args := predicate.NewRenderer(nil).Render(got)
	assert.Equal(t, "1=0", sql)
	assert.Empty(t, args)
}

func TestEngine_SearchPredicate_EscapesPatterns(t *testing.T) {
	t.Parallel()

	got := New(nil, nil).SearchPredicate(users, "100%")
	group := got.(predicate.And)[0].(predicate.Or)
	assert.Equal(t, predicate.Like{Column: "users.name", Pattern: `%100\%%`}, group[0])
}

func TestEngine_ApplySearch(t *testing.T) {
	t.Parallel()

	rec := newRecorder(users)
	New(nil, nil).ApplySearch(rec, "alice")
	require.Equal(t, []string{"where"}, rec.ops())

	rec = newRecorder(users)
	New(nil, nil).ApplySearch(rec, "")
	assert.Empty(t, rec.calls)
}
