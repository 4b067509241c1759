package filters

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanteonNL/sift/predicate"
)

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	noop := func(v any, b Builder) Builder { return b }

	tests := []struct {
		name    string
		filters []Filter
		wantErr error
	}{
		{
			name:    "valid filters",
			filters: []Filter{{Name: "email", Type: String, Handle: noop}, BoolFilter("active", func(bool, Builder) Builder { return nil })},
		},
		{
			name:    "empty name",
			filters: []Filter{{Name: " ", Type: String, Handle: noop}},
			wantErr: ErrInvalidFilter,
		},
		{
			name:    "missing type",
			filters: []Filter{{Name: "email", Handle: noop}},
			wantErr: ErrInvalidFilter,
		},
		{
			name:    "missing handler",
			filters: []Filter{{Name: "email", Type: String}},
			wantErr: ErrInvalidFilter,
		},
		{
			name:    "typed constructor with nil func",
			filters: []Filter{StringFilter("email", nil)},
			wantErr: ErrInvalidFilter,
		},
		{
			name:    "reserved orderBy",
			filters: []Filter{{Name: OrderParam, Type: String, Handle: noop}},
			wantErr: ErrInvalidFilter,
		},
		{
			name:    "reserved search",
			filters: []Filter{{Name: SearchParam, Type: String, Handle: noop}},
			wantErr: ErrInvalidFilter,
		},
		{
			name:    "duplicate",
			filters: []Filter{{Name: "email", Type: String, Handle: noop}, {Name: "email", Type: Int, Handle: noop}},
			wantErr: ErrDuplicateFilter,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reg, err := NewRegistry(tt.filters...)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, reg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.filters), reg.Len())
		})
	}
}

func TestMustRegistry_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustRegistry(Filter{Name: "x"}) })
}

func TestRegistry_LookupAndNames(t *testing.T) {
	t.Parallel()

	reg := MustRegistry(
		StringFilter("email", func(v string, b Builder) Builder { return b.WhereEquals("email", v) }),
		IntFilter("age", func(v int64, b Builder) Builder { return b }),
	)

	assert.Equal(t, []string{"email", "age"}, reg.Names())

	f, ok := reg.Lookup("age")
	require.True(t, ok)
	assert.Equal(t, Int, f.Type)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestColumnHandlers(t *testing.T) {
	t.Parallel()

	rec := newRecorder(posts)
	Equals("status")("draft", rec)
	Compare("created_at", predicate.OpGe)("2024-01-01", rec)
	Contains("title")("go", rec)
	OneOf("tag")([]string{"a"}, rec)
	OneOf("id")(int64(7), rec)

	assert.Equal(t, []call{
		{op: "whereEquals", args: []any{"status", "draft"}},
		{op: "where", args: []any{predicate.Compare{Column: "created_at", Op: predicate.OpGe, Value: "2024-01-01"}}},
		{op: "whereLike", args: []any{"title", "%go%"}},
		{op: "whereIn", args: []any{"tag", []any{"a"}}},
		{op: "whereIn", args: []any{"id", []any{int64(7)}}},
	}, rec.calls)
}
