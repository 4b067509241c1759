// Package models declares the tables served by the demo service and their
// request filters.
package models

import (
	"time"

	"github.com/SanteonNL/sift/filters"
	"github.com/SanteonNL/sift/predicate"
	"github.com/SanteonNL/sift/schema"
)

// Resource is a list endpoint: a table, its filters and the keys it may be
// ordered by.
type Resource struct {
	Name      string
	Model     filters.Model
	Filters   *filters.Registry
	Orderable []string
}

func Users() *schema.Table {
	return schema.New("users", "id", "name", "email", "is_admin", "created_at").
		WithBooleans("is_admin")
}

func Posts() *schema.Table {
	return schema.New("posts", "id", "title", "body", "status", "published", "tag", "author_id", "published_at", "created_at").
		WithForeignKeys("author_id").
		WithBooleans("published").
		BelongsTo("author", "users").
		HasMany("comments", "comments", "post_id").
		Translatable("post_translations", "post_id", "title", "summary").
		SearchIn("comments", "body")
}

func Comments() *schema.Table {
	return schema.New("comments", "id", "post_id", "user_id", "body", "created_at").
		WithForeignKeys("post_id", "user_id").
		BelongsTo("post", "posts").
		BelongsTo("user", "users")
}

// UserFilters filters users by exact email address.
func UserFilters() *filters.Registry {
	return filters.MustRegistry(
		filters.StringFilter("email", func(email string, b filters.Builder) filters.Builder {
			return b.WhereEquals("email", email)
		}),
	)
}

func PostFilters() *filters.Registry {
	return filters.MustRegistry(
		filters.StringFilter("status", func(status string, b filters.Builder) filters.Builder {
			return b.WhereEquals("status", status)
		}),
		filters.IntFilter("author_id", func(id int64, b filters.Builder) filters.Builder {
			return b.WhereEquals("author_id", id)
		}),
		filters.BoolFilter("published", func(published bool, b filters.Builder) filters.Builder {
			return b.WhereEquals("published", published)
		}),
		filters.Filter{Name: "tags", Type: filters.Array, Handle: filters.OneOf("tag")},
		filters.DateFilter("published_after", func(day time.Time, b filters.Builder) filters.Builder {
			return b.Where(predicate.Compare{Column: "published_at", Op: predicate.OpGe, Value: day})
		}),
		filters.Filter{Name: "title", Type: filters.String, Handle: filters.Contains("title")},
		filters.IntFilter("min_comments", func(n int64, b filters.Builder) filters.Builder {
			return b.Where(predicate.Raw{
				SQL:  "(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) >= ?",
				Args: []any{n},
			})
		}),
	)
}

func CommentFilters() *filters.Registry {
	return filters.MustRegistry(
		filters.IntFilter("post_id", func(id int64, b filters.Builder) filters.Builder {
			return b.WhereEquals("post_id", id)
		}),
	)
}

// Builtin returns the resources served without any declarations file.
func Builtin() []Resource {
	return []Resource{
		{
			Name:      "users",
			Model:     Users(),
			Filters:   UserFilters(),
			Orderable: []string{"name", "email", "created_at"},
		},
		{
			Name:      "posts",
			Model:     Posts(),
			Filters:   PostFilters(),
			Orderable: []string{"title", "published_at", "created_at", "author.name", "translations.title"},
		},
		{
			Name:      "comments",
			Model:     Comments(),
			Filters:   CommentFilters(),
			Orderable: []string{"created_at", "user.name"},
		},
	}
}
