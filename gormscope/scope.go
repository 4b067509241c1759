// Package gormscope is a filters.Builder over a gorm query chain, for
// applications that already query through gorm.
package gormscope

import (
	"strings"

	"github.com/jinzhu/gorm"
	"golang.org/x/exp/slices"

	"github.com/SanteonNL/sift/filters"
	"github.com/SanteonNL/sift/predicate"
)

// Scope wraps a *gorm.DB chain scoped to the model's table.
type Scope struct {
	db         *gorm.DB
	model      filters.Model
	renderer   *predicate.Renderer
	selectAll  bool
	selects    []string
	selectArgs []any
}

// New starts a scope over model's table.
func New(db *gorm.DB, model filters.Model) *Scope {
	dialect := db.Dialect()
	opts := &predicate.Options{Quote: dialect.Quote}
	switch dialect.GetName() {
	case "postgres":
		opts.LikeCast = "TEXT"
	case "sqlite3":
		opts.LikeEscape = `\`
	}
	return &Scope{
		db:       db.Table(model.TableName()),
		model:    model,
		renderer: predicate.NewRenderer(opts),
	}
}

// DB returns the gorm chain with every applied condition, ready for Find,
// Rows or Count.
func (s *Scope) DB() *gorm.DB {
	return s.db
}

func (s *Scope) with(db *gorm.DB) *Scope {
	c := *s
	c.db = db
	c.selects = slices.Clip(s.selects)
	c.selectArgs = slices.Clip(s.selectArgs)
	return &c
}

func (s *Scope) Model() filters.Model { return s.model }

func (s *Scope) WhereEquals(column string, value any) filters.Builder {
	return s.Where(predicate.Eq{Column: column, Value: value})
}

func (s *Scope) WhereLike(column, pattern string) filters.Builder {
	return s.Where(predicate.Like{Column: column, Pattern: pattern})
}

func (s *Scope) WhereIn(column string, values []any) filters.Builder {
	return s.Where(predicate.In{Column: column, Values: values})
}

func (s *Scope) Where(p predicate.Predicate) filters.Builder {
	if p == nil {
		return s
	}
	cond, args := s.renderer.Render(p)
	return s.with(s.db.Where(cond, args...))
}

func (s *Scope) OrderBy(column string, dir filters.Direction) filters.Builder {
	return s.with(s.db.Order(s.renderer.Ident(column) + " " + strings.ToUpper(string(dir))))
}

func (s *Scope) SelectAll() filters.Builder {
	if s.selectAll {
		return s
	}
	c := s.with(s.db)
	c.selectAll = true
	c.selects = append([]string{s.renderer.Ident(s.model.TableName() + ".*")}, c.selects...)
	return c.reselect()
}

func (s *Scope) SelectSubquery(sq predicate.Subquery, alias string) filters.Builder {
	sq.Alias = ""
	sub, args := s.renderer.RenderSubquery(sq)

	c := s.with(s.db)
	c.selects = append(c.selects, sub+" AS "+s.renderer.Ident(alias))
	c.selectArgs = append(c.selectArgs, args...)
	return c.reselect()
}

// gorm replaces the select list on every Select call, so the full list is
// issued each time.
func (s *Scope) reselect() *Scope {
	s.db = s.db.Select(strings.Join(s.selects, ", "), s.selectArgs...)
	return s
}
