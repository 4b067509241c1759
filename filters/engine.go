// Package filters turns request parameters into query builder mutations:
// registered typed filters, allow-listed ordering (including ordering by a
// column of a related table) and a generic search across a model's columns,
// translations and allowed relations.
//
// An Engine is created per request:
//
//	engine := filters.New(registry, params,
//	    filters.WithOrderable("title", "author.name"),
//	    filters.WithLocale(filters.StaticLocale("nl")),
//	)
//	b, err := engine.Apply(sqlbuilder.New(models.Posts))
package filters

import (
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

// Engine applies one request's filters, ordering and search to a Builder.
// It is not safe for concurrent use and is discarded after the request.
type Engine struct {
	registry  *Registry
	params    Params
	orderable []string
	locale    LocaleProvider
	log       zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithOrderable sets the allow-list of order keys: bare columns and
// "relation.field" paths. Keys outside the list are ignored.
func WithOrderable(keys ...string) Option {
	return func(e *Engine) {
		e.orderable = append(e.orderable, keys...)
	}
}

// WithLocale sets the locale used when ordering by translated fields.
func WithLocale(lp LocaleProvider) Option {
	return func(e *Engine) {
		e.locale = lp
	}
}

// WithLogger sets the logger reporting skipped filters, order keys and search relations.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// New creates an Engine over registry reading from params. A nil registry
// registers no filters.
func New(registry *Registry, params Params, opts ...Option) *Engine {
	if registry == nil {
		registry = MustRegistry()
	}
	if params == nil {
		params = Values{}
	}
	e := &Engine{
		registry: registry,
		params:   params,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply runs the filters present in the request, then the requested
// ordering, then the requested search, and returns the resulting builder.
func (e *Engine) Apply(b Builder) (Builder, error) {
	b, err := e.ApplyFilters(b)
	if err != nil {
		return nil, err
	}

	if order := e.params.Get(OrderParam); filled(order) {
		if b, err = e.ApplyOrder(b, order); err != nil {
			return nil, err
		}
	}

	if search, ok := e.params.Get(SearchParam).(string); ok && filled(search) {
		b = e.ApplySearch(b, search)
	}

	return b, nil
}

// Present returns the request values of registered filters that are not nil.
func (e *Engine) Present() map[string]any {
	return e.params.Only(e.registry.Names()...)
}

// ApplyFilters dispatches every present filter, in registry order, to its
// handler.
func (e *Engine) ApplyFilters(b Builder) (Builder, error) {
	present := e.Present()
	for _, name := range e.registry.Names() {
		raw, ok := present[name]
		if !ok {
			continue
		}
		f, _ := e.registry.Lookup(name)

		value, apply, err := coerce(f.Type, raw)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", name, err)
		}
		if !apply {
			e.log.Debug().Str("filter", name).Msg("Skipping empty array filter")
			continue
		}

		b = f.Handle(value, b)
	}
	return b, nil
}

func (e *Engine) orderAllowed(key string) bool {
	return slices.Contains(e.orderable, key)
}
