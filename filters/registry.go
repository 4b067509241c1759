package filters

import (
	"fmt"
	"strings"
	"time"

	"github.com/SanteonNL/sift/predicate"
)

const (
	// OrderParam is the request parameter carrying the requested ordering.
	OrderParam = "orderBy"
	// SearchParam is the request parameter carrying the search phrase.
	SearchParam = "search"
)

// Handler turns a coerced filter value into a builder mutation. The value
// has the Go type of the filter's ValueType: string, int64, float64, bool,
// []string or time.Time.
type Handler func(value any, b Builder) Builder

// Filter is a named, typed request filter.
type Filter struct {
	Name   string
	Type   ValueType
	Handle Handler
}

func typed[T any](name string, t ValueType, fn func(T, Builder) Builder) Filter {
	f := Filter{Name: name, Type: t}
	if fn != nil {
		f.Handle = func(v any, b Builder) Builder { return fn(v.(T), b) }
	}
	return f
}

func StringFilter(name string, fn func(string, Builder) Builder) Filter {
	return typed(name, String, fn)
}

func IntFilter(name string, fn func(int64, Builder) Builder) Filter {
	return typed(name, Int, fn)
}

func FloatFilter(name string, fn func(float64, Builder) Builder) Filter {
	return typed(name, Float, fn)
}

func BoolFilter(name string, fn func(bool, Builder) Builder) Filter {
	return typed(name, Bool, fn)
}

// ArrayFilter declares a filter over a list of values. It is skipped when
// the request carries an empty list.
func ArrayFilter(name string, fn func([]string, Builder) Builder) Filter {
	return typed(name, Array, fn)
}

func DateFilter(name string, fn func(time.Time, Builder) Builder) Filter {
	return typed(name, Date, fn)
}

// Equals is a Handler adding column = value.
func Equals(column string) Handler {
	return func(v any, b Builder) Builder {
		return b.WhereEquals(column, v)
	}
}

// Compare is a Handler comparing column to the value with op.
func Compare(column string, op predicate.Operator) Handler {
	return func(v any, b Builder) Builder {
		return b.Where(predicate.Compare{Column: column, Op: op, Value: v})
	}
}

// Contains is a Handler matching column values containing the value.
func Contains(column string) Handler {
	return func(v any, b Builder) Builder {
		return b.WhereLike(column, predicate.Contains(fmt.Sprint(v)))
	}
}

// OneOf is a Handler matching column against a list value.
func OneOf(column string) Handler {
	return func(v any, b Builder) Builder {
		var values []any
		switch list := v.(type) {
		case []string:
			values = make([]any, len(list))
			for i, s := range list {
				values[i] = s
			}
		default:
			values = []any{v}
		}
		return b.WhereIn(column, values)
	}
}

// Registry holds the filters of one filter set, in declaration order.
type Registry struct {
	filters []Filter
	index   map[string]int
}

// NewRegistry validates and registers filters. Every filter needs a name,
// a known type and a handler; names must be unique and must not shadow the
// orderBy or search parameters.
func NewRegistry(filters ...Filter) (*Registry, error) {
	r := &Registry{
		filters: make([]Filter, 0, len(filters)),
		index:   make(map[string]int, len(filters)),
	}
	for _, f := range filters {
		if err := r.add(f); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustRegistry is NewRegistry for package level declarations.
func MustRegistry(filters ...Filter) *Registry {
	r, err := NewRegistry(filters...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) add(f Filter) error {
	switch {
	case strings.TrimSpace(f.Name) == "":
		return fmt.Errorf("%w: empty name", ErrInvalidFilter)
	case f.Name == OrderParam || f.Name == SearchParam:
		return fmt.Errorf("%w: %q is reserved", ErrInvalidFilter, f.Name)
	case !f.Type.Valid():
		return fmt.Errorf("%w: %q has no value type", ErrInvalidFilter, f.Name)
	case f.Handle == nil:
		return fmt.Errorf("%w: %q has no handler", ErrInvalidFilter, f.Name)
	}
	if _, exists := r.index[f.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateFilter, f.Name)
	}
	r.index[f.Name] = len(r.filters)
	r.filters = append(r.filters, f)
	return nil
}

// Lookup returns the filter registered under name.
func (r *Registry) Lookup(name string) (Filter, bool) {
	i, ok := r.index[name]
	if !ok {
		return Filter{}, false
	}
	return r.filters[i], true
}

// Names returns the registered names in declaration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.filters))
	for i, f := range r.filters {
		names[i] = f.Name
	}
	return names
}

func (r *Registry) Len() int { return len(r.filters) }
