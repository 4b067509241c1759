// Package declare loads list resource declarations from JSON and turns them
// into filter registries and table descriptions.
//
// A declarations document looks like
//
//	{"resources": [{
//	    "name": "posts",
//	    "orderable": ["title", "author.name"],
//	    "relations": [{"name": "author", "kind": "belongsTo", "table": "users"}],
//	    "filters": [
//	        {"name": "status", "type": "string", "column": "status"},
//	        {"name": "published_after", "type": "date", "column": "published_at", "operator": "ge"}
//	    ]
//	}]}
package declare

import (
	"fmt"
	"strings"

	"github.com/SanteonNL/sift/filters"
	"github.com/SanteonNL/sift/predicate"
	"github.com/SanteonNL/sift/schema"
)

var comparators = map[string]predicate.Operator{
	"eq": predicate.OpEq,
	"ne": predicate.OpNe,
	"gt": predicate.OpGt,
	"ge": predicate.OpGe,
	"lt": predicate.OpLt,
	"le": predicate.OpLe,
}

// Handler returns the column handler for the declared operator. Without an
// operator, array filters match any listed value and others match equality.
func (f FilterDeclaration) Handler(t filters.ValueType) (filters.Handler, error) {
	op := strings.ToLower(f.Operator)
	if op == "" {
		op = "eq"
		if t == filters.Array {
			op = "in"
		}
	}

	switch op {
	case "eq":
		return filters.Equals(f.Column), nil
	case "contains":
		return filters.Contains(f.Column), nil
	case "in":
		return filters.OneOf(f.Column), nil
	}
	if cmp, ok := comparators[op]; ok {
		return filters.Compare(f.Column, cmp), nil
	}
	return nil, fmt.Errorf("%w: filter %s has unknown operator %q", filters.ErrInvalidFilter, f.Name, f.Operator)
}

// Registry builds the filter registry of the declaration. Every filtered
// column must exist on table.
func (d *Declaration) Registry(table *schema.Table) (*filters.Registry, error) {
	list := make([]filters.Filter, 0, len(d.Filters))
	for _, fd := range d.Filters {
		t, err := filters.ParseValueType(fd.Type)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", fd.Name, err)
		}
		if fd.Column == "" {
			fd.Column = fd.Name
		}
		if !strings.Contains(fd.Column, ".") && !table.HasColumn(fd.Column) {
			return nil, fmt.Errorf("%w: filter %s references unknown column %s.%s",
				filters.ErrInvalidFilter, fd.Name, table.TableName(), fd.Column)
		}
		handle, err := fd.Handler(t)
		if err != nil {
			return nil, err
		}
		list = append(list, filters.Filter{Name: fd.Name, Type: t, Handle: handle})
	}
	return filters.NewRegistry(list...)
}

// Extend adds the declared relations, translations and search fields to
// table.
func (d *Declaration) Extend(table *schema.Table) (*schema.Table, error) {
	for _, rel := range d.Relations {
		switch strings.ToLower(rel.Kind) {
		case "hasmany":
			if rel.ForeignKey == "" {
				return nil, fmt.Errorf("relation %s of %s: missing foreign key", rel.Name, d.Name)
			}
			table.HasMany(rel.Name, rel.Table, rel.ForeignKey)
		case "belongsto":
			table.BelongsTo(rel.Name, rel.Table)
		default:
			return nil, fmt.Errorf("relation %s of %s: unknown kind %q", rel.Name, d.Name, rel.Kind)
		}
	}
	if tr := d.Translations; tr != nil {
		table.Translatable(tr.Table, tr.ForeignKey, tr.Fields...)
	}
	for rel, fields := range d.Search {
		table.SearchIn(rel, fields...)
	}
	return table, nil
}

// Engine returns an engine applying the declaration's filters and ordering
// to params.
func (d *Declaration) Engine(registry *filters.Registry, params filters.Params, opts ...filters.Option) *filters.Engine {
	opts = append([]filters.Option{filters.WithOrderable(d.Orderable...)}, opts...)
	return filters.New(registry, params, opts...)
}
