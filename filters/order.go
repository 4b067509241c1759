package filters

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/SanteonNL/sift/predicate"
)

// OrderClause is one requested ordering.
type OrderClause struct {
	Column    string
	Direction Direction
}

// ParseOrder normalises an orderBy value. Structured values are Pairs,
// map[string]string or map[string]any (applied in key order, maps being
// unordered); a string is decoded as a JSON object in document order.
func ParseOrder(raw any) ([]OrderClause, error) {
	var pairs Pairs
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []OrderClause:
		return v, nil
	case Pairs:
		pairs = v
	case map[string]string:
		for _, k := range sortedKeys(v) {
			pairs = append(pairs, Pair{Key: k, Value: v[k]})
		}
	case map[string]any:
		for _, k := range sortedKeys(v) {
			s, ok := v[k].(string)
			if !ok {
				return nil, fmt.Errorf("%w: direction of %q is %T", ErrInvalidOrder, k, v[k])
			}
			pairs = append(pairs, Pair{Key: k, Value: s})
		}
	case string:
		decoded, err := decodeOrder(v)
		if err != nil {
			return nil, err
		}
		pairs = decoded
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidOrder, raw)
	}

	// A repeated key keeps its first position and its last direction.
	clauses := make([]OrderClause, 0, len(pairs))
	seen := make(map[string]int, len(pairs))
	for _, p := range pairs {
		dir, err := ParseDirection(p.Value)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", p.Key, err)
		}
		if i, ok := seen[p.Key]; ok {
			clauses[i].Direction = dir
			continue
		}
		seen[p.Key] = len(clauses)
		clauses = append(clauses, OrderClause{Column: p.Key, Direction: dir})
	}
	return clauses, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

// decodeOrder reads a JSON object of column to direction, keeping the
// order of its members.
func decodeOrder(s string) (Pairs, error) {
	data := []byte(s)
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidOrder)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidOrder)
	}

	var pairs Pairs
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected a column name", ErrInvalidOrder)
		}
		valueTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
		}
		value, ok := valueTok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: direction of %q is not a string", ErrInvalidOrder, key)
		}
		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	return pairs, nil
}

// ApplyOrder adds the requested orderings whose keys are allow-listed.
// Dotted keys order by a column of a related table; keys that are not
// allowed or do not resolve are dropped.
func (e *Engine) ApplyOrder(b Builder, raw any) (Builder, error) {
	clauses, err := ParseOrder(raw)
	if err != nil {
		return nil, err
	}

	for _, c := range clauses {
		if !e.orderAllowed(c.Column) {
			e.log.Debug().Str("column", c.Column).Msg("Dropping order key outside allow-list")
			continue
		}
		if strings.Contains(c.Column, ".") {
			b = e.orderByRelation(b, c.Column, c.Direction)
			continue
		}
		b = b.OrderBy(c.Column, c.Direction)
	}
	return b, nil
}

// orderByRelation orders by one field of a related row, fetched with a
// correlated subquery so that to-many relations do not multiply parent rows.
func (e *Engine) orderByRelation(b Builder, key string, dir Direction) Builder {
	name, field, _ := strings.Cut(key, ".")
	if name == "" || field == "" || strings.Contains(field, ".") {
		e.log.Debug().Str("column", key).Msg("Dropping order key with unsupported nesting")
		return b
	}

	model := b.Model()
	rel, ok := model.Relation(name)
	if !ok {
		e.log.Debug().Str("relation", name).Msg("Dropping order by unknown relation")
		return b
	}
	left, right, ok := rel.correlate(name, model)
	if !ok {
		e.log.Debug().
			Str("relation", name).
			Str("kind", rel.Kind.String()).
			Msg("Dropping order by unsupported relation kind")
		return b
	}

	alias := name + "_" + field
	where := predicate.And{predicate.ColumnEq{Left: left, Right: right}}
	if name == TranslationRelation && e.locale != nil {
		where = append(where, predicate.Eq{
			Column: rel.Table + "." + LocaleColumn,
			Value:  e.locale.CurrentLocale(),
		})
	}

	sq := predicate.Subquery{
		Table:  rel.Table,
		Column: field,
		Alias:  alias,
		Where:  where,
		Limit:  1,
	}
	return b.SelectAll().SelectSubquery(sq, alias).OrderBy(alias, dir)
}
