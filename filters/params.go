package filters

import (
	"fmt"
	"net/url"
	"strings"
)

// Params gives read access to the parameters of one request. Values are
// string, []string, Pairs or values that are already typed.
type Params interface {
	Has(name string) bool
	// Get returns nil for an absent parameter.
	Get(name string) any
	// Only returns the non-nil values of the named parameters.
	Only(names ...string) map[string]any
}

// Pair is one entry of an ordered mapping parameter.
type Pair struct {
	Key   string
	Value string
}

// Pairs is an ordered mapping, e.g. orderBy[name]=asc&orderBy[id]=desc.
type Pairs []Pair

// Values is a Params backed by a plain map.
type Values map[string]any

func (v Values) Has(name string) bool { return v[name] != nil }

func (v Values) Get(name string) any { return v[name] }

func (v Values) Only(names ...string) map[string]any {
	return only(v, names)
}

func only(p Params, names []string) map[string]any {
	out := make(map[string]any, len(names))
	for _, name := range names {
		if value := p.Get(name); value != nil {
			out[name] = value
		}
	}
	return out
}

// filled reports whether a parameter carries a usable value.
func filled(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(value) != ""
	case []string:
		return len(value) > 0
	case []any:
		return len(value) > 0
	case Pairs:
		return len(value) > 0
	case map[string]string:
		return len(value) > 0
	case map[string]any:
		return len(value) > 0
	}
	return true
}

// QueryParams is a Params parsed from a raw URL query string. Unlike
// url.Values it keeps the order of bracketed mapping entries.
type QueryParams struct {
	values map[string]any
}

// ParseQuery parses a raw query string. It understands
//
//	k=v            string (the last of repeated keys wins)
//	k[]=a&k[]=b    []string
//	k[x]=a&k[y]=b  Pairs, in query order
//
// Empty values are treated as absent.
func ParseQuery(raw string) (*QueryParams, error) {
	q := &QueryParams{values: make(map[string]any)}
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("invalid query key %q: %w", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("invalid query value for %q: %w", key, err)
		}
		q.add(key, value)
	}
	return q, nil
}

func (q *QueryParams) add(key, value string) {
	name, sub, bracketed := splitBracket(key)
	if name == "" {
		return
	}

	switch {
	case bracketed && sub == "":
		list, _ := q.values[name].([]string)
		if value != "" {
			list = append(list, value)
		}
		if list == nil {
			list = []string{}
		}
		q.values[name] = list
	case bracketed:
		if value == "" {
			return
		}
		pairs, _ := q.values[name].(Pairs)
		q.values[name] = append(pairs, Pair{Key: sub, Value: value})
	default:
		if value == "" {
			q.values[name] = nil
			return
		}
		q.values[name] = value
	}
}

// splitBracket splits "name[sub]" into its parts.
func splitBracket(key string) (name, sub string, bracketed bool) {
	open := strings.IndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, "", false
	}
	return key[:open], key[open+1 : len(key)-1], true
}

func (q *QueryParams) Has(name string) bool { return q.values[name] != nil }

func (q *QueryParams) Get(name string) any { return q.values[name] }

func (q *QueryParams) Only(names ...string) map[string]any {
	return only(q, names)
}
