package filters

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValueType is the declared type of a filter value.
type ValueType int

const (
	String ValueType = iota + 1
	Int
	Float
	Bool
	Array
	Date
)

// DateLayout is the layout accepted for Date filters.
const DateLayout = "2006-01-02"

var valueTypeNames = map[ValueType]string{
	String: "string",
	Int:    "int",
	Float:  "float",
	Bool:   "bool",
	Array:  "array",
	Date:   "date",
}

func (t ValueType) String() string {
	if name, ok := valueTypeNames[t]; ok {
		return name
	}
	return "unknown(" + strconv.Itoa(int(t)) + ")"
}

// Valid reports whether t is one of the declared value types.
func (t ValueType) Valid() bool {
	_, ok := valueTypeNames[t]
	return ok
}

// ParseValueType resolves a type name such as "string" or "boolean".
func ParseValueType(name string) (ValueType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string", "str":
		return String, nil
	case "int", "integer":
		return Int, nil
	case "float", "double", "number":
		return Float, nil
	case "bool", "boolean":
		return Bool, nil
	case "array", "list":
		return Array, nil
	case "date":
		return Date, nil
	}
	return 0, fmt.Errorf("%w: unknown value type %q", ErrInvalidFilter, name)
}

// coerce converts a raw request value to the Go type matching t.
// The second result is false when the filter must be skipped: an empty
// Array value.
func coerce(t ValueType, raw any) (any, bool, error) {
	switch t {
	case Bool:
		return parseBool(raw), true, nil
	case Array:
		values := parseArray(raw)
		if len(values) == 0 {
			return nil, false, nil
		}
		return values, true, nil
	}

	s, err := scalar(t, raw)
	if err != nil {
		return nil, false, err
	}

	switch t {
	case String:
		return s, true, nil
	case Int:
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, s)
		}
		return v, true, nil
	case Float:
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, s)
		}
		return v, true, nil
	case Date:
		v, err := time.Parse(DateLayout, strings.TrimSpace(s))
		if err != nil {
			return nil, false, fmt.Errorf("%w: %q is not a date (%s)", ErrInvalidValue, s, DateLayout)
		}
		return v, true, nil
	}
	return nil, false, fmt.Errorf("%w: unsupported type %s", ErrInvalidFilter, t)
}

// parseBool is true only for the literal "true".
func parseBool(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

func parseArray(raw any) []string {
	switch v := raw.(type) {
	case []string:
		return v
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case Pairs:
		out := make([]string, 0, len(v))
		for _, p := range v {
			out = append(out, p.Value)
		}
		return out
	}
	return nil
}

// scalar extracts a single string from raw for the scalar types.
func scalar(t ValueType, raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case time.Time:
		if t == Date {
			return v.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("%w: %T cannot be used as %s", ErrInvalidValue, raw, t)
}
