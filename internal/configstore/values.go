package configstore

import (
	"fmt"
	"strconv"
)

// StringList converts a decoded YAML list into strings. Scalars become a
// single element list and nil becomes an empty list.
func StringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(val)}
	}
}

// IntList converts a decoded YAML list into ints, reporting false when any
// element is not an integer.
func IntList(v any) ([]int, bool) {
	items, ok := v.([]any)
	if !ok {
		if ints, isInts := v.([]int); isInts {
			return append([]int(nil), ints...), true
		}
		return nil, false
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		switch n := item.(type) {
		case int:
			out = append(out, n)
		case int64:
			out = append(out, int(n))
		case float64:
			out = append(out, int(n))
		case string:
			parsed, err := strconv.Atoi(n)
			if err != nil {
				return nil, false
			}
			out = append(out, parsed)
		default:
			return nil, false
		}
	}
	return out, true
}

// StringMap converts a decoded YAML mapping into string values.
func StringMap(v any) map[string]string {
	m, ok := asMap(v)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		out[k] = fmt.Sprint(val)
	}
	return out
}
