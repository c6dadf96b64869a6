package fundamentals

import (
	"math"
	"reflect"
)

// Compact removes keys whose value is nil, NaN, an empty slice, an empty
// series or an empty map. Nested map[string]any values are compacted first
// and dropped when nothing is left.
// Absence of a key means "not computable", never "zero".
func Compact(record map[string]any) map[string]any {
	out := make(map[string]any, len(record))
	for k, v := range record {
		if nested, ok := v.(map[string]any); ok {
			v = Compact(nested)
		}
		if isAbsent(v) {
			continue
		}
		out[k] = v
	}
	return out
}

func isAbsent(v any) bool {
	switch n := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(n)
	case float32:
		return math.IsNaN(float64(n))
	case *float64:
		return n == nil || math.IsNaN(*n)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
