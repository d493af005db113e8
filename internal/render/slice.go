package render

import (
	"math"
	"reflect"
	"strconv"
)

// Slice restricts a sequence to an index window. With only from it returns
// the tail starting at from; with to it returns from..to inclusive. Bounds
// follow array slice clamping, negative values counting from the end.
// Anything that is not a sequence yields an empty list.
func Slice(items any, bounds ...any) any {
	rv := reflect.ValueOf(items)
	for rv.IsValid() && (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return []any{}
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return []any{}
	}

	n := rv.Len()
	start, end := 0, n
	if len(bounds) > 0 {
		if from, ok := toInt(bounds[0]); ok {
			start = from
		}
	}
	if len(bounds) > 1 {
		if to, ok := toInt(bounds[1]); ok {
			end = to + 1
		}
	}
	start, end = clamp(start, n), clamp(end, n)

	out := make([]any, 0, max(end-start, 0))
	for i := start; i < end; i++ {
		out = append(out, rv.Index(i).Interface())
	}
	return out
}

func clamp(i, n int) int {
	if i < 0 {
		return max(n+i, 0)
	}
	return min(i, n)
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int(x), true
	case string:
		i, err := strconv.Atoi(x)
		return i, err == nil
	}
	return 0, false
}
