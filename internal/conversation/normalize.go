package conversation

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// Normalize makes a value JSON-safe before it crosses the wire to the
// command center: time values become RFC 3339 strings, maps and
// sequences are walked recursively, primitive scalars pass through,
// and anything else is stringified. Applied once at the dispatcher
// boundary, never inside tools.
func Normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		return t.Format(time.RFC3339)
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.Format(time.RFC3339)
	case time.Duration:
		return t.String()
	case json.Number:
		return t
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return t
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Normalize(val)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Normalize(rv.Elem().Interface())
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = Normalize(iter.Value().Interface())
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	default:
		return fmt.Sprint(v)
	}
}

// NormalizeMap normalizes a context map, preserving nil.
func NormalizeMap(m map[string]any) any {
	if m == nil {
		return nil
	}
	return Normalize(m)
}
