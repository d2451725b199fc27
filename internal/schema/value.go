package schema

import (
	"fmt"
	"time"

	"taskbundle/internal/common"
)

// TypeOf returns the JSON type name of a parsed value.
func TypeOf(v any) string {
	switch v.(type) {
	case nil:
		return string(TypeNull)
	case map[string]any:
		return string(TypeObject)
	case []any:
		return string(TypeArray)
	case string:
		return string(TypeString)
	case bool:
		return string(TypeBoolean)
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return string(TypeNumber)
	default:
		return common.UnknownStr
	}
}

// Number converts any numeric value to float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Normalize converts a decoded value into the JSON value model used by the
// validator: objects are map[string]any, arrays are []any, numbers are
// float64 and timestamps are RFC 3339 strings. YAML decoders produce the
// other shapes. The result never shares containers with v.
func Normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = Normalize(item)
		}

		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[fmt.Sprint(k)] = Normalize(item)
		}

		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Normalize(item)
		}

		return out
	case []string:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = item
		}

		return out
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	}

	if n, ok := Number(v); ok {
		return n
	}

	return v
}
