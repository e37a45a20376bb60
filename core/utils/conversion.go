package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToString converts various types to string.
// nil becomes the empty string; floats are rendered without exponent or trailing zeros.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToFloat converts various types to float64 using explicit type switching.
// The second return value is false when the value cannot be interpreted as a number.
func ToFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case uint32:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case []byte:
		return ToFloat(string(v))
	default:
		return 0, false
	}
}

// IsEmpty reports whether a loosely typed value carries no information:
// nil, the empty string, a numeric zero, false, or an empty list.
func IsEmpty(val any) bool {
	switch v := val.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []byte:
		return len(v) == 0
	case bool:
		return !v
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	default:
		if f, ok := ToFloat(v); ok {
			return f == 0
		}
		return false
	}
}

// Join flattens a single value or a list of values into one string.
// Scalars are converted with ToString; list elements are joined with sep.
func Join(val any, sep string) string {
	switch v := val.(type) {
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, ToString(item))
		}
		return strings.Join(parts, sep)
	case []string:
		return strings.Join(v, sep)
	default:
		return ToString(v)
	}
}
