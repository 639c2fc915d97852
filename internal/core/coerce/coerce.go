// Package coerce parses untrusted numeric fields from host documents.
//
// Host snapshots store numbers as whatever the document store handed back:
// integers, floats, numeric strings, or garbage. Callers always supply a
// fallback so a malformed field degrades to a safe default instead of an
// error.
package coerce

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Int converts value to an integer, returning fallback when value carries no
// leading integer.
//
// Strings are read the lenient way form inputs usually are: leading
// whitespace and an optional sign are accepted, and parsing stops at the first
// non-digit ("12abc" is 12). Floats are truncated toward zero. NaN, infinities,
// booleans, nil and values that overflow int fall back.
func Int(value any, fallback int) int {
	switch v := value.(type) {
	case nil:
		return fallback
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return fromInt64(v, fallback)
	case uint:
		return fromUint64(uint64(v), fallback)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return fromUint64(uint64(v), fallback)
	case uint64:
		return fromUint64(v, fallback)
	case float32:
		return fromFloat(float64(v), fallback)
	case float64:
		return fromFloat(v, fallback)
	case json.Number:
		return fromString(v.String(), fallback)
	case string:
		return fromString(v, fallback)
	case *int:
		if v == nil {
			return fallback
		}
		return *v
	default:
		return fallback
	}
}

// NonNegative behaves like Int but clamps negative results to zero.
func NonNegative(value any, fallback int) int {
	n := Int(value, fallback)
	if n < 0 {
		return 0
	}
	return n
}

func fromInt64(v int64, fallback int) int {
	if v > math.MaxInt || v < math.MinInt {
		return fallback
	}
	return int(v)
}

func fromUint64(v uint64, fallback int) int {
	if v > math.MaxInt {
		return fallback
	}
	return int(v)
}

func fromFloat(v float64, fallback int) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	t := math.Trunc(v)
	if t >= math.MaxInt64 || t < math.MinInt64 {
		return fallback
	}
	return fromInt64(int64(t), fallback)
}

func fromString(s string, fallback int) int {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return fallback
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return fallback
	}
	return fromInt64(n, fallback)
}
