package graph

import (
	"encoding/json"
	"strconv"
)

// AsInt coerces a property value to an int. It tolerates every numeric form
// a value can take depending on whether the graph was just built in memory
// (int) or reloaded from JSON (json.Number, float64), plus integer-looking
// strings, which upstream labels occasionally are.
func AsInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(x)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// AsFloat coerces a property value to a float64.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// IntOrString parses s as an int when possible and keeps the string
// otherwise. Measure numbers and beat counts are usually numeric but can
// carry suffixes (e.g. "16a").
func IntOrString(s string) any {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return s
}
