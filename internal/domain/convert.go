package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// NonNegativeInt converts v to a non-negative whole number. Numeric strings are
// accepted; fractional, negative or non-numeric values are rejected.
func NonNegativeInt(field string, v any) (int, error) {
	invalid := func(msg string) error {
		return &ValidationError{Field: field, Value: v, Message: msg}
	}
	var n int
	switch t := v.(type) {
	case int:
		n = t
	case int32:
		n = int(t)
	case int64:
		n = int(t)
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) || math.IsNaN(t) {
			return 0, invalid("must be a whole number")
		}
		n = int(t)
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return 0, invalid("must be a whole number")
		}
		n = int(i)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, invalid("must be numeric")
		}
		n = i
	default:
		return 0, invalid("must be numeric")
	}
	if n < 0 {
		return 0, invalid("must be non-negative")
	}
	return n, nil
}
