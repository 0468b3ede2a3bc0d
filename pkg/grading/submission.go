package grading

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Submission is the structured data a learner provides for
// grading. Accessors are tolerant: an absent or wrong-typed
// field reads as the zero value, since a malformed submission
// must be scored rather than rejected.
type Submission map[string]any

// Value returns the raw field value, or nil when absent.
func (s Submission) Value(key string) any {
	if s == nil {
		return nil
	}
	return s[key]
}

// Has reports whether the field is present.
func (s Submission) Has(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s[key]
	return ok
}

// String returns the field as a string.
func (s Submission) String(key string) string {
	v, ok := s.Value(key).(string)
	if !ok {
		return ""
	}
	return v
}

// Strings returns the field as a list of strings. Non-string
// list members are skipped.
func (s Submission) Strings(key string) []string {
	switch v := s.Value(key).(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// Float returns the field as a float64. JSON numbers, YAML
// integers, and numeric strings are accepted.
func (s Submission) Float(key string) float64 {
	f, _ := toFloat64(s.Value(key))
	return f
}

// Int returns the field as an int, truncating fractional
// numbers.
func (s Submission) Int(key string) int {
	f, _ := toFloat64(s.Value(key))
	return int(f)
}

// Text returns the field rendered as text: strings as-is, lists
// of strings joined by a space, anything else in its JSON form.
func (s Submission) Text(key string) string {
	switch v := s.Value(key).(type) {
	case nil:
		return ""
	case string:
		return v
	case []string, []any:
		return strings.Join(s.Strings(key), " ")
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}

// toFloat64 converts numeric values to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(
			strings.TrimSpace(n), 64,
		)
		return f, err == nil
	}
	return 0, false
}
