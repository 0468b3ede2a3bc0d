package rubric

import (
	"fmt"
	"regexp"
	"strings"
)

// evaluateNotEmpty checks that a value is non-nil and non-empty.
func evaluateNotEmpty(_ Check, value any) (bool, string) {
	if value == nil {
		return false, "value is nil"
	}

	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return false, "string is empty"
		}
	case []string:
		if len(v) == 0 {
			return false, "list is empty"
		}
	case []any:
		if len(v) == 0 {
			return false, "list is empty"
		}
	case map[string]any:
		if len(v) == 0 {
			return false, "map is empty"
		}
	}

	return true, "value is not empty"
}

// evaluateIsTrue checks that a boolean value is true.
func evaluateIsTrue(_ Check, value any) (bool, string) {
	b, ok := value.(bool)
	if !ok {
		return false, "value is not a boolean"
	}
	if !b {
		return false, "value is false"
	}
	return true, "value is true"
}

// evaluateContains checks that a string value contains the
// expected substring (case-insensitive).
func evaluateContains(check Check, value any) (bool, string) {
	str, ok := value.(string)
	if !ok {
		return false, "value is not a string"
	}

	expected, ok := check.Value.(string)
	if !ok {
		return false, "expected value is not a string"
	}

	if strings.Contains(
		strings.ToLower(str), strings.ToLower(expected),
	) {
		return true, fmt.Sprintf("contains '%s'", expected)
	}
	return false, fmt.Sprintf("does not contain '%s'", expected)
}

// evaluateContainsAny checks that a string value contains at
// least one of the expected substrings.
func evaluateContainsAny(check Check, value any) (bool, string) {
	str, ok := value.(string)
	if !ok {
		return false, "value is not a string"
	}

	lower := strings.ToLower(str)
	needles := expectedStrings(check)
	for _, needle := range needles {
		if strings.Contains(lower, strings.ToLower(needle)) {
			return true, fmt.Sprintf("contains '%s'", needle)
		}
	}
	return false, fmt.Sprintf(
		"does not contain any of: %v", needles,
	)
}

// evaluateContainsCount checks that a string value contains at
// least Value of the expected substrings.
func evaluateContainsCount(check Check, value any) (bool, string) {
	str, ok := value.(string)
	if !ok {
		return false, "value is not a string"
	}

	minCount, ok := toInt(check.Value)
	if !ok {
		return false, "expected value is not a number"
	}

	lower := strings.ToLower(str)
	found := 0
	for _, needle := range expectedStrings(check) {
		if strings.Contains(lower, strings.ToLower(needle)) {
			found++
		}
	}

	if found >= minCount {
		return true, fmt.Sprintf(
			"found %d >= %d", found, minCount,
		)
	}
	return false, fmt.Sprintf("found %d < %d", found, minCount)
}

// evaluateRegex checks that a string value matches the expected
// pattern (case-insensitive). An invalid pattern panics.
func evaluateRegex(check Check, value any) (bool, string) {
	str, ok := value.(string)
	if !ok {
		return false, "value is not a string"
	}

	pattern, ok := check.Value.(string)
	if !ok {
		return false, "expected value is not a string"
	}

	if compile(pattern).MatchString(str) {
		return true, fmt.Sprintf("matches '%s'", pattern)
	}
	return false, fmt.Sprintf("does not match '%s'", pattern)
}

// evaluateRegexAny checks that a string value matches at least
// one of the expected patterns.
func evaluateRegexAny(check Check, value any) (bool, string) {
	str, ok := value.(string)
	if !ok {
		return false, "value is not a string"
	}

	patterns := expectedStrings(check)
	for _, pattern := range patterns {
		if compile(pattern).MatchString(str) {
			return true, fmt.Sprintf("matches '%s'", pattern)
		}
	}
	return false, fmt.Sprintf(
		"does not match any of: %v", patterns,
	)
}

// evaluateMinLength checks that a string value meets a minimum
// character length.
func evaluateMinLength(check Check, value any) (bool, string) {
	str, ok := value.(string)
	if !ok {
		return false, "value is not a string"
	}

	minLength, ok := toInt(check.Value)
	if !ok {
		return false, "expected value is not a number"
	}

	actual := len([]rune(str))
	if actual >= minLength {
		return true, fmt.Sprintf(
			"length %d >= %d", actual, minLength,
		)
	}
	return false, fmt.Sprintf("length %d < %d", actual, minLength)
}

// evaluateMinCount checks that a list or map holds at least the
// expected number of entries.
func evaluateMinCount(check Check, value any) (bool, string) {
	count, ok := toCount(value)
	if !ok {
		return false, "value is not countable"
	}

	minCount, ok := toInt(check.Value)
	if !ok {
		return false, "expected value is not a number"
	}

	if count >= minCount {
		return true, fmt.Sprintf("count %d >= %d", count, minCount)
	}
	return false, fmt.Sprintf("count %d < %d", count, minCount)
}

// evaluateMinValue checks that a numeric value is at least the
// expected minimum.
func evaluateMinValue(check Check, value any) (bool, string) {
	actual, ok := toFloat64(value)
	if !ok {
		return false, "value is not a number"
	}

	minimum, ok := toFloat64(check.Value)
	if !ok {
		return false, "expected value is not a number"
	}

	if actual >= minimum {
		return true, fmt.Sprintf("value %.2f >= %.2f", actual, minimum)
	}
	return false, fmt.Sprintf("value %.2f < %.2f", actual, minimum)
}

// evaluateAboveValue checks that a numeric value is strictly
// greater than the expected bound.
func evaluateAboveValue(check Check, value any) (bool, string) {
	actual, ok := toFloat64(value)
	if !ok {
		return false, "value is not a number"
	}

	bound, ok := toFloat64(check.Value)
	if !ok {
		return false, "expected value is not a number"
	}

	if actual > bound {
		return true, fmt.Sprintf("value %.2f > %.2f", actual, bound)
	}
	return false, fmt.Sprintf("value %.2f <= %.2f", actual, bound)
}

// compile builds a case-insensitive pattern.
func compile(pattern string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + pattern)
}

// expectedStrings collects the string members of Values, or
// splits a comma-separated Value when Values is empty.
func expectedStrings(check Check) []string {
	var out []string
	for _, item := range check.Values {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) > 0 {
		return out
	}

	switch v := check.Value.(type) {
	case string:
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	case []string:
		out = append(out, v...)
	}
	return out
}

// Strings converts a string slice to the []any form of
// Check.Values.
func Strings(items ...string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}

// toInt converts an any value to int.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	case int64:
		return int(n), true
	}
	return 0, false
}

// toFloat64 converts an any value to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// toCount returns the length of a list or map.
func toCount(v any) (int, bool) {
	switch c := v.(type) {
	case []any:
		return len(c), true
	case []string:
		return len(c), true
	case []map[string]any:
		return len(c), true
	case map[string]any:
		return len(c), true
	}
	return 0, false
}
