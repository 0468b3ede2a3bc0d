package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"digital.vasic.grader/pkg/grading"
)

// JSONStructure checks that data is an object holding every
// required top-level key. Data may be raw JSON (string, []byte,
// json.RawMessage) or an already-decoded map. Unparsable JSON
// and non-object values fail immediately with a zero score.
//
// Score is the fraction of required keys present (1.0 with no
// required keys). Keys outside required and optional are
// reported but do not fail the check.
//
// Details: "missing" ([]string, in required order) and "extra"
// ([]string, sorted).
func JSONStructure(
	data any,
	required []string,
	optional ...string,
) grading.Outcome {
	obj, failure, ok := asObject(data)
	if !ok {
		return grading.Fail(failure)
	}

	requiredSet := make(map[string]struct{}, len(required))
	requiredKeys := make([]string, 0, len(required))
	for _, k := range required {
		if _, dup := requiredSet[k]; dup {
			continue
		}
		requiredSet[k] = struct{}{}
		requiredKeys = append(requiredKeys, k)
	}
	allowed := make(map[string]struct{}, len(required)+len(optional))
	for k := range requiredSet {
		allowed[k] = struct{}{}
	}
	for _, k := range optional {
		allowed[k] = struct{}{}
	}

	missing := []string{}
	for _, k := range requiredKeys {
		if _, ok := obj[k]; !ok {
			missing = append(missing, k)
		}
	}
	extra := []string{}
	for k := range obj {
		if _, ok := allowed[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)

	score := 1.0
	if len(requiredKeys) > 0 {
		present := len(requiredKeys) - len(missing)
		score = float64(present) / float64(len(requiredKeys))
	}
	passed := len(missing) == 0

	var feedback []string
	if len(missing) > 0 {
		feedback = append(feedback, fmt.Sprintf(
			"Missing required keys: %s", grading.QuoteList(missing),
		))
	}
	if len(extra) > 0 {
		feedback = append(feedback, fmt.Sprintf(
			"Unexpected keys: %s", grading.QuoteList(extra),
		))
	}
	if passed {
		feedback = append(feedback, "JSON structure valid!")
	}

	return grading.Outcome{
		Passed:   passed,
		Score:    score,
		Feedback: grading.JoinFeedback(feedback, ""),
		Details: map[string]any{
			"missing": missing,
			"extra":   extra,
		},
		PartialCredit: []string{},
	}
}

// ParseObject decodes raw JSON or accepts a decoded map,
// returning the object or the diagnostic JSONStructure would
// report.
func ParseObject(data any) (map[string]any, error) {
	obj, failure, ok := asObject(data)
	if !ok {
		return nil, errors.New(failure)
	}
	return obj, nil
}

// asObject normalises data to a map. On failure it returns the
// feedback message for the terminal outcome.
func asObject(data any) (map[string]any, string, bool) {
	var raw []byte
	switch v := data.(type) {
	case map[string]any:
		return v, "", true
	case grading.Submission:
		return map[string]any(v), "", true
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	case json.RawMessage:
		raw = v
	default:
		return nil, fmt.Sprintf(
			"Expected object, got %s", jsonTypeName(data),
		), false
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Sprintf("Invalid JSON: %v", err), false
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Sprintf(
			"Expected object, got %s", jsonTypeName(decoded),
		), false
	}
	return obj, "", true
}

// jsonTypeName names a value by its JSON type.
func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32, json.Number:
		return "number"
	case string:
		return "string"
	case []any, []string, []map[string]any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
