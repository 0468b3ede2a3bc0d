package rubric

import (
	"fmt"
	"sync"
)

// Engine defines the interface for rubric evaluation engines.
type Engine interface {
	// Evaluate runs a single check against the given value.
	// Gated and tiered checks are not followed.
	Evaluate(check Check, value any) CheckResult

	// Tally runs checks against a map of named values, using
	// each check's Target as the key, and totals the points.
	Tally(checks []Check, values map[string]any) Tally

	// Register adds a custom evaluator for the given check
	// type. Returns an error if the type is already registered.
	Register(checkType string, evaluator Evaluator) error
}

// DefaultEngine is the standard Engine implementation. It is
// safe for concurrent use and keeps no state between calls.
type DefaultEngine struct {
	mu         sync.RWMutex
	evaluators map[string]Evaluator
}

// NewEngine creates a DefaultEngine with the built-in
// evaluators pre-registered.
func NewEngine() *DefaultEngine {
	e := &DefaultEngine{
		evaluators: make(map[string]Evaluator),
	}
	e.registerDefaults()
	return e
}

func (e *DefaultEngine) registerDefaults() {
	e.evaluators["not_empty"] = evaluateNotEmpty
	e.evaluators["is_true"] = evaluateIsTrue
	e.evaluators["contains"] = evaluateContains
	e.evaluators["contains_any"] = evaluateContainsAny
	e.evaluators["contains_count"] = evaluateContainsCount
	e.evaluators["regex"] = evaluateRegex
	e.evaluators["regex_any"] = evaluateRegexAny
	e.evaluators["min_length"] = evaluateMinLength
	e.evaluators["min_count"] = evaluateMinCount
	e.evaluators["min_value"] = evaluateMinValue
	e.evaluators["above_value"] = evaluateAboveValue
}

// Register adds a custom evaluator for the given check type.
// Returns an error if the type is already registered.
func (e *DefaultEngine) Register(
	checkType string,
	evaluator Evaluator,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.evaluators[checkType]; exists {
		return fmt.Errorf(
			"check type already registered: %s", checkType,
		)
	}

	e.evaluators[checkType] = evaluator
	return nil
}

// HasEvaluator returns true if the given check type has a
// registered evaluator.
func (e *DefaultEngine) HasEvaluator(checkType string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, exists := e.evaluators[checkType]
	return exists
}

// Evaluate runs a single check against the provided value.
func (e *DefaultEngine) Evaluate(check Check, value any) CheckResult {
	e.mu.RLock()
	evaluator, exists := e.evaluators[check.Type]
	e.mu.RUnlock()

	if !exists {
		return CheckResult{
			Type:   check.Type,
			Target: check.Target,
			Actual: value,
			Message: fmt.Sprintf(
				"unknown check type: %s", check.Type,
			),
		}
	}

	passed, message := evaluator(check, value)
	result := CheckResult{
		Type:    check.Type,
		Target:  check.Target,
		Actual:  value,
		Passed:  passed,
		Message: message,
	}
	if passed {
		result.Points = check.Points
	}
	return result
}

// Tally runs checks in order against the named values. A check
// whose target is missing fails. Passing checks award their
// points, emit their Pass line, and then run their gated
// checks. Failing checks fall through to their Otherwise tier,
// or emit their Fail line.
func (e *DefaultEngine) Tally(
	checks []Check,
	values map[string]any,
) Tally {
	t := Tally{
		Results:  make([]CheckResult, 0, len(checks)),
		Feedback: []string{},
	}
	for _, c := range checks {
		t.MaxPoints += c.MaxPoints()
		e.tally(c, values, &t)
	}
	return t
}

func (e *DefaultEngine) tally(
	c Check,
	values map[string]any,
	t *Tally,
) {
	var result CheckResult
	value, exists := values[c.Target]
	if exists {
		result = e.Evaluate(c, value)
	} else {
		result = CheckResult{
			Type:   c.Type,
			Target: c.Target,
			Message: fmt.Sprintf(
				"target not found: %s", c.Target,
			),
		}
	}
	t.Results = append(t.Results, result)

	if result.Passed {
		t.Points += result.Points
		t.emit(c.Pass)
		for _, sub := range c.Then {
			e.tally(sub, values, t)
		}
		return
	}

	if c.Otherwise != nil {
		alt := *c.Otherwise
		if alt.Fail == "" {
			alt.Fail = c.Fail
		}
		e.tally(alt, values, t)
		return
	}
	t.emit(c.Fail)
}
