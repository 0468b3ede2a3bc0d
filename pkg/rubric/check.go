// Package rubric scores submissions against declarative,
// weighted checks. Each check names a target value, an
// evaluator type, the points it is worth, and the feedback to
// show on success or failure. Checks can be gated (Then) and
// tiered (Otherwise), which covers the additive rubrics used by
// most exercise graders.
package rubric

// Check describes a single weighted rubric item.
type Check struct {
	// Type is the evaluator type (e.g., "contains",
	// "regex_any", "min_value").
	Type string `json:"type" yaml:"type"`

	// Target is the key of the value to inspect.
	Target string `json:"target" yaml:"target"`

	// Value is the expected value for single-value checks.
	Value any `json:"value,omitempty" yaml:"value,omitempty"`

	// Values holds expected values for multi-value checks
	// (e.g., "contains_any", "regex_any").
	Values []any `json:"values,omitempty" yaml:"values,omitempty"`

	// Points are awarded when the check passes.
	Points float64 `json:"points" yaml:"points"`

	// Pass is the feedback line emitted on success.
	Pass string `json:"pass,omitempty" yaml:"pass,omitempty"`

	// Fail is the feedback line emitted on failure. When
	// Otherwise is set and has no Fail line of its own, this
	// line is used if the fallback fails too.
	Fail string `json:"fail,omitempty" yaml:"fail,omitempty"`

	// Then lists checks evaluated only when this one passes.
	Then []Check `json:"then,omitempty" yaml:"then,omitempty"`

	// Otherwise is a lesser tier evaluated only when this
	// check fails.
	Otherwise *Check `json:"otherwise,omitempty" yaml:"otherwise,omitempty"`
}

// MaxPoints returns the most points the check can award,
// counting gated checks and taking the best tier.
func (c Check) MaxPoints() float64 {
	best := c.Points
	for _, sub := range c.Then {
		best += sub.MaxPoints()
	}
	if c.Otherwise != nil {
		if alt := c.Otherwise.MaxPoints(); alt > best {
			best = alt
		}
	}
	return best
}

// CheckResult captures the outcome of evaluating one check.
type CheckResult struct {
	// Type is the evaluator type that was run.
	Type string `json:"type"`

	// Target is the key of the inspected value.
	Target string `json:"target"`

	// Actual is the value that was inspected.
	Actual any `json:"actual"`

	// Passed indicates whether the check succeeded.
	Passed bool `json:"passed"`

	// Points is what the check awarded (0 on failure).
	Points float64 `json:"points"`

	// Message is the evaluator's explanation.
	Message string `json:"message"`
}
