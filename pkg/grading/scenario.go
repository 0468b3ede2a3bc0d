package grading

// Scenario is a named input/expected-output fixture. A grader
// constructs its scenarios when asked and never mutates them
// afterwards.
type Scenario struct {
	// Name identifies the scenario within its grader.
	Name string `json:"name" yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `json:"description" yaml:"description"`

	// Input is the submission handed to Grader.Validate.
	Input Submission `json:"input" yaml:"input"`

	// Expected is compared against the grader's outcome. It
	// conventionally contains at least a "passed" boolean.
	Expected map[string]any `json:"expected" yaml:"expected"`

	// Weight scales this scenario in aggregate scoring. It is
	// used by callers and not enforced here.
	Weight float64 `json:"weight" yaml:"weight"`

	// Hints are optional notes shown alongside the scenario.
	Hints []string `json:"hints,omitempty" yaml:"hints,omitempty"`
}

// NewScenario creates a Scenario expecting the given verdict,
// with the default weight of 1.0.
func NewScenario(
	name, description string,
	input Submission,
	expectPassed bool,
) Scenario {
	return Scenario{
		Name:        name,
		Description: description,
		Input:       input,
		Expected:    map[string]any{"passed": expectPassed},
		Weight:      1.0,
	}
}

// ExpectedPassed returns the expected verdict. A scenario that
// does not declare a boolean "passed" expectation is treated as
// expecting success.
func (s Scenario) ExpectedPassed() bool {
	if s.Expected == nil {
		return true
	}
	v, ok := s.Expected["passed"].(bool)
	if !ok {
		return true
	}
	return v
}
