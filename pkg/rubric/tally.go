package rubric

import (
	"fmt"

	"digital.vasic.grader/pkg/grading"
)

// scoreTolerance absorbs floating-point drift when summed
// points are compared against a threshold (0.2+0.1+0.4 must
// reach 0.7).
const scoreTolerance = 1e-9

// Tally is the accumulated result of running a rubric.
type Tally struct {
	// Results holds every evaluated check in evaluation order,
	// including gated and tiered ones.
	Results []CheckResult `json:"results"`

	// Points is the sum awarded by passing checks.
	Points float64 `json:"points"`

	// MaxPoints is the most the rubric could award.
	MaxPoints float64 `json:"max_points"`

	// Feedback holds the emitted Pass and Fail lines.
	Feedback []string `json:"feedback"`
}

func (t *Tally) emit(line string) {
	if line != "" {
		t.Feedback = append(t.Feedback, line)
	}
}

// Reached reports whether the awarded points meet threshold.
func (t Tally) Reached(threshold float64) bool {
	return t.Points+scoreTolerance >= threshold
}

// Outcome converts the tally into a grading outcome. The score
// is the awarded points and the outcome passes when they reach
// threshold. The details map is used as given (an empty map
// when nil).
func (t Tally) Outcome(
	threshold float64,
	details map[string]any,
) grading.Outcome {
	if details == nil {
		details = map[string]any{}
	}
	return grading.Outcome{
		Passed: t.Reached(threshold),
		Score:  t.Points,
		Feedback: grading.JoinFeedback(
			t.Feedback, fmt.Sprintf("Score: %.2f", t.Points),
		),
		Details:       details,
		PartialCredit: []string{},
	}
}
