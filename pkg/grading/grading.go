// Package grading holds the shared vocabulary of the grading
// toolkit: the scoring Outcome every validation returns, the
// Scenario fixtures graders declare to self-test, the Submission
// data handed to a grader, and the Grader capability itself.
package grading

// ID uniquely identifies an exercise grader, conventionally
// "<category>/<ordinal>_<slug>".
type ID string

// Grader defines the capability every exercise grader exposes.
// Implementations must be pure: Validate receives the
// submission as a parameter, returns an Outcome as a value, and
// touches no shared state, so a batch driver may run many
// graders concurrently without coordination.
type Grader interface {
	// Info returns the static metadata describing the exercise.
	Info() Info

	// Validate grades a learner's submission.
	Validate(submission Submission) Outcome

	// Scenarios returns the fixtures used to self-test this
	// grader. Each scenario pairs an input with the expected
	// pass/fail verdict.
	Scenarios() []Scenario
}
