package rubric

// Evaluator evaluates a single check type against a concrete
// value. It returns whether the check passed and a short
// explanation.
type Evaluator func(check Check, value any) (bool, string)
