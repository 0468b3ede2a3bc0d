package grading

import (
	"fmt"
	"strings"
)

// Outcome is the universal result of a validation. Score and
// Passed are computed independently: each operation defines its
// own pass threshold, so callers must not infer one from the
// other.
type Outcome struct {
	// Passed is the binary verdict.
	Passed bool `json:"passed"`

	// Score is the graduated quality, conventionally in
	// [0.0, 1.0].
	Score float64 `json:"score"`

	// Feedback is a newline-joined, human-readable explanation.
	Feedback string `json:"feedback"`

	// Details carries machine-inspectable diagnostics. The keys
	// populated are documented per operation.
	Details map[string]any `json:"details"`

	// PartialCredit documents step-by-step credit decisions.
	PartialCredit []string `json:"partial_credit"`
}

// Fail builds a terminal failing outcome with a zero score and
// the given diagnostic.
func Fail(feedback string) Outcome {
	return Outcome{
		Passed:        false,
		Score:         0.0,
		Feedback:      feedback,
		Details:       map[string]any{},
		PartialCredit: []string{},
	}
}

// Detail returns the named diagnostic, or nil when absent.
func (o Outcome) Detail(key string) any {
	if o.Details == nil {
		return nil
	}
	return o.Details[key]
}

// Messages splits Feedback back into its individual lines.
func (o Outcome) Messages() []string {
	if o.Feedback == "" {
		return nil
	}
	return strings.Split(o.Feedback, "\n")
}

// JoinFeedback joins diagnostic messages with newlines. When
// there are no messages the fallback is returned so completed
// checks never carry empty feedback.
func JoinFeedback(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, "\n")
}

// QuoteList renders items as a comma-separated list of
// single-quoted values, e.g. 'a', 'b'.
func QuoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("'%s'", item)
	}
	return strings.Join(quoted, ", ")
}
