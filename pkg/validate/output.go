package validate

import (
	"fmt"
	"regexp"

	"digital.vasic.grader/pkg/grading"
)

// ForbiddenPenalty multiplies the Output score when any
// forbidden pattern matches.
const ForbiddenPenalty = 0.5

// Output checks that free text contains every required pattern
// and none of the forbidden ones. Patterns are regular
// expressions matched case-insensitively in multi-line mode.
// An invalid pattern is a defect in the calling grader and
// panics.
//
// Score is found/len(required) (1.0 with no required patterns),
// halved when a forbidden pattern matches. Passed requires all
// required patterns and no forbidden ones, whatever the score.
//
// Details: "found", "missing", "forbiddenFound" ([]string, in
// the order given).
func Output(
	output string,
	required []string,
	forbidden ...string,
) grading.Outcome {
	found := []string{}
	missing := []string{}
	forbiddenFound := []string{}

	for _, pattern := range required {
		if matchPattern(pattern, output) {
			found = append(found, pattern)
		} else {
			missing = append(missing, pattern)
		}
	}
	for _, pattern := range forbidden {
		if matchPattern(pattern, output) {
			forbiddenFound = append(forbiddenFound, pattern)
		}
	}

	score := 1.0
	if len(required) > 0 {
		score = float64(len(found)) / float64(len(required))
	}
	if len(forbiddenFound) > 0 {
		score *= ForbiddenPenalty
	}

	passed := len(missing) == 0 && len(forbiddenFound) == 0

	var feedback []string
	if len(missing) > 0 {
		feedback = append(feedback, fmt.Sprintf(
			"Missing required elements: %s",
			grading.QuoteList(missing),
		))
	}
	if len(forbiddenFound) > 0 {
		feedback = append(feedback, fmt.Sprintf(
			"Found forbidden elements: %s",
			grading.QuoteList(forbiddenFound),
		))
	}
	if passed {
		feedback = append(feedback, "Output validation passed!")
	}

	return grading.Outcome{
		Passed:   passed,
		Score:    score,
		Feedback: grading.JoinFeedback(feedback, ""),
		Details: map[string]any{
			"found":          found,
			"missing":        missing,
			"forbiddenFound": forbiddenFound,
		},
		PartialCredit: []string{},
	}
}

// MatchAny reports whether any of the patterns matches text,
// using the same flags as Output.
func MatchAny(text string, patterns ...string) bool {
	for _, p := range patterns {
		if matchPattern(p, text) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, text string) bool {
	return regexp.MustCompile("(?im)" + pattern).MatchString(text)
}
