package exercises

import (
	"fmt"
	"strings"

	"digital.vasic.grader/pkg/grading"
	"digital.vasic.grader/pkg/rubric"
	"digital.vasic.grader/pkg/validate"
)

// preservedContext names what a good compaction keeps.
var preservedContext = []string{
	"bug", "hypothesis", "file", "path", "test", "result",
}

const (
	compactionPassPoints   = 0.7
	compactionInstructions = `preserve|keep|maintain|save`
)

// ContextCompaction grades a manual /compact workflow that
// keeps the debugging context alive.
type ContextCompaction struct {
	grading.BaseGrader
}

// NewContextCompaction creates the context compaction grader.
func NewContextCompaction() *ContextCompaction {
	return &ContextCompaction{
		BaseGrader: grading.NewBaseGrader(grading.Info{
			ID:            ContextCompactionID,
			Name:          "Context Compaction",
			Category:      grading.CategoryContextManagement,
			Difficulty:    grading.DifficultyMedium,
			Kind:          grading.KindCommand,
			Description:   "Learn to effectively compact context while preserving critical information",
			RelatedTips:   []int{8},
			Prerequisites: []grading.ID{StatusLineSetupID},
			Hints: []string{
				"Check token usage with /usage before and after",
				"The /compact command accepts natural language instructions",
				"Be specific about what debugging context to preserve",
			},
			Objectives: []string{
				"Understand context window limits and their impact",
				"Master manual context compaction",
				"Learn to preserve critical information during compaction",
			},
		}),
	}
}

// Validate expects commands, before_tokens, after_tokens and
// preserved_info. It passes at 0.7 points.
func (g *ContextCompaction) Validate(sub grading.Submission) grading.Outcome {
	commands := lowerText(sub, "commands")
	before := sub.Float("before_tokens")
	after := sub.Float("after_tokens")
	preserved := lowerText(sub, "preserved_info")

	reduction := 0.0
	if before > 0 {
		reduction = (before - after) / before
	}

	kept := 0
	for _, item := range preservedContext {
		if strings.Contains(preserved, item) {
			kept++
		}
	}

	checks := []rubric.Check{
		{
			Type:   "regex", Target: "commands", Value: `/usage|tokens?|context`,
			Points: 0.2,
			Pass:   "Good: Checked token usage",
			Fail:   "Missing: Token usage check before/after",
		},
		{
			Type:   "contains", Target: "commands", Value: "/compact",
			Points: 0.2,
			Pass:   "Good: Used /compact command",
			Fail:   "Missing: /compact command not detected",
			Then: []rubric.Check{{
				Type:   "regex", Target: "commands",
				Value:  compactionInstructions,
				Points: 0.2,
				Pass:   "Good: Provided compaction instructions",
				Fail:   "Tip: Add specific instructions to /compact about what to preserve",
			}},
		},
		{
			Type: "is_true", Target: "counts_provided",
			Fail: "Missing: Before/after token counts not provided",
			Then: []rubric.Check{{
				Type:   "min_value", Target: "reduction", Value: 0.5,
				Points: 0.2,
				Pass: fmt.Sprintf(
					"Great: Achieved %s token reduction", percent(reduction)),
				Fail: "Issue: Token count did not decrease",
				Otherwise: &rubric.Check{
					Type:   "above_value", Target: "reduction", Value: 0.0,
					Points: 0.1,
					Pass: fmt.Sprintf(
						"Partial: Only %s reduction (target: 50%%+)",
						percent(reduction)),
				},
			}},
		},
		{
			Type:   "contains_count", Target: "preserved",
			Values: rubric.Strings(preservedContext...), Value: 3,
			Points: 0.2,
			Pass:   fmt.Sprintf("Good: Preserved %d key context items", kept),
			Fail:   "Missing: Specify what information was preserved",
			Otherwise: &rubric.Check{
				Type:   "contains_count", Target: "preserved",
				Values: rubric.Strings(preservedContext...), Value: 1,
				Points: 0.1,
				Pass:   fmt.Sprintf("Partial: Only preserved %d/3 key items", kept),
			},
		},
	}

	tally := engine.Tally(checks, map[string]any{
		"commands":        commands,
		"counts_provided": before > 0 && after > 0,
		"reduction":       reduction,
		"preserved":       preserved,
	})

	return tally.Outcome(compactionPassPoints, map[string]any{
		"has_usage_check":  tally.Results[0].Passed,
		"has_compact":      tally.Results[1].Passed,
		"has_instructions": validate.MatchAny(commands, compactionInstructions),
		"token_reduction":  reduction,
	})
}

// Scenarios returns the self-test fixtures.
func (g *ContextCompaction) Scenarios() []grading.Scenario {
	return []grading.Scenario{
		grading.NewScenario(
			"Complete workflow",
			"Full compaction with all elements",
			grading.Submission{
				"commands": []any{
					"/usage",
					"/compact preserve the current bug hypothesis about null pointer, " +
						"keep file paths src/main.py and tests/test_main.py, " +
						"and maintain the test results showing 3 failures",
					"/usage",
				},
				"before_tokens": 150000,
				"after_tokens":  45000,
				"preserved_info": []any{
					"bug hypothesis: null pointer in data processing",
					"files: src/main.py, tests/test_main.py",
					"test results: 3 failures",
				},
			},
			true,
		),
		grading.NewScenario(
			"Bare compact",
			"Compaction without instructions, a small reduction and nothing preserved",
			grading.Submission{
				"commands":      []any{"/compact"},
				"before_tokens": 100000,
				"after_tokens":  80000,
			},
			false,
		),
		grading.NewScenario(
			"Usage only",
			"Checked usage but never compacted",
			grading.Submission{"commands": []any{"/usage"}},
			false,
		),
	}
}
