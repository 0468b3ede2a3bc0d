package exercises

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"

	"digital.vasic.grader/pkg/grading"
	"digital.vasic.grader/pkg/rubric"
)

var (
	inputTokens    = regexp.MustCompile(`[Ii]nput tokens[^:]*:\s*(\d+)`)
	outputTokens   = regexp.MustCompile(`[Oo]utput tokens[^:]*:\s*(\d+)`)
	contextPercent = regexp.MustCompile(`[Cc]ontext[^:]*:\s*(\d+(?:\.\d+)?)\s*%`)
)

// compactConcepts are words a good /compact explanation uses.
var compactConcepts = []string{
	"context", "token", "summarize", "conversation", "space", "memory",
}

const (
	tokenCheckPassPoints = 0.75
	tokenTotalPattern    = `[Tt]otal tokens[^:]*:\s*\d+`
	tokenCompactPattern  = `[Ss]hould compact[^:]*:\s*(yes|no)`
	tokenReasonPattern   = `[Rr]eason:\s*.{11,}`
	tokenSectionPattern  = `[Ww]hen to [Cc]ompact`
)

// TokenCheck grades a usage report: token counts, context
// usage, a compaction recommendation and an explanation of
// /compact.
type TokenCheck struct {
	grading.BaseGrader
}

// NewTokenCheck creates the token check grader.
func NewTokenCheck() *TokenCheck {
	return &TokenCheck{
		BaseGrader: grading.NewBaseGrader(grading.Info{
			ID:                  TokenCheckID,
			Name:                "Token Check",
			Category:            grading.CategoryContextManagement,
			Difficulty:          grading.DifficultyEasy,
			Kind:                grading.KindOutput,
			Description:         "Read token usage with /usage and decide when to /compact",
			Prerequisites:       []grading.ID{StatusLineSetupID},
			TimeEstimateMinutes: 10,
			Hints: []string{
				"Run /usage and copy the input and output token counts",
				"Report context usage as a percentage",
				"Answer 'Should compact: Yes/No' and give a reason",
			},
			Objectives: []string{
				"Check token usage with /usage",
				"Estimate how full the context window is",
				"Explain when /compact is worth running",
			},
		}),
	}
}

// Validate expects {"report": "<usage_report.md>"}. The report
// earns up to 1.0 points; it passes at 0.75.
func (g *TokenCheck) Validate(sub grading.Submission) grading.Outcome {
	report := sub.String("report")
	if strings.TrimSpace(report) == "" {
		return grading.Fail("No usage report submitted.")
	}

	input, hasInput := reportedCount(inputTokens, report)
	output, hasOutput := reportedCount(outputTokens, report)
	usage, hasUsage := reportedPercent(report)

	checks := []rubric.Check{
		{
			Type: "is_true", Target: "has_input",
			Fail: "Missing: Input tokens not found",
			Then: []rubric.Check{{
				Type:   "above_value", Target: "input", Value: 0,
				Points: 0.1,
				Pass:   fmt.Sprintf("Good: Input tokens reported (%d)", input),
				Fail:   "Issue: Input tokens should be > 0",
			}},
		},
		{
			Type: "is_true", Target: "has_output",
			Fail: "Missing: Output tokens not found",
			Then: []rubric.Check{{
				Type:   "above_value", Target: "output", Value: 0,
				Points: 0.1,
				Pass:   fmt.Sprintf("Good: Output tokens reported (%d)", output),
				Fail:   "Issue: Output tokens should be > 0",
			}},
		},
		{
			Type:   "regex", Target: "report", Value: tokenTotalPattern,
			Points: 0.1,
			Pass:   "Good: Total tokens reported",
			Otherwise: &rubric.Check{
				Type:   "not_empty", Target: "report",
				Points: 0.05,
				Pass:   "Note: Total tokens not explicitly listed",
			},
		},
		{
			Type: "is_true", Target: "has_usage",
			Fail: "Missing: Context percentage not found",
			Then: []rubric.Check{{
				Type:   "is_true", Target: "usage_valid",
				Points: 0.2,
				Pass:   fmt.Sprintf("Good: Context usage reported (%s%%)", formatPercent(usage)),
				Otherwise: &rubric.Check{
					Type:   "not_empty", Target: "report",
					Points: 0.05,
					Pass:   fmt.Sprintf("Issue: Invalid percentage (%s%%)", formatPercent(usage)),
				},
			}},
		},
		{
			Type:   "regex", Target: "report", Value: tokenCompactPattern,
			Points: 0.1,
			Pass:   "Good: Compaction recommendation provided",
			Fail:   "Missing: Compaction recommendation not found",
			Then: []rubric.Check{{
				Type:   "regex", Target: "report", Value: tokenReasonPattern,
				Points: 0.15,
				Pass:   "Good: Reason provided",
				Otherwise: &rubric.Check{
					Type:   "not_empty", Target: "report",
					Points: 0.05,
					Pass:   "Partial: Reason missing or too brief",
				},
			}},
		},
		{
			Type:   "regex", Target: "report", Value: tokenSectionPattern,
			Points: 0.1,
			Pass:   "Good: 'When to Compact' section found",
		},
		{
			Type:   "contains_count", Target: "report",
			Values: rubric.Strings(compactConcepts...), Value: 3,
			Points: 0.15,
			Pass:   "Good: Explanation covers the key concepts",
			Fail:   "Missing: Explanation lacks key concepts",
			Otherwise: &rubric.Check{
				Type:   "contains_count", Target: "report",
				Values: rubric.Strings(compactConcepts...), Value: 1,
				Points: 0.08,
				Pass:   "Partial: Basic explanation of /compact",
			},
		},
	}

	tally := engine.Tally(checks, map[string]any{
		"report":      report,
		"has_input":   hasInput,
		"input":       input,
		"has_output":  hasOutput,
		"output":      output,
		"has_usage":   hasUsage,
		"usage_valid": hasUsage && usage <= 100,
	})

	details := map[string]any{
		"input_tokens":  input,
		"output_tokens": output,
		"context_usage": usage,
	}
	return tally.Outcome(tokenCheckPassPoints, details)
}

// reportedCount reads the first count the pattern captures.
func reportedCount(pattern *regexp.Regexp, report string) (int, bool) {
	m := pattern.FindStringSubmatch(report)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func reportedPercent(report string) (float64, bool) {
	m := contextPercent.FindStringSubmatch(report)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func formatPercent(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Scenarios returns the self-test fixtures.
func (g *TokenCheck) Scenarios() []grading.Scenario {
	complete := heredoc.Doc(`
		# Usage Report

		Input tokens: 12500
		Output tokens: 3400
		Total tokens: 15900
		Context used: 8%

		Should compact: No
		Reason: the context window is still mostly free

		## When to Compact

		Compact once the conversation fills most of the context
		window. /compact will summarize earlier turns so the token
		budget frees up space for new work.
	`)
	countsOnly := heredoc.Doc(`
		Input tokens: 12500
		Output tokens: 3400
	`)

	return []grading.Scenario{
		grading.NewScenario(
			"Complete report",
			"Counts, usage, recommendation and explanation",
			grading.Submission{"report": complete},
			true,
		),
		grading.NewScenario(
			"Counts only",
			"Token counts with nothing else",
			grading.Submission{"report": countsOnly},
			false,
		),
		grading.NewScenario(
			"Nothing submitted",
			"Empty submission",
			grading.Submission{},
			false,
		),
	}
}
