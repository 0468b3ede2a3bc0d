package exercises

import (
	"fmt"

	"digital.vasic.grader/pkg/grading"
	"digital.vasic.grader/pkg/rubric"
)

const (
	cascadePassPoints  = 0.6
	cascadeMinSessions = 3
)

// TerminalCascade grades organising several parallel sessions
// in terminal tabs and sweeping across them.
type TerminalCascade struct {
	grading.BaseGrader
}

// NewTerminalCascade creates the terminal cascade grader.
func NewTerminalCascade() *TerminalCascade {
	return &TerminalCascade{
		BaseGrader: grading.NewBaseGrader(grading.Info{
			ID:            TerminalCascadeID,
			Name:          "Terminal Cascade Method",
			Category:      grading.CategoryWorkflowAutomation,
			Difficulty:    grading.DifficultyMedium,
			Kind:          grading.KindOutput,
			Description:   "Organize multiple Claude Code sessions efficiently",
			RelatedTips:   []int{14},
			Prerequisites: []grading.ID{StatusLineSetupID},
			Hints: []string{
				"New tabs should open to the right of current tab",
				"Use keyboard shortcuts for quick tab navigation",
				"Check tabs in a consistent left-to-right pattern",
				"Keep each session focused on one task",
			},
			Objectives: []string{
				"Organize multiple concurrent Claude Code sessions",
				"Develop efficient task-switching habits",
				"Track progress across parallel work streams",
			},
		}),
	}
}

// Validate expects organization, session_commands,
// switching_pattern and progress_tracking. It passes at 0.6
// points.
func (g *TerminalCascade) Validate(sub grading.Submission) grading.Outcome {
	sessions := sub.Strings("session_commands")

	checks := []rubric.Check{
		{
			Type: "contains_any", Target: "organization",
			Values: rubric.Strings(
				"tab", "left", "right", "window", "terminal", "order",
			),
			Points: 0.2,
			Pass:   "Good: Terminal organization described",
			Fail:   "Tip: Describe your terminal tab organization",
		},
		{
			Type:   "min_count", Target: "sessions", Value: cascadeMinSessions,
			Points: 0.2,
			Pass:   fmt.Sprintf("Good: %d sessions configured", len(sessions)),
			Fail:   "Missing: Need at least 3 session commands",
			Then: []rubric.Check{
				{
					Type:   "contains", Target: "sessions_text", Value: "claude",
					Points: 0.1,
					Pass:   "Good: Claude Code commands found",
				},
				{
					Type: "contains_count", Target: "sessions_text", Value: 2,
					Values: rubric.Strings(
						"review", "test", "debug", "pr", "ci", "feature",
					),
					Points: 0.1,
					Pass:   "Good: Sessions have distinct contexts",
				},
			},
		},
		{
			Type: "contains_any", Target: "switching",
			Values: rubric.Strings(
				"left", "right", "tab", "check", "sweep", "cmd", "ctrl", "shortcut",
			),
			Points: 0.2,
			Pass:   "Good: Switching pattern explained",
			Fail:   "Tip: Describe how you navigate between tabs",
		},
		{
			Type: "contains_any", Target: "tracking",
			Values: rubric.Strings(
				"status", "check", "output", "result", "done", "complete", "progress",
			),
			Points: 0.2,
			Pass:   "Good: Progress tracking method described",
			Fail:   "Tip: Explain how you monitor task progress",
		},
	}

	tally := engine.Tally(checks, map[string]any{
		"organization":  sub.String("organization"),
		"sessions":      sessions,
		"sessions_text": lowerText(sub, "session_commands"),
		"switching":     sub.String("switching_pattern"),
		"tracking":      sub.String("progress_tracking"),
	})

	return tally.Outcome(cascadePassPoints, map[string]any{
		"session_count":    len(sessions),
		"has_organization": tally.Reached(0.2),
	})
}

// Scenarios returns the self-test fixtures.
func (g *TerminalCascade) Scenarios() []grading.Scenario {
	return []grading.Scenario{
		grading.NewScenario(
			"Three-task cascade",
			"Complete cascade with three tasks",
			grading.Submission{
				"organization": "Three terminal tabs ordered left-to-right: PR review, tests, CI debug",
				"session_commands": []any{
					"claude -p 'Review PR #123 for security issues'",
					"claude -p 'Write unit tests for auth module'",
					"claude -p 'Debug failing CI workflow'",
				},
				"switching_pattern": "Cmd+Shift+] to move right, Cmd+Shift+[ to move left. " +
					"Sweep left-to-right every 10 minutes.",
				"progress_tracking": "Check each session's output, look for completion " +
					"indicators or blocking issues",
			},
			true,
		),
		grading.NewScenario(
			"Single session",
			"One session and no description of the layout",
			grading.Submission{
				"session_commands":  []any{"claude"},
				"progress_tracking": "I look at it",
			},
			false,
		),
	}
}
