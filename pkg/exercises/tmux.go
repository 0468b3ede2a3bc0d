package exercises

import (
	"strings"

	"digital.vasic.grader/pkg/grading"
	"digital.vasic.grader/pkg/rubric"
	"digital.vasic.grader/pkg/validate"
)

const (
	tmuxPassPoints  = 0.7
	tmuxMinDescribe = 11
)

// tmuxLifecycle is the subcommand sequence of a complete run.
var tmuxLifecycle = []string{
	"new-session", "send-keys", "capture-pane", "kill-session",
}

// tmuxAliases folds short and equivalent subcommands onto the
// lifecycle names.
var tmuxAliases = map[string]string{
	"new":         "new-session",
	"send":        "send-keys",
	"capturep":    "capture-pane",
	"save-buffer": "capture-pane",
	"saveb":       "capture-pane",
	"pipe-pane":   "capture-pane",
	"pipep":       "capture-pane",
	"kill-ses":    "kill-session",
}

// TmuxTestPattern grades running tests autonomously in a
// detached tmux session and capturing the result.
type TmuxTestPattern struct {
	grading.BaseGrader
}

// NewTmuxTestPattern creates the tmux test pattern grader.
func NewTmuxTestPattern() *TmuxTestPattern {
	return &TmuxTestPattern{
		BaseGrader: grading.NewBaseGrader(grading.Info{
			ID:                  TmuxTestPatternID,
			Name:                "tmux Test Pattern",
			Category:            grading.CategoryTestingVerification,
			Difficulty:          grading.DifficultyMedium,
			Kind:                grading.KindCommand,
			Description:         "Use tmux for autonomous test execution and output capture",
			RelatedTips:         []int{9},
			Prerequisites:       []grading.ID{StatusLineSetupID},
			TimeEstimateMinutes: 20,
			Hints: []string{
				"tmux new-session -d -s name creates a detached session",
				"tmux send-keys -t name 'cmd' Enter sends commands",
				"tmux capture-pane -t name -p captures output",
				"Don't forget to kill sessions when done",
			},
			Objectives: []string{
				"Understand tmux session management",
				"Master autonomous test execution",
				"Learn output capture and parsing techniques",
			},
		}),
	}
}

// Validate expects commands, capture_method and parse_method.
// It passes at 0.7 points.
func (g *TmuxTestPattern) Validate(sub grading.Submission) grading.Outcome {
	commands := lowerText(sub, "commands")

	checks := []rubric.Check{
		{
			Type: "regex_any", Target: "commands",
			Values: rubric.Strings(
				`tmux\s+new-session`, `tmux\s+new\s+-s`, `tmux\s+new\s+-d`,
			),
			Points: 0.2,
			Pass:   "Good: tmux session creation found",
			Fail:   "Missing: tmux session creation (new-session)",
		},
		{
			Type:   "contains", Target: "commands", Value: "-d",
			Points: 0.1,
			Pass:   "Good: Using detached mode (-d)",
			Fail:   "Tip: Use -d for detached sessions",
		},
		{
			Type:   "contains", Target: "commands", Value: "send-keys",
			Points: 0.2,
			Pass:   "Good: Using send-keys to run commands",
			Fail:   "Missing: send-keys for command execution",
		},
		{
			Type:   "regex_any", Target: "commands",
			Values: rubric.Strings(`capture-pane`, `save-buffer`, `pipe-pane`),
			Points: 0.2,
			Pass:   "Good: Output capture method found",
			Fail:   "Missing: capture-pane or equivalent",
		},
		{
			Type: "min_length", Target: "capture", Value: tmuxMinDescribe,
			Fail: "Tip: Explain how you captured the output",
			Then: []rubric.Check{{
				Type:   "contains_any", Target: "capture",
				Values: rubric.Strings("capture-pane", "buffer"),
				Points: 0.1,
				Pass:   "Good: Capture method explained",
			}},
		},
		{
			Type: "min_length", Target: "parse", Value: tmuxMinDescribe,
			Fail: "Missing: Method for determining pass/fail",
			Then: []rubric.Check{{
				Type: "contains_any", Target: "parse",
				Values: rubric.Strings(
					"pass", "fail", "exit", "code", "grep", "pattern", "regex",
				),
				Points: 0.2,
				Pass:   "Good: Parse method for pass/fail detection",
			}},
		},
	}

	tally := engine.Tally(checks, map[string]any{
		"commands": commands,
		"capture":  sub.String("capture_method"),
		"parse":    sub.String("parse_method"),
	})

	lifecycle := validate.Commands(
		tmuxSubcommands(sub.Strings("commands")),
		tmuxLifecycle,
		validate.WithStrictOrder(false),
	)

	return tally.Outcome(tmuxPassPoints, map[string]any{
		"has_session_create": tally.Results[0].Passed,
		"has_send_keys":      tally.Results[2].Passed,
		"has_capture":        tally.Results[3].Passed,
		"lifecycle_score":    lifecycle.Score,
		"lifecycle_missing":  lifecycle.Detail("missing"),
	})
}

// tmuxSubcommands returns the canonical subcommand of every
// tmux invocation in commands, in order.
func tmuxSubcommands(commands []string) []string {
	var out []string
	for _, cmd := range commands {
		fields := strings.Fields(strings.ToLower(cmd))
		for i := 0; i+1 < len(fields); i++ {
			if fields[i] != "tmux" {
				continue
			}
			name := fields[i+1]
			if canonical, ok := tmuxAliases[name]; ok {
				name = canonical
			}
			out = append(out, name)
		}
	}
	return out
}

// Scenarios returns the self-test fixtures.
func (g *TmuxTestPattern) Scenarios() []grading.Scenario {
	return []grading.Scenario{
		grading.NewScenario(
			"Complete tmux workflow",
			"Full test pattern implementation",
			grading.Submission{
				"commands": []any{
					"tmux new-session -d -s test-runner",
					"tmux send-keys -t test-runner 'npm test' Enter",
					"sleep 30",
					"tmux capture-pane -t test-runner -p > test_output.txt",
					"tmux kill-session -t test-runner",
				},
				"capture_method": "Used capture-pane with -p flag to print to stdout, redirected to file",
				"parse_method":   "Grep for 'PASS' or 'FAIL' in output, check exit code patterns",
			},
			true,
		),
		grading.NewScenario(
			"Attached session without capture",
			"Runs tests in an attached session and never reads the output",
			grading.Submission{
				"commands": []any{
					"tmux new -s tests",
					"tmux send-keys -t tests 'go test ./...' Enter",
				},
			},
			false,
		),
	}
}
