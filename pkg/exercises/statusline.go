package exercises

import (
	"fmt"
	"strings"

	"digital.vasic.grader/pkg/grading"
	"digital.vasic.grader/pkg/rubric"
	"digital.vasic.grader/pkg/validate"
)

var statusLineCommands = []string{
	`/config\s+statusline`,
	`/settings?\s+status`,
	`claude\s+config\s+set\s+statusline`,
	`/terminal-setup`,
	`statusline`,
}

// statusElements lists what a status line should show, in
// report order, with the patterns that count as configuring it.
var statusElements = []struct {
	name     string
	patterns []string
}{
	{"model", []string{`\{model\}`, `model`, `claude-\d`}},
	{"directory", []string{`\{cwd\}`, `\{dir\}`, `directory`, `cwd`, `pwd`}},
	{"branch", []string{`\{branch\}`, `\{git\}`, `branch`, `git`}},
	{"tokens", []string{`\{tokens?\}`, `token`, `usage`}},
}

const (
	statusCommandBonus  = 0.2
	statusMinElements   = 3
	statusElementPoints = 0.25
)

// StatusLineSetup grades configuring the status line to show
// model, directory, git branch, and token usage.
type StatusLineSetup struct {
	grading.BaseGrader
}

// NewStatusLineSetup creates the status line grader.
func NewStatusLineSetup() *StatusLineSetup {
	return &StatusLineSetup{
		BaseGrader: grading.NewBaseGrader(grading.Info{
			ID:                  StatusLineSetupID,
			Name:                "Status Line Setup",
			Category:            grading.CategoryCLIFundamentals,
			Difficulty:          grading.DifficultyEasy,
			Kind:                grading.KindCommand,
			Description:         "Configure Claude Code status line with model, directory, git, and tokens",
			RelatedTips:         []int{0},
			TimeEstimateMinutes: 10,
			Hints: []string{
				"Claude Code has a /config command for settings",
				"Status line format uses placeholders like {model}",
				"The format string is customizable with separators",
			},
			Objectives: []string{
				"Understand Claude Code's configuration system",
				"Learn to customize the status line display",
				"Know what information is available in the status line",
			},
		}),
	}
}

// Validate expects {"commands": [...]}. It passes when a status
// line command is used and at least three elements are
// configured. The score is the fraction of elements found plus
// a bonus for the command, capped at 1.0.
func (g *StatusLineSetup) Validate(sub grading.Submission) grading.Outcome {
	commands := sub.Strings("commands")
	if len(commands) == 0 {
		return grading.Fail(
			"No commands submitted. Please provide the commands you used.",
		)
	}

	text := strings.ToLower(strings.Join(commands, " "))
	hasCommand := validate.MatchAny(text, statusLineCommands...)

	checks := make([]rubric.Check, len(statusElements))
	for i, el := range statusElements {
		checks[i] = rubric.Check{
			Type:   "regex_any",
			Target: "commands",
			Values: rubric.Strings(el.patterns...),
			Points: statusElementPoints,
		}
	}
	tally := engine.Tally(checks, map[string]any{"commands": text})

	configured := make(map[string]bool, len(statusElements))
	var found, missing []string
	credit := make([]string, len(statusElements))
	for i, el := range statusElements {
		ok := tally.Results[i].Passed
		configured[el.name] = ok
		if ok {
			found = append(found, el.name)
		} else {
			missing = append(missing, el.name)
		}
		credit[i] = fmt.Sprintf("%s: %s",
			el.name, grading.Ternary(ok, "configured", "missing"))
	}

	score := tally.Points
	if hasCommand {
		score = min(1.0, score+statusCommandBonus)
	}

	var feedback []string
	if !hasCommand {
		feedback = append(feedback,
			"Did not detect a status line configuration command. "+
				"Try using /config or checking Claude Code's status line settings.")
	}
	if len(missing) > 0 {
		feedback = append(feedback, fmt.Sprintf(
			"Configuration may be missing: %s. Make sure your status "+
				"line format includes placeholders for all elements.",
			strings.Join(missing, ", ")))
	}
	if len(found) > 0 {
		feedback = append(feedback, fmt.Sprintf(
			"Good! Detected configuration for: %s",
			strings.Join(found, ", ")))
	}

	return grading.Outcome{
		Passed:   hasCommand && len(found) >= statusMinElements,
		Score:    score,
		Feedback: grading.JoinFeedback(feedback, "Status line configured!"),
		Details: map[string]any{
			"has_statusline_command": hasCommand,
			"elements_configured":    configured,
		},
		PartialCredit: credit,
	}
}

// Scenarios returns the self-test fixtures.
func (g *StatusLineSetup) Scenarios() []grading.Scenario {
	return []grading.Scenario{
		grading.NewScenario(
			"Basic configuration",
			"Configure status line with all four elements",
			grading.Submission{"commands": []any{
				"/config statusline format '{model} | {cwd} | {branch} | {tokens}'",
			}},
			true,
		),
		grading.NewScenario(
			"Alternative commands",
			"Use alternative method to configure",
			grading.Submission{"commands": []any{
				"claude config set statusline.format '{model} {dir} {git} {usage}'",
			}},
			true,
		),
		grading.NewScenario(
			"Missing elements",
			"Configuration missing some elements",
			grading.Submission{"commands": []any{
				"/config statusline format '{model}'",
			}},
			false,
		),
		grading.NewScenario(
			"Placeholders without command",
			"All placeholders echoed but the status line never configured",
			grading.Submission{"commands": []any{
				"echo '{model} {cwd} {branch} {tokens}'",
			}},
			false,
		),
		grading.NewScenario(
			"No commands",
			"Empty submission",
			grading.Submission{"commands": []any{}},
			false,
		),
	}
}
