package exercises

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"digital.vasic.grader/pkg/grading"
)

func statusLine(commands ...string) grading.Submission {
	items := make([]any, len(commands))
	for i, c := range commands {
		items[i] = c
	}
	return grading.Submission{"commands": items}
}

func TestStatusLineSetup_AllElements(t *testing.T) {
	g := NewStatusLineSetup()
	o := g.Validate(statusLine(
		"/config statusline format '{model} | {cwd} | {branch} | {tokens}'",
	))

	assert.True(t, o.Passed)
	assert.Equal(t, 1.0, o.Score)
	assert.Equal(t,
		"Good! Detected configuration for: model, directory, branch, tokens",
		o.Feedback)
	assert.Equal(t, true, o.Detail("has_statusline_command"))
	assert.Equal(t, map[string]bool{
		"model": true, "directory": true, "branch": true, "tokens": true,
	}, o.Detail("elements_configured"))
	assert.Equal(t, []string{
		"model: configured", "directory: configured",
		"branch: configured", "tokens: configured",
	}, o.PartialCredit)
}

func TestStatusLineSetup_MissingElements(t *testing.T) {
	o := NewStatusLineSetup().Validate(statusLine(
		"/config statusline format '{model}'",
	))

	assert.False(t, o.Passed)
	assert.InDelta(t, 0.45, o.Score, 1e-9)
	assert.Equal(t, []string{
		"Configuration may be missing: directory, branch, tokens. " +
			"Make sure your status line format includes placeholders for all elements.",
		"Good! Detected configuration for: model",
	}, o.Messages())
}

func TestStatusLineSetup_ThreeElementsPass(t *testing.T) {
	o := NewStatusLineSetup().Validate(statusLine(
		"/settings status '{model} {dir} {git}'",
	))

	assert.True(t, o.Passed)
	assert.InDelta(t, 0.95, o.Score, 1e-9)
	assert.Contains(t, o.PartialCredit, "tokens: missing")
}

func TestStatusLineSetup_NoCommandScoresWithoutPassing(t *testing.T) {
	o := NewStatusLineSetup().Validate(statusLine(
		"echo '{model} {cwd} {branch} {tokens}'",
	))

	assert.False(t, o.Passed)
	assert.Equal(t, 1.0, o.Score)
	assert.Equal(t, false, o.Detail("has_statusline_command"))
	assert.Contains(t, o.Messages()[0], "Did not detect a status line configuration command")
}

func TestStatusLineSetup_NoCommands(t *testing.T) {
	for _, sub := range []grading.Submission{
		{}, statusLine(), {"commands": "not a list"},
	} {
		o := NewStatusLineSetup().Validate(sub)
		assert.False(t, o.Passed)
		assert.Equal(t, 0.0, o.Score)
		assert.Equal(t,
			"No commands submitted. Please provide the commands you used.",
			o.Feedback)
	}
}

func TestStatusLineSetup_ScoreCapped(t *testing.T) {
	o := NewStatusLineSetup().Validate(statusLine(
		"/terminal-setup", "claude-3 cwd git token usage",
	))
	assert.True(t, o.Passed)
	assert.Equal(t, 1.0, o.Score)
}
