package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, false, false)

	logger.Info("hello world")
	logger.Warn("warning message")
	logger.Error("error occurred")

	output := buf.String()
	assert.Contains(t, output, "[INFO ] hello world")
	assert.Contains(t, output, "[WARN ] warning message")
	assert.Contains(t, output, "[ERROR] error occurred")
	assert.NotContains(t, output, "\x1b[", "colour disabled")
}

func TestConsoleLogger_Debug(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleLoggerTo(&buf, false, false).Debug("debug info")
	assert.Empty(t, buf.String())

	NewConsoleLoggerTo(&buf, true, false).Debug("debug info")
	assert.Contains(t, buf.String(), "debug info")
}

func TestConsoleLogger_Colored(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleLoggerTo(&buf, false, true).Error("boom")
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestConsoleLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, false, false)

	child := logger.WithFields(StringField("grader", "a/1"))
	child.Info("graded", IntField("scenarios", 3))
	logger.Info("parent")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "{grader=a/1, scenarios=3}")
	assert.NotContains(t, lines[1], "grader=")
}

func TestConsoleLogger_LogScenario(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, true, false)

	logger.LogScenario(ScenarioLog{
		Grader: "a/1", Scenario: "good", Expected: true,
		Passed: false, Agreed: false,
	})
	assert.Contains(t, buf.String(), "scenario DISAGREE")
	assert.Contains(t, buf.String(), "scenario=good")

	buf.Reset()
	NewConsoleLoggerTo(&buf, false, false).LogScenario(ScenarioLog{})
	assert.Empty(t, buf.String())
}

func TestConsoleLogger_Close(t *testing.T) {
	assert.NoError(t, NewConsoleLogger(false).Close())
}
