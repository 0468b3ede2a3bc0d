package logging

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func splitNonEmpty(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return splitNonEmpty(string(data))
}

func TestJSONLogger_Stdout(t *testing.T) {
	logger, err := NewJSONLogger(LoggerConfig{Level: LevelInfo})
	require.NoError(t, err)
	assert.NoError(t, logger.Close())
}

func TestJSONLogger_File(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "test.log")

	logger, err := NewJSONLogger(LoggerConfig{
		OutputPath: logPath,
		Level:      LevelDebug,
		Verbose:    true,
	})
	require.NoError(t, err)

	logger.Info("hello", LogField("key", "val"))
	logger.Debug("debug msg")
	require.NoError(t, logger.Close())

	lines := readLines(t, logPath)
	require.Len(t, lines, 2)

	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "hello", entry.Message)
	assert.Equal(t, "val", entry.Fields["key"])
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "level.log")

	logger, err := NewJSONLogger(LoggerConfig{
		OutputPath: logPath,
		Level:      LevelWarn,
		Verbose:    true,
	})
	require.NoError(t, err)

	logger.Debug("should not appear")
	logger.Info("should not appear")
	logger.Warn("should appear")
	logger.Error("should appear")
	require.NoError(t, logger.Close())

	assert.Len(t, readLines(t, logPath), 2)
}

func TestJSONLogger_WithFieldsSharesFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "fields.log")

	logger, err := NewJSONLogger(LoggerConfig{
		OutputPath: logPath,
		Level:      LevelInfo,
		Fields:     map[string]any{"base": "value"},
	})
	require.NoError(t, err)

	child := logger.WithFields(LogField("child", "yes"))
	child.Info("child message")
	logger.Info("parent message")
	require.NoError(t, logger.Close())
	child.Info("after close")

	lines := readLines(t, logPath)
	require.Len(t, lines, 2)

	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "value", entry.Fields["base"])
	assert.Equal(t, "yes", entry.Fields["child"])

	var parent LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &parent))
	assert.Equal(t, "value", parent.Fields["base"])
	assert.NotContains(t, parent.Fields, "child")
}

func TestJSONLogger_LogScenario(t *testing.T) {
	dir := t.TempDir()
	scenarioPath := filepath.Join(dir, "scenarios.log")

	logger, err := NewJSONLogger(LoggerConfig{
		OutputPath:  filepath.Join(dir, "grader.log"),
		ScenarioLog: scenarioPath,
	})
	require.NoError(t, err)

	logger.LogScenario(NewScenarioLog(
		"run-1", "a/1", "good", true, true, 0.9, 1.0, time.Millisecond,
	))
	require.NoError(t, logger.Close())

	lines := readLines(t, scenarioPath)
	require.Len(t, lines, 1)

	var entry ScenarioLog
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "run-1", entry.RunID)
	assert.True(t, entry.Agreed)
	assert.Equal(t, 0.9, entry.Score)
	assert.Equal(t, "1ms", entry.Duration)
}

func TestJSONLogger_LogScenario_NotConfigured(t *testing.T) {
	logger, err := NewJSONLogger(LoggerConfig{
		OutputPath: filepath.Join(t.TempDir(), "g.log"),
	})
	require.NoError(t, err)
	logger.LogScenario(ScenarioLog{Grader: "x"})
	assert.NoError(t, logger.Close())
}

func TestJSONLogger_MarshalFailureSkipsEntry(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "m.log")
	logger, err := NewJSONLogger(LoggerConfig{OutputPath: logPath})
	require.NoError(t, err)

	orig := jsonMarshal
	jsonMarshal = func(any) ([]byte, error) {
		return nil, errors.New("nope")
	}
	logger.Info("dropped")
	jsonMarshal = orig

	logger.Info("kept")
	require.NoError(t, logger.Close())
	assert.Len(t, readLines(t, logPath), 1)
}

func TestJSONLogger_CloseTwice(t *testing.T) {
	logger, err := NewJSONLogger(LoggerConfig{
		OutputPath: filepath.Join(t.TempDir(), "c.log"),
	})
	require.NoError(t, err)
	require.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
}

func TestJSONLogger_ConcurrentWrites(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "conc.log")
	logger, err := NewJSONLogger(LoggerConfig{OutputPath: logPath})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			logger.WithFields(IntField("i", i)).Info("line")
		}(i)
	}
	wg.Wait()
	require.NoError(t, logger.Close())
	assert.Len(t, readLines(t, logPath), 20)
}

func TestSetupLogging(t *testing.T) {
	dir := t.TempDir()
	logger, err := SetupLogging(dir, true)
	require.NoError(t, err)

	logger.Debug("visible in verbose mode")
	logger.LogScenario(ScenarioLog{Grader: "a"})
	require.NoError(t, logger.Close())

	assert.Len(t, readLines(t, filepath.Join(dir, "grader.log")), 1)
	assert.Len(t, readLines(t, filepath.Join(dir, "scenarios.log")), 1)
}
