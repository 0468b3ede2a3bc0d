// Package logging provides structured logging for the grading
// toolkit with JSON, console, and multi-destination output.
// Graded scenarios can additionally be recorded to a dedicated
// scenario log.
package logging

import (
	"strings"
	"time"
)

// Logger defines the interface for structured logging.
type Logger interface {
	// Info logs an informational message.
	Info(msg string, fields ...Field)

	// Warn logs a warning message.
	Warn(msg string, fields ...Field)

	// Error logs an error message.
	Error(msg string, fields ...Field)

	// Debug logs a debug-level message.
	Debug(msg string, fields ...Field)

	// WithFields returns a Logger with additional default
	// fields attached to every subsequent log entry.
	WithFields(fields ...Field) Logger

	// LogScenario records the verdict of one graded scenario.
	LogScenario(entry ScenarioLog)

	// Close flushes any buffers and releases resources.
	Close() error
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// ScenarioLog captures one scenario evaluation during a batch
// run.
type ScenarioLog struct {
	Timestamp string  `json:"timestamp"`
	RunID     string  `json:"run_id"`
	Grader    string  `json:"grader"`
	Scenario  string  `json:"scenario"`
	Expected  bool    `json:"expected"`
	Passed    bool    `json:"passed"`
	Score     float64 `json:"score"`
	Agreed    bool    `json:"agreed"`
	Weight    float64 `json:"weight"`
	Duration  string  `json:"duration"`
}

// NewScenarioLog fills the timestamp and the derived agreement
// flag.
func NewScenarioLog(
	runID, grader, scenario string,
	expected, passed bool,
	score, weight float64,
	duration time.Duration,
) ScenarioLog {
	return ScenarioLog{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		RunID:     runID,
		Grader:    grader,
		Scenario:  scenario,
		Expected:  expected,
		Passed:    passed,
		Score:     score,
		Agreed:    expected == passed,
		Weight:    weight,
		Duration:  duration.String(),
	}
}

// LogLevel represents logging severity levels.
type LogLevel int

const (
	// LevelDebug is the most verbose level.
	LevelDebug LogLevel = iota
	// LevelInfo is the default level.
	LevelInfo
	// LevelWarn indicates potential issues.
	LevelWarn
	// LevelError indicates failures.
	LevelError
)

// String returns the string representation of a log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel resolves a level name, case-insensitively.
// Unknown names resolve to LevelInfo.
func ParseLevel(name string) LogLevel {
	switch strings.ToLower(name) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
