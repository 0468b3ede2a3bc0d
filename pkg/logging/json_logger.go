package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/multierr"
)

// jsonMarshal is a variable for dependency injection in tests.
var jsonMarshal = json.Marshal

// LogEntry represents a single JSON log entry.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// LoggerConfig configures the JSONLogger.
type LoggerConfig struct {
	// OutputPath is the log file; stdout when empty.
	OutputPath string

	// ScenarioLog is an optional JSON Lines file receiving one
	// ScenarioLog entry per graded scenario.
	ScenarioLog string

	Level   LogLevel
	Verbose bool
	Fields  map[string]any
}

// sink holds the writers shared by a logger and its children.
type sink struct {
	mu        sync.Mutex
	output    io.Writer
	scenarios io.Writer
	closed    bool
}

// JSONLogger implements Logger with JSON Lines output.
type JSONLogger struct {
	sink    *sink
	level   LogLevel
	fields  map[string]any
	verbose bool
}

// NewJSONLogger creates a new JSON logger. If OutputPath is
// empty, logs are written to stdout.
func NewJSONLogger(config LoggerConfig) (*JSONLogger, error) {
	s := &sink{output: os.Stdout}

	if config.OutputPath != "" {
		file, err := openAppend(config.OutputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		s.output = file
	}

	if config.ScenarioLog != "" {
		file, err := openAppend(config.ScenarioLog)
		if err != nil {
			if closer, ok := s.output.(io.Closer); ok && s.output != os.Stdout {
				_ = closer.Close()
			}
			return nil, fmt.Errorf(
				"failed to open scenario log: %w", err,
			)
		}
		s.scenarios = file
	}

	return &JSONLogger{
		sink:    s,
		level:   config.Level,
		verbose: config.Verbose,
		fields:  mergeFields(config.Fields, nil),
	}, nil
}

func openAppend(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func (l *JSONLogger) log(level LogLevel, msg string, fields ...Field) {
	if level < l.level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   msg,
		Fields:    mergeFields(l.fields, fields),
	}
	data, err := jsonMarshal(entry)
	if err != nil {
		return
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if l.sink.closed {
		return
	}
	fmt.Fprintln(l.sink.output, string(data))
}

// Info logs an informational message.
func (l *JSONLogger) Info(msg string, fields ...Field) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs a warning message.
func (l *JSONLogger) Warn(msg string, fields ...Field) {
	l.log(LevelWarn, msg, fields...)
}

// Error logs an error message.
func (l *JSONLogger) Error(msg string, fields ...Field) {
	l.log(LevelError, msg, fields...)
}

// Debug logs a debug message only if verbose is enabled.
func (l *JSONLogger) Debug(msg string, fields ...Field) {
	if l.verbose {
		l.log(LevelDebug, msg, fields...)
	}
}

// WithFields returns a new Logger with additional default
// fields. The child shares the parent's files.
func (l *JSONLogger) WithFields(fields ...Field) Logger {
	return &JSONLogger{
		sink:    l.sink,
		level:   l.level,
		verbose: l.verbose,
		fields:  mergeFields(l.fields, fields),
	}
}

// LogScenario appends the entry to the scenario log, if one is
// configured.
func (l *JSONLogger) LogScenario(entry ScenarioLog) {
	if l.sink.scenarios == nil {
		return
	}
	data, err := jsonMarshal(entry)
	if err != nil {
		return
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if l.sink.closed {
		return
	}
	fmt.Fprintln(l.sink.scenarios, string(data))
}

// Close flushes and closes all underlying files. Closing a
// child closes the files shared with its parent.
func (l *JSONLogger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if l.sink.closed {
		return nil
	}
	l.sink.closed = true

	var err error
	if closer, ok := l.sink.output.(io.Closer); ok &&
		l.sink.output != os.Stdout {
		err = multierr.Append(err, closer.Close())
	}
	if closer, ok := l.sink.scenarios.(io.Closer); ok {
		err = multierr.Append(err, closer.Close())
	}
	return err
}

// SetupLogging creates a JSON logger writing grader.log and
// scenarios.log in the given directory.
func SetupLogging(logsDir string, verbose bool) (*JSONLogger, error) {
	config := LoggerConfig{
		OutputPath:  filepath.Join(logsDir, "grader.log"),
		ScenarioLog: filepath.Join(logsDir, "scenarios.log"),
		Level:       LevelInfo,
		Verbose:     verbose,
	}
	if verbose {
		config.Level = LevelDebug
	}
	return NewJSONLogger(config)
}
