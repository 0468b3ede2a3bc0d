package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// ConsoleLogger provides coloured, human-readable output.
type ConsoleLogger struct {
	mu      *sync.Mutex
	output  io.Writer
	verbose bool
	fields  map[string]any
	palette palette
}

type palette struct {
	debug, info, warn, err, dim *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		debug: color.New(color.FgHiBlack),
		info:  color.New(color.FgBlue),
		warn:  color.New(color.FgYellow),
		err:   color.New(color.FgRed, color.Bold),
		dim:   color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{p.debug, p.info, p.warn, p.err, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// NewConsoleLogger creates a console logger on stdout. When
// verbose is true, debug messages and scenario verdicts are
// emitted. Colour follows the terminal.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return NewConsoleLoggerTo(os.Stdout, verbose, !color.NoColor)
}

// NewConsoleLoggerTo creates a console logger writing to w with
// colour explicitly enabled or disabled.
func NewConsoleLoggerTo(
	w io.Writer,
	verbose bool,
	colored bool,
) *ConsoleLogger {
	return &ConsoleLogger{
		mu:      &sync.Mutex{},
		output:  w,
		verbose: verbose,
		fields:  make(map[string]any),
		palette: newPalette(colored),
	}
}

func (c *ConsoleLogger) log(
	level LogLevel, paint *color.Color, msg string, fields ...Field,
) {
	all := mergeFields(c.fields, fields)

	var fieldStr string
	if len(all) > 0 {
		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, all[k]))
		}
		fieldStr = " " + c.palette.dim.Sprintf(
			"{%s}", strings.Join(parts, ", "),
		)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(
		c.output, "%s [%s] %s%s\n",
		c.palette.dim.Sprint(time.Now().Format("15:04:05")),
		paint.Sprintf("%-5s", level.String()),
		msg, fieldStr,
	)
}

// Info logs an informational message.
func (c *ConsoleLogger) Info(msg string, fields ...Field) {
	c.log(LevelInfo, c.palette.info, msg, fields...)
}

// Warn logs a warning message.
func (c *ConsoleLogger) Warn(msg string, fields ...Field) {
	c.log(LevelWarn, c.palette.warn, msg, fields...)
}

// Error logs an error message.
func (c *ConsoleLogger) Error(msg string, fields ...Field) {
	c.log(LevelError, c.palette.err, msg, fields...)
}

// Debug logs a debug message only if verbose is enabled.
func (c *ConsoleLogger) Debug(msg string, fields ...Field) {
	if c.verbose {
		c.log(LevelDebug, c.palette.debug, msg, fields...)
	}
}

// WithFields returns a new Logger with additional default
// fields. The child shares the parent's writer.
func (c *ConsoleLogger) WithFields(fields ...Field) Logger {
	return &ConsoleLogger{
		mu:      c.mu,
		output:  c.output,
		verbose: c.verbose,
		fields:  mergeFields(c.fields, fields),
		palette: c.palette,
	}
}

// LogScenario prints a one-line scenario verdict when verbose.
func (c *ConsoleLogger) LogScenario(entry ScenarioLog) {
	verdict := "agree"
	if !entry.Agreed {
		verdict = "DISAGREE"
	}
	c.Debug("scenario "+verdict,
		StringField("grader", entry.Grader),
		StringField("scenario", entry.Scenario),
		BoolField("expected", entry.Expected),
		BoolField("passed", entry.Passed),
		Float64Field("score", entry.Score),
	)
}

// Close is a no-op for ConsoleLogger.
func (c *ConsoleLogger) Close() error {
	return nil
}
