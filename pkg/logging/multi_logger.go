package logging

import "go.uber.org/multierr"

// MultiLogger fans every call out to a set of loggers, in the
// order they were given.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger combines loggers. Nil and NullLogger entries are
// dropped and nested MultiLoggers are flattened, so a console
// logger plus a log directory logger is one flat fan-out.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		switch v := l.(type) {
		case nil, NullLogger:
		case *MultiLogger:
			if v != nil {
				m.loggers = append(m.loggers, v.loggers...)
			}
		default:
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

func (m *MultiLogger) each(fn func(Logger)) {
	for _, l := range m.loggers {
		fn(l)
	}
}

// Info logs to every logger.
func (m *MultiLogger) Info(msg string, fields ...Field) {
	m.each(func(l Logger) { l.Info(msg, fields...) })
}

// Warn logs to every logger.
func (m *MultiLogger) Warn(msg string, fields ...Field) {
	m.each(func(l Logger) { l.Warn(msg, fields...) })
}

// Error logs to every logger.
func (m *MultiLogger) Error(msg string, fields ...Field) {
	m.each(func(l Logger) { l.Error(msg, fields...) })
}

// Debug logs to every logger. Each logger applies its own
// verbosity.
func (m *MultiLogger) Debug(msg string, fields ...Field) {
	m.each(func(l Logger) { l.Debug(msg, fields...) })
}

// WithFields derives a child from every logger.
func (m *MultiLogger) WithFields(fields ...Field) Logger {
	child := &MultiLogger{loggers: make([]Logger, 0, len(m.loggers))}
	m.each(func(l Logger) {
		child.loggers = append(child.loggers, l.WithFields(fields...))
	})
	return child
}

// LogScenario hands the entry to every logger.
func (m *MultiLogger) LogScenario(entry ScenarioLog) {
	m.each(func(l Logger) { l.LogScenario(entry) })
}

// Close closes every logger, even after a failure, and combines
// their errors.
func (m *MultiLogger) Close() error {
	var err error
	m.each(func(l Logger) { err = multierr.Append(err, l.Close()) })
	return err
}
