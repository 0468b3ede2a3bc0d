package logging

// NullLogger discards everything. It is the default logger of
// the runner and the scenario bank.
type NullLogger struct{}

func (NullLogger) Info(string, ...Field)      {}
func (NullLogger) Warn(string, ...Field)      {}
func (NullLogger) Error(string, ...Field)     {}
func (NullLogger) Debug(string, ...Field)     {}
func (NullLogger) LogScenario(ScenarioLog)    {}
func (NullLogger) Close() error               { return nil }
func (NullLogger) WithFields(...Field) Logger { return NullLogger{} }
