// Package metrics records batch grading runs. Recorders are
// safe for concurrent use.
package metrics

import "time"

// Recorder defines the interface for recording grading metrics.
type Recorder interface {
	// RecordGrader records one grader's batch result.
	RecordGrader(graderID, status string, duration time.Duration)
	// RecordScenario records whether a scenario verdict agreed
	// with its expectation.
	RecordScenario(graderID string, agreed bool)
	// ObserveScore records the score a scenario earned.
	ObserveScore(graderID string, score float64)
	// IncrementRunTotal increments the total run counter.
	IncrementRunTotal()
}

// NoopRecorder is a Recorder that discards everything, used
// when metrics collection is disabled.
type NoopRecorder struct{}

func (NoopRecorder) RecordGrader(_, _ string, _ time.Duration) {}
func (NoopRecorder) RecordScenario(_ string, _ bool)          {}
func (NoopRecorder) ObserveScore(_ string, _ float64)         {}
func (NoopRecorder) IncrementRunTotal()                       {}
