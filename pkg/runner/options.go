package runner

import (
	"time"

	"digital.vasic.grader/pkg/bank"
	"digital.vasic.grader/pkg/logging"
	"digital.vasic.grader/pkg/metrics"
	"digital.vasic.grader/pkg/registry"
)

// Option configures a DefaultRunner.
type Option func(*DefaultRunner)

// WithRegistry sets the grader registry used by the runner.
func WithRegistry(reg registry.Registry) Option {
	return func(r *DefaultRunner) {
		r.registry = reg
	}
}

// WithBank adds the scenarios of a loaded bank to the graders
// they name.
func WithBank(b *bank.Bank) Option {
	return func(r *DefaultRunner) {
		r.bank = b
	}
}

// WithLogger sets the logger used by the runner.
func WithLogger(logger logging.Logger) Option {
	return func(r *DefaultRunner) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics recorder used by the runner.
func WithMetrics(m metrics.Recorder) Option {
	return func(r *DefaultRunner) {
		r.metrics = m
	}
}

// WithTimeout bounds the time a single grader's scenarios may
// take. The bound is checked between scenarios.
func WithTimeout(timeout time.Duration) Option {
	return func(r *DefaultRunner) {
		r.timeout = timeout
	}
}

// WithRunID overrides the generated batch run ID.
func WithRunID(id string) Option {
	return func(r *DefaultRunner) {
		r.runID = id
	}
}

// WithPreHook adds a hook run before each grader.
func WithPreHook(h Hook) Option {
	return func(r *DefaultRunner) {
		r.preHooks = append(r.preHooks, h)
	}
}

// WithPostHook adds a hook run after each grader that
// completed. Hook errors are logged as warnings.
func WithPostHook(h Hook) Option {
	return func(r *DefaultRunner) {
		r.postHooks = append(r.postHooks, h)
	}
}
