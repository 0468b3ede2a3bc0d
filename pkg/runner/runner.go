// Package runner drives batch self-tests of registered
// graders. Every scenario a grader declares, plus any loaded
// from a scenario bank, is validated and its verdict compared
// with the expected one. Graders run singly, in prerequisite
// order, in a caller-chosen sequence, or in parallel.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"digital.vasic.grader/pkg/bank"
	"digital.vasic.grader/pkg/grading"
	"digital.vasic.grader/pkg/logging"
	"digital.vasic.grader/pkg/metrics"
	"digital.vasic.grader/pkg/registry"
)

// Runner defines the interface for batch grader self-tests.
type Runner interface {
	// Run self-tests a single grader by ID.
	Run(ctx context.Context, id grading.ID) (*GraderReport, error)

	// RunAll self-tests every registered grader in
	// prerequisite order.
	RunAll(ctx context.Context) ([]*GraderReport, error)

	// RunSequence self-tests the given graders in order,
	// checking that registered prerequisites ran earlier in
	// the sequence and were healthy.
	RunSequence(
		ctx context.Context,
		ids []grading.ID,
	) ([]*GraderReport, error)

	// RunParallel self-tests the given graders concurrently
	// with the given concurrency limit. Reports come back in
	// input order.
	RunParallel(
		ctx context.Context,
		ids []grading.ID,
		maxConcurrency int,
	) ([]*GraderReport, error)
}

// Hook is invoked before or after a grader's scenarios run.
type Hook func(ctx context.Context, g grading.Grader) error

// DefaultRunner is the standard Runner implementation. It is
// safe for concurrent use once constructed.
type DefaultRunner struct {
	registry  registry.Registry
	bank      *bank.Bank
	logger    logging.Logger
	metrics   metrics.Recorder
	timeout   time.Duration
	runID     string
	preHooks  []Hook
	postHooks []Hook
}

// NewRunner creates a DefaultRunner with the supplied options.
// Without options it runs an empty registry, logs nothing and
// records no metrics.
func NewRunner(opts ...Option) *DefaultRunner {
	r := &DefaultRunner{
		registry: registry.NewRegistry(),
		logger:   logging.NullLogger{},
		metrics:  metrics.NoopRecorder{},
		runID:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunID identifies this runner's batch in logs and reports.
func (r *DefaultRunner) RunID() string {
	return r.runID
}

// Run self-tests a single grader by ID.
func (r *DefaultRunner) Run(
	ctx context.Context,
	id grading.ID,
) (*GraderReport, error) {
	g, err := r.registry.Get(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get grader: %w", err)
	}
	r.metrics.IncrementRunTotal()
	return r.execute(ctx, g), nil
}

// RunAll self-tests every registered grader in prerequisite
// order. It stops early, returning the reports so far, when
// ctx is done.
func (r *DefaultRunner) RunAll(
	ctx context.Context,
) ([]*GraderReport, error) {
	ordered, err := r.registry.GetDependencyOrder()
	if err != nil {
		return nil, fmt.Errorf(
			"failed to get dependency order: %w", err,
		)
	}
	r.metrics.IncrementRunTotal()
	r.logger.Info("batch_started",
		logging.StringField("run_id", r.runID),
		logging.IntField("graders", len(ordered)),
	)

	reports := make([]*GraderReport, 0, len(ordered))
	for _, g := range ordered {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		reports = append(reports, r.execute(ctx, g))
	}
	return reports, nil
}

// RunSequence self-tests graders in the given order. A grader
// whose registered prerequisite has not already run healthy in
// this sequence stops the sequence with an error.
func (r *DefaultRunner) RunSequence(
	ctx context.Context,
	ids []grading.ID,
) ([]*GraderReport, error) {
	r.metrics.IncrementRunTotal()

	reports := make([]*GraderReport, 0, len(ids))
	healthy := make(map[grading.ID]bool, len(ids))

	for _, id := range ids {
		g, err := r.registry.Get(id)
		if err != nil {
			return reports, fmt.Errorf(
				"failed to get grader %s: %w", id, err,
			)
		}

		for _, dep := range g.Info().Prerequisites {
			if _, err := r.registry.Get(dep); err != nil {
				continue
			}
			if !healthy[dep] {
				return reports, fmt.Errorf(
					"grader %s has unmet prerequisite: %s",
					id, dep,
				)
			}
		}

		if err := ctx.Err(); err != nil {
			return reports, err
		}
		report := r.execute(ctx, g)
		reports = append(reports, report)
		healthy[id] = report.Healthy()
	}
	return reports, nil
}

// RunParallel self-tests the given graders concurrently using
// at most maxConcurrency goroutines.
func (r *DefaultRunner) RunParallel(
	ctx context.Context,
	ids []grading.ID,
	maxConcurrency int,
) ([]*GraderReport, error) {
	r.metrics.IncrementRunTotal()
	return runParallel(ctx, r, ids, maxConcurrency)
}

// execute runs one grader through its batch lifecycle:
// pre-hooks -> collect scenarios -> validate each -> status ->
// post-hooks. A panicking grader is recovered and reported
// with StatusError.
func (r *DefaultRunner) execute(
	ctx context.Context,
	g grading.Grader,
) (report *GraderReport) {
	info := g.Info()
	report = &GraderReport{
		ID:         info.ID,
		Name:       info.Name,
		Category:   info.Category,
		Difficulty: info.Difficulty,
		Scenarios:  []ScenarioResult{},
		StartTime:  time.Now(),
	}
	log := r.logger.WithFields(
		logging.StringField("run_id", r.runID),
		logging.StringField("grader", string(info.ID)),
	)

	defer func() {
		report.Duration = time.Since(report.StartTime)
		r.metrics.RecordGrader(
			string(info.ID), string(report.Status), report.Duration,
		)
	}()

	fail := func(format string, args ...any) *GraderReport {
		report.Status = StatusError
		report.Error = fmt.Sprintf(format, args...)
		report.WeightedAgreement = weightedAgreement(report.Scenarios)
		log.Error("grader_error", logging.StringField("error", report.Error))
		return report
	}

	log.Info("grader_started")

	for _, hook := range r.preHooks {
		if err := hook(ctx, g); err != nil {
			return fail("pre-hook failed: %v", err)
		}
	}

	scenarios, err := r.collect(g)
	if err != nil {
		return fail("failed to list scenarios: %v", err)
	}
	if len(scenarios) == 0 {
		log.Warn("grader has no scenarios")
	}

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	for _, sc := range scenarios {
		if err := runCtx.Err(); err != nil {
			return fail("run interrupted: %v", err)
		}

		result, err := r.evaluate(g, sc)
		if err != nil {
			return fail("scenario %q: %v", sc.source.Name, err)
		}
		report.Scenarios = append(report.Scenarios, result)
		if result.Agreed {
			report.Agreed++
		} else {
			report.Disagreed++
			log.Warn("scenario_disagreed",
				logging.StringField("scenario", result.Name),
				logging.BoolField("expected", result.Expected),
				logging.BoolField("passed", result.Passed),
			)
		}

		log.LogScenario(logging.NewScenarioLog(
			r.runID, string(info.ID), result.Name,
			result.Expected, result.Passed,
			result.Score, result.Weight, result.Duration,
		))
		r.metrics.RecordScenario(string(info.ID), result.Agreed)
		r.metrics.ObserveScore(string(info.ID), result.Score)
	}

	report.Status = StatusHealthy
	if report.Disagreed > 0 {
		report.Status = StatusUnhealthy
	}
	report.WeightedAgreement = weightedAgreement(report.Scenarios)

	for _, hook := range r.postHooks {
		if err := hook(ctx, g); err != nil {
			log.Warn("post_hook_warning", logging.ErrorField(err))
		}
	}

	log.Info("grader_completed",
		logging.StringField("status", string(report.Status)),
		logging.IntField("agreed", report.Agreed),
		logging.IntField("disagreed", report.Disagreed),
		logging.DurationField("duration", time.Since(report.StartTime)),
	)
	return report
}

// sourcedScenario tags a scenario with where it came from.
type sourcedScenario struct {
	source grading.Scenario
	from   string
}

// collect gathers the grader's own scenarios followed by any
// bank extras for it.
func (r *DefaultRunner) collect(
	g grading.Grader,
) ([]sourcedScenario, error) {
	var own []grading.Scenario
	if err := recovered(func() { own = g.Scenarios() }); err != nil {
		return nil, err
	}

	out := make([]sourcedScenario, 0, len(own))
	for _, s := range own {
		out = append(out, sourcedScenario{source: s, from: "grader"})
	}
	if r.bank != nil {
		for _, s := range r.bank.For(g.Info().ID) {
			out = append(out, sourcedScenario{source: s, from: "bank"})
		}
	}
	return out, nil
}

// evaluate validates one scenario input and compares the
// verdict with the expectation.
func (r *DefaultRunner) evaluate(
	g grading.Grader,
	sc sourcedScenario,
) (ScenarioResult, error) {
	var outcome grading.Outcome
	start := time.Now()
	if err := recovered(func() {
		outcome = g.Validate(sc.source.Input)
	}); err != nil {
		return ScenarioResult{}, err
	}

	expected := sc.source.ExpectedPassed()
	return ScenarioResult{
		Name:     sc.source.Name,
		Source:   sc.from,
		Expected: expected,
		Passed:   outcome.Passed,
		Score:    outcome.Score,
		Weight:   sc.source.Weight,
		Agreed:   outcome.Passed == expected,
		Feedback: outcome.Feedback,
		Duration: time.Since(start),
	}, nil
}

// recovered runs fn and converts a panic into an error.
func recovered(fn func()) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("grader panicked: %v", p)
		}
	}()
	fn()
	return nil
}
