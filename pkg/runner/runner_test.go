package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.grader/pkg/bank"
	"digital.vasic.grader/pkg/exercises"
	"digital.vasic.grader/pkg/grading"
	"digital.vasic.grader/pkg/logging"
	"digital.vasic.grader/pkg/registry"
)

// --- stub grader ---

// stubGrader passes a submission when its "ok" key is true.
type stubGrader struct {
	grading.BaseGrader
	scenarios      []grading.Scenario
	delay          time.Duration
	panicValidate  bool
	panicScenarios bool

	mu    sync.Mutex
	calls int
}

func (s *stubGrader) Validate(sub grading.Submission) grading.Outcome {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.panicValidate {
		panic("boom")
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	ok, _ := sub.Value("ok").(bool)
	score := 0.0
	if ok {
		score = 1.0
	}
	return grading.Outcome{Passed: ok, Score: score, Feedback: "stub"}
}

func (s *stubGrader) Scenarios() []grading.Scenario {
	if s.panicScenarios {
		panic("no fixtures")
	}
	return s.scenarios
}

func (s *stubGrader) validateCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// scenario builds a fixture whose input passes when ok is true.
func scenario(name string, ok, expect bool) grading.Scenario {
	return grading.NewScenario(name, "", grading.Submission{"ok": ok}, expect)
}

func newStub(id string, deps ...string) *stubGrader {
	prereqs := make([]grading.ID, len(deps))
	for i, d := range deps {
		prereqs[i] = grading.ID(d)
	}
	return &stubGrader{
		BaseGrader: grading.NewBaseGrader(grading.Info{
			ID:            grading.ID(id),
			Name:          "stub " + id,
			Category:      grading.CategoryCLIFundamentals,
			Difficulty:    grading.DifficultyEasy,
			Kind:          grading.KindCommand,
			Prerequisites: prereqs,
		}),
		scenarios: []grading.Scenario{
			scenario("passes", true, true),
			scenario("fails", false, false),
		},
	}
}

func setupRegistry(t *testing.T, stubs ...*stubGrader) registry.Registry {
	t.Helper()
	reg := registry.NewRegistry()
	for _, s := range stubs {
		require.NoError(t, reg.Register(s))
	}
	return reg
}

// --- stub logger ---

type logEntry struct {
	level string
	msg   string
}

type stubLogger struct {
	mu        sync.Mutex
	entries   []logEntry
	scenarios []logging.ScenarioLog
}

func (l *stubLogger) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level, msg})
}

func (l *stubLogger) Info(msg string, _ ...logging.Field)  { l.add("info", msg) }
func (l *stubLogger) Warn(msg string, _ ...logging.Field)  { l.add("warn", msg) }
func (l *stubLogger) Error(msg string, _ ...logging.Field) { l.add("error", msg) }
func (l *stubLogger) Debug(msg string, _ ...logging.Field) { l.add("debug", msg) }
func (l *stubLogger) WithFields(...logging.Field) logging.Logger {
	return l
}
func (l *stubLogger) LogScenario(entry logging.ScenarioLog) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scenarios = append(l.scenarios, entry)
}
func (l *stubLogger) Close() error { return nil }

func (l *stubLogger) has(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.level == level && e.msg == msg {
			return true
		}
	}
	return false
}

// --- stub recorder ---

type stubRecorder struct {
	mu        sync.Mutex
	graders   map[string]string
	agreed    int
	disagreed int
	scores    []float64
	runs      int
}

func newStubRecorder() *stubRecorder {
	return &stubRecorder{graders: map[string]string{}}
}

func (m *stubRecorder) RecordGrader(id, status string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.graders[id] = status
}

func (m *stubRecorder) RecordScenario(_ string, agreed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if agreed {
		m.agreed++
	} else {
		m.disagreed++
	}
}

func (m *stubRecorder) ObserveScore(_ string, score float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = append(m.scores, score)
}

func (m *stubRecorder) IncrementRunTotal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs++
}

func reportIDs(reports []*GraderReport) []grading.ID {
	out := make([]grading.ID, len(reports))
	for i, r := range reports {
		out[i] = r.ID
	}
	return out
}

// --- Run ---

func TestRun_Healthy(t *testing.T) {
	stub := newStub("a")
	r := NewRunner(WithRegistry(setupRegistry(t, stub)))

	report, err := r.Run(context.Background(), "a")
	require.NoError(t, err)

	assert.Equal(t, StatusHealthy, report.Status)
	assert.True(t, report.Healthy())
	assert.Equal(t, "stub a", report.Name)
	assert.Equal(t, grading.CategoryCLIFundamentals, report.Category)
	assert.Equal(t, 2, report.Agreed)
	assert.Equal(t, 0, report.Disagreed)
	assert.Equal(t, 1.0, report.WeightedAgreement)
	assert.Empty(t, report.Error)
	assert.Empty(t, report.Disagreements())
	require.Len(t, report.Scenarios, 2)
	assert.Equal(t, "grader", report.Scenarios[0].Source)
	assert.False(t, report.StartTime.IsZero())
	assert.Equal(t, 2, stub.validateCalls())
}

func TestRun_Unhealthy(t *testing.T) {
	stub := newStub("a")
	heavy := scenario("wrong expectation", false, true)
	heavy.Weight = 3
	stub.scenarios = []grading.Scenario{scenario("passes", true, true), heavy}

	report, err := NewRunner(WithRegistry(setupRegistry(t, stub))).
		Run(context.Background(), "a")
	require.NoError(t, err)

	assert.Equal(t, StatusUnhealthy, report.Status)
	assert.Equal(t, 1, report.Agreed)
	assert.Equal(t, 1, report.Disagreed)
	assert.InDelta(t, 0.25, report.WeightedAgreement, 1e-9)

	bad := report.Disagreements()
	require.Len(t, bad, 1)
	assert.Equal(t, "wrong expectation", bad[0].Name)
	assert.True(t, bad[0].Expected)
	assert.False(t, bad[0].Passed)
}

func TestRun_NotFound(t *testing.T) {
	r := NewRunner(WithRegistry(setupRegistry(t)))

	_, err := r.Run(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestRun_NoScenarios(t *testing.T) {
	stub := newStub("a")
	stub.scenarios = nil
	logger := &stubLogger{}

	report, err := NewRunner(
		WithRegistry(setupRegistry(t, stub)),
		WithLogger(logger),
	).Run(context.Background(), "a")
	require.NoError(t, err)

	assert.Equal(t, StatusHealthy, report.Status)
	assert.Empty(t, report.Scenarios)
	assert.Equal(t, 1.0, report.WeightedAgreement)
	assert.True(t, logger.has("warn", "grader has no scenarios"))
}

func TestRun_ValidatePanics(t *testing.T) {
	stub := newStub("a")
	stub.panicValidate = true

	report, err := NewRunner(WithRegistry(setupRegistry(t, stub))).
		Run(context.Background(), "a")
	require.NoError(t, err)

	assert.Equal(t, StatusError, report.Status)
	assert.Contains(t, report.Error, `scenario "passes"`)
	assert.Contains(t, report.Error, "grader panicked: boom")
	assert.Empty(t, report.Scenarios)
}

func TestRun_ScenariosPanic(t *testing.T) {
	stub := newStub("a")
	stub.panicScenarios = true

	report, err := NewRunner(WithRegistry(setupRegistry(t, stub))).
		Run(context.Background(), "a")
	require.NoError(t, err)

	assert.Equal(t, StatusError, report.Status)
	assert.Contains(t, report.Error, "failed to list scenarios")
	assert.Contains(t, report.Error, "no fixtures")
}

func TestRun_ContextCancelled(t *testing.T) {
	stub := newStub("a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewRunner(WithRegistry(setupRegistry(t, stub))).Run(ctx, "a")
	require.NoError(t, err)

	assert.Equal(t, StatusError, report.Status)
	assert.Contains(t, report.Error, "run interrupted")
	assert.Contains(t, report.Error, context.Canceled.Error())
	assert.Equal(t, 0, stub.validateCalls())
}

func TestRun_Timeout(t *testing.T) {
	stub := newStub("a")
	stub.delay = 30 * time.Millisecond

	report, err := NewRunner(
		WithRegistry(setupRegistry(t, stub)),
		WithTimeout(5*time.Millisecond),
	).Run(context.Background(), "a")
	require.NoError(t, err)

	assert.Equal(t, StatusError, report.Status)
	assert.Contains(t, report.Error, context.DeadlineExceeded.Error())
	assert.Len(t, report.Scenarios, 1)
	assert.Equal(t, 1.0, report.WeightedAgreement)
}

func TestRun_BankScenarios(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(heredoc.Doc(`
		version: "1"
		scenarios:
		  - grader: a
		    name: from the bank
		    input: {ok: false}
		    expected: {passed: true}
		    weight: 2
		  - grader: other
		    name: not for a
		    input: {ok: true}
	`)), 0644))
	b := bank.New()
	require.NoError(t, b.LoadFile(path))

	report, err := NewRunner(
		WithRegistry(setupRegistry(t, newStub("a"))),
		WithBank(b),
	).Run(context.Background(), "a")
	require.NoError(t, err)

	require.Len(t, report.Scenarios, 3)
	extra := report.Scenarios[2]
	assert.Equal(t, "from the bank", extra.Name)
	assert.Equal(t, "bank", extra.Source)
	assert.Equal(t, 2.0, extra.Weight)
	assert.False(t, extra.Agreed)
	assert.Equal(t, StatusUnhealthy, report.Status)
	assert.InDelta(t, 0.5, report.WeightedAgreement, 1e-9)
}

func TestRun_Hooks(t *testing.T) {
	var order []string
	pre := func(_ context.Context, g grading.Grader) error {
		order = append(order, "pre:"+string(g.Info().ID))
		return nil
	}
	post := func(_ context.Context, g grading.Grader) error {
		order = append(order, "post:"+string(g.Info().ID))
		return errors.New("post failed")
	}
	logger := &stubLogger{}

	report, err := NewRunner(
		WithRegistry(setupRegistry(t, newStub("a"))),
		WithPreHook(pre),
		WithPostHook(post),
		WithLogger(logger),
	).Run(context.Background(), "a")
	require.NoError(t, err)

	assert.Equal(t, []string{"pre:a", "post:a"}, order)
	assert.Equal(t, StatusHealthy, report.Status, "post-hook errors only warn")
	assert.True(t, logger.has("warn", "post_hook_warning"))
}

func TestRun_PreHookError(t *testing.T) {
	stub := newStub("a")
	logger := &stubLogger{}

	report, err := NewRunner(
		WithRegistry(setupRegistry(t, stub)),
		WithLogger(logger),
		WithPreHook(func(context.Context, grading.Grader) error {
			return errors.New("not ready")
		}),
	).Run(context.Background(), "a")
	require.NoError(t, err)

	assert.Equal(t, StatusError, report.Status)
	assert.Equal(t, "pre-hook failed: not ready", report.Error)
	assert.Equal(t, 0, stub.validateCalls())
	assert.True(t, logger.has("error", "grader_error"))
}

func TestRun_LogsScenarios(t *testing.T) {
	logger := &stubLogger{}
	r := NewRunner(
		WithRegistry(setupRegistry(t, newStub("a"))),
		WithLogger(logger),
		WithRunID("run-1"),
	)
	assert.Equal(t, "run-1", r.RunID())

	_, err := r.Run(context.Background(), "a")
	require.NoError(t, err)

	require.Len(t, logger.scenarios, 2)
	first := logger.scenarios[0]
	assert.Equal(t, "run-1", first.RunID)
	assert.Equal(t, "a", first.Grader)
	assert.Equal(t, "passes", first.Scenario)
	assert.True(t, first.Agreed)
	assert.Equal(t, 1.0, first.Weight)
	assert.True(t, logger.has("info", "grader_started"))
	assert.True(t, logger.has("info", "grader_completed"))
}

func TestRun_Metrics(t *testing.T) {
	stub := newStub("a")
	stub.scenarios = append(stub.scenarios, scenario("odd", true, false))
	m := newStubRecorder()

	_, err := NewRunner(
		WithRegistry(setupRegistry(t, stub)),
		WithMetrics(m),
	).Run(context.Background(), "a")
	require.NoError(t, err)

	assert.Equal(t, 1, m.runs)
	assert.Equal(t, "unhealthy", m.graders["a"])
	assert.Equal(t, 2, m.agreed)
	assert.Equal(t, 1, m.disagreed)
	assert.Equal(t, []float64{1, 0, 1}, m.scores)
}

func TestNewRunner_GeneratesRunID(t *testing.T) {
	a, b := NewRunner(), NewRunner()
	assert.Len(t, a.RunID(), 36)
	assert.NotEqual(t, a.RunID(), b.RunID())
}

// --- RunAll ---

func TestRunAll_DependencyOrder(t *testing.T) {
	reg := setupRegistry(t,
		newStub("c", "b"), newStub("b", "a"), newStub("a"),
	)
	m := newStubRecorder()

	reports, err := NewRunner(WithRegistry(reg), WithMetrics(m)).
		RunAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []grading.ID{"a", "b", "c"}, reportIDs(reports))
	assert.Equal(t, 1, m.runs)
	for _, r := range reports {
		assert.Equal(t, StatusHealthy, r.Status)
	}
}

func TestRunAll_Cycle(t *testing.T) {
	reg := setupRegistry(t, newStub("a", "b"), newStub("b", "a"))

	_, err := NewRunner(WithRegistry(reg)).RunAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular dependency")
}

func TestRunAll_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reports, err := NewRunner(WithRegistry(setupRegistry(t, newStub("a")))).
		RunAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reports)
}

func TestRunAll_Empty(t *testing.T) {
	reports, err := NewRunner().RunAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestRunAll_Catalog(t *testing.T) {
	reg := registry.NewRegistry()
	require.NoError(t, exercises.RegisterAll(reg))

	reports, err := NewRunner(WithRegistry(reg)).RunAll(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, len(exercises.All()))

	for _, r := range reports {
		assert.Equal(t, StatusHealthy, r.Status,
			"%s disagreed on %v", r.ID, r.Disagreements())
		assert.NotEmpty(t, r.Scenarios, r.ID)
	}
	assert.Equal(t, exercises.StatusLineSetupID, reports[0].ID)
}

// --- RunSequence ---

func TestRunSequence_InOrder(t *testing.T) {
	reg := setupRegistry(t, newStub("a"), newStub("b", "a"))

	reports, err := NewRunner(WithRegistry(reg)).
		RunSequence(context.Background(), []grading.ID{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []grading.ID{"a", "b"}, reportIDs(reports))
}

func TestRunSequence_UnmetPrerequisite(t *testing.T) {
	reg := setupRegistry(t, newStub("a"), newStub("b", "a"))

	reports, err := NewRunner(WithRegistry(reg)).
		RunSequence(context.Background(), []grading.ID{"b", "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grader b has unmet prerequisite: a")
	assert.Empty(t, reports)
}

func TestRunSequence_UnhealthyPrerequisite(t *testing.T) {
	a := newStub("a")
	a.scenarios = []grading.Scenario{scenario("wrong", false, true)}
	reg := setupRegistry(t, a, newStub("b", "a"))

	reports, err := NewRunner(WithRegistry(reg)).
		RunSequence(context.Background(), []grading.ID{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmet prerequisite")
	require.Len(t, reports, 1)
	assert.Equal(t, StatusUnhealthy, reports[0].Status)
}

func TestRunSequence_UnregisteredPrerequisiteIgnored(t *testing.T) {
	reg := setupRegistry(t, newStub("b", "ghost"))

	reports, err := NewRunner(WithRegistry(reg)).
		RunSequence(context.Background(), []grading.ID{"b"})
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestRunSequence_NotFound(t *testing.T) {
	reg := setupRegistry(t, newStub("a"))

	reports, err := NewRunner(WithRegistry(reg)).
		RunSequence(context.Background(), []grading.ID{"a", "nope"})
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrNotFound)
	assert.Len(t, reports, 1)
}
