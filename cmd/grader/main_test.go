package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.grader/pkg/exercises"
	"digital.vasic.grader/pkg/grading"
	"digital.vasic.grader/pkg/registry"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&stdout, &stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func catalogSize() int { return len(exercises.All()) }

func TestList(t *testing.T) {
	res := execute(t, "", "list")
	require.NoError(t, res.err)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, catalogSize()+1)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	for _, g := range exercises.All() {
		assert.Contains(t, res.stdout, string(g.Info().ID))
	}
}

func TestList_Filters(t *testing.T) {
	res := execute(t, "", "list", "--category", "cli-fundamentals", "--difficulty", "easy")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, string(exercises.StatusLineSetupID))
	assert.NotContains(t, res.stdout, string(exercises.TmuxTestPatternID))

	res = execute(t, "", "list", "--category", "cooking")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "unknown category")

	res = execute(t, "", "list", "--difficulty", "brutal")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "unknown difficulty")
}

func TestList_JSON(t *testing.T) {
	res := execute(t, "", "list", "--json")
	require.NoError(t, res.err)

	var described []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &described))
	require.Len(t, described, catalogSize())
	assert.Equal(t, string(exercises.ContainerSandboxID), described[0]["id"])
	assert.Equal(t, "advanced-orchestration", described[0]["category"])
	assert.Contains(t, described[0], "time_estimate_minutes")
}

func TestValidateAll_Catalog(t *testing.T) {
	dir := t.TempDir()
	reports := filepath.Join(dir, "reports")
	history := filepath.Join(dir, "history.jsonl")
	metricsFile := filepath.Join(dir, "grader.prom")

	res := execute(t, "", "validate-all",
		"--report-dir", reports,
		"--history-file", history,
		"--metrics-file", metricsFile,
	)
	require.NoError(t, res.err, res.stderr)

	assert.Contains(t, res.stdout, "[PASS] "+string(exercises.QuickCommitID))
	assert.Contains(t, res.stdout,
		"Summary: "+strconv.Itoa(catalogSize())+" passed, 0 failed")
	assert.NotContains(t, res.stdout, "[FAIL]")

	_, err := os.Stat(filepath.Join(reports, "latest_summary.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(reports, "latest_summary.md"))
	assert.NoError(t, err)

	assert.Equal(t, catalogSize(), countLines(t, history))

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "grader_runs_total 1")
	assert.Contains(t, string(prom),
		`grader_graders_total{grader="`+string(exercises.SimpleEditID)+`",status="healthy"} 1`)
}

func TestValidateAll_Sequential(t *testing.T) {
	res := execute(t, "", "validate-all",
		"--concurrency", "1", "--report-dir", t.TempDir())
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stderr, "batch_started")
}

func TestValidateAll_JSON(t *testing.T) {
	res := execute(t, "", "validate-all", "--json", "--report-dir", t.TempDir())
	require.NoError(t, res.err, res.stderr)

	var summary struct {
		ID      string `json:"id"`
		Total   int    `json:"total"`
		Healthy int    `json:"healthy"`
		Graders []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"graders"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &summary))
	assert.NotEmpty(t, summary.ID)
	assert.Equal(t, catalogSize(), summary.Total)
	assert.Equal(t, catalogSize(), summary.Healthy)
	require.Len(t, summary.Graders, catalogSize())
	assert.Equal(t, string(exercises.StatusLineSetupID), summary.Graders[0].ID,
		"reports follow prerequisite order")
}

func TestValidateAll_SelectedGraders(t *testing.T) {
	res := execute(t, "", "validate-all", "--report-dir", t.TempDir(),
		string(exercises.TmuxTestPatternID), string(exercises.MCPServerSetupID))
	require.NoError(t, res.err, res.stderr)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Contains(t, lines[0], string(exercises.TmuxTestPatternID))
	assert.Contains(t, lines[1], string(exercises.MCPServerSetupID))
	assert.Contains(t, res.stdout, "Summary: 2 passed, 0 failed")
}

func TestValidateAll_UnhealthyBankScenario(t *testing.T) {
	dir := t.TempDir()
	scenarios := filepath.Join(dir, "scenarios")
	require.NoError(t, os.Mkdir(scenarios, 0o755))
	writeFile(t, scenarios, "extra.yaml", heredoc.Doc(`
		version: "1.0"
		name: Broken expectations
		scenarios:
		  - grader: cli-fundamentals/1_status_line_setup
		    name: Listing is not a status line
		    input:
		      commands: ["ls"]
		    expected:
		      passed: true
		  - grader: nobody/0_missing
		    name: Orphan
		    input:
		      commands: []
	`))

	res := execute(t, "", "validate-all",
		"--report-dir", filepath.Join(dir, "reports"),
		"--scenario-dir", scenarios,
	)
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, errUnhealthy)
	assert.Contains(t, res.err.Error(), "1 of "+strconv.Itoa(catalogSize()))
	assert.Contains(t, res.stdout,
		"[FAIL] cli-fundamentals/1_status_line_setup")
	assert.Contains(t, res.stdout, "Listing is not a status line")
	assert.Contains(t, res.stderr, "bank scenarios for unknown grader")

	_, err := os.Stat(filepath.Join(dir, "reports", "latest_summary.json"))
	assert.NoError(t, err, "summary saved for unhealthy runs")
}

func TestValidateAll_Sequence(t *testing.T) {
	res := execute(t, "", "validate-all", "--sequence", "--report-dir", t.TempDir(),
		string(exercises.StatusLineSetupID), string(exercises.TmuxTestPatternID))
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "Summary: 2 passed, 0 failed")

	res = execute(t, "", "validate-all", "--sequence", "--report-dir", t.TempDir(),
		string(exercises.TmuxTestPatternID))
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "unmet prerequisite")

	res = execute(t, "", "validate-all", "--sequence", "--report-dir", t.TempDir())
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "needs at least one grader id")
}

func TestValidateAll_InvalidOptions(t *testing.T) {
	res := execute(t, "", "validate-all", "--concurrency", "0")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "concurrency: must be >= 1")

	res = execute(t, "", "validate-all", "--log-format", "xml")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "log_format")

	res = execute(t, "", "validate-all", "--report-dir", t.TempDir(),
		"--scenario-dir", filepath.Join(t.TempDir(), "absent"))
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "read bank directory")
}

func TestValidateAll_ConfigAndEnvFile(t *testing.T) {
	dir := t.TempDir()
	reports := filepath.Join(dir, "from-env")
	cfgPath := writeFile(t, dir, "grader.yaml", "concurrency: 2\nreport_dir: from-file\n")
	envPath := writeFile(t, dir, "grader.env", "GRADER_REPORT_DIR="+reports+"\n")

	res := execute(t, "", "--config", cfgPath, "--env-file", envPath, "validate-all")
	require.NoError(t, res.err, res.stderr)
	_, err := os.Stat(filepath.Join(reports, "latest_summary.json"))
	assert.NoError(t, err)

	bad := writeFile(t, dir, "bad.yaml", "concurrency: 100\n")
	res = execute(t, "", "--config", bad, "list")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "invalid config")

	res = execute(t, "", "--env-file", filepath.Join(dir, "none.env"), "list")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "read env file")
}

func TestValidateAll_LogDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GRADER_LOG_DIR", filepath.Join(dir, "logs"))

	res := execute(t, "", "validate-all", "--report-dir", filepath.Join(dir, "reports"))
	require.NoError(t, res.err, res.stderr)

	assert.Positive(t, countLines(t, filepath.Join(dir, "logs", "grader.log")))
	assert.Positive(t, countLines(t, filepath.Join(dir, "logs", "scenarios.log")))
}

func passingSubmission(t *testing.T, id grading.ID) grading.Submission {
	t.Helper()
	reg := registry.NewRegistry()
	require.NoError(t, exercises.RegisterAll(reg))
	g, err := reg.Get(id)
	require.NoError(t, err)
	for _, s := range g.Scenarios() {
		if s.ExpectedPassed() {
			return s.Input
		}
	}
	t.Fatalf("grader %s has no passing scenario", id)
	return nil
}

func TestGrade_FromFile(t *testing.T) {
	data, err := json.Marshal(passingSubmission(t, exercises.TmuxTestPatternID))
	require.NoError(t, err)
	path := writeFile(t, t.TempDir(), "submission.json", string(data))

	res := execute(t, "", "grade", string(exercises.TmuxTestPatternID), path)
	require.NoError(t, res.err, res.stderr)
	assert.True(t, strings.HasPrefix(res.stdout, "PASS (score "))
}

func TestGrade_StdinJSON(t *testing.T) {
	res := execute(t, "{}", "grade", "--json", string(exercises.QuickCommitID))
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, errNotPassed)

	var outcome grading.Outcome
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &outcome))
	assert.False(t, outcome.Passed)
	assert.NotEmpty(t, outcome.Feedback)
}

func TestGrade_Failing(t *testing.T) {
	res := execute(t, `{"commands": ["ls"]}`, "grade",
		string(exercises.StatusLineSetupID), "-")
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, errNotPassed)
	assert.True(t, strings.HasPrefix(res.stdout, "FAIL (score "))
}

func TestGrade_Errors(t *testing.T) {
	res := execute(t, "{}", "grade", "nobody/0_missing")
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, registry.ErrNotFound)

	res = execute(t, "not json", "grade", string(exercises.QuickCommitID))
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "parse submission")

	res = execute(t, "", "grade", string(exercises.QuickCommitID),
		filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "read submission")

	res = execute(t, "", "grade")
	require.Error(t, res.err)
}

func TestScaffold(t *testing.T) {
	root := t.TempDir()

	res := execute(t, "", "scaffold", "--root", root, "cli-fundamentals", "alias-setup")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout,
		"Created exercise cli-fundamentals/1_alias_setup in "+
			filepath.Join(root, "cli-fundamentals", "1_alias_setup"))
	assert.Contains(t, res.stdout, "  - grader.go\n")
	assert.Contains(t, res.stdout, "Next steps:")

	_, err := os.Stat(filepath.Join(root, "cli-fundamentals", "1_alias_setup", "challenge.md"))
	assert.NoError(t, err)

	res = execute(t, "", "scaffold", "--root", root, "cli-fundamentals", "alias_setup")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "already exists")

	res = execute(t, "", "scaffold", "--root", root, "cooking", "pasta")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "unknown category")
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		n++
	}
	require.NoError(t, scanner.Err())
	return n
}
