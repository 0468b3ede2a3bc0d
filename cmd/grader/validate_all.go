package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"digital.vasic.grader/pkg/bank"
	"digital.vasic.grader/pkg/grading"
	"digital.vasic.grader/pkg/logging"
	"digital.vasic.grader/pkg/metrics"
	"digital.vasic.grader/pkg/registry"
	"digital.vasic.grader/pkg/report"
	"digital.vasic.grader/pkg/runner"
)

type validateAllFlags struct {
	concurrency  int
	scenarioDirs []string
	reportDir    string
	historyFile  string
	metricsFile  string
	sequence     bool
	json         bool
}

func newValidateAllCommand(a *app) *cobra.Command {
	flags := &validateAllFlags{}

	cmd := &cobra.Command{
		Use:   "validate-all [grader-id...]",
		Short: "Self-test graders against their scenarios.",
		Long: heredoc.Doc(`
			Runs every scenario of the selected graders, plus any loaded
			from scenario bank directories, and checks that each verdict
			matches the scenario's expectation. Without arguments the
			whole catalog runs in prerequisite order.

			A summary is saved under the report directory. The command
			exits non-zero when any grader is unhealthy.
		`),
		Example: heredoc.Doc(`
			grader validate-all
			grader validate-all --concurrency 8 --scenario-dir scenarios
			grader validate-all --sequence cli-fundamentals/1_status_line_setup testing-verification/1_tmux_test_pattern
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyValidateAllFlags(cmd, a, flags)
			if err := a.revalidate(); err != nil {
				return err
			}
			if flags.sequence && len(args) == 0 {
				return fmt.Errorf("--sequence needs at least one grader id")
			}
			return runValidateAll(cmd.Context(), a, flags, args)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&flags.concurrency, "concurrency", "c", 0,
		"graders to self-test at once (1 runs in prerequisite order)")
	f.StringSliceVar(&flags.scenarioDirs, "scenario-dir", nil,
		"directory of scenario bank files (repeatable)")
	f.StringVar(&flags.reportDir, "report-dir", "", "directory for summary reports")
	f.StringVar(&flags.historyFile, "history-file", "", "JSON Lines file to append run history to")
	f.StringVar(&flags.metricsFile, "metrics-file", "", "Prometheus textfile to write metrics to")
	f.BoolVar(&flags.sequence, "sequence", false,
		"run the given graders in order, requiring prerequisites earlier in the list")
	f.BoolVar(&flags.json, "json", false, "print the summary as JSON")

	return cmd
}

func applyValidateAllFlags(
	cmd *cobra.Command, a *app, flags *validateAllFlags,
) {
	f := cmd.Flags()
	if f.Changed("concurrency") {
		a.cfg.Concurrency = flags.concurrency
	}
	if f.Changed("scenario-dir") {
		a.cfg.ScenarioDirs = flags.scenarioDirs
	}
	if f.Changed("report-dir") {
		a.cfg.ReportDir = flags.reportDir
	}
	if f.Changed("history-file") {
		a.cfg.HistoryFile = flags.historyFile
	}
	if f.Changed("metrics-file") {
		a.cfg.MetricsFile = flags.metricsFile
	}
}

func runValidateAll(
	ctx context.Context,
	a *app,
	flags *validateAllFlags,
	args []string,
) (err error) {
	logger, err := a.newLogger()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := logger.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close logger: %w", closeErr)
		}
	}()

	reg, err := newCatalog()
	if err != nil {
		return err
	}

	scenarios, err := loadBank(a.cfg.ScenarioDirs, reg, logger)
	if err != nil {
		return err
	}

	recorder := metrics.NewPrometheusRecorder()
	r := runner.NewRunner(
		runner.WithRegistry(reg),
		runner.WithBank(scenarios),
		runner.WithLogger(logger),
		runner.WithMetrics(recorder),
	)

	reports, err := runSelection(ctx, r, reg, a.cfg.Concurrency, flags.sequence, args)
	if err != nil {
		return err
	}

	summary := report.BuildSummary(r.RunID(), reports)
	if err := report.SaveSummary(summary, a.cfg.ReportDir); err != nil {
		return err
	}
	logger.Info("summary_saved",
		logging.StringField("run_id", summary.ID),
		logging.StringField("path",
			filepath.Join(a.cfg.ReportDir, "latest_summary.json")),
	)

	if a.cfg.HistoryFile != "" {
		if err := report.AppendToHistory(a.cfg.HistoryFile, summary); err != nil {
			return err
		}
	}
	if a.cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(a.cfg.MetricsFile); err != nil {
			return err
		}
	}

	if flags.json {
		data, err := report.NewJSONReporter(true).GenerateSummary(summary)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(a.stdout, string(data)); err != nil {
			return err
		}
	} else if err := report.WriteConsole(a.stdout, reports, a.useColor()); err != nil {
		return err
	}

	if !summary.AllHealthy() {
		return fmt.Errorf("%w: %d of %d",
			errUnhealthy, summary.Total-summary.Healthy, summary.Total)
	}
	return nil
}

// runSelection picks the runner strategy: an explicit sequence,
// the whole catalog in prerequisite order, or a parallel batch.
func runSelection(
	ctx context.Context,
	r runner.Runner,
	reg registry.Registry,
	concurrency int,
	sequence bool,
	args []string,
) ([]*runner.GraderReport, error) {
	ids := make([]grading.ID, len(args))
	for i, arg := range args {
		ids[i] = grading.ID(arg)
	}

	switch {
	case sequence:
		return r.RunSequence(ctx, ids)
	case len(ids) == 0 && concurrency == 1:
		return r.RunAll(ctx)
	case len(ids) == 0:
		ordered, err := reg.GetDependencyOrder()
		if err != nil {
			return nil, err
		}
		for _, g := range ordered {
			ids = append(ids, g.Info().ID)
		}
	}
	return r.RunParallel(ctx, ids, concurrency)
}

// loadBank loads every scenario directory and warns about bank
// scenarios that target graders missing from the catalog.
func loadBank(
	dirs []string,
	reg registry.Registry,
	logger logging.Logger,
) (*bank.Bank, error) {
	b := bank.New(bank.WithLogger(logger))
	for _, dir := range dirs {
		if err := b.LoadDir(dir); err != nil {
			return nil, err
		}
	}
	for _, id := range b.Graders() {
		if _, err := reg.Get(id); err != nil {
			logger.Warn("bank scenarios for unknown grader",
				logging.StringField("grader", string(id)),
				logging.IntField("scenarios", len(b.For(id))),
			)
		}
	}
	return b, nil
}
